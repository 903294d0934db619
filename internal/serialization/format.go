package serialization

import "google.golang.org/protobuf/encoding/protowire"

// Format constants.
const (
	Magic         = "dense"
	FormatVersion = 1
)

// Flags for the checkpoint message.
const (
	FlagHasOptimizer uint32 = 1 << 0 // moments and timesteps included
)

// Checkpoint field numbers.
const (
	fieldMagic    protowire.Number = 1
	fieldVersion  protowire.Number = 2
	fieldFlags    protowire.Number = 3
	fieldTensors  protowire.Number = 4
	fieldChecksum protowire.Number = 5
)

// Tensor field numbers.
const (
	fieldName     protowire.Number = 1
	fieldRows     protowire.Number = 2
	fieldCols     protowire.Number = 3
	fieldValue    protowire.Number = 4
	fieldMoment1  protowire.Number = 5
	fieldMoment2  protowire.Number = 6
	fieldTimestep protowire.Number = 7
)

// Header summarizes a checkpoint that was read.
type Header struct {
	Version      int
	HasOptimizer bool
	Tensors      int
}

// Options control what Write includes.
type Options struct {
	// IncludeOptimizer stores both moment caches and the timestep of every
	// parameter so training can resume where it stopped.
	IncludeOptimizer bool
}
