// Package serialization saves and restores the trainable state of a network.
//
// A checkpoint is a single protobuf-encoded message written with
// google.golang.org/protobuf/encoding/protowire, so any protobuf tooling can
// inspect it without generated code:
//
//	message Checkpoint {
//	  string magic            = 1; // "dense"
//	  uint32 version          = 2;
//	  uint32 flags            = 3;
//	  repeated Tensor tensors = 4;
//	  bytes checksum          = 5; // SHA-256 over the encoded tensors, in order
//	}
//
//	message Tensor {
//	  string name      = 1;
//	  uint32 rows      = 2;
//	  uint32 cols      = 3;
//	  bytes value      = 4; // packed fixed32 (float32 bits), column-major
//	  bytes moment1    = 5; // present with FlagHasOptimizer
//	  bytes moment2    = 6; // present with FlagHasOptimizer
//	  uint64 timestep  = 7;
//	}
//
// Parameters are matched by position and checked by name and shape. Reading
// validates the whole file before any parameter is modified.
//
// Example:
//
//	var buf bytes.Buffer
//	err := serialization.Write(&buf, net.Parameters(), serialization.Options{IncludeOptimizer: true})
//	...
//	header, err := serialization.Read(&buf, restored.Parameters())
package serialization
