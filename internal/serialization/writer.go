package serialization

import (
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/dense/internal/nn"
)

// Write encodes params as a checkpoint and writes it to w.
func Write(w io.Writer, params []*nn.Parameter, opts Options) error {
	var flags uint32
	if opts.IncludeOptimizer {
		flags |= FlagHasOptimizer
	}

	tensors := make([][]byte, len(params))
	for i, p := range params {
		tensors[i] = encodeTensor(p, opts.IncludeOptimizer)
	}
	sum := computeChecksum(tensors)

	var b []byte
	b = protowire.AppendTag(b, fieldMagic, protowire.BytesType)
	b = protowire.AppendString(b, Magic)
	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, FormatVersion)
	b = protowire.AppendTag(b, fieldFlags, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(flags))
	for _, t := range tensors {
		b = protowire.AppendTag(b, fieldTensors, protowire.BytesType)
		b = protowire.AppendBytes(b, t)
	}
	b = protowire.AppendTag(b, fieldChecksum, protowire.BytesType)
	b = protowire.AppendBytes(b, sum[:])

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

func encodeTensor(p *nn.Parameter, withOptimizer bool) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, p.Name())
	b = protowire.AppendTag(b, fieldRows, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.Value().Rows()))
	b = protowire.AppendTag(b, fieldCols, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.Value().Cols()))
	b = appendFloats(b, fieldValue, p.Value().Data())
	if withOptimizer {
		b = appendFloats(b, fieldMoment1, p.Moment1().Data())
		b = appendFloats(b, fieldMoment2, p.Moment2().Data())
		b = protowire.AppendTag(b, fieldTimestep, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(p.Timestep()))
	}
	return b
}

// appendFloats appends v as a packed fixed32 field.
func appendFloats(b []byte, num protowire.Number, v []float32) []byte {
	packed := make([]byte, 0, 4*len(v))
	for _, x := range v {
		packed = protowire.AppendFixed32(packed, math.Float32bits(x))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}
