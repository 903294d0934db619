package serialization

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/dense/internal/nn"
)

// tensor is a decoded Tensor message.
type tensor struct {
	name     string
	rows     int
	cols     int
	value    []float32
	moment1  []float32
	moment2  []float32
	timestep int
}

// Read decodes a checkpoint from r into params.
//
// Values are always restored. Moments and timesteps are restored when the
// checkpoint carries them; otherwise the optimizer state of every parameter
// is reset. On error no parameter is modified.
func Read(r io.Reader, params []*nn.Parameter) (Header, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Header{}, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var (
		header   Header
		magic    string
		flags    uint64
		raw      [][]byte
		checksum []byte
	)
	err = walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldMagic && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			magic = v
			return n, nil
		case num == fieldVersion && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			header.Version = int(v)
			return n, nil
		case num == fieldFlags && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			flags = v
			return n, nil
		case num == fieldTensors && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			raw = append(raw, v)
			return n, nil
		case num == fieldChecksum && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			checksum = v
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return Header{}, err
	}

	if magic != Magic {
		return Header{}, ErrInvalidMagic
	}
	if header.Version != FormatVersion {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}
	sum := computeChecksum(raw)
	if !bytes.Equal(checksum, sum[:]) {
		return Header{}, ErrChecksumMismatch
	}
	header.HasOptimizer = uint32(flags)&FlagHasOptimizer != 0
	header.Tensors = len(raw)

	if len(raw) != len(params) {
		return Header{}, fmt.Errorf("%w: %d tensors for %d parameters", ErrParameterMismatch, len(raw), len(params))
	}
	tensors := make([]tensor, len(raw))
	for i, b := range raw {
		t, err := decodeTensor(b)
		if err != nil {
			return Header{}, fmt.Errorf("tensor #%d: %w", i, err)
		}
		if err := check(i, params[i], t, header.HasOptimizer); err != nil {
			return Header{}, err
		}
		tensors[i] = t
	}

	for i, p := range params {
		t := tensors[i]
		copy(p.Value().Data(), t.value)
		p.ResetState()
		if header.HasOptimizer {
			copy(p.Moment1().Data(), t.moment1)
			copy(p.Moment2().Data(), t.moment2)
			p.SetTimestep(t.timestep)
		}
	}
	return header, nil
}

func check(i int, p *nn.Parameter, t tensor, withOptimizer bool) error {
	v := p.Value()
	switch {
	case t.name != p.Name():
		return &MismatchError{Index: i, Name: p.Name(), Details: fmt.Sprintf("checkpoint holds %q", t.name)}
	case t.rows != v.Rows() || t.cols != v.Cols():
		return &MismatchError{Index: i, Name: p.Name(),
			Details: fmt.Sprintf("shape %dx%d, checkpoint holds %dx%d", v.Rows(), v.Cols(), t.rows, t.cols)}
	case len(t.value) != v.Len():
		return &MismatchError{Index: i, Name: p.Name(), Details: "value length does not match shape"}
	case withOptimizer && (len(t.moment1) != v.Len() || len(t.moment2) != v.Len()):
		return &MismatchError{Index: i, Name: p.Name(), Details: "moment length does not match shape"}
	}
	return nil
}

func decodeTensor(data []byte) (tensor, error) {
	var t tensor
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			t.name = v
			return n, nil
		case num == fieldRows && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			t.rows = int(v)
			return n, nil
		case num == fieldCols && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			t.cols = int(v)
			return n, nil
		case num == fieldTimestep && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			t.timestep = int(v)
			return n, nil
		case (num == fieldValue || num == fieldMoment1 || num == fieldMoment2) && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			floats, err := decodeFloats(v)
			if err != nil {
				return 0, err
			}
			switch num {
			case fieldValue:
				t.value = floats
			case fieldMoment1:
				t.moment1 = floats
			default:
				t.moment2 = floats
			}
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return t, err
}

func decodeFloats(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: packed float32 field of %d bytes", ErrMalformed, len(b))
	}
	out := make([]float32, 0, len(b)/4)
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed32(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		out = append(out, math.Float32frombits(v))
		b = b[n:]
	}
	return out, nil
}

// walk calls field for every field of the message in data. field consumes
// the value and returns its length, negative on a protowire parse failure.
func walk(data []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		data = data[n:]
		m, err := field(num, typ, data)
		if err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(m))
		}
		data = data[m:]
	}
	return nil
}
