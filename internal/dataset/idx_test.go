package dataset

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dense/internal/backend/naive"
)

func idxImages(t *testing.T, magic uint32, rows, cols int, images ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, [4]uint32{magic, uint32(len(images)), uint32(rows), uint32(cols)}))
	for _, img := range images {
		buf.Write(img)
	}
	return buf.Bytes()
}

func idxLabels(t *testing.T, magic uint32, labels ...byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, [2]uint32{magic, uint32(len(labels))}))
	buf.Write(labels)
	return buf.Bytes()
}

func TestReadIDXImages(t *testing.T) {
	data := idxImages(t, 2051, 2, 2, []byte{0, 255, 51, 102}, []byte{255, 255, 0, 0})

	images, err := ReadIDXImages(bytes.NewReader(data), 0)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.InDeltaSlice(t, []float32{0, 1, 0.2, 0.4}, images[0], 1e-6)
	assert.Equal(t, []float32{1, 1, 0, 0}, images[1])

	images, err = ReadIDXImages(bytes.NewReader(data), 1)
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestReadIDXImages_Errors(t *testing.T) {
	_, err := ReadIDXImages(bytes.NewReader(idxImages(t, 2049, 2, 2)), 0)
	assert.ErrorIs(t, err, ErrFormat)

	truncated := idxImages(t, 2051, 2, 2, []byte{1, 2, 3, 4})
	truncated = truncated[:len(truncated)-1]
	_, err = ReadIDXImages(bytes.NewReader(truncated), 0)
	assert.Error(t, err)

	_, err = ReadIDXImages(bytes.NewReader(nil), 0)
	assert.Error(t, err)
}

func TestReadIDXLabels(t *testing.T) {
	labels, err := ReadIDXLabels(bytes.NewReader(idxLabels(t, 2049, 3, 1, 4)), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 4}, labels)

	_, err = ReadIDXLabels(bytes.NewReader(idxLabels(t, 2051, 3)), 0)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestLoadIDX(t *testing.T) {
	dir := t.TempDir()
	imagesPath := filepath.Join(dir, "images")
	labelsPath := filepath.Join(dir, "labels")
	require.NoError(t, os.WriteFile(imagesPath, idxImages(t, 2051, 1, 2, []byte{0, 255}, []byte{255, 0}), 0o600))
	require.NoError(t, os.WriteFile(labelsPath, idxLabels(t, 2049, 2, 0), 0o600))

	examples, err := LoadIDX(imagesPath, labelsPath, 3, 0)
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, []float32{0, 1}, examples[0].Input)
	assert.Equal(t, []float32{0, 0, 1}, examples[0].Target)
	assert.Equal(t, []float32{1, 0, 0}, examples[1].Target)

	_, err = LoadIDX(imagesPath, labelsPath, 2, 0)
	assert.ErrorIs(t, err, ErrFormat, "label out of range")

	require.NoError(t, os.WriteFile(labelsPath, idxLabels(t, 2049, 1), 0o600))
	_, err = LoadIDX(imagesPath, labelsPath, 3, 0)
	assert.ErrorIs(t, err, ErrFormat, "count mismatch")

	_, err = LoadIDX(filepath.Join(dir, "missing"), labelsPath, 3, 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadCSV(t *testing.T) {
	const data = "label,p0,p1\n1,0,255\n0,51,0\n"

	examples, err := ReadCSV(strings.NewReader(data), 2, 0)
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, []float32{0, 1}, examples[0].Input)
	assert.Equal(t, []float32{0, 1}, examples[0].Target)
	assert.InDeltaSlice(t, []float32{0.2, 0}, examples[1].Input, 1e-6)

	examples, err = ReadCSV(strings.NewReader(data), 2, 1)
	require.NoError(t, err)
	assert.Len(t, examples, 1)

	_, err = ReadCSV(strings.NewReader("label,p0\n"), 2, 0)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadCSV(strings.NewReader("label,p0\nx,1\n"), 2, 0)
	assert.ErrorIs(t, err, ErrFormat)
	_, err = ReadCSV(strings.NewReader("label,p0\n1,y\n"), 2, 0)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestSplit(t *testing.T) {
	examples := make([]Example, 10)
	train, val := Split(examples, 0.2)
	assert.Len(t, train, 8)
	assert.Len(t, val, 2)
}

func TestBatcher_Sample(t *testing.T) {
	examples := []Example{
		{Input: []float32{1}, Target: OneHot(0, 2)},
		{Input: []float32{2}, Target: OneHot(1, 2)},
	}
	b, err := NewBatcher(examples, 8, naive.New())
	require.NoError(t, err)

	s, err := b.Sample(rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	assert.Equal(t, 8, s.Input.Cols())
	for c := 0; c < 8; c++ {
		in, _ := s.Input.Column(c)
		tg, _ := s.Target.Column(c)
		assert.Contains(t, []float32{1, 2}, in[0])
		assert.Equal(t, float32(1), tg[int(in[0])-1])
	}
}
