package dataset

import (
	"encoding/binary"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// IDX magic numbers.
const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
)

// ErrFormat is returned for malformed dataset files.
var ErrFormat = errors.New("malformed dataset")

// ReadIDXImages reads an image file in IDX format.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
//
// Pixels are scaled to [0, 1]. A positive maxImages stops reading early.
func ReadIDXImages(r io.Reader, maxImages int) ([][]float32, error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("read idx images header: %w", err)
	}
	if header[0] != idxImagesMagic {
		return nil, fmt.Errorf("%w: image magic number %d, want %d", ErrFormat, header[0], idxImagesMagic)
	}

	count := int(header[1])
	if maxImages > 0 && count > maxImages {
		count = maxImages
	}
	size := int(header[2] * header[3])
	if size == 0 {
		return nil, fmt.Errorf("%w: empty image shape %dx%d", ErrFormat, header[2], header[3])
	}

	images := make([][]float32, count)
	buf := make([]byte, size)
	for i := range images {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read image %d: %w", i, err)
		}
		img := make([]float32, size)
		for j, px := range buf {
			img[j] = float32(px) / 255
		}
		images[i] = img
	}
	return images, nil
}

// ReadIDXLabels reads a label file in IDX format.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes
func ReadIDXLabels(r io.Reader, maxLabels int) ([]int, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("read idx labels header: %w", err)
	}
	if header[0] != idxLabelsMagic {
		return nil, fmt.Errorf("%w: label magic number %d, want %d", ErrFormat, header[0], idxLabelsMagic)
	}

	count := int(header[1])
	if maxLabels > 0 && count > maxLabels {
		count = maxLabels
	}
	raw := make([]byte, count)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	labels := make([]int, count)
	for i, b := range raw {
		labels[i] = int(b)
	}
	return labels, nil
}

// LoadIDX loads an image file and its label file as one-hot examples.
//
// Fails if the two files hold a different number of entries or a label is
// not below classes.
func LoadIDX(imagesPath, labelsPath string, classes, maxSamples int) ([]Example, error) {
	imagesFile, err := os.Open(imagesPath)
	if err != nil {
		return nil, err
	}
	defer imagesFile.Close()

	labelsFile, err := os.Open(labelsPath)
	if err != nil {
		return nil, err
	}
	defer labelsFile.Close()

	images, err := ReadIDXImages(imagesFile, maxSamples)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", imagesPath, err)
	}
	labels, err := ReadIDXLabels(labelsFile, maxSamples)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", labelsPath, err)
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("%w: image count (%d) != label count (%d)", ErrFormat, len(images), len(labels))
	}

	return labeled(images, labels, classes)
}

// ReadCSV reads label-first CSV rows with a header line:
//
//	label,pixel0,pixel1,...
//	5,0,0,12,...
//
// Pixels are scaled from 0-255 to [0, 1].
func ReadCSV(r io.Reader, classes, maxSamples int) ([]Example, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: csv file is empty or missing header", ErrFormat)
	}

	// Skip header row
	records = records[1:]
	if maxSamples > 0 && len(records) > maxSamples {
		records = records[:maxSamples]
	}

	width := len(records[0])
	images := make([][]float32, len(records))
	labels := make([]int, len(records))
	for i, record := range records {
		if len(record) != width || width < 2 {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d", ErrFormat, i+1, len(record), width)
		}
		if labels[i], err = strconv.Atoi(record[0]); err != nil {
			return nil, fmt.Errorf("%w: invalid label at row %d: %v", ErrFormat, i+1, err)
		}

		images[i] = make([]float32, width-1)
		for j, field := range record[1:] {
			px, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid pixel at row %d, column %d: %v", ErrFormat, i+1, j+1, err)
			}
			images[i][j] = float32(px) / 255
		}
	}

	return labeled(images, labels, classes)
}

// OneHot returns a vector of length classes with a 1 at label.
func OneHot(label, classes int) []float32 {
	v := make([]float32, classes)
	v[label] = 1
	return v
}

func labeled(images [][]float32, labels []int, classes int) ([]Example, error) {
	examples := make([]Example, len(images))
	for i, img := range images {
		if labels[i] < 0 || labels[i] >= classes {
			return nil, fmt.Errorf("%w: label %d of sample %d out of range [0, %d)", ErrFormat, labels[i], i, classes)
		}
		examples[i] = Example{Input: img, Target: OneHot(labels[i], classes)}
	}
	return examples, nil
}

// Split divides examples into a training and a validation part, the latter
// holding the trailing ratio of the examples.
func Split(examples []Example, validationRatio float32) (train, validation []Example) {
	idx := int(float32(len(examples)) * (1 - validationRatio))
	return examples[:idx], examples[idx:]
}
