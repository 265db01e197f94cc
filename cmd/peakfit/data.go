package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var errNoSamples = errors.New("no samples")

// readSamples parses two-column CSV. Lines starting with '#' are comments,
// a non-numeric first record is taken as a header, and extra columns are
// ignored.
func readSamples(r io.Reader) (x, y []float64, err error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for first := true; ; first = false {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, nil, fmt.Errorf("read samples: %w", err)
		}

		line, _ := cr.FieldPos(0)

		if len(record) < 2 {
			return nil, nil, fmt.Errorf("line %d: want 2 columns, got %d", line, len(record))
		}

		xv, errX := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		yv, errY := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)

		if errX != nil || errY != nil {
			if first {
				continue
			}

			return nil, nil, fmt.Errorf("line %d: %w", line, errors.Join(errX, errY))
		}

		x = append(x, xv)
		y = append(y, yv)
	}

	if len(x) == 0 {
		return nil, nil, errNoSamples
	}

	return x, y, nil
}

func readSamplesFile(path string) (x, y []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open data: %w", err)
	}
	defer f.Close()

	x, y, err = readSamples(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return x, y, nil
}
