package io

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/fct/pkg/core/histogram"
	"github.com/matzehuels/fct/pkg/errors"
)

// WriteGrid writes the histogram counts, one x-bin per line.
func WriteGrid(w io.Writer, h *histogram.Histogram) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, row := range h.Counts {
		buf = buf[:0]
		for j, c := range row {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendInt(buf, int64(c), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveGrid writes the histogram counts to path.
func SaveGrid(path string, h *histogram.Histogram) error {
	return writeFile(path, func(w io.Writer) error { return WriteGrid(w, h) })
}

// ReadGrid parses a grid file. Empty lines are skipped; rows may differ in length.
func ReadGrid(r io.Reader) ([][]int, error) {
	var rows [][]int
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		row := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: invalid count %q", line, f)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeResourceUnavailable, err, "read grid")
	}
	return rows, nil
}
