package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/fct/pkg/core/ifs"
	"github.com/matzehuels/fct/pkg/errors"
)

// ReadPoints parses a point file from r.
func ReadPoints(r io.Reader) ([]ifs.Point, error) {
	var points []ifs.Point
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		parts := strings.Split(sc.Text(), ",")
		if len(parts) != 2 {
			continue
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errX != nil || errY != nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: invalid point %q", line, sc.Text())
		}
		points = append(points, ifs.Point{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeResourceUnavailable, err, "read points")
	}
	return points, nil
}

// LoadPoints reads the point file at path.
func LoadPoints(path string) ([]ifs.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResourceUnavailable, err, "open %s", path)
	}
	defer f.Close()

	points, err := ReadPoints(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// WritePoints writes one "x,y" line per point.
func WritePoints(w io.Writer, points []ifs.Point) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 48)
	for _, p := range points {
		buf = strconv.AppendFloat(buf[:0], p.X, 'g', -1, 64)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, p.Y, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SavePoints writes points to a file at path, replacing any existing file.
func SavePoints(path string, points []ifs.Point) error {
	return writeFile(path, func(w io.Writer) error { return WritePoints(w, points) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResourceUnavailable, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
