package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/matzehuels/fct/pkg/core/histogram"
)

const (
	asciiBlank  = ' '
	asciiMarker = 'X'
)

// EncodeASCII reads comma-separated rows from r and writes one line per row
// to w: a blank for every cell equal to "0", an "X" for anything else.
func EncodeASCII(r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	bw := bufio.NewWriter(w)
	for sc.Scan() {
		for _, cell := range strings.Split(sc.Text(), ",") {
			ch := asciiMarker
			if strings.TrimSpace(cell) == "0" {
				ch = asciiBlank
			}
			if _, err := bw.WriteRune(ch); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

// ASCII renders a histogram directly, one x-bin per line like the grid file.
func ASCII(h *histogram.Histogram) string {
	var b strings.Builder
	for _, row := range h.Counts {
		for _, c := range row {
			if c == 0 {
				b.WriteRune(asciiBlank)
			} else {
				b.WriteRune(asciiMarker)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
