package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	fctio "github.com/matzehuels/fct/pkg/io"
	"github.com/matzehuels/fct/pkg/pipeline"
)

// openOutput opens path for writing, or stdout when path is "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeFile writes data to path via openOutput.
func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// basePath strips a known format extension from output, or derives the
// base from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	switch filepath.Ext(output) {
	case ".png", ".svg", ".txt":
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// artifactPath names the file for one rendered format next to base, e.g.
// "tree.png", "tree_heatmap.png", "tree_m50.txt", "tree_encoded.txt".
func artifactPath(base, format string, m int) string {
	switch format {
	case pipeline.FormatPNG, pipeline.FormatSVG:
		return base + "." + format
	case pipeline.FormatHeatmap:
		return base + "_heatmap.png"
	case pipeline.FormatASCII:
		return fctio.EncodedFileName(base + ".txt")
	case pipeline.FormatGrid:
		return fctio.GridFileName(base+".txt", m)
	default:
		return base + ".txt"
	}
}

// writeArtifacts writes each rendered format and returns the paths in
// format order. A single artifact goes to output verbatim when it is set.
func writeArtifacts(artifacts map[string][]byte, base, output string, m int) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	var paths []string
	for _, f := range formats {
		path := artifactPath(base, f, m)
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := writeFile(path, artifacts[f]); err != nil {
			return paths, fmt.Errorf("write %s: %w", f, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
