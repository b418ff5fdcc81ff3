package io

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PointsFileName is the default file name for a generated point set,
// e.g. "SierpinskiTriangle_2500.txt".
func PointsFileName(name string, count int) string {
	return fmt.Sprintf("%s_%d.txt", name, count)
}

// ReplaceExt swaps the extension of path for ext (which includes the dot).
// A path without an extension gets ext appended.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// EncodedFileName maps "sample.txt" to "sample_encoded.txt".
func EncodedFileName(path string) string {
	return ReplaceExt(path, "_encoded.txt")
}

// GridFileName maps "points.txt" and m to "points_m30.txt".
func GridFileName(path string, m int) string {
	return ReplaceExt(path, fmt.Sprintf("_m%d.txt", m))
}
