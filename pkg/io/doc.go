// Package io reads and writes the plain-text files fct works with.
//
// # Point files
//
// One point per line, x and y separated by a comma:
//
//	0.5,1
//	25.75,0.125
//
// Lines that do not split into exactly two fields are skipped silently, so
// headers, blank lines and comments never break a load. A line with two
// fields that do not parse as numbers is an error naming the line.
//
// # Grid files
//
// A discretised histogram is written one x-bin per line with the counts of
// its y-bins separated by commas. The ASCII encoder in package render reads
// this format.
//
// # Errors
//
// Files that cannot be opened or created are reported with
// errors.ErrCodeResourceUnavailable; malformed content with
// errors.ErrCodeInvalidFormat.
package io
