// Package render turns point clouds and histograms into pictures.
//
// # Overview
//
//   - [ScatterPNG]: raster scatter plot of a point cloud (fogleman/gg)
//   - [ScatterSVG]: vector scatter plot of a point cloud (ajstarks/svgo)
//   - [HeatmapPNG]: shaded grid of a discretised histogram
//   - [EncodeASCII]: text picture of a grid file, blank for empty cells
//
// Scatter plots colour each point by the map that produced it when the map
// index is known (index 0 means unknown and draws in the ink colour). Both
// axes share one scale so the fractal keeps its aspect ratio, and y grows
// upwards.
//
//	png, err := render.ScatterPNG(steps, render.WithSize(1024))
//	svg := render.ScatterSVG(steps, render.WithTitle("FractalTree"))
package render
