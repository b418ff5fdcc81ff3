package ifs

// Built-in fractal kinds.
const (
	KindTree     = "tree"
	KindTriangle = "triangle"
)

var (
	tree = mustModel(KindTree, "FractalTree",
		Entry{NewAffineMap(0, 0, 0, 0.5, 0, 0), 0.05},
		Entry{NewAffineMap(0.42, -0.42, 0.42, 0.42, 0, 0.2), 0.45},
		Entry{NewAffineMap(0.42, 0.42, -0.42, 0.42, 0, 0.2), 0.85},
		Entry{NewAffineMap(0.1, 0, 0, 0.1, 0, 0.2), 1},
	)

	triangle = mustModel(KindTriangle, "SierpinskiTriangle",
		Entry{NewAffineMap(0.5, 0, 0, 0.5, 1, 1), 1.0 / 3},
		Entry{NewAffineMap(0.5, 0, 0, 0.5, 1, 50), 2.0 / 3},
		Entry{NewAffineMap(0.5, 0, 0, 0.5, 50, 50), 1},
	)
)

// Tree returns the fractal tree: a trunk, two 45° branches and a small crown.
func Tree() *Model { return tree }

// Triangle returns the Sierpinski triangle: three half-scale copies with
// equal probability.
func Triangle() *Model { return triangle }

// Builtin returns the models shipped with fct in display order.
func Builtin() []*Model {
	return []*Model{tree, triangle}
}
