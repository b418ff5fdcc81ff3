package ifs_test

import (
	"fmt"

	"github.com/matzehuels/fct/pkg/core/ifs"
)

func ExampleModel_SelectMap() {
	tree := ifs.Tree()
	for _, v := range []float64{0.01, 0.05, 0.3, 0.6, 0.99} {
		fmt.Println(v, "->", tree.SelectMap(v)+1)
	}
	// Output:
	// 0.01 -> 1
	// 0.05 -> 1
	// 0.3 -> 2
	// 0.6 -> 3
	// 0.99 -> 4
}

func ExampleGenerator_Generate() {
	gen := ifs.NewGenerator(ifs.NewSource(42), ifs.DefaultBounds)
	seq, err := gen.Generate(ifs.Triangle(), 2500, 0, 0)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(seq.Collect()))

	_, err = gen.Generate(ifs.Triangle(), 100, 0, 0)
	fmt.Println(err)
	// Output:
	// 2500
	// INVALID_ARGUMENT: number of points 100 is below the minimum 2500 (valid range <2500, 6400>)
}
