package histogram_test

import (
	"fmt"

	"github.com/matzehuels/fct/pkg/core/histogram"
	"github.com/matzehuels/fct/pkg/core/ifs"
)

func ExampleDiscretise() {
	seq, _ := ifs.NewGenerator(ifs.NewSource(1), ifs.DefaultBounds).Generate(ifs.Triangle(), 2500, 0, 0)
	points := ifs.Points(seq.Collect())

	h, err := histogram.Discretise(points, 30)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(h.M, h.Total())

	_, err = histogram.Discretise(points, 50)
	fmt.Println(err)
	// Output:
	// 30 2500
	// INVALID_ARGUMENT: invalid value for 'm' 50: must satisfy 25 <= m < sqrt(2500) = 50
}
