package dither_test

import (
	"fmt"

	"github.com/cwbudde/algo-saturator/dsp/dither"
)

func ExampleQuantizer_Quantize() {
	q, err := dither.NewQuantizer(16, dither.WithType(dither.TypeNone))
	if err != nil {
		panic(err)
	}

	for _, x := range []float64{0, 0.25, -1, 1.5} {
		fmt.Print(q.Quantize(x), " ")
	}

	fmt.Println()
	// Output: 0 8192 -32768 32767
}
