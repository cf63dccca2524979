package oversample_test

import (
	"fmt"

	"github.com/cwbudde/algo-saturator/dsp/buffer"
	"github.com/cwbudde/algo-saturator/dsp/oversample"
)

func ExampleStage() {
	stage, err := oversample.New(oversample.DefaultFactor)
	if err != nil {
		panic(err)
	}

	if err := stage.Initialize(2, 512); err != nil {
		panic(err)
	}

	block := buffer.NewBlock(2, 512)
	over := stage.Upsample(block)
	fmt.Printf("oversampled frames: %d\n", over.Len())

	stage.Downsample(block)
	fmt.Printf("latency: %d samples\n", stage.LatencySamples())
	// Output:
	// oversampled frames: 2048
	// latency: 32 samples
}
