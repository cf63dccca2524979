package saturator_test

import (
	"fmt"

	"github.com/cwbudde/algo-saturator/dsp/params"
	"github.com/cwbudde/algo-saturator/dsp/saturator"
)

func ExampleProcessor() {
	store := params.NewStore()
	store.Set(params.Drive, 12)
	store.Set(params.Mix, 50)

	p, err := saturator.New(store)
	if err != nil {
		panic(err)
	}

	if err := p.Prepare(48000, 512, 2); err != nil {
		panic(err)
	}

	buf := [][]float32{make([]float32, 512), make([]float32, 512)}
	buf[0][0], buf[1][0] = 0.5, 0.5

	p.ProcessFloat32(buf, 512)

	fmt.Println(p.State(), p.LatencySamples())
	// Output: prepared 32
}

func ExampleProcessor_bypass() {
	store := params.NewStore()
	p, _ := saturator.New(store)
	_ = p.Prepare(44100, 64, 1)

	store.SetBypass(true)

	buf := [][]float32{{0.25, -0.5}}
	p.ProcessFloat32(buf, 2)

	fmt.Println(buf[0], p.Bypassed())
	// Output: [0.25 -0.5] true
}

func ExampleToneCutoff() {
	for _, pct := range []float64{0, 50, 100} {
		fmt.Printf("%3.0f%% -> %.0f Hz\n", pct, saturator.ToneCutoff(pct))
	}
	// Output:
	//   0% -> 500 Hz
	//  50% -> 3162 Hz
	// 100% -> 20000 Hz
}
