// SPDX-License-Identifier: EPL-2.0

package audmix_test

import (
	"fmt"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/internal/audiotest"
)

func ExampleMixSource() {
	// one second of stereo at 8kHz
	src := audiotest.NewConstantSource(8000, 2, 8000, 0.5)
	defer src.Close()

	mixed, err := audmix.MixSource(src, audmix.MonoDownmix(src.Channels()), 0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("channels:", mixed.Format.NumChannels)
	fmt.Println("frames:", len(mixed.Data)/mixed.Format.NumChannels)
	fmt.Println("first sample:", mixed.Data[0])
	// Output:
	// channels: 1
	// frames: 8000
	// first sample: 0.5
}

func ExampleMixSource_fanOut() {
	src := audiotest.NewConstantSource(8000, 1, 160, 0.25)

	m := audmix.Matrix{
		Outputs: 4,
		Crosspoints: []audmix.Crosspoint{
			{In: 0, Out: 1, Gain: 2},
			{In: 0, Out: 3, Gain: 0},
		},
	}
	mixed, err := audmix.MixSource(src, m, 64)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(mixed.Data[:4])
	// Output:
	// [0.25 0.5 0.25 0]
}

func ExampleParseCrosspoint() {
	c, err := audmix.ParseCrosspoint("1:3=0.5")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(c.In, c.Out, c.Gain)
	// Output:
	// 1 3 0.5
}
