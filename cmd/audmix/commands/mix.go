// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats"
	"github.com/ik5/audmix/internal/config"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/resample"
)

func newMixCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mix <input> <output>",
		Short: "Mix a file through a crosspoint matrix",
		Long: `Mix every channel of <input> into the output channels of <output>.

Without crosspoints the input is averaged to mono, or, when --outputs is
given, input channel i goes to output i and extra outputs stay silent.

A crosspoint "in:out=gain" sets the gain from one input channel to one
output channel. Unlisted crosspoints keep unity gain unless --exclusive is
set. The output format follows the extension of <output> (.wav or .aiff).`,
		Args: cobra.ExactArgs(2),
		RunE: a.runMix,
	}

	f := cmd.Flags()
	f.Int("block", audmix.DefaultBlockFrames, "frames per render call")
	f.Int("outputs", 0, "output channel count")
	f.Bool("exclusive", false, "silence crosspoints that are not listed")
	f.StringArray("crosspoints", nil, `crosspoint "in:out=gain", repeatable`)
	f.Int("rate", 0, "resample the input to this rate before mixing")
	f.String("resampler", config.ResamplerSinc, "resampler for --rate: cubic or sinc")
	f.Int("quality", resample.DefaultQuality, "sinc resampler quality, 0 to 10")
	f.Int("bitdepth", 16, "output bit depth: 16, 24 or 32")

	return cmd
}

func (a *app) runMix(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	src, err := formats.Open(formats.Decoders, in)
	if err != nil {
		return err
	}
	src, err = a.resample(src)
	if err != nil {
		return err
	}
	defer src.Close()

	m, err := buildMatrix(a.cfg, src.Channels())
	if err != nil {
		return err
	}

	start := time.Now()
	mixed, err := audmix.MixSource(src, m, a.cfg.Block, mixer.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("mix %s: %w", in, err)
	}

	if err := formats.Create(out, mixed, a.cfg.BitDepth); err != nil {
		return err
	}

	frames := len(mixed.Data) / mixed.Format.NumChannels
	a.logger.Info("mixed file",
		"input", in,
		"output", out,
		"frames", frames,
		"crosspoints", len(m.Crosspoints),
		"elapsed", time.Since(start),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d frames, %d -> %d channels at %d Hz\n",
		out, frames, src.Channels(), m.Outputs, mixed.Format.SampleRate)

	return nil
}

// resample wraps src in the configured resampler when --rate differs from
// its own rate. src is closed on error.
func (a *app) resample(src audio.Source) (audio.Source, error) {
	r := a.cfg.Rate
	if r == 0 || r == src.SampleRate() {
		return src, nil
	}

	a.logger.Info("resampling input",
		"from", src.SampleRate(),
		"to", r,
		"resampler", a.cfg.Resampler,
	)
	if a.cfg.Resampler == config.ResamplerCubic {
		return audio.NewResampler(src, r), nil
	}

	rs, err := resample.New(src, r, a.cfg.Quality)
	if err != nil {
		src.Close()
		return nil, err
	}
	return rs, nil
}

// buildMatrix turns the configured routing into a Matrix for a source with
// inputs channels.
func buildMatrix(c config.Config, inputs int) (audmix.Matrix, error) {
	if len(c.Crosspoints) == 0 {
		if c.Outputs == 0 {
			return audmix.MonoDownmix(inputs), nil
		}

		m := audmix.Matrix{Outputs: c.Outputs, Exclusive: true}
		for ch := range min(inputs, c.Outputs) {
			m.Crosspoints = append(m.Crosspoints, audmix.Crosspoint{In: ch, Out: ch, Gain: 1})
		}
		return m, nil
	}

	m := audmix.Matrix{Outputs: c.Outputs, Exclusive: c.Exclusive}
	for _, s := range c.Crosspoints {
		cp, err := audmix.ParseCrosspoint(s)
		if err != nil {
			return audmix.Matrix{}, err
		}
		if cp.In >= inputs {
			return audmix.Matrix{}, fmt.Errorf("crosspoint %s: input has %d channels", s, inputs)
		}
		m.Outputs = max(m.Outputs, cp.Out+1)
		m.Crosspoints = append(m.Crosspoints, cp)
	}

	return m, nil
}
