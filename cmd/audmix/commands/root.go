// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ik5/audmix/internal/config"
	"github.com/ik5/audmix/internal/logging"
)

// app carries what the persistent pre-run resolved to the subcommands.
type app struct {
	cfgFile string

	v       *viper.Viper
	cfg     config.Config
	logger  *slog.Logger
	logFile *os.File
}

// Execute runs the command line in os.Args.
func Execute() error {
	root, a := newRootCommand()
	defer a.close()

	return root.Execute()
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "audmix",
		Short: "Matrix mixer for audio files",
		Long: `audmix routes every input channel of an audio file to every output
channel through an adjustable gain, the way a hardware matrix mixer does.

Files are read as WAV, AIFF, MP3 or Ogg Vorbis and written as WAV or AIFF.

Examples:
  # fold a stereo recording to mono
  audmix mix interview.wav mono.wav

  # send left to outputs 0 and 2 and right to 1 at half level
  audmix mix --crosspoint 0:0=1 --crosspoint 0:2=1 --crosspoint 1:1=0.5 --exclusive in.wav out.wav

  # inspect a file
  audmix info take.aif
`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().String("loglevel", "info", "log level: none, error, warn, info, debug")
	root.PersistentFlags().String("logfile", "", "write JSON logs to this file instead of stderr")

	root.AddCommand(newMixCommand(a))
	root.AddCommand(newInfoCommand(a))
	root.AddCommand(newFormatsCommand())

	return root, a
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	if err := config.BindFlags(a.v, cmd.InheritedFlags()); err != nil {
		return err
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, f, err := logging.New(cfg.LogLevel, cfg.LogFile, cmd.ErrOrStderr(), slog.HandlerOptions{})
	if err != nil {
		return err
	}
	a.logger = logger
	a.logFile = f

	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}
