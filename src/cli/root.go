// Package cli implements the ratss command line.
package cli

import (
	goflag "flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ratss/src/physics/snapping"
)

// NewRootCmd builds the ratss command with all its subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ratss",
		Short: "Rational points on the sphere",
		Long: `
ratss snaps points on the unit sphere to points with exact rational
coordinates whose squares sum to exactly one, keeping numerators and
denominators as small as the requested precision allows.`,
		SilenceUsage: true,
	}
	rootConf := viper.New()
	root.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden by values set with environment variables and flags.")
	_ = rootConf.BindPFlags(root.PersistentFlags())
	root.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	subcommands := []*SubCommand{newProj(), newBitsize(), newVersion()}
	for _, sc := range subcommands {
		root.AddCommand(sc.Cmd)
		sc.Conf = viper.New()
		_ = sc.Conf.BindPFlags(sc.Cmd.Flags())
		_ = sc.Conf.BindPFlags(root.PersistentFlags())
		sc.Conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		sc.Conf.SetEnvPrefix(sc.EnvPrefix)
		sc.Conf.AutomaticEnv()
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg := rootConf.GetString("config")
		if cfg == "" {
			return nil
		}
		for _, sc := range subcommands {
			if sc.Cmd != cmd {
				continue
			}
			sc.Conf.SetConfigFile(cfg)
			if err := sc.Conf.ReadInConfig(); err != nil {
				return errors.Wrapf(err, "reading config %s", cfg)
			}
		}
		return nil
	}
	return root
}

// addSnapFlags registers the flags proj and bitsize share.
func addSnapFlags(f *flag.FlagSet, epsUsage string) {
	f.IntP("precision", "p", snapping.DefaultPrecision, "Precision of the input in bits.")
	f.IntP("eps", "e", 0, epsUsage)
	f.IntP("workers", "j", 0, "Number of points snapped concurrently. 0 uses all CPUs.")
}

// Execute runs the command line and exits on failure.
func Execute() {
	// glog reads its settings from the Go flag set, which cobra fills in.
	_ = goflag.CommandLine.Parse(nil)
	defer glog.Flush()

	if err := NewRootCmd().Execute(); err != nil {
		glog.Flush()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
