package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X ratss/src/cli.version=... -X ratss/src/cli.commit=...".
var (
	version = "dev"
	commit  = "unknown"
)

func buildDetails() string {
	return fmt.Sprintf(`
ratss version : %v
Commit SHA-1  : %v
Go version    : %v

`, version, commit, runtime.Version())
}

func newVersion() *SubCommand {
	sc := &SubCommand{EnvPrefix: "RATSS_VERSION"}
	sc.Cmd = &cobra.Command{
		Use:   "version",
		Short: "Prints the ratss version details",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), buildDetails())
		},
	}
	return sc
}
