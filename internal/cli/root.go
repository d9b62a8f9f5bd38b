// Package cli wires the cobra commands of the kikisite binary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// VersionInfo is stamped into the binary at build time.
type VersionInfo struct {
	Version string
	Commit  string
}

func NewRootCommand(info VersionInfo) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:           "kikisite",
		Short:         "Content API for the KIKI site",
		Long:          "Serves the article and image store behind the KIKI site: public article reads, the authenticated admin API and file uploads.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(path)
		},
	}

	cmd.PersistentFlags().StringVar(&path, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	viper.BindPFlag("LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	cmd.AddCommand(
		NewServeCommand(),
		NewMigrateCommand(),
		NewUserCommand(),
		NewSeedCommand(),
		NewEventsCommand(),
	)
	return cmd
}
