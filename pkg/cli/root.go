package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/replicate/tensorbackend/pkg/global"
	"github.com/replicate/tensorbackend/pkg/util/console"
)

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "tensorbackend",
		Short:   "Inspect and validate backend model configurations",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if global.Verbose {
				console.SetLevel(console.DebugLevel)
			}
			cmd.SilenceUsage = true
		},
		// This stops errors being printed because we print them in cmd/tensorbackend/main.go
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)

	rootCmd.AddCommand(
		newInspectCommand(),
		newValidateCommand(),
	)

	return &rootCmd, nil
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
}
