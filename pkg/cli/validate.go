package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/replicate/tensorbackend/internal/config"
	"github.com/replicate/tensorbackend/pkg/util/console"
)

func newValidateCommand() *cobra.Command {
	cfg := &config.Config{Output: config.OutputText}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a model's configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateModel(cmd, cfg)
		},
	}
	addModelFlags(cmd.Flags(), cfg)

	return cmd
}

func validateModel(cmd *cobra.Command, cfg *config.Config) error {
	_, m, err := loadModel(cfg)
	if err != nil {
		return err
	}
	if _, err := m.SupportsFirstDimBatching(); err != nil {
		return err
	}
	console.Debugf("%s version %d: %d inputs ragged, %d optional", m.Name(), m.Version(), len(m.RaggedInputs()), len(m.OptionalInputs()))
	fmt.Fprintln(cmd.OutOrStdout(), "Valid model configuration")
	return nil
}
