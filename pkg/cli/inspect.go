package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/replicate/tensorbackend/internal/config"
	"github.com/replicate/tensorbackend/pkg/backendmodel"
	"github.com/replicate/tensorbackend/pkg/util/console"
)

type inspectResult struct {
	backendmodel.Summary
	SupportsFirstDimBatching bool   `json:"supports_first_dim_batching"`
	ConfigPath               string `json:"config_path"`
}

func newInspectCommand() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show what a backend derives from a model's configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectModel(cmd.OutOrStdout(), cfg)
		},
	}
	addModelFlags(cmd.Flags(), cfg)
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", config.OutputText, "Output format (text or json)")

	return cmd
}

func inspectModel(w io.Writer, cfg *config.Config) error {
	hostModel, m, err := loadModel(cfg)
	if err != nil {
		return err
	}
	supports, err := m.SupportsFirstDimBatching()
	if err != nil {
		return err
	}

	result := inspectResult{
		Summary:                  m.Summary(),
		SupportsFirstDimBatching: supports,
		ConfigPath:               hostModel.ConfigPath(),
	}

	if cfg.Output == config.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return writeText(w, result)
}

func writeText(w io.Writer, r inspectResult) error {
	modified := ""
	if info, err := os.Stat(r.ConfigPath); err == nil {
		modified = " (modified " + console.FormatTime(info.ModTime()) + ")"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Model:\t%s\n", r.Name)
	fmt.Fprintf(tw, "Version:\t%d\n", r.Version)
	fmt.Fprintf(tw, "Repository:\t%s\n", r.RepositoryPath)
	fmt.Fprintf(tw, "Config:\t%s%s\n", r.ConfigPath, modified)
	fmt.Fprintf(tw, "Max batch size:\t%d\n", r.MaxBatchSize)
	fmt.Fprintf(tw, "First-dim batching:\t%t\n", r.SupportsFirstDimBatching)
	fmt.Fprintf(tw, "Pinned input:\t%t\n", r.EnablePinnedInput)
	fmt.Fprintf(tw, "Pinned output:\t%t\n", r.EnablePinnedOutput)
	fmt.Fprintf(tw, "Ragged inputs:\t%s\n", list(r.RaggedInputs))
	fmt.Fprintf(tw, "Optional inputs:\t%s\n", list(r.OptionalInputs))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.BatchInputs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Batch inputs:")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, bi := range r.BatchInputs {
			fmt.Fprintf(tw, "  %s\t%s\t%s\tfrom %s\n", list(bi.TargetNames), bi.Kind, bi.DataType, bi.SourceInput)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if len(r.BatchOutputs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Batch outputs:")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, bo := range r.BatchOutputs {
			fmt.Fprintf(tw, "  %s\t%s\tfrom %s\n", list(bo.TargetNames), bo.Kind, bo.SourceInput)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func list(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
