package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type outputFormat string

const (
	formatAuto  outputFormat = "auto"
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
)

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Type() string { return "format" }

func (f *outputFormat) Set(s string) error {
	switch v := outputFormat(s); v {
	case formatAuto, formatTable, formatJSON:
		*f = v
		return nil
	default:
		return fmt.Errorf("unknown format %q (want auto, table or json)", s)
	}
}

// addFormatFlag registers --format on cmd. "auto" renders tables on a
// terminal and JSON when stdout is piped.
func addFormatFlag(cmd *cobra.Command, format *outputFormat) {
	*format = formatAuto
	cmd.Flags().Var(format, "format", "Output format: auto, table or json")
}

func emit(cmd *cobra.Command, app *App, format outputFormat, v any, render func() string) error {
	if format == formatJSON || (format == formatAuto && !app.isTTY()) {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), render())
	return nil
}
