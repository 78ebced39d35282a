package cli

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"pv-bknd/internal/logger"
)

// ErrExportBlocked is returned by the report command when the design may not
// be exported, so the process can exit non-zero after printing the report.
var ErrExportBlocked = errors.New("export blocked")

// NewRootCmd creates the pvcheck command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "pvcheck",
		Short:         "Offline electrical checks for PV installation designs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")

	newLogger := func() *logger.Logger { return logger.NewCLI(verbose) }
	cmd.AddCommand(newClimateCmd(), newReportCmd(newLogger))

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
