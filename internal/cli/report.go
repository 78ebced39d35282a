package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/climate"
	"pv-bknd/internal/logger"
	"pv-bknd/internal/models"
	"pv-bknd/internal/services"
)

func newReportCmd(newLogger func() *logger.Logger) *cobra.Command {
	var (
		projectPath string
		catalogPath string
		tablePath   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Evaluate a project file and print its design report",
		Long: `Runs every electrical check of a project read from a JSON file and prints
the design report. The command fails when the export gate is blocked.`,
		Example: `  pvcheck report --project maison.json
  pvcheck report --project maison.json --catalog components.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logr := newLogger()
			defer logr.Sync()

			p, err := readProject(projectPath)
			if err != nil {
				return err
			}
			seed, err := catalog.LoadSeedFile(catalogPath)
			if err != nil {
				return err
			}
			table, err := climate.LoadTableFile(tablePath)
			if err != nil {
				return err
			}
			logr.Debug("inputs loaded",
				zap.String("project", p.Name),
				zap.Int("components", len(seed)))

			svc := services.NewSizingService(catalog.NewMemory(seed), table, nil, logr.Logger)
			report, err := svc.Evaluate(cmd.Context(), p)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Gate.CanExport {
				return fmt.Errorf("%w: %d blocking reason(s)", ErrExportBlocked, len(report.Gate.Reasons))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "project JSON file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML component catalog (default: embedded catalog)")
	cmd.Flags().StringVar(&tablePath, "climate-table", "", "YAML climate table (default: embedded France table)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func readProject(path string) (*models.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p models.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	return &p, nil
}
