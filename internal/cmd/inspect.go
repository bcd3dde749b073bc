package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flyboysam/SRG.Dashboard/internal/config"
	"github.com/flyboysam/SRG.Dashboard/internal/model"
	"github.com/flyboysam/SRG.Dashboard/internal/output"
	"github.com/flyboysam/SRG.Dashboard/internal/parser"
	"github.com/flyboysam/SRG.Dashboard/internal/source"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Parse a telemetry file once and print the latest readings",
	Long: `Run a single ingestion pass against a telemetry file (or the configured
one when omitted) and print the freshest reading per sensor kind. Useful for
checking what the simulator is actually emitting.

Examples:
  groundstation inspect
  groundstation inspect /home/pi/CubeSatSim/telem.txt
  groundstation inspect "logs/telem-*.txt" --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	pattern := cfg.Telemetry.File
	if len(args) == 1 {
		pattern = args[0]
	}

	src := source.New(pattern, cfg.StaleTimeout())
	now := time.Now()

	report := output.Report{Path: pattern, Status: model.StatusNoFile}
	if path, exists := src.Resolve(); exists {
		report.Path = path
		report.AgeSeconds = source.Age(path, now)
		if src.Fresh(path, now) {
			report.Status = model.StatusLive
		} else {
			report.Status = model.StatusStale
		}

		content, err := src.ReadAll(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		cand := parser.ExtractLatest(content)
		if cand.MS5611 != "" {
			report.MS5611 = parser.ParseLine(cand.MS5611).MS5611
		}
		if cand.MPU6050 != "" {
			report.MPU6050 = parser.ParseLine(cand.MPU6050).MPU6050
		}
		if cand.TMP != "" {
			report.Temp = parser.ParseLine(cand.TMP).Temp
		}
	}

	var renderer output.Renderer
	if inspectJSON {
		renderer = output.NewJSONRenderer(os.Stdout)
	} else {
		renderer = output.NewTextRenderer(os.Stdout)
	}
	return renderer.Render(report)
}
