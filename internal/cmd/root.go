package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "groundstation",
	Short: "SRG ground station: CubeSat-SIM telemetry server",
	Long: `Ground-station backend for the CubeSat-SIM. It tails the simulator's
telem.txt, keeps the freshest reading per sensor subsystem (MS5611 barometer,
MPU6050 IMU, TMP probe), and serves the aggregate as a JSON API, a live
WebSocket feed and the static dashboard.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./groundstation.yaml)")
}
