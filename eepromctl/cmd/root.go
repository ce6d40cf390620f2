// Package cmd provides the command-line interface of eepromctl.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagBackend string
	flagDevice  string
	flagImage   string
	flagTraceDB string
	flagVerbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "eepromctl",
	Short: "eepromctl reads, writes and inspects a paged I2C EEPROM.",
	Long: `eepromctl reads, writes and inspects a paged I2C EEPROM. ` +
		`It talks either to a real device through /dev/i2c-N (backend i2cdev) ` +
		`or to a simulated device whose content can be kept in an image file ` +
		`(backend sim).`,
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flagConfig, "config", "", "YAML configuration file")
	f.StringVar(&flagBackend, "backend", "", "backend to use: sim or i2cdev")
	f.StringVar(&flagDevice, "device", "", "i2c-dev node, for the i2cdev backend")
	f.StringVar(&flagImage, "image", "", "image file of the simulated device")
	f.StringVar(&flagTraceDB, "trace-db", "",
		"record requests and transactions into this SQLite database")
	f.BoolVarP(&flagVerbose, "verbose", "v", false,
		"log every bus transaction to stderr")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
