package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/sarchlab/eeprom/monitoring"
	"github.com/spf13/cobra"
)

var (
	flagPort int
	flagOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the device over HTTP until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd, func(s *session) error {
			port := s.cfg.MonitorPort
			if cmd.Flags().Changed("port") {
				port = flagPort
			}

			m := monitoring.NewMonitor().WithPortNumber(port)
			m.RegisterDriver(s.driver)
			m.RegisterStats(s.stats)

			url, err := m.StartServer()
			if err != nil {
				return err
			}

			if flagOpen {
				err = browser.OpenURL(url)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(),
						"Failed to open browser: %v\n", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()

			return nil
		})
	},
}

func init() {
	serveCmd.Flags().IntVarP(&flagPort, "port", "p", 0,
		"port of the monitoring server, random if 0")
	serveCmd.Flags().BoolVar(&flagOpen, "open", false,
		"open the monitoring page in a browser")
	rootCmd.AddCommand(serveCmd)
}
