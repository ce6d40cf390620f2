package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var readNumCmd = &cobra.Command{
	Use:   "read-num PAGE OFFSET",
	Short: "Read a 32-bit float",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseInts(args, "page", "offset")
		if err != nil {
			return err
		}

		return withSession(cmd, func(s *session) error {
			n, err := s.driver.ReadNumber(v[0], v[1])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(),
				strconv.FormatFloat(float64(n), 'g', -1, 32))

			return nil
		})
	},
}

var writeNumCmd = &cobra.Command{
	Use:   "write-num PAGE OFFSET VALUE",
	Short: "Write a 32-bit float",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseInts(args[:2], "page", "offset")
		if err != nil {
			return err
		}

		n, err := strconv.ParseFloat(args[2], 32)
		if err != nil {
			return fmt.Errorf("invalid value %q", args[2])
		}

		return withSession(cmd, func(s *session) error {
			return s.driver.WriteNumber(v[0], v[1], float32(n))
		})
	},
}

func init() {
	rootCmd.AddCommand(readNumCmd)
	rootCmd.AddCommand(writeNumCmd)
}
