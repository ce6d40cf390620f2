package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read PAGE OFFSET SIZE",
	Short: "Read bytes and print them as a hex dump",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseInts(args, "page", "offset", "size")
		if err != nil {
			return err
		}

		page, offset, size := v[0], v[1], v[2]
		if size < 0 {
			return fmt.Errorf("invalid size %d", size)
		}

		return withSession(cmd, func(s *session) error {
			buf := make([]byte, size)

			err := s.driver.Read(page, offset, buf, size)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), hex.Dump(buf))

			return nil
		})
	},
}

var writeCmd = &cobra.Command{
	Use:   "write PAGE OFFSET HEX",
	Short: "Write bytes given as hex, splitting at page boundaries",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseInts(args[:2], "page", "offset")
		if err != nil {
			return err
		}

		data, err := parseHex(args[2])
		if err != nil {
			return err
		}

		return withSession(cmd, func(s *session) error {
			err := s.driver.Write(v[0], v[1], data, len(data))
			if err != nil {
				return err
			}

			snap := s.stats.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(),
				"wrote %d bytes in %d transactions\n",
				snap.BytesWritten, snap.Transactions)

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
}
