package cmd

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [FILE]",
	Short: "Read the whole device, into FILE or as a hex dump",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			g := s.driver.Geometry()
			image := make([]byte, 0, g.Capacity())
			bar := newProgressBar(cmd, int64(g.Capacity()), "reading", true)
			page := make([]byte, g.PageSize)

			for p := 0; p < g.PageCount; p++ {
				err := s.driver.Read(p, 0, page, g.PageSize)
				if err != nil {
					return err
				}

				image = append(image, page...)

				err = bar.Add(len(page))
				if err != nil {
					return err
				}
			}

			err := bar.Finish()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return os.WriteFile(args[0], image, 0o644)
			}

			fmt.Fprint(cmd.OutOrStdout(), hex.Dump(image))

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
