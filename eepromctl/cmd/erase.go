package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eraseCmd = &cobra.Command{
	Use:   "erase PAGE [COUNT]",
	Short: "Fill pages with 0xFF",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			args = append(args, "1")
		}

		v, err := parseInts(args, "page", "count")
		if err != nil {
			return err
		}

		page, count := v[0], v[1]
		if count < 1 {
			return fmt.Errorf("invalid count %d", count)
		}

		return withSession(cmd, func(s *session) error {
			bar := newProgressBar(cmd, int64(count), "erasing", false)

			for p := page; p < page+count; p++ {
				err := s.driver.ErasePage(p)
				if err != nil {
					return err
				}

				err = bar.Add(1)
				if err != nil {
					return err
				}
			}

			return bar.Finish()
		})
	},
}

func init() {
	rootCmd.AddCommand(eraseCmd)
}
