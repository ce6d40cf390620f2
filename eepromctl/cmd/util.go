package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func parseInts(args []string, names ...string) ([]int, error) {
	values := make([]int, len(names))

	for i, name := range names {
		v, err := strconv.ParseInt(args[i], 0, 0)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", name, args[i])
		}

		values[i] = int(v)
	}

	return values, nil
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.NewReplacer(" ", "", ":", "").Replace(s)

	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}

	return data, nil
}

// newProgressBar returns a bar on stderr. The bar is hidden when stderr is
// not a terminal.
func newProgressBar(
	cmd *cobra.Command,
	total int64,
	description string,
	showBytes bool,
) *progressbar.ProgressBar {
	out := cmd.ErrOrStderr()
	visible := out == os.Stderr && term.IsTerminal(int(os.Stderr.Fd()))

	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionShowBytes(showBytes),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
