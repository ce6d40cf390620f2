package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/eeprom/datarecording"
	"github.com/sarchlab/eeprom/tracing"
	"github.com/spf13/cobra"
)

var (
	flagTraceRequests bool
	flagTracePage     int
	flagTraceKind     string
	flagTraceFailed   bool
	flagTraceLimit    int
	flagTraceOffset   int
)

var traceCmd = &cobra.Command{
	Use:   "trace DB",
	Short: "List the transactions or requests recorded with --trace-db",
	Long: `List the transactions or requests recorded with --trace-db. ` +
		`DB is the .sqlite3 file. Rows can be filtered by page, kind and ` +
		`failure, and are listed in the order they started.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		table := tracing.TransactionTable
		reader.MapTable(tracing.TransactionTable, tracing.TransactionEntry{})

		if flagTraceRequests {
			table = tracing.RequestTable
			reader.MapTable(tracing.RequestTable, tracing.RequestEntry{})
		}

		rows, total, err := reader.Query(cmd.Context(), table, traceQuery())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, row := range rows {
			printTraceRow(out, row)
		}

		fmt.Fprintf(out, "%d of %d rows\n", len(rows), total)

		return nil
	},
}

func traceQuery() datarecording.QueryParams {
	var (
		conds []string
		args  []any
	)

	if flagTracePage >= 0 {
		conds = append(conds, "Page = ?")
		args = append(args, flagTracePage)
	}

	if flagTraceKind != "" {
		conds = append(conds, "Kind = ?")
		args = append(args, flagTraceKind)
	}

	if flagTraceFailed {
		conds = append(conds, "Error != ''")
	}

	return datarecording.QueryParams{
		Where:   strings.Join(conds, " AND "),
		Args:    args,
		OrderBy: "StartTime, CAST(ID AS INTEGER)",
		Limit:   flagTraceLimit,
		Offset:  flagTraceOffset,
	}
}

func printTraceRow(out io.Writer, row any) {
	switch e := row.(type) {
	case *tracing.TransactionEntry:
		fmt.Fprintf(out, "%12.6f %6s %6s %-12s page %3d offset %d 0x%04x %3d %s\n",
			e.StartTime, e.ID, e.ParentID, e.Kind,
			e.Page, e.Offset, e.Address, e.Length, traceStatus(e.Error))
	case *tracing.RequestEntry:
		fmt.Fprintf(out, "%12.6f %6s %-12s page %3d offset %d size %d %s\n",
			e.StartTime, e.ID, e.Kind,
			e.Page, e.Offset, e.Size, traceStatus(e.Error))
	}
}

func traceStatus(errText string) string {
	if errText == "" {
		return "ok"
	}

	return "failed: " + errText
}

func init() {
	f := traceCmd.Flags()
	f.BoolVar(&flagTraceRequests, "requests", false,
		"list requests instead of bus transactions")
	f.IntVar(&flagTracePage, "page", -1, "only rows of this page")
	f.StringVar(&flagTraceKind, "kind", "",
		"only rows of this kind (read, write, erase, read_number, write_number)")
	f.BoolVar(&flagTraceFailed, "failed", false, "only failed rows")
	f.IntVar(&flagTraceLimit, "limit", 0, "at most this many rows, 0 for all")
	f.IntVar(&flagTraceOffset, "offset", 0, "skip this many rows")
	rootCmd.AddCommand(traceCmd)
}
