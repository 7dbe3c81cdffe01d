package record

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

var ListCmd = &cobra.Command{
	Use:   "list <table>",
	Short: "Список записей таблицы",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := checkTable(args[0]); err != nil {
			return err
		}

		rows := app.Store().GetAll(args[0])
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), rows)
		}
		return printTable(rows)
	},
}

func printTable(rows []record.Record) error {
	if len(rows) == 0 {
		fmt.Println("Записи не найдены")
		return nil
	}

	cols := columns(rows)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(cols, "\t"))
	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = truncate(r.String(c), 30)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nВсего записей: %d\n", len(rows))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
