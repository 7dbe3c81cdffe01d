package record

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
)

var AddCmd = &cobra.Command{
	Use:   "add <table>",
	Short: "Добавить запись",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := checkTable(args[0]); err != nil {
			return err
		}
		rec, err := parseFields(fields)
		if err != nil {
			return err
		}

		added := app.Store().Add(args[0], rec)
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), added)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Запись добавлена: %s\n", added.ID())
		return nil
	},
}

func init() {
	AddCmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "поле ключ=значение")
}
