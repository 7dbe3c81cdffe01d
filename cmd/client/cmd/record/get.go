package record

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

var GetCmd = &cobra.Command{
	Use:   "get <table> <id>",
	Short: "Показать запись",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		rec, ok := app.Store().GetByID(args[0], args[1])
		if !ok {
			return fmt.Errorf("%s/%s: %w", args[0], args[1], record.ErrNotFound)
		}
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), rec)
		}
		for _, c := range columns([]record.Record{rec}) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", c+":", rec.String(c))
		}
		return nil
	},
}

var UpdateCmd = &cobra.Command{
	Use:   "update <table> <id>",
	Short: "Изменить поля записи",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := checkTable(args[0]); err != nil {
			return err
		}
		patch, err := parseFields(updateFields)
		if err != nil {
			return err
		}

		updated, err := app.Store().Update(args[0], args[1], patch)
		if err != nil {
			return fmt.Errorf("ошибка обновления: %w", err)
		}
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), updated)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Запись %s обновлена\n", updated.ID())
		return nil
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <table> <id>",
	Short: "Удалить запись",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if !app.Store().Delete(args[0], args[1]) {
			return fmt.Errorf("таблица %s не допускает удаления", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Запись %s удалена\n", args[1])
		return nil
	},
}

var updateFields []string

func init() {
	UpdateCmd.Flags().StringArrayVarP(&updateFields, "field", "f", nil, "поле ключ=значение")
}
