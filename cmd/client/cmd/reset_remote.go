package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
	"github.com/sppgdatasystem/bgn/internal/app/client"
	"github.com/sppgdatasystem/bgn/internal/domain/session"
)

// resetRemoteCmd очищает produksi, distribusi и logistik на сервисе и на устройстве
var resetRemoteCmd = &cobra.Command{
	Use:   "reset-remote",
	Short: "Очистить рабочие таблицы (только администратор)",
	Long: `Удаляет все записи produksi, distribusi и logistik на сервисе и локально.
Пользователи и настройки сохраняются. Требуется PIN администратора.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		pin, err := types.ReadSecret("PIN администратора: ")
		if err != nil {
			return err
		}

		res, err := app.ResetRemoteData(cmd.Context(), pin)
		switch {
		case errors.Is(err, session.ErrNotLoggedIn):
			return errors.New("сначала выполните вход: sppg auth login")
		case errors.Is(err, client.ErrForbidden):
			return errors.New("доступно только администратору")
		case errors.Is(err, session.ErrWrongPin):
			return errors.New("неверный PIN")
		case err != nil:
			return fmt.Errorf("ошибка очистки: %w", err)
		}

		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s\n", res.Message)
		return nil
	},
}
