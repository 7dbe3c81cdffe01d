package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
	"github.com/sppgdatasystem/bgn/internal/domain/session"
)

var (
	phone string
	pin   string
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти по телефону и PIN",
	Long: `Вход по номеру телефона и PIN.

Если сервис доступен, перед входом подтягивается актуальный список
пользователей, после входа - настройки. Без сети используется локальный список.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if phone == "" {
			fmt.Fprint(os.Stderr, "Телефон: ")
			_, _ = fmt.Scanln(&phone)
		}
		if pin == "" {
			if pin, err = types.ReadSecret("PIN: "); err != nil {
				return err
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 45*time.Second)
		defer cancel()

		s, err := app.Login(ctx, phone, pin)
		if err != nil {
			var authErr *session.AuthError
			if errors.As(err, &authErr) {
				return fmt.Errorf("вход отклонен (%s): %w", authErr.Code, authErr.Err)
			}
			return fmt.Errorf("ошибка входа: %w", err)
		}

		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), s)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Добро пожаловать, %s (%s)\n", s.Nama, s.Role)
		return nil
	},
}

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Logout(); err != nil {
			return fmt.Errorf("ошибка выхода: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Сессия завершена")
		return nil
	},
}

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Показать текущего пользователя",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		s, ok := app.Session().CurrentSession()
		if !ok {
			return session.ErrNotLoggedIn
		}
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), s)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\nТелефон: %s\nРоль: %s\nNo. pegawai: %s\nВход: %s\n",
			s.Nama, s.Phone, s.Role, s.NoPegawai, s.StartedAt)
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&phone, "phone", "p", "", "номер телефона")
	LoginCmd.Flags().StringVar(&pin, "pin", "", "PIN (небезопасно, лучше ввести интерактивно)")
}
