package user

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/domain/user"
)

// UserCmd - управление пользователями
var UserCmd = &cobra.Command{
	Use:   "user",
	Short: "Пользователи: регистрация, список, деактивация",
}

var (
	nama      string
	phone     string
	role      string
	jabatan   string
	noPegawai string
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Зарегистрировать пользователя",
	Long: `Регистрирует пользователя. PIN (4-6 цифр) запрашивается без эха.

Пример:
  sppg user add --nama "Siti" --phone 081200000001 --role petugas`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		pin, err := types.ReadSecret("PIN нового пользователя: ")
		if err != nil {
			return err
		}

		u, err := app.Users().Register(user.RegisterRequest{
			Nama:      nama,
			Phone:     phone,
			PIN:       pin,
			NoPegawai: noPegawai,
			Jabatan:   jabatan,
			Role:      role,
		})
		switch {
		case errors.Is(err, user.ErrDuplicate):
			return fmt.Errorf("телефон %s уже зарегистрирован", phone)
		case err != nil:
			return fmt.Errorf("ошибка регистрации: %w", err)
		}

		if types.WantJSON(cmd) {
			u.PIN = ""
			return types.PrintJSON(cmd.OutOrStdout(), u)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Пользователь %s создан (id %s)\n", u.Nama, u.ID)
		return nil
	},
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список пользователей",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		users := app.Users().List()
		for i := range users {
			users[i].PIN = ""
		}
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), users)
		}
		if len(users) == 0 {
			fmt.Println("📭 Пользователей нет")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tИМЯ\tТЕЛЕФОН\tРОЛЬ\tСТАТУС")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Nama, u.Phone, u.Role, u.Status)
		}
		return w.Flush()
	},
}

var DeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Запретить пользователю вход",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Users().SetStatus(args[0], record.StatusInactive); err != nil {
			return fmt.Errorf("ошибка деактивации: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Пользователь %s деактивирован\n", args[0])
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVar(&nama, "nama", "", "имя")
	AddCmd.Flags().StringVarP(&phone, "phone", "p", "", "телефон")
	AddCmd.Flags().StringVar(&role, "role", record.RolePetugas, "роль: admin или petugas")
	AddCmd.Flags().StringVar(&jabatan, "jabatan", "", "должность")
	AddCmd.Flags().StringVar(&noPegawai, "no-pegawai", "", "табельный номер")
	_ = AddCmd.MarkFlagRequired("nama")
	_ = AddCmd.MarkFlagRequired("phone")
}
