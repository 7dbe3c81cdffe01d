package backup

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
	"github.com/sppgdatasystem/bgn/internal/domain/backup"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/crypto"
)

// BackupCmd - резервная копия таблиц устройства
var BackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Экспорт и импорт резервной копии",
}

var (
	format  string
	outPath string
	encrypt bool
)

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить все таблицы в файл",
	Long: `Выгружает users, produksi, distribusi, logistik и settings.

С --encrypt архив шифруется парольной фразой (Argon2id + AES-GCM).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var data []byte
		if encrypt {
			pass, err := readPassphrase(true)
			if err != nil {
				return err
			}
			data, err = app.Backup().ExportEncrypted(pass)
			if err != nil {
				return fmt.Errorf("ошибка экспорта: %w", err)
			}
		} else {
			data, err = app.Backup().Export(format)
			if err != nil {
				return fmt.Errorf("ошибка экспорта: %w", err)
			}
		}

		if outPath == "" || outPath == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(outPath, data, 0o600); err != nil {
			return fmt.Errorf("ошибка записи файла: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✅ Копия сохранена в %s\n", outPath)
		return nil
	},
}

var ImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Восстановить таблицы из файла",
	Long:  `Заменяет только таблицы, которые есть в файле. Поврежденный файл ничего не меняет.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("ошибка чтения файла: %w", err)
		}

		var restored []string
		if crypto.IsSealed(data) {
			pass, err := readPassphrase(false)
			if err != nil {
				return err
			}
			restored, err = app.Backup().ImportEncrypted(data, pass)
			if errors.Is(err, crypto.ErrWrongPassphrase) {
				return errors.New("неверная парольная фраза")
			}
			if err != nil {
				return fmt.Errorf("ошибка импорта: %w", err)
			}
		} else {
			restored, err = app.Backup().Import(data)
			if err != nil {
				return fmt.Errorf("ошибка импорта: %w", err)
			}
		}

		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), restored)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Восстановлено: %s\n", strings.Join(restored, ", "))
		return nil
	},
}

func readPassphrase(confirm bool) (string, error) {
	pass, err := types.ReadSecret("Парольная фраза: ")
	if err != nil {
		return "", err
	}
	if pass == "" {
		return "", errors.New("парольная фраза не может быть пустой")
	}
	if confirm {
		again, err := types.ReadSecret("Повторите: ")
		if err != nil {
			return "", err
		}
		if again != pass {
			return "", errors.New("фразы не совпадают")
		}
	}
	return pass, nil
}

func init() {
	ExportCmd.Flags().StringVarP(&format, "format", "f", backup.FormatJSON, "формат: json или yaml")
	ExportCmd.Flags().StringVarP(&outPath, "out", "o", "", "файл (по умолчанию stdout)")
	ExportCmd.Flags().BoolVar(&encrypt, "encrypt", false, "зашифровать парольной фразой")
}
