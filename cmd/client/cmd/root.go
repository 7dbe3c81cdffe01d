package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
	"github.com/sppgdatasystem/bgn/internal/app/client"
	"github.com/sppgdatasystem/bgn/internal/app/client/config"
	"github.com/sppgdatasystem/bgn/internal/utils/logger"
)

var (
	debug      bool
	jsonOutput bool
	remoteURL  string
	app        *client.App
)

var rootCmd = &cobra.Command{
	Use:   "sppg",
	Short: "SPPG - учет производства, доставки и логистики на устройстве",
	Long: `SPPG хранит таблицы produksi, distribusi, logistik и users локально
и синхронизирует их с общим табличным сервисом (/exec).

Работа без сети поддерживается: изменения отправляются, когда сервис доступен.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// флаг сильнее переменной окружения
	if remoteURL != "" {
		cfg.RemoteURL = remoteURL
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	log := logger.NewWithWriter(cfg.Env, os.Stderr, logger.WithLevel(level))

	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}
	if err := app.Init(); err != nil {
		return fmt.Errorf("ошибка подготовки устройства: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, types.ClientAppKey, app))
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	return app.Close()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "URL табличного сервиса (.../exec)")
}
