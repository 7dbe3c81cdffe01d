package sync

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/domain/sync"
)

var PullCmd = &cobra.Command{
	Use:   "pull [table...]",
	Short: "Заменить локальные таблицы удаленными",
	Long:  `Без аргументов загружает produksi, distribusi и logistik. При ошибке локальная таблица не меняется.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		tables := args
		if len(tables) == 0 {
			tables = sync.LoopTables
		}

		res := app.Engine().PullAll(cmd.Context(), tables)
		rows := make([]outcome, 0, len(tables))
		for _, t := range tables {
			rows = append(rows, outcome{Table: t, Count: res[t].Count, Error: errString(res[t].Err)})
		}
		return printOutcomes(cmd, "загружено", rows)
	},
}

var PushCmd = &cobra.Command{
	Use:   "push",
	Short: "Отправить на сервис все локальные записи, которых там нет",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		res := app.Engine().PushAll(cmd.Context(), sync.PushTables)
		rows := make([]outcome, 0, len(sync.PushTables))
		for _, t := range sync.PushTables {
			rows = append(rows, outcome{Table: t, Count: res[t].Added, Error: errString(res[t].Err)})
		}
		return printOutcomes(cmd, "добавлено", rows)
	},
}

var MergeCmd = &cobra.Command{
	Use:   "merge <table>",
	Short: "Дополнить одну удаленную таблицу локальными записями",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		table := args[0]
		added, err := app.Engine().AdditiveMerge(cmd.Context(), table, app.Store().GetAll(table))
		return printOutcomes(cmd, "добавлено", []outcome{{Table: table, Count: added, Error: errString(err)}})
	},
}

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние синхронизации",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		eng := app.Engine()
		if eng.Configured() {
			// короткая проверка, чтобы индикатор отражал текущее состояние
			_, _ = eng.Ping(cmd.Context())
		}
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), map[string]any{
				"status":     eng.Status(),
				"configured": eng.Configured(),
				"stats":      eng.Stats(),
			})
		}
		printStatus(cmd.OutOrStdout(), eng.Status(), eng.Stats())
		return nil
	},
}

var PingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Проверить доступность сервиса",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		info, err := app.Engine().Ping(cmd.Context())
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), indicator(sync.StatusOffline))
			return err
		}
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), info)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (v%s)\n", indicator(sync.StatusOnline), info.Message, info.Version)
		return nil
	},
}

var pushSettings bool

var SettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Загрузить (или отправить с --push) настройки",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		eng := app.Engine()

		if pushSettings {
			n, err := eng.PushSettings(cmd.Context())
			return printOutcomes(cmd, "отправлено", []outcome{{Table: record.TableSettings, Count: n, Error: errString(err)}})
		}

		n, err := eng.PullSettings(cmd.Context())
		if err != nil {
			return err
		}
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), app.Store().GetAll(record.TableSettings))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Настроек загружено: %d\n", n)
		for _, s := range app.Store().GetAll(record.TableSettings) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", s.ID(), s.String("value"))
		}
		return nil
	},
}

func init() {
	SettingsCmd.Flags().BoolVar(&pushSettings, "push", false, "отправить локальные настройки")
}

var NowCmd = &cobra.Command{
	Use:   "now",
	Short: "Полная синхронизация: ping, push, pull",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		rep, err := app.SyncNow(cmd.Context())
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), indicator(sync.StatusOffline))
			return err
		}

		rows := make([]outcome, 0, len(sync.PushTables)+len(sync.LoopTables))
		for _, t := range sync.PushTables {
			rows = append(rows, outcome{Table: t, Count: rep.Pushed[t].Added, Error: errString(rep.Pushed[t].Err)})
		}
		if err := printOutcomes(cmd, "добавлено", rows); err != nil {
			return err
		}
		rows = rows[:0]
		for _, t := range sync.LoopTables {
			rows = append(rows, outcome{Table: t, Count: rep.Pulled[t].Count, Error: errString(rep.Pulled[t].Err)})
		}
		if err := printOutcomes(cmd, "загружено", rows); err != nil {
			return err
		}
		if !types.WantJSON(cmd) {
			fmt.Fprintln(cmd.OutOrStdout(), indicator(rep.Status))
		}
		return nil
	},
}
