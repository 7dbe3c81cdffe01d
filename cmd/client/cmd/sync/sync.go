package sync

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
	"github.com/sppgdatasystem/bgn/internal/domain/sync"
)

// SyncCmd - родительская команда синхронизации
var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизация с табличным сервисом",
	Long: `Синхронизация таблиц устройства с общим табличным сервисом.

pull заменяет локальные таблицы удаленными, push и merge только добавляют
на сервис записи, которых там еще нет. watch запускает фоновый цикл.`,
}

var (
	online  = color.New(color.FgGreen, color.Bold)
	offline = color.New(color.FgRed, color.Bold)
	syncing = color.New(color.FgYellow, color.Bold)
)

// indicator рисует состояние соединения: зеленый - online, красный - offline, желтый - syncing
func indicator(st sync.Status) string {
	switch st {
	case sync.StatusOnline:
		return online.Sprint("● online")
	case sync.StatusSyncing:
		return syncing.Sprint("● syncing")
	default:
		return offline.Sprint("● offline")
	}
}

func printStatus(w io.Writer, st sync.Status, stats sync.Stats) {
	fmt.Fprintln(w, indicator(st))
	fmt.Fprintf(w, "Циклов: %d (пропущено %d)\n", stats.Ticks, stats.SkippedTicks)
	fmt.Fprintf(w, "Загрузок: %d (ошибок %d)\n", stats.Pulls, stats.FailedPulls)
	fmt.Fprintf(w, "Отправок: подтверждено %d, без подтверждения %d, ошибок %d\n",
		stats.PushesConfirmed, stats.PushesUnconfirmed, stats.PushesFailed)
	if !stats.LastSync.IsZero() {
		fmt.Fprintf(w, "Последняя синхронизация: %s\n", stats.LastSync.Format("2006-01-02 15:04:05"))
	}
	if stats.LastError != "" {
		fmt.Fprintf(w, "Последняя ошибка: %s\n", stats.LastError)
	}
}

// outcome - JSON-вид результата по таблице
type outcome struct {
	Table string `json:"table"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func printOutcomes(cmd *cobra.Command, verb string, rows []outcome) error {
	if types.WantJSON(cmd) {
		return types.PrintJSON(cmd.OutOrStdout(), rows)
	}
	for _, r := range rows {
		if r.Error != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %-10s %s\n", r.Table, r.Error)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %-10s %s: %d\n", r.Table, verb, r.Count)
	}
	return nil
}
