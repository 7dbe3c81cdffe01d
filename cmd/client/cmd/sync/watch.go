package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
	"github.com/sppgdatasystem/bgn/internal/domain/sync"
	"golang.org/x/sync/errgroup"
)

var statsEvery time.Duration

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Фоновая синхронизация до Ctrl+C",
	Long: `Запускает цикл синхронизации с интервалом SYNC_INTERVAL_SECONDS.
Циклы идут только при открытой сессии, смена индикатора выводится сразу.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		eng := app.Engine()
		if !eng.Configured() {
			return sync.ErrNotConfigured
		}
		if !app.Session().Active() {
			fmt.Fprintln(os.Stderr, "⚠️  Нет сессии: циклы будут пропускаться до входа (sppg auth login)")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		eng.OnStatus(func(st sync.Status) {
			fmt.Fprintf(out, "%s %s\n", time.Now().Format("15:04:05"), indicator(st))
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			app.StartAutoSync(gctx)
			<-gctx.Done()
			return nil
		})
		if statsEvery > 0 {
			g.Go(func() error {
				t := time.NewTicker(statsEvery)
				defer t.Stop()
				for {
					select {
					case <-gctx.Done():
						return nil
					case <-t.C:
						printStatus(out, eng.Status(), eng.Stats())
					}
				}
			})
		}

		// первый цикл сразу, не дожидаясь интервала
		if app.Session().Active() {
			eng.Tick(ctx)
		}

		err = g.Wait()
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Fprintln(out, "Синхронизация остановлена")
		return nil
	},
}

func init() {
	WatchCmd.Flags().DurationVar(&statsEvery, "stats", 0, "периодически печатать статистику, например 1m")
}
