package lock

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/types"
)

// LockCmd - блокировки задач на этом устройстве
var LockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Блокировки задач",
	Long: `Взять задачу в работу, освободить ее, посмотреть, кто ее держит.

Блокировка истекает сама через LOCK_TTL_MINUTES (по умолчанию 30 минут).`,
}

var taskType string

var ClaimCmd = &cobra.Command{
	Use:   "claim <taskId>",
	Short: "Взять задачу",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		res, err := app.ClaimTask(args[0], taskType)
		if err != nil {
			return err
		}
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), res)
		}
		if !res.Claimed {
			return fmt.Errorf("задача занята: %s", res.Message)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Задача %s ваша до %s\n", args[0], res.Lock.ExpiresAt)
		return nil
	},
}

var ReleaseCmd = &cobra.Command{
	Use:   "release <taskId>",
	Short: "Освободить задачу",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.ReleaseTask(args[0]); err != nil {
			return fmt.Errorf("ошибка освобождения: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Задача %s свободна\n", args[0])
		return nil
	},
}

var StatusCmd = &cobra.Command{
	Use:   "status <taskId>",
	Short: "Состояние блокировки задачи",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		st := app.TaskStatus(args[0])
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), st)
		}
		switch {
		case !st.Locked:
			fmt.Fprintln(cmd.OutOrStdout(), "Свободна")
		case st.LockedByMe:
			fmt.Fprintf(cmd.OutOrStdout(), "Ваша до %s\n", st.ExpiresAt)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Занята: %s %s до %s\n", st.By, st.ByNoPegawai, st.ExpiresAt)
		}
		return nil
	},
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Все блокировки",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		locks := app.Locks().List()
		if types.WantJSON(cmd) {
			return types.PrintJSON(cmd.OutOrStdout(), locks)
		}
		if len(locks) == 0 {
			fmt.Println("Блокировок нет")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TASK\tTYPE\tOWNER\tEXPIRES")
		for _, l := range locks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.TaskID, l.TaskType, l.OwnerName, l.ExpiresAt)
		}
		return w.Flush()
	},
}

var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Удалить просроченные блокировки",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		n, err := app.Locks().SweepExpired()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Удалено: %d\n", n)
		return nil
	},
}

func init() {
	ClaimCmd.Flags().StringVarP(&taskType, "type", "t", "distribusi", "тип задачи")
}
