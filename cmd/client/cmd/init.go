package cmd

import (
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/auth"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/backup"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/lock"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/record"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/sync"
	"github.com/sppgdatasystem/bgn/cmd/client/cmd/user"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.WhoamiCmd)

	rootCmd.AddCommand(record.RecordCmd)
	record.RecordCmd.AddCommand(record.AddCmd)
	record.RecordCmd.AddCommand(record.ListCmd)
	record.RecordCmd.AddCommand(record.GetCmd)
	record.RecordCmd.AddCommand(record.UpdateCmd)
	record.RecordCmd.AddCommand(record.DeleteCmd)

	rootCmd.AddCommand(lock.LockCmd)
	lock.LockCmd.AddCommand(lock.ClaimCmd)
	lock.LockCmd.AddCommand(lock.ReleaseCmd)
	lock.LockCmd.AddCommand(lock.StatusCmd)
	lock.LockCmd.AddCommand(lock.ListCmd)
	lock.LockCmd.AddCommand(lock.SweepCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	sync.SyncCmd.AddCommand(sync.PullCmd)
	sync.SyncCmd.AddCommand(sync.PushCmd)
	sync.SyncCmd.AddCommand(sync.MergeCmd)
	sync.SyncCmd.AddCommand(sync.WatchCmd)
	sync.SyncCmd.AddCommand(sync.StatusCmd)
	sync.SyncCmd.AddCommand(sync.PingCmd)
	sync.SyncCmd.AddCommand(sync.SettingsCmd)
	sync.SyncCmd.AddCommand(sync.NowCmd)

	rootCmd.AddCommand(user.UserCmd)
	user.UserCmd.AddCommand(user.AddCmd)
	user.UserCmd.AddCommand(user.ListCmd)
	user.UserCmd.AddCommand(user.DeactivateCmd)

	rootCmd.AddCommand(backup.BackupCmd)
	backup.BackupCmd.AddCommand(backup.ExportCmd)
	backup.BackupCmd.AddCommand(backup.ImportCmd)

	rootCmd.AddCommand(resetRemoteCmd)
}
