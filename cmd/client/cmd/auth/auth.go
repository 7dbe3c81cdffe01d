package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd - родительская команда для входа и выхода
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Сессия пользователя",
	Long:  `Вход по номеру телефона и PIN, выход, текущий пользователь.`,
}
