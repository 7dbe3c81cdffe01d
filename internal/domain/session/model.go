package session

import (
	"strings"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

// CurrentID is the id of the only row in the session table.
const CurrentID = "current"

// Session is the logged-in user as persisted on the device.
type Session struct {
	UserID    string `mapstructure:"userId"`
	Nama      string `mapstructure:"nama"`
	Phone     string `mapstructure:"phone"`
	Role      string `mapstructure:"role"`
	NoPegawai string `mapstructure:"noPegawai"`
	StartedAt string `mapstructure:"startedAt"`
}

func (s Session) IsAdmin() bool { return strings.EqualFold(s.Role, record.RoleAdmin) }

func fromUser(u record.User, startedAt string) Session {
	return Session{
		UserID:    u.ID,
		Nama:      u.Nama,
		Phone:     u.Phone,
		Role:      u.Role,
		NoPegawai: u.NoPegawai,
		StartedAt: startedAt,
	}
}
