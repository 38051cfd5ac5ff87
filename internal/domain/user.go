package domain

import "time"

// Роли пользователей админки
const (
	RoleAdmin    = "admin"
	RoleSubAdmin = "sub-admin"
	RoleUser     = "User"
)

// User — пользователь, известный провайдеру идентификации.
type User struct {
	ID        int64
	Name      string
	Email     string
	Image     string
	Role      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsValidRole проверяет, что роль входит в список известных.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSubAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// CanAccessAdmin сообщает, пускать ли пользователя с такой ролью в админку.
func CanAccessAdmin(role string) bool {
	return role == RoleAdmin || role == RoleSubAdmin
}
