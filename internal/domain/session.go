package domain

import "time"

// Identity — личность, подтверждённая внешним провайдером.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// Session — сессия администратора.
type Session struct {
	ID        string
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}
