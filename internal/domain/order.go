package domain

import (
	"encoding/json"
	"time"
)

// Order — заказ, созданный внешней системой оформления. Админка только читает заказы.
type Order struct {
	ID          int64
	LineItems   json.RawMessage
	Name        string
	Email       string
	Country     string
	City        string
	Address     string
	PhoneNumber string
	PostalCode  string
	SenderEmail string
	IsPaid      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
