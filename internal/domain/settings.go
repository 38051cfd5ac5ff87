package domain

import "time"

const (
	DefaultShopName = "Default Shop Name"
	DefaultShopIcon = "/default-icon.png"
)

// ShopSettings — настройки магазина, хранятся в единственной записи.
type ShopSettings struct {
	Name      string
	Icon      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func DefaultShopSettings() *ShopSettings {
	return &ShopSettings{
		Name: DefaultShopName,
		Icon: DefaultShopIcon,
	}
}
