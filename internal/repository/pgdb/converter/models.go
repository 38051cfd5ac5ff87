package converter

import "time"

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	ParentID    *int64          `db:"parent_id"`
	ParentFor   int64           `db:"parent_for"`
	UsedCount   int64           `db:"used_count"`
	Properties  []PropertyModel `db:"properties"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   *time.Time      `db:"updated_at"`
}

// PropertyModel хранится в JSONB-колонке categories.properties.
type PropertyModel struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// ProductModel представляет запись таблицы products вместе с привязанными категориями.
type ProductModel struct {
	ID            int64      `db:"id"`
	Title         string     `db:"title"`
	Description   string     `db:"description"`
	UnitCount     int64      `db:"unit_count"`
	Price         int64      `db:"price"`
	DiscountPrice int64      `db:"discount_price"`
	IsInDiscount  bool       `db:"is_in_discount"`
	ProductType   string     `db:"product_type"`
	Quantity      int64      `db:"quantity"`
	IsUnlimited   bool       `db:"is_unlimited"`
	Sold          int64      `db:"sold"`
	Categories    []int64    `db:"categories"`
	Tags          []string   `db:"tags"`
	Image         string     `db:"image"`
	OtherImages   []string   `db:"other_images"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at"`
}

type OrderModel struct {
	ID          int64     `db:"id"`
	LineItems   []byte    `db:"line_items"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Country     string    `db:"country"`
	City        string    `db:"city"`
	Address     string    `db:"address"`
	PhoneNumber string    `db:"phone_number"`
	PostalCode  string    `db:"postal_code"`
	SenderEmail string    `db:"sender_email"`
	IsPaid      bool      `db:"is_paid"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// UserModel — пользователь с ролью из user_profiles (User, если профиля нет).
type UserModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	Image     string     `db:"image"`
	Role      string     `db:"role"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

type SettingsModel struct {
	Name      string     `db:"name"`
	Icon      string     `db:"icon"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events.
type OutboxEventModel struct {
	ID            int64      `db:"id"`
	EventID       string     `db:"event_id"`
	EventType     string     `db:"event_type"`
	AggregateType string     `db:"aggregate_type"`
	AggregateID   int64      `db:"aggregate_id"`
	Payload       []byte     `db:"payload"`
	Status        string     `db:"status"`
	CreatedAt     time.Time  `db:"created_at"`
	ProcessedAt   *time.Time `db:"processed_at"`
}
