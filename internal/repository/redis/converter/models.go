package converter

import "time"

type ProductRedisModel struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	UnitCount     int64      `json:"unit_count"`
	Price         int64      `json:"price"`
	DiscountPrice int64      `json:"discount_price"`
	IsInDiscount  bool       `json:"is_in_discount"`
	ProductType   string     `json:"product_type"`
	Quantity      int64      `json:"quantity"`
	IsUnlimited   bool       `json:"is_unlimited"`
	Sold          int64      `json:"sold"`
	Categories    []int64    `json:"categories"`
	Tags          []string   `json:"tags"`
	Image         string     `json:"image"`
	OtherImages   []string   `json:"other_images"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type CategoryRedisModel struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Description *string              `json:"description,omitempty"`
	Parent      *int64               `json:"parent,omitempty"`
	ParentFor   int64                `json:"parent_for"`
	UsedCount   int64                `json:"used_count"`
	Properties  []PropertyRedisModel `json:"properties"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   *time.Time           `json:"updated_at,omitempty"`
}

type PropertyRedisModel struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

type SessionRedisModel struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
