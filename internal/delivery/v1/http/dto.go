package http

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/shop-admin/internal/domain"
	"github.com/DRSN-tech/shop-admin/internal/usecase"
	"github.com/shopspring/decimal"
)

type PropertyDTO struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// CategoryDTO описывает категорию в ответах API.
type CategoryDTO struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Parent      *int64        `json:"parent"`
	ParentFor   int64         `json:"parentFor"`
	UsedCount   int64         `json:"usedCount"`
	Properties  []PropertyDTO `json:"properties"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty"`
}

// CategoryReq: тело POST и PUT /categories. usedCount в теле игнорируется.
type CategoryReq struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Parent      *int64        `json:"parent"`
	ParentFor   *int64        `json:"parentFor"`
	Properties  []PropertyDTO `json:"properties"`
}

// ProductBody — тело POST и PUT /products. Цены передаются десятичными числами.
type ProductBody struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	UnitCount     int64           `json:"unitCount"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discountPrice"`
	IsInDiscount  bool            `json:"isInDiscount"`
	ProductType   string          `json:"productType"`
	Quantity      int64           `json:"quantity"`
	IsUnlimited   bool            `json:"isUnlimited"`
	Categories    []int64         `json:"categories"`
	Tags          []string        `json:"tags"`
	Image         string          `json:"image"`
	OtherImages   []string        `json:"otherImages"`
}

type ProductDTO struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	UnitCount     int64      `json:"unitCount"`
	Price         string     `json:"price"`
	DiscountPrice string     `json:"discountPrice"`
	IsInDiscount  bool       `json:"isInDiscount"`
	ProductType   string     `json:"productType"`
	Quantity      int64      `json:"quantity"`
	IsUnlimited   bool       `json:"isUnlimited"`
	Sold          int64      `json:"sold"`
	Categories    []int64    `json:"categories"`
	Tags          []string   `json:"tags"`
	Image         string     `json:"image"`
	OtherImages   []string   `json:"otherImages"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

type OrderDTO struct {
	ID          int64           `json:"id"`
	LineItems   json.RawMessage `json:"lineItems"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Country     string          `json:"country"`
	City        string          `json:"city"`
	Address     string          `json:"address"`
	PhoneNumber string          `json:"phoneNumber"`
	PostalCode  string          `json:"postalCode"`
	SenderEmail string          `json:"senderEmail"`
	IsPaid      bool            `json:"isPaid"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type UserDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
	Role  string `json:"role"`
}

type SettingsDTO struct {
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type SettingsReq struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type ImagesDTO struct {
	MainImageURL   string   `json:"mainImageUrl,omitempty"`
	OtherImageURLs []string `json:"otherImageUrls"`
}

type SessionReq struct {
	IDToken string `json:"idToken"`
}

type SessionDTO struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MAPPERS

func toProperties(dtos []PropertyDTO) []domain.Property {
	props := make([]domain.Property, 0, len(dtos))
	for _, p := range dtos {
		props = append(props, domain.Property{Key: p.Key, Values: p.Values})
	}
	return props
}

func toCategoryDTO(c *domain.Category) CategoryDTO {
	props := make([]PropertyDTO, 0, len(c.Properties))
	for _, p := range c.Properties {
		values := p.Values
		if values == nil {
			values = []string{}
		}
		props = append(props, PropertyDTO{Key: p.Key, Values: values})
	}

	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Parent:      c.Parent,
		ParentFor:   c.ParentFor,
		UsedCount:   c.UsedCount,
		Properties:  props,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryDTOs(cs []domain.Category) []CategoryDTO {
	res := make([]CategoryDTO, 0, len(cs))
	for i := range cs {
		res = append(res, toCategoryDTO(&cs[i]))
	}
	return res
}

func (b *ProductBody) toReq() (*usecase.ProductReq, error) {
	price, err := priceToCents(b.Price)
	if err != nil {
		return nil, err
	}

	discount, err := priceToCents(b.DiscountPrice)
	if err != nil {
		return nil, err
	}

	return &usecase.ProductReq{
		Title:         b.Title,
		Description:   b.Description,
		UnitCount:     b.UnitCount,
		Price:         price,
		DiscountPrice: discount,
		IsInDiscount:  b.IsInDiscount,
		ProductType:   b.ProductType,
		Quantity:      b.Quantity,
		IsUnlimited:   b.IsUnlimited,
		Categories:    b.Categories,
		Tags:          b.Tags,
		Image:         b.Image,
		OtherImages:   b.OtherImages,
	}, nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func toProductDTO(p *domain.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		UnitCount:     p.UnitCount,
		Price:         centsToPrice(p.Price),
		DiscountPrice: centsToPrice(p.DiscountPrice),
		IsInDiscount:  p.IsInDiscount,
		ProductType:   p.ProductType,
		Quantity:      p.Quantity,
		IsUnlimited:   p.IsUnlimited,
		Sold:          p.Sold,
		Categories:    emptyIfNil(p.Categories),
		Tags:          emptyIfNil(p.Tags),
		Image:         p.Image,
		OtherImages:   emptyIfNil(p.OtherImages),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProductDTOs(ps []domain.Product) []ProductDTO {
	res := make([]ProductDTO, 0, len(ps))
	for i := range ps {
		res = append(res, toProductDTO(&ps[i]))
	}
	return res
}

func toOrderDTOs(os []domain.Order) []OrderDTO {
	res := make([]OrderDTO, 0, len(os))
	for _, o := range os {
		res = append(res, OrderDTO{
			ID:          o.ID,
			LineItems:   o.LineItems,
			Name:        o.Name,
			Email:       o.Email,
			Country:     o.Country,
			City:        o.City,
			Address:     o.Address,
			PhoneNumber: o.PhoneNumber,
			PostalCode:  o.PostalCode,
			SenderEmail: o.SenderEmail,
			IsPaid:      o.IsPaid,
			CreatedAt:   o.CreatedAt,
			UpdatedAt:   o.UpdatedAt,
		})
	}
	return res
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		Name:  u.Name,
		Email: u.Email,
		Image: u.Image,
		Role:  u.Role,
	}
}

func toUserDTOs(us []domain.User) []UserDTO {
	res := make([]UserDTO, 0, len(us))
	for i := range us {
		res = append(res, toUserDTO(&us[i]))
	}
	return res
}

func toSettingsDTO(s *domain.ShopSettings) SettingsDTO {
	return SettingsDTO{
		Name:      s.Name,
		Icon:      s.Icon,
		UpdatedAt: s.UpdatedAt,
	}
}

func toSessionDTO(s *domain.Session) SessionDTO {
	return SessionDTO{
		Email:     s.Email,
		Name:      s.Name,
		Role:      s.Role,
		ExpiresAt: s.ExpiresAt,
	}
}
