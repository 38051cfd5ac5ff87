package domain

import "time"

// Product описывает товар магазина
type Product struct {
	ID            int64
	Title         string
	Description   string
	UnitCount     int64
	Price         int64 // Цена хранится в копейках
	DiscountPrice int64 // Цена со скидкой, в копейках
	IsInDiscount  bool
	ProductType   string
	Quantity      int64
	IsUnlimited   bool
	Sold          int64
	Categories    []int64
	Tags          []string
	Image         string
	OtherImages   []string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// CategoryDiff возвращает категории, которые нужно привязать и отвязать,
// чтобы перейти от набора old к набору new. Повторы игнорируются.
func CategoryDiff(old, new []int64) (added, removed []int64) {
	oldSet := make(map[int64]struct{}, len(old))
	for _, id := range old {
		oldSet[id] = struct{}{}
	}

	newSet := make(map[int64]struct{}, len(new))
	for _, id := range new {
		if _, dup := newSet[id]; dup {
			continue
		}
		newSet[id] = struct{}{}

		if _, ok := oldSet[id]; !ok {
			added = append(added, id)
		}
	}

	for _, id := range UniqueIDs(old) {
		if _, ok := newSet[id]; !ok {
			removed = append(removed, id)
		}
	}

	return added, removed
}

// UniqueIDs убирает повторы, сохраняя порядок.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}
