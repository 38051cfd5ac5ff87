package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/shop-admin/pkg/e"
)

// Category описывает категорию товаров. Категории образуют дерево через Parent.
type Category struct {
	ID          int64
	Name        string
	Description *string
	Parent      *int64
	ParentFor   int64 // Количество дочерних категорий
	UsedCount   int64 // Количество товаров, привязанных к категории
	Properties  []Property
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Property — свойство-шаблон для товаров категории (например, "size": ["S", "M"]).
type Property struct {
	Key    string
	Values []string
}

func NewCategory(name string, description *string, parent *int64, properties []Property) *Category {
	return &Category{
		Name:        name,
		Description: description,
		Parent:      parent,
		Properties:  properties,
	}
}

// NormalizeCategoryName обрезает пробелы по краям и проверяет, что имя не пустое.
func NormalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", e.ErrCategoryNameRequired
	}

	return name, nil
}

// NormalizeProperties обрезает ключи свойств и проверяет их уникальность без учёта регистра.
func NormalizeProperties(properties []Property) ([]Property, error) {
	result := make([]Property, 0, len(properties))
	seen := make(map[string]struct{}, len(properties))

	for _, p := range properties {
		key := strings.TrimSpace(p.Key)
		if key == "" {
			return nil, e.ErrPropertyKeyRequired
		}

		folded := strings.ToLower(key)
		if _, ok := seen[folded]; ok {
			return nil, e.ErrPropertyKeyDuplicate
		}
		seen[folded] = struct{}{}

		values := p.Values
		if values == nil {
			values = []string{}
		}
		result = append(result, Property{Key: key, Values: values})
	}

	return result, nil
}

// CanBeDeleted сообщает, можно ли удалить категорию: удаление запрещено, пока её используют товары.
func (c *Category) CanBeDeleted() bool {
	return c.UsedCount == 0
}

// SameParent сравнивает родителей двух категорий.
func SameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}
