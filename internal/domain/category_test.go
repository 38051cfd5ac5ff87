package domain

import (
	"testing"

	"github.com/DRSN-tech/shop-admin/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCategoryName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"plain", "Electronics", "Electronics", nil},
		{"trimmed", "  Shoes ", "Shoes", nil},
		{"empty", "", "", e.ErrCategoryNameRequired},
		{"whitespace only", " \t\n", "", e.ErrCategoryNameRequired},
		{"case kept", "sHoEs", "sHoEs", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCategoryName(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, e.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeProperties(t *testing.T) {
	got, err := NormalizeProperties([]Property{
		{Key: " color ", Values: []string{"red", "blue"}},
		{Key: "size"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Property{
		{Key: "color", Values: []string{"red", "blue"}},
		{Key: "size", Values: []string{}},
	}, got)

	_, err = NormalizeProperties([]Property{{Key: "Color"}, {Key: "color "}})
	assert.ErrorIs(t, err, e.ErrPropertyKeyDuplicate)

	_, err = NormalizeProperties([]Property{{Key: "  "}})
	assert.ErrorIs(t, err, e.ErrPropertyKeyRequired)

	got, err = NormalizeProperties(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCategory_CanBeDeleted(t *testing.T) {
	assert.True(t, (&Category{}).CanBeDeleted())
	assert.False(t, (&Category{UsedCount: 3}).CanBeDeleted())
}

func TestSameParent(t *testing.T) {
	one, otherOne, two := int64(1), int64(1), int64(2)

	assert.True(t, SameParent(nil, nil))
	assert.True(t, SameParent(&one, &otherOne))
	assert.False(t, SameParent(&one, &two))
	assert.False(t, SameParent(nil, &one))
	assert.False(t, SameParent(&one, nil))
}
