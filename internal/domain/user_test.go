package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleSubAdmin, RoleUser} {
		assert.True(t, IsValidRole(role), role)
	}
	for _, role := range []string{"", "Admin", "user", "root"} {
		assert.False(t, IsValidRole(role), role)
	}
}

func TestCanAccessAdmin(t *testing.T) {
	assert.True(t, CanAccessAdmin(RoleAdmin))
	assert.True(t, CanAccessAdmin(RoleSubAdmin))
	assert.False(t, CanAccessAdmin(RoleUser))
	assert.False(t, CanAccessAdmin(""))
}
