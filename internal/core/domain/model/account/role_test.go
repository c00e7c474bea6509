package account_test

import (
	"testing"

	"phantomtrack/internal/core/domain/model/account"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, account.RoleAdmin, account.ParseRole("admin"))
	assert.Equal(t, account.RoleAdmin, account.ParseRole(" Admin "))
	assert.Equal(t, account.RoleStaff, account.ParseRole("staff"))
	assert.Equal(t, account.Role(""), account.ParseRole("customer"))
	assert.Equal(t, account.Role(""), account.ParseRole(""))
}

func TestIsAllowedEmail(t *testing.T) {
	allowList := []string{"ops@phantomtrack.example", " Boss@Phantomtrack.example "}

	assert.True(t, account.IsAllowedEmail("ops@phantomtrack.example", allowList))
	assert.True(t, account.IsAllowedEmail("BOSS@phantomtrack.example", allowList))
	assert.False(t, account.IsAllowedEmail("visitor@example.com", allowList))
	assert.False(t, account.IsAllowedEmail("", allowList))
	assert.False(t, account.IsAllowedEmail("ops@phantomtrack.example", nil))
}

func TestHasBackOfficeAccess(t *testing.T) {
	allowList := []string{"ops@phantomtrack.example"}

	assert.True(t, account.HasBackOfficeAccess(account.RoleAdmin, "", nil))
	assert.True(t, account.HasBackOfficeAccess(account.RoleStaff, "", nil))
	assert.True(t, account.HasBackOfficeAccess("", "ops@phantomtrack.example", allowList))
	assert.False(t, account.HasBackOfficeAccess("", "visitor@example.com", allowList))
}

func TestHasElevatedAccess(t *testing.T) {
	allowList := []string{"ops@phantomtrack.example"}

	assert.True(t, account.HasElevatedAccess(account.RoleAdmin, "", nil))
	assert.False(t, account.HasElevatedAccess(account.RoleStaff, "", nil))
	assert.True(t, account.HasElevatedAccess(account.RoleStaff, "ops@phantomtrack.example", allowList))
	assert.False(t, account.HasElevatedAccess("", "visitor@example.com", allowList))
}
