package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleManager, RoleStaff, RoleViewer} {
		assert.True(t, IsValidRole(role))
	}
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
}

func TestUpdateStaffRequestFields(t *testing.T) {
	inactive := false
	req := UpdateStaffRequest{FullName: "Jo", IsActive: &inactive}
	fields := req.Fields()

	assert.Equal(t, map[string]interface{}{
		"full_name": "Jo",
		"is_active": false,
	}, fields)

	assert.Empty(t, UpdateStaffRequest{}.Fields())
}
