package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleSupervisor))
	assert.True(t, ValidRole(RoleOperator))
	assert.False(t, ValidRole("manager"))
	assert.False(t, ValidRole(""))
}

func TestRole_CanEvaluate(t *testing.T) {
	assert.True(t, RoleAdmin.CanEvaluate())
	assert.True(t, RoleSupervisor.CanEvaluate())
	assert.False(t, RoleOperator.CanEvaluate())
}
