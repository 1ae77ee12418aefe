package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/dairy-collection/internal/auth"
	"github.com/iliyamo/dairy-collection/internal/model"
)

func TestVisibilityScopeAdminSeesEverything(t *testing.T) {
	clause, args := visibilityScope(auth.Actor{UserID: 1, Role: model.RoleAdmin})
	assert.Equal(t, "1=1", clause)
	assert.Empty(t, args)
}

func TestVisibilityScopeSupplierPinnedToOwnLink(t *testing.T) {
	clause, args := visibilityScope(auth.Actor{UserID: 42, Role: model.RoleSupplier})
	assert.Equal(t, "s.user_id = ?", clause)
	assert.Equal(t, []any{uint64(42)}, args)
}

func TestVisibilityScopeUnknownRoleSeesNothing(t *testing.T) {
	clause, args := visibilityScope(auth.Actor{UserID: 7, Role: "AUDITOR"})
	assert.Equal(t, "1=0", clause)
	assert.Empty(t, args)

	clause, _ = visibilityScope(auth.Actor{})
	assert.Equal(t, "1=0", clause)
}
