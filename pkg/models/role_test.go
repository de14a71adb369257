package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupRole(t *testing.T) {
	t.Parallel()

	assistant, ok := LookupRole(RoleCastingAssistant)
	require.True(t, ok)
	assert.True(t, assistant.HasPermission(PermissionGetActors))
	assert.True(t, assistant.HasPermission(PermissionGetMovies))
	assert.False(t, assistant.HasPermission(PermissionPostActors))

	director, ok := LookupRole(RoleCastingDirector)
	require.True(t, ok)
	assert.True(t, director.HasPermission(PermissionDeleteActors))
	assert.True(t, director.HasPermission(PermissionPatchMovies))
	assert.False(t, director.HasPermission(PermissionPostMovies))
	assert.False(t, director.HasPermission(PermissionDeleteMovies))

	producer, ok := LookupRole(RoleExecutiveProducer)
	require.True(t, ok)
	for _, p := range AllPermissions() {
		assert.True(t, producer.HasPermission(p), p)
	}

	_, ok = LookupRole("stunt-double")
	assert.False(t, ok)
}

func TestRoleNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{RoleCastingAssistant, RoleCastingDirector, RoleExecutiveProducer}, RoleNames())
}
