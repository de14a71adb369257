package models

import "sort"

// Permission strings carried in the token's "permissions" claim. They follow
// the issuer's "<verb>:<resource>" convention.
const (
	PermissionGetActors    = "get:actors"
	PermissionPostActors   = "post:actors"
	PermissionPatchActors  = "patch:actors"
	PermissionDeleteActors = "delete:actors"
	PermissionGetMovies    = "get:movies"
	PermissionPostMovies   = "post:movies"
	PermissionPatchMovies  = "patch:movies"
	PermissionDeleteMovies = "delete:movies"
)

// Predefined role names. Roles live in the token issuer; these mirror how it
// is configured so that development tokens can be minted per role.
const (
	RoleCastingAssistant  = "casting-assistant"
	RoleCastingDirector   = "casting-director"
	RoleExecutiveProducer = "executive-producer"
)

type Role struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

var roles = map[string]*Role{
	RoleCastingAssistant: {
		Name: RoleCastingAssistant,
		Permissions: []string{
			PermissionGetActors,
			PermissionGetMovies,
		},
	},
	RoleCastingDirector: {
		Name: RoleCastingDirector,
		Permissions: []string{
			PermissionGetActors,
			PermissionPostActors,
			PermissionPatchActors,
			PermissionDeleteActors,
			PermissionGetMovies,
			PermissionPatchMovies,
		},
	},
	RoleExecutiveProducer: {
		Name:        RoleExecutiveProducer,
		Permissions: AllPermissions(),
	},
}

// AllPermissions returns every permission the API checks.
func AllPermissions() []string {
	return []string{
		PermissionGetActors,
		PermissionPostActors,
		PermissionPatchActors,
		PermissionDeleteActors,
		PermissionGetMovies,
		PermissionPostMovies,
		PermissionPatchMovies,
		PermissionDeleteMovies,
	}
}

// LookupRole returns the predefined role with the given name.
func LookupRole(name string) (*Role, bool) {
	r, ok := roles[name]
	return r, ok
}

// RoleNames returns the predefined role names in sorted order.
func RoleNames() []string {
	names := make([]string, 0, len(roles))
	for name := range roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPermission checks if the role grants a specific permission.
func (r *Role) HasPermission(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
