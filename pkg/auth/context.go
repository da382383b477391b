package auth

import (
	"github.com/angelmondragon/ims-backend/pkg/enums"
	"github.com/google/uuid"
)

// Context is the resolved identity of the caller. Services receive it
// explicitly rather than reading request state.
type Context struct {
	UserID    uuid.UUID
	Role      enums.Role
	CatalogID *uuid.UUID
}

func (c Context) IsAdmin() bool {
	return c.Role == enums.RoleAdmin
}

// CanActFor reports whether the caller may read or mutate data owned by userID.
func (c Context) CanActFor(userID uuid.UUID) bool {
	if c.UserID == uuid.Nil {
		return false
	}
	return c.IsAdmin() || c.UserID == userID
}

// HasRole reports whether the caller holds any of the given roles.
func (c Context) HasRole(roles ...enums.Role) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}
