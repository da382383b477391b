package auth

import (
	"github.com/angelmondragon/ims-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	Role      enums.Role
	CatalogID *uuid.UUID
	JTI       string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	UserID    uuid.UUID  `json:"user_id"`
	Role      enums.Role `json:"role"`
	CatalogID *uuid.UUID `json:"catalog_id,omitempty"`
	jwt.RegisteredClaims
}

// Context converts validated claims into the identity handed to services.
func (c *AccessTokenClaims) Context() Context {
	return Context{UserID: c.UserID, Role: c.Role, CatalogID: c.CatalogID}
}
