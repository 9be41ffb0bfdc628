package auth

import "github.com/google/uuid"

// Identity is the caller of an operation. The zero value is an anonymous
// caller.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// Anonymous is the identity of a request without valid credentials.
var Anonymous = Identity{}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != uuid.Nil
}

// IdentityFromClaims converts validated token claims. Claims carrying a
// malformed user id yield the anonymous identity.
func IdentityFromClaims(claims *Claims) Identity {
	if claims == nil {
		return Anonymous
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Anonymous
	}
	return Identity{UserID: userID, Email: claims.Email, Role: claims.Role}
}
