package goGate

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// UserType partitions identities into the kinds the route guard understands.
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeProvider UserType = "provider"
	UserTypeAdmin    UserType = "admin"
)

// Identity is the decoded view of a session record's claims blob. It is
// threaded explicitly through guard decisions and synchronizer reactions;
// nothing in this module reads identity out of ambient global state.
type Identity struct {
	ID                   string
	Type                 UserType
	Email                string
	Mobile               string
	HasActiveEntitlement bool
}

// identityClaims is the wire shape of the claims blob. The blob is a JWT
// minted by the host's auth provider; this module never verifies its
// signature — record expiry, not token expiry, decides session validity.
type identityClaims struct {
	UID      string `json:"uid"`
	UType    string `json:"utype"`
	Email    string `json:"email,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	Entitled bool   `json:"ent,omitempty"`
	jwt.RegisteredClaims
}

// DecodeIdentity extracts the identity carried in a session record's claims
// blob. Falls back to the registered subject when no uid claim is present.
func DecodeIdentity(claims string) (*Identity, error) {
	if claims == "" {
		return nil, fmt.Errorf("%w: empty claims", ErrClaimsUnreadable)
	}

	var ic identityClaims
	if _, _, err := jwt.NewParser().ParseUnverified(claims, &ic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClaimsUnreadable, err)
	}

	id := ic.UID
	if id == "" {
		id = ic.Subject
	}
	if id == "" {
		return nil, fmt.Errorf("%w: no uid or subject claim", ErrClaimsUnreadable)
	}

	return &Identity{
		ID:                   id,
		Type:                 UserType(ic.UType),
		Email:                ic.Email,
		Mobile:               ic.Mobile,
		HasActiveEntitlement: ic.Entitled,
	}, nil
}
