package model

import "time"

// AccessCode is a shared invite code.
type AccessCode struct {
	Code      string
	Issuer    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the code is past its expiry at now.
func (c AccessCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// VerifyResult is the outcome of redeeming an access code.
type VerifyResult int

const (
	VerifyInvalid VerifyResult = iota
	VerifyExpired
	VerifyAuthorized
)

func (r VerifyResult) String() string {
	switch r {
	case VerifyAuthorized:
		return "authorized"
	case VerifyExpired:
		return "expired"
	default:
		return "invalid"
	}
}
