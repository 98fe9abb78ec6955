package admintoken

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrMalformed is returned when a string fails the token grammar. Callers
// treat malformed identically to absent: the stored value is purged.
var ErrMalformed = errors.New("admin token malformed")

const tokenPrefix = "admin-session-"

// Token is the decoded form of the wire string
// "admin-session-<identityFragment>-<issuedAtEpochMillis>". The string shape
// is kept for storage compatibility; everything else in this module works on
// the decoded record. This file is the only place that parses or builds the
// string.
type Token struct {
	Identity string
	IssuedAt time.Time
}

// Age returns how long ago the token was issued. Negative when the token is
// future-dated by clock skew between contexts.
func (t Token) Age(now time.Time) time.Duration {
	return now.Sub(t.IssuedAt)
}

// Encode builds the wire string for a token.
func Encode(t Token) string {
	return tokenPrefix + t.Identity + "-" + strconv.FormatInt(t.IssuedAt.UnixMilli(), 10)
}

// Decode parses a wire string. The timestamp is cut at the last hyphen, so
// identity fragments containing hyphens survive a round trip without any
// escaping. The sentinel strings "null" and "undefined", which some writers
// store in place of a cleared value, decode as malformed.
func Decode(raw string) (Token, error) {
	if raw == "" || raw == "null" || raw == "undefined" {
		return Token{}, ErrMalformed
	}
	rest, ok := strings.CutPrefix(raw, tokenPrefix)
	if !ok {
		return Token{}, ErrMalformed
	}
	cut := strings.LastIndexByte(rest, '-')
	if cut <= 0 || cut == len(rest)-1 {
		return Token{}, ErrMalformed
	}
	identity, millis := rest[:cut], rest[cut+1:]
	for i := 0; i < len(millis); i++ {
		if millis[i] < '0' || millis[i] > '9' {
			return Token{}, ErrMalformed
		}
	}
	issuedMs, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return Token{}, ErrMalformed
	}
	return Token{
		Identity: identity,
		IssuedAt: time.UnixMilli(issuedMs),
	}, nil
}
