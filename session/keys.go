package session

import "strings"

// Logical key names within one origin's key space. The [Store] maps them to
// physical Redis keys under its configured prefix; events carry the logical
// name so subscribers never see the prefix.
const (
	// CurrentIdentityKey points at the identity slot that is active in this
	// origin. It exists for cross-context signaling; within one context the
	// Coordinator's in-memory identity is the primary read path.
	CurrentIdentityKey = "current-identity"

	// AdminTokenKey holds the raw sliding-expiry credential string for the
	// privileged operating mode.
	AdminTokenKey = "admin-token"

	sessionKeyPrefix = "session-"
	eventsChannel    = "events"
)

// SessionKey returns the logical slot key for an identity, e.g. "session-u1".
func SessionKey(identityID string) string {
	return sessionKeyPrefix + identityID
}

// IsSessionKey reports whether a logical key names a session slot.
func IsSessionKey(key string) bool {
	return strings.HasPrefix(key, sessionKeyPrefix)
}

// IdentityFromSessionKey extracts the identity id from a slot key. The second
// return is false when the key is not a session slot.
func IdentityFromSessionKey(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, sessionKeyPrefix)
	if !ok {
		return "", false
	}
	return id, true
}
