package session

import "time"

// Record is the durable representation of one authenticated identity in one
// session slot: the opaque claims payload issued by the authentication
// provider, and the absolute expiry of the session.
//
// ExpiresAt (epoch seconds) is the sole authority for validity. Claims may
// embed its own timestamps; none of them override ExpiresAt.
type Record struct {
	Claims    string
	ExpiresAt int64
}

// ExpiryTime returns ExpiresAt as a time.Time.
func (r *Record) ExpiryTime() time.Time {
	return time.Unix(r.ExpiresAt, 0)
}
