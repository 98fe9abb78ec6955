package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is returned when the backing Redis store cannot be
// reached or answers with a transport-level failure.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrNoRecord is returned when a session slot holds no record.
var ErrNoRecord = errors.New("session record not found")

// Store is a Redis-backed view of one origin's session key space. Each
// concurrently active context creates its own Store handle with a distinct
// origin id; the handle announces every effective mutation on the origin's
// event channel so sibling handles can react.
//
// Writes are last-writer-wins. The Store never locks: consistency across
// contexts is the Coordinator's job, driven by the events this Store emits.
//
//	Docs: docs/session.md
type Store struct {
	rdb    redis.UniversalClient
	prefix string
	origin string
}

// NewStore creates a [Store] over the given Redis client. prefix namespaces
// the physical keys (all contexts of one origin must share it); origin
// identifies this handle in emitted events and must be unique per context.
func NewStore(rdb redis.UniversalClient, prefix, origin string) *Store {
	return &Store{
		rdb:    rdb,
		prefix: prefix,
		origin: origin,
	}
}

// Origin returns the id this handle stamps on its emitted events.
func (s *Store) Origin() string {
	return s.origin
}

func (s *Store) key(logical string) string {
	return s.prefix + ":" + logical
}

func (s *Store) channel() string {
	return s.prefix + ":" + eventsChannel
}

// get reads a logical key. An absent key and an empty value are equivalent:
// both mean "nothing stored".
func (s *Store) get(ctx context.Context, logical string) (string, error) {
	val, err := s.rdb.Get(ctx, s.key(logical)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return val, nil
}

// set writes a logical key and announces the change. A write that leaves the
// value unchanged emits no event, matching the storage-event semantics the
// Coordinator's reactions are specified against. ttl <= 0 stores without
// expiry.
//
//	Performance: 1 Redis GET + 1 transactional SET/PUBLISH pair.
func (s *Store) set(ctx context.Context, logical, value string, ttl time.Duration) error {
	old, err := s.get(ctx, logical)
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if ttl > 0 {
			pipe.Set(ctx, s.key(logical), value, ttl)
		} else {
			pipe.Set(ctx, s.key(logical), value, 0)
		}
		if old != value {
			pipe.Publish(ctx, s.channel(), s.eventPayload(logical, old, value))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// clear deletes a logical key and announces the change. Clearing a key that
// holds nothing is a no-op and emits no event.
func (s *Store) clear(ctx context.Context, logical string) error {
	old, err := s.get(ctx, logical)
	if err != nil {
		return err
	}
	if old == "" {
		return nil
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(logical))
		pipe.Publish(ctx, s.channel(), s.eventPayload(logical, old, ""))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (s *Store) eventPayload(logical, old, value string) string {
	data, err := json.Marshal(Event{
		Origin:   s.origin,
		Key:      logical,
		OldValue: old,
		NewValue: value,
	})
	if err != nil {
		// Event fields are plain strings; Marshal cannot fail on them.
		return ""
	}
	return string(data)
}

// SaveSession writes a [Record] into the identity's session slot. The slot's
// Redis TTL mirrors the record expiry when it lies in the future; validity
// itself is always judged from the record, never from key presence.
func (s *Store) SaveSession(ctx context.Context, identityID string, rec *Record) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if remaining := time.Until(rec.ExpiryTime()); remaining > 0 {
		ttl = remaining
	}
	return s.set(ctx, SessionKey(identityID), data, ttl)
}

// LoadSession reads the identity's session slot. Returns [ErrNoRecord] when
// the slot is empty.
//
//	Performance: 1 Redis GET.
func (s *Store) LoadSession(ctx context.Context, identityID string) (*Record, error) {
	raw, err := s.get(ctx, SessionKey(identityID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrNoRecord
	}
	return Decode(raw)
}

// ClearSession empties the identity's session slot.
func (s *Store) ClearSession(ctx context.Context, identityID string) error {
	return s.clear(ctx, SessionKey(identityID))
}

// CurrentIdentity reads the current-identity pointer; "" when unset.
func (s *Store) CurrentIdentity(ctx context.Context) (string, error) {
	return s.get(ctx, CurrentIdentityKey)
}

// SetCurrentIdentity points the origin's active slot at the given identity.
func (s *Store) SetCurrentIdentity(ctx context.Context, identityID string) error {
	return s.set(ctx, CurrentIdentityKey, identityID, 0)
}

// ClearCurrentIdentity unsets the current-identity pointer.
func (s *Store) ClearCurrentIdentity(ctx context.Context) error {
	return s.clear(ctx, CurrentIdentityKey)
}

// AdminToken reads the raw admin credential string; "" when unset. The Store
// does not parse it.
func (s *Store) AdminToken(ctx context.Context) (string, error) {
	return s.get(ctx, AdminTokenKey)
}

// SetAdminToken stores a raw admin credential string.
func (s *Store) SetAdminToken(ctx context.Context, raw string) error {
	return s.set(ctx, AdminTokenKey, raw, 0)
}

// ClearAdminToken removes the admin credential.
func (s *Store) ClearAdminToken(ctx context.Context) error {
	return s.clear(ctx, AdminTokenKey)
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
