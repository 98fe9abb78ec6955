package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorruptRecord is returned when a stored session slot cannot be decoded.
var ErrCorruptRecord = errors.New("session record corrupt")

// ErrUnsupportedSchema is returned when a stored session slot carries a
// schema version this build does not understand.
var ErrUnsupportedSchema = errors.New("unsupported session schema version")

// Storage values must stay plain strings, so records travel as a small JSON
// envelope. The envelope is append-only: new versions add fields but never
// reinterpret old ones.
const schemaVersion = 1

type recordEnvelope struct {
	Version   int    `json:"v"`
	Claims    string `json:"claims"`
	ExpiresAt int64  `json:"exp"`
}

// Encode serializes a [Record] into its storage string.
func Encode(rec *Record) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("%w: nil record", ErrCorruptRecord)
	}
	data, err := json.Marshal(recordEnvelope{
		Version:   schemaVersion,
		Claims:    rec.Claims,
		ExpiresAt: rec.ExpiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return string(data), nil
}

// Decode parses a storage string back into a [Record]. Unknown envelope
// fields are ignored so newer writers stay readable; an unknown version is
// rejected rather than guessed at.
func Decode(raw string) (*Record, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty value", ErrCorruptRecord)
	}
	var env recordEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if env.Version != schemaVersion {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedSchema, env.Version)
	}
	if env.ExpiresAt < 0 {
		return nil, fmt.Errorf("%w: negative expiry", ErrCorruptRecord)
	}
	return &Record{Claims: env.Claims, ExpiresAt: env.ExpiresAt}, nil
}
