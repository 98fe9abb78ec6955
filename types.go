package goGate

import (
	"context"
	"io"

	internalaudit "github.com/MrEthical07/goGate/internal/audit"
	"github.com/MrEthical07/goGate/session"
)

/* ==================== AUDIT ALIASES ==================== */

// AuditEvent is one auditable coordinator action.
type AuditEvent = internalaudit.Event

// AuditSink receives audit events; implement it to ship events anywhere.
type AuditSink = internalaudit.Sink

// NoOpAuditSink discards every event.
type NoOpAuditSink = internalaudit.NoOpSink

// ChannelAuditSink forwards events to a buffered channel.
type ChannelAuditSink = internalaudit.ChannelSink

// JSONWriterAuditSink writes newline-delimited JSON events.
type JSONWriterAuditSink = internalaudit.JSONWriterSink

// NewChannelAuditSink returns a sink backed by a channel of the given buffer.
func NewChannelAuditSink(buffer int) *ChannelAuditSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterAuditSink returns a sink writing one JSON event per line to w.
func NewJSONWriterAuditSink(w io.Writer) *JSONWriterAuditSink {
	return internalaudit.NewJSONWriterSink(w)
}

/* ==================== COLLABORATORS ==================== */

// Navigator is the coordinator's view of the hosting context's location: the
// surface currently shown, plus the two ways the coordinator may move it.
// Implementations must tolerate calls from the synchronizer goroutine.
type Navigator interface {
	CurrentPath() string
	Navigate(Redirect)
	Reload()
}

// AuthProvider restores a session from the host's backing auth system. A
// (nil, nil) return means the provider has no live session for the identity.
type AuthProvider interface {
	RestoreSession(ctx context.Context, identityID string) (*session.Record, error)
}

// ChannelRequirement describes which contact channels the host demands
// verified before an identity counts as verified.
type ChannelRequirement struct {
	EmailRequired  bool
	MobileRequired bool
	EitherRequired bool
}

// VerificationStatus is the host's answer to "does this identity still need
// to verify a contact channel".
type VerificationStatus struct {
	NeedsVerification bool
	Channels          ChannelRequirement
}

// VerificationService reports whether an identity must complete contact
// verification before using gated surfaces.
type VerificationService interface {
	CheckVerificationStatus(ctx context.Context, id *Identity) (VerificationStatus, error)
}

// ContactDirectory resolves the contact value (email address, phone number)
// a verification redirect should carry. Lookups are best effort: a failure
// degrades the redirect's context, never the redirect itself.
type ContactDirectory interface {
	VerificationContact(ctx context.Context, identityID string) (string, error)
}
