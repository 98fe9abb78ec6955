package admintoken

import "testing"

// The token string arrives from shared storage where any context (or an
// operator poking at it) may have written anything. Decode must never panic,
// and whatever it accepts must re-encode to an equivalent token.
func FuzzDecode(f *testing.F) {
	f.Add("admin-session-a1-1700000000000")
	f.Add("admin-session-one-two-1700000000000")
	f.Add("admin-session--1700000000000")
	f.Add("null")
	f.Add("undefined")
	f.Add("")
	f.Add("admin-session-a1-")
	f.Add("admin-session-a1-0009")

	f.Fuzz(func(t *testing.T, raw string) {
		tok, err := Decode(raw)
		if err != nil {
			return
		}
		if tok.Identity == "" {
			t.Fatalf("accepted token with empty identity from %q", raw)
		}
		again, err := Decode(Encode(tok))
		if err != nil {
			t.Fatalf("re-decode of accepted token failed: %v", err)
		}
		if again.Identity != tok.Identity || again.IssuedAt.UnixMilli() != tok.IssuedAt.UnixMilli() {
			t.Fatalf("round-trip mismatch: %+v vs %+v", tok, again)
		}
	})
}
