// Package identity derives opaque client identifiers. Raw identifiers
// (user headers, peer addresses) are never stored or logged; everything
// downstream sees only a salted hash.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
)

// HeaderUserID is the optional caller-supplied identifier header.
const HeaderUserID = "X-User-Id"

// HashedID returns the salted SHA-256 of raw, truncated to 16 hex characters.
func HashedID(raw, salt string) string {
	sum := sha256.Sum256([]byte(raw + "|" + salt))
	return hex.EncodeToString(sum[:])[:16]
}

// FromRequest derives the hashed client identity for an HTTP request: the
// X-User-Id header when present, otherwise the connection peer host.
func FromRequest(r *http.Request, salt string) string {
	raw := r.Header.Get(HeaderUserID)
	if raw == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if host == "" {
			host = "anon"
		}
		raw = host
	}
	return HashedID(raw, salt)
}
