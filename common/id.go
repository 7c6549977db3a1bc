package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"

// NewID produces a deterministic 32-byte identifier from concatenation of
// the passed parts.
func NewID(parts ...[]byte) []byte {
	var data []byte
	for i := range parts {
		data = append(data, parts[i]...)
	}

	return crypto.Sha256(data)
}
