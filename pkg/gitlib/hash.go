// Package gitlib is a thin wrapper over libgit2 exposing just the read-only
// operations the revision source needs: opening a repository, walking a
// commit range, diffing trees for per-file churn and listing snapshot files.
package gitlib

import (
	git2go "github.com/libgit2/git2go/v34"
)

// HashSize is the size of a SHA-1 hash in bytes.
const HashSize = 20

// hexBase is the value of the hex digit 'a'; hexShift selects the high nibble.
const (
	hexBase  = 10
	hexShift = 4
)

// Hash represents a git object hash (SHA-1).
type Hash [HashSize]byte

// NewHash creates a Hash from a hex string.
func NewHash(hexStr string) Hash {
	var hash Hash

	for i := 0; i < HashSize && i*2+1 < len(hexStr); i++ {
		c1, c2 := hexStr[i*2], hexStr[i*2+1]
		hash[i] = hexCharToNibble(c1)<<hexShift | hexCharToNibble(c2)
	}

	return hash
}

func hexCharToNibble(char byte) byte {
	switch {
	case char >= '0' && char <= '9':
		return char - '0'
	case char >= 'a' && char <= 'f':
		return char - 'a' + hexBase
	case char >= 'A' && char <= 'F':
		return char - 'A' + hexBase
	default:
		return 0
	}
}

// HashFromOid converts a libgit2 Oid to a Hash.
func HashFromOid(oid *git2go.Oid) Hash {
	var hash Hash

	copy(hash[:], oid[:])

	return hash
}

// ToOid converts the Hash to a libgit2 Oid.
func (h Hash) ToOid() *git2go.Oid {
	oid := new(git2go.Oid)

	copy(oid[:], h[:])

	return oid
}

// String returns the hex representation of the hash.
func (h Hash) String() string {
	const hexDigits = "0123456789abcdef"

	out := make([]byte, HashSize*2)
	for i, b := range h {
		out[i*2] = hexDigits[b>>hexShift]
		out[i*2+1] = hexDigits[b&0x0f]
	}

	return string(out)
}

// IsZero reports whether the hash is the zero value.
func (h Hash) IsZero() bool {
	return h == Hash{}
}
