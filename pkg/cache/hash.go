package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// TableKeyOpts are the render options that change a table's bytes.
type TableKeyOpts struct {
	Format  string `json:"format"`  // input format the table was loaded from
	Version string `json:"version"` // build that rendered the table
}

// Keyer builds cache keys.
type Keyer interface {
	// TableKey returns the key of a rendered table for the given input hash.
	TableKey(inputHash string, opts TableKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TableKey returns "tbl:<sha256(inputHash, opts)>".
func (DefaultKeyer) TableKey(inputHash string, opts TableKeyOpts) string {
	return hashKey("tbl", inputHash, opts)
}
