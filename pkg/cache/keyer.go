package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the hex SHA-256 of data. Scripts and configurations are
// identified by it in frame keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Keyer derives cache keys for frame artifacts.
type Keyer interface {
	// FrameKey identifies one frame of a scripted run.
	FrameKey(scriptHash string, opts FrameKeyOpts) string

	// SessionFrameKey identifies a presented frame of an HTTP host session.
	SessionFrameKey(sessionID string, seq int) string
}

// FrameKeyOpts holds the output options that change a frame's bytes.
type FrameKeyOpts struct {
	Frame   int     `json:"frame"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Format  string  `json:"format"`
	Scale   float64 `json:"scale"`
	Quality int     `json:"quality,omitempty"`
	Config  string  `json:"config"` // hash of the effective configuration
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FrameKey returns "frame:<sha256>" over the script hash and options.
func (DefaultKeyer) FrameKey(scriptHash string, opts FrameKeyOpts) string {
	// FrameKeyOpts has only plain fields; Marshal cannot fail.
	data, _ := json.Marshal(struct {
		Script string       `json:"script"`
		Opts   FrameKeyOpts `json:"opts"`
	}{scriptHash, opts})
	return "frame:" + Hash(data)
}

// SessionFrameKey returns "session:<id>:frame:<seq>".
func (DefaultKeyer) SessionFrameKey(sessionID string, seq int) string {
	return fmt.Sprintf("session:%s:frame:%d", sessionID, seq)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
