package cache

// ScopedKeyer wraps a Keyer with a prefix so several hosts can share one
// backend without colliding.
//
// Example usage:
//
//	// Frames of one serve instance
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "linegraph:serve:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FrameKey generates a prefixed frame key.
func (k *ScopedKeyer) FrameKey(scriptHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(scriptHash, opts)
}

// SessionFrameKey generates a prefixed session frame key.
func (k *ScopedKeyer) SessionFrameKey(sessionID string, seq int) string {
	return k.prefix + k.inner.SessionFrameKey(sessionID, seq)
}
