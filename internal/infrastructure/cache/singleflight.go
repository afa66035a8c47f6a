package cache

import (
	"golang.org/x/sync/singleflight"
)

// Coordinator is the process-wide in-flight registry of §5: "for a given
// fingerprint, at most one LLM call is outstanding at any moment." A
// cancelled follower does not cancel the leader; singleflight.Group
// already implements exactly that semantics, keyed internally by the
// fingerprint string.
type Coordinator struct {
	group singleflight.Group
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Do runs fn for fingerprint, or waits for and shares the result of an
// already-in-flight call for the same fingerprint. The returned shared
// bool reports whether the result was given to more than one caller; it
// is true for the leader as well as its followers.
func (c *Coordinator) Do(fingerprint string, fn func() (interface{}, error)) (interface{}, error, bool) {
	v, err, shared := c.group.Do(fingerprint, fn)
	return v, err, shared
}

// Forget evicts a fingerprint's in-flight entry, so a later call for it
// starts a new leader instead of joining the current one. Completed
// calls are already removed by singleflight.Group itself.
func (c *Coordinator) Forget(fingerprint string) {
	c.group.Forget(fingerprint)
}
