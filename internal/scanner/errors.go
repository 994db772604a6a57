package scanner

import "github.com/pkg/errors"

// ErrCycleAborted marks a cycle that did not complete; nothing is published.
var ErrCycleAborted = errors.New("scan cycle aborted")

// ErrMissingCredential is recorded on write checks skipped because the
// beacon account or the key the check needs is not configured.
var ErrMissingCredential = errors.New("credential not configured")
