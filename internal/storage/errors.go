package storage

import "errors"

// ErrConflict reports a retryable write conflict (serialization failure or
// deadlock detected by the backend). The ledger engine retries a bounded
// number of times before surfacing an internal error.
var ErrConflict = errors.New("storage: write conflict")
