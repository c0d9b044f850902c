package ehparse

import "context"

// ResultStore persists encoded results. Saved results become visible only
// after Commit; Abort discards them.
type ResultStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Commit() error
	Abort() error
}
