package justify

import "context"

// ChatCompleter produces one reply for a system+user prompt pair.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
