package session

import "context"

type ctxKey struct{}

// InterviewID returns the id of the hosted interview a hook or generator call
// runs for. Engines driven by a Manager always see it.
func InterviewID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

func withInterviewID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}
