package session

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// FromContext extracts the session from context, or nil when the request
// did not pass through the session middleware.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// MustFromContext returns the request session and panics when there is none.
// Handlers mounted behind the session middleware use this so a wiring
// mistake shows up immediately instead of as a silent logged-out state.
func MustFromContext(ctx context.Context) *Session {
	sess := FromContext(ctx)
	if sess == nil {
		panic("session: handler mounted outside the session middleware")
	}
	return sess
}

// TokenFromContext returns the API token held by the request session, or ""
// when the request is unauthenticated or carries no session.
func TokenFromContext(ctx context.Context) string {
	if sess := FromContext(ctx); sess != nil {
		return sess.Token()
	}
	return ""
}
