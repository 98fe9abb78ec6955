package goGate

import "context"

type requestPathKey struct{}

// WithRequestPath attaches the surface path a coordinator call is serving, so
// audit events emitted during that call are attributed to it. When absent,
// events fall back to the navigator's current path.
func WithRequestPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, requestPathKey{}, path)
}

func requestPathFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestPathKey{}).(string); ok {
		return v
	}
	return ""
}
