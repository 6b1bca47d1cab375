package referee

import "context"

type ctxKey struct{}

// WithMode marks the context as carrying referee privileges.
func WithMode(ctx context.Context, on bool) context.Context {
	if !on {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, true)
}

// FromContext reports whether the context carries referee privileges.
func FromContext(ctx context.Context) bool {
	on, _ := ctx.Value(ctxKey{}).(bool)
	return on
}
