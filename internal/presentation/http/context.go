package httptransport

import "context"

type cartIDKey struct{}

func withCartID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cartIDKey{}, id)
}

func cartIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(cartIDKey{}).(string); ok {
		return id
	}
	return ""
}
