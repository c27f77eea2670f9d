package auth

import (
	"context"

	"github.com/nakamauwu/hireloop/types"
)

var ctxKeyUser = struct{ name string }{name: "ctx-key-user"}

// User is the caller identity trusted verbatim by every operation.
type User struct {
	ID   string     `json:"id"`
	Role types.Role `json:"role"`
}

func ContextWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(ctxKeyUser).(User)
	return user, ok && user.ID != ""
}
