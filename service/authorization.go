package service

import (
	"context"

	"github.com/nakamauwu/hireloop/auth"
	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-errs"
)

var ErrRoleCannotChat = errs.PermissionDeniedError("role cannot take part in conversations")

// caller is the authenticated user of the request.
// Only candidates and recruiters may use messaging.
func (svc *Service) caller(ctx context.Context) (auth.User, error) {
	u, ok := auth.UserFromContext(ctx)
	u.ID = types.NormalizeID(u.ID)
	if !ok || u.ID == "" {
		return u, errs.Unauthenticated
	}

	if !u.Role.CanChat() {
		return u, ErrRoleCannotChat
	}

	return u, nil
}
