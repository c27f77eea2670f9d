package service

import (
	"context"

	"github.com/nakamauwu/hireloop/types"
)

// SearchContacts the caller can start a conversation with.
func (svc *Service) SearchContacts(ctx context.Context, in types.SearchContacts) ([]types.User, error) {
	caller, err := svc.caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	in.SetLoggedInUserID(caller.ID)

	out, err := svc.Users.SearchUsers(ctx, in)
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = []types.User{}
	}

	return out, nil
}
