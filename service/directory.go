package service

import (
	"context"

	"github.com/nakamauwu/hireloop/minio"
	"github.com/nakamauwu/hireloop/types"
)

//go:generate go tool moq -out mocks_test.go . UserDirectory JobDirectory FileStorage

// UserDirectory resolves users by ID and searches chat eligible contacts.
// It returns a not found error for unknown users.
type UserDirectory interface {
	User(ctx context.Context, userID string) (types.User, error)
	SearchUsers(ctx context.Context, in types.SearchContacts) ([]types.User, error)
}

type JobDirectory interface {
	Job(ctx context.Context, jobID string) (types.Job, error)
}

type FileStorage interface {
	UploadMany(ctx context.Context, objects []minio.Object) ([]types.FileRef, error)
}
