package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/nakamauwu/hireloop/minio"
	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-errs"
)

const maxUploadFiles = 10

var (
	ErrNoFiles       = errs.InvalidArgumentError("no files")
	ErrTooManyFiles  = errs.InvalidArgumentError("too many files")
	errNoFileStorage = errors.New("file storage not configured")
)

// UploadFiles stores files to be shared in file messages
// and returns the references to embed in them.
func (svc *Service) UploadFiles(ctx context.Context, files []types.UploadFile) ([]types.FileRef, error) {
	caller, err := svc.caller(ctx)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	if len(files) > maxUploadFiles {
		return nil, ErrTooManyFiles
	}

	objects := make([]minio.Object, 0, len(files))
	for _, f := range files {
		if err := f.Validate(svc.MaxUploadSize); err != nil {
			return nil, err
		}

		f.SetLoggedInUserID(caller.ID)

		key, err := uploadKey(caller.ID, f.Name)
		if err != nil {
			return nil, err
		}

		objects = append(objects, minio.Object{
			Key:         key,
			Name:        f.Name,
			ContentType: f.ContentType,
			Size:        f.Size,
			Reader:      f.File,
		})
	}

	if svc.Storage == nil {
		return nil, errNoFileStorage
	}

	return svc.Storage.UploadMany(ctx, objects)
}

func uploadKey(userID, name string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("could not generate upload key: %w", err)
	}

	ext := strings.ToLower(path.Ext(name))
	return path.Join("chat", userID, id+ext), nil
}
