package types

import (
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/nakamauwu/hireloop/validator"
)

// UploadFile is a raw file shared in a conversation before it is referenced by a file message.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	File        io.Reader

	loggedInUserID string
}

func (in *UploadFile) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in UploadFile) LoggedInUserID() string {
	return in.loggedInUserID
}

// Validate checks the upload against maxSize bytes.
func (in *UploadFile) Validate(maxSize int64) error {
	v := validator.New()

	in.Name = strings.TrimSpace(path.Base(strings.ReplaceAll(in.Name, "\\", "/")))
	if in.Name == "." || in.Name == "/" {
		in.Name = ""
	}
	in.ContentType = strings.TrimSpace(in.ContentType)
	if in.ContentType == "" {
		in.ContentType = "application/octet-stream"
	}

	v.Check(in.File != nil, "File", "File is required")
	v.Check(in.Name != "", "Name", "File name is required")
	v.Check(utf8.RuneCountInString(in.Name) <= maxFileNameLength, "Name", "File name is too long")
	v.Check(in.Size > 0, "Size", "File is empty")
	v.Check(maxSize <= 0 || in.Size <= maxSize, "Size", "File is too large")

	return v.AsError()
}
