package http

import (
	"net/http"

	"github.com/nakamauwu/hireloop/types"
)

func (h *Handler) uploadFiles(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := r.ParseMultipartForm(h.MaxUploadMemory); err != nil {
		h.respondErr(w, errInvalidForm)
		return
	}

	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	files := make([]types.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.respondErr(w, err)
			return
		}

		defer f.Close()

		files = append(files, types.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			File:        f,
		})
	}

	ctx := r.Context()
	out, err := h.Service.UploadFiles(ctx, files)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}
