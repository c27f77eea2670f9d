package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"syscall"

	"github.com/nicolasparada/go-errs"
	"github.com/nicolasparada/go-errs/httperrs"
)

const defaultMaxUploadMemory = 8 << 20

var (
	errBadRequest  = errors.New("bad request")
	errNotFound    = errs.NotFoundError("not found")
	errInvalidForm = errs.InvalidArgumentError("invalid multipart form")
)

func (h *Handler) respond(w http.ResponseWriter, v any, statusCode int) {
	b, err := json.Marshal(v)
	if err != nil {
		h.respondErr(w, fmt.Errorf("could not json marshal http response body: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err = w.Write(b)
	if err != nil && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, context.Canceled) {
		_ = h.Logger.Log("err", fmt.Errorf("could not write down http response: %w", err))
	}
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	statusCode := err2code(err)
	if statusCode == http.StatusInternalServerError {
		if !errors.Is(err, context.Canceled) {
			_ = h.Logger.Log("err", err)
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Error(w, err.Error(), statusCode)
}

func err2code(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if errors.Is(err, errBadRequest) {
		return http.StatusBadRequest
	}

	return httperrs.Code(err)
}

func (h *Handler) decode(r *http.Request, v any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}

	return nil
}

func parseLimit(q url.Values) (uint, error) {
	if !q.Has("limit") {
		return 0, nil
	}

	limit, err := strconv.ParseUint(q.Get("limit"), 10, 64)
	if err != nil {
		return 0, errs.InvalidArgumentError("invalid limit")
	}

	return uint(limit), nil
}

func emptyStrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
