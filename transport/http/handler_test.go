package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/nakamauwu/hireloop/auth"
	"github.com/nakamauwu/hireloop/minio"
	"github.com/nakamauwu/hireloop/service"
	"github.com/nakamauwu/hireloop/types"
	"github.com/nicolasparada/go-errs"
)

const (
	testTokenKey = "supersecretkeyyoushouldnotcommit"
	testUserID   = "0f8fad5b-d9cb-469f-a165-70867728950e"
)

type fakeUsers struct {
	search func(in types.SearchContacts) []types.User
}

func (f fakeUsers) User(ctx context.Context, userID string) (types.User, error) {
	return types.User{}, errs.NotFoundError("user not found")
}

func (f fakeUsers) SearchUsers(ctx context.Context, in types.SearchContacts) ([]types.User, error) {
	return f.search(in), nil
}

type fakeStorage struct{}

func (fakeStorage) UploadMany(ctx context.Context, objects []minio.Object) ([]types.FileRef, error) {
	out := make([]types.FileRef, len(objects))
	for i, o := range objects {
		b, err := io.ReadAll(o.Reader)
		if err != nil {
			return nil, err
		}

		out[i] = types.FileRef{
			URL:      "https://files.example.com/" + o.Key,
			Name:     o.Name,
			MimeType: o.ContentType,
			Size:     int64(len(b)),
		}
	}
	return out, nil
}

func newTestHandler(t *testing.T) (*Handler, *auth.Codec) {
	t.Helper()

	tokens, err := auth.NewCodec(testTokenKey, 0)
	if err != nil {
		t.Fatal(err)
	}

	svc := service.New(&service.Config{
		Users: fakeUsers{search: func(in types.SearchContacts) []types.User {
			if in.Role != nil && *in.Role == types.RoleCandidate {
				return nil
			}
			return []types.User{{ID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Name: in.Query, Role: types.RoleRecruiter}}
		}},
		Storage:       fakeStorage{},
		MaxUploadSize: 1 << 10,
	})

	return &Handler{Service: svc, Tokens: tokens}, tokens
}

func bearer(t *testing.T, tokens *auth.Codec, role types.Role) string {
	t.Helper()

	token, err := tokens.Encode(auth.User{ID: testUserID, Role: role})
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func Test_err2code(t *testing.T) {
	tt := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{errBadRequest, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", errBadRequest), http.StatusBadRequest},
		{errs.InvalidArgumentError("nope"), http.StatusUnprocessableEntity},
		{errs.Unauthenticated, http.StatusUnauthorized},
		{auth.ErrExpiredToken, http.StatusUnauthorized},
		{service.ErrRoleCannotChat, http.StatusForbidden},
		{errs.NotFoundError("nope"), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tt {
		t.Run(fmt.Sprint(tc.err), func(t *testing.T) {
			if got := err2code(tc.err); got != tc.want {
				t.Errorf("want %d; got %d", tc.want, got)
			}
		})
	}
}

func TestHandler_auth(t *testing.T) {
	h, tokens := newTestHandler(t)

	other, err := auth.NewCodec("anothersecretkeyyoushouldnotuse!", 0)
	if err != nil {
		t.Fatal(err)
	}

	foreign, err := other.Encode(auth.User{ID: testUserID, Role: types.RoleCandidate})
	if err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		name          string
		authorization string
		want          int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"not_bearer", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"foreign_key", "Bearer " + foreign, http.StatusUnauthorized},
		{"admin", bearer(t, tokens, "admin"), http.StatusForbidden},
		{"candidate", bearer(t, tokens, types.RoleCandidate), http.StatusOK},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/contacts?q=ana", nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Errorf("want status %d; got %d: %s", tc.want, rec.Code, rec.Body)
			}
		})
	}
}

func TestHandler_searchContacts(t *testing.T) {
	h, tokens := newTestHandler(t)

	tt := []struct {
		name  string
		query string
		want  []types.User
	}{
		{"match", "?q=Bob", []types.User{{ID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Name: "Bob", Role: types.RoleRecruiter}}},
		{"filtered_out", "?q=Bob&role=candidate", []types.User{}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/contacts"+tc.query, nil)
			req.Header.Set("Authorization", bearer(t, tokens, types.RoleCandidate))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("want status 200; got %d: %s", rec.Code, rec.Body)
			}

			var got []types.User
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}

			if !reflect.DeepEqual(tc.want, got) {
				t.Errorf("want %+v; got %+v", tc.want, got)
			}
		})
	}
}

func TestHandler_badInput(t *testing.T) {
	h, tokens := newTestHandler(t)

	tt := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"malformed_json", http.MethodPost, "/api/conversations", "{", http.StatusBadRequest},
		{"self_conversation", http.MethodPost, "/api/conversations", `{"otherUserID":"` + testUserID + `"}`, http.StatusUnprocessableEntity},
		{"bad_limit", http.MethodGet, "/api/conversations?limit=many", "", http.StatusUnprocessableEntity},
		{"both_cursors", http.MethodGet, "/api/conversations/16fd2706-8baf-433b-82eb-8c7fada847da/messages?before=a&after=b", "", http.StatusUnprocessableEntity},
		{"empty_text", http.MethodPost, "/api/conversations/16fd2706-8baf-433b-82eb-8c7fada847da/messages", `{"text":"  "}`, http.StatusUnprocessableEntity},
		{"bad_status", http.MethodPatch, "/api/interviews/16fd2706-8baf-433b-82eb-8c7fada847da/status", `{"status":"postponed"}`, http.StatusUnprocessableEntity},
		{"unknown_route", http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			req.Header.Set("Authorization", bearer(t, tokens, types.RoleRecruiter))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Errorf("want status %d; got %d: %s", tc.want, rec.Code, rec.Body)
			}
		})
	}
}

func TestHandler_uploadFiles(t *testing.T) {
	h, tokens := newTestHandler(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range []string{"cv.pdf", "cover.txt"} {
		fw, err := mw.CreateFormFile("file", name)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := fw.Write([]byte("contents of " + name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearer(t, tokens, types.RoleCandidate))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("want status 201; got %d: %s", rec.Code, rec.Body)
	}

	var got []types.FileRef
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 {
		t.Fatalf("want 2 file refs; got %d", len(got))
	}

	for i, name := range []string{"cv.pdf", "cover.txt"} {
		if got[i].Name != name || got[i].Size != int64(len("contents of "+name)) {
			t.Errorf("unexpected file ref %+v", got[i])
		}

		if !strings.HasPrefix(got[i].URL, "https://files.example.com/chat/"+testUserID+"/") {
			t.Errorf("unexpected file url %q", got[i].URL)
		}
	}
}

func TestHandler_metrics(t *testing.T) {
	h, tokens := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts?q=ana", nil)
	req.Header.Set("Authorization", bearer(t, tokens, types.RoleCandidate))
	h.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("want status 200; got %d", rec.Code)
	}

	want := `hireloop_http_request_duration_seconds_count{code="200",method="GET",route="/api/contacts"} 1`
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("want %q in metrics:\n%s", want, rec.Body)
	}
}
