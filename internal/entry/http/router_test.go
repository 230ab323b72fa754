package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authservice "github.com/dlcaspar/apt-journal/backend/internal/auth/service"
	"github.com/dlcaspar/apt-journal/backend/internal/common/db"
	"github.com/dlcaspar/apt-journal/backend/internal/common/jwtverify"
	"github.com/dlcaspar/apt-journal/backend/internal/common/logger"
	"github.com/dlcaspar/apt-journal/backend/internal/entry/domain"
	entryhttp "github.com/dlcaspar/apt-journal/backend/internal/entry/http"
	"github.com/dlcaspar/apt-journal/backend/internal/entry/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type errorEnvelope struct {
	Code    int          `json:"code"`
	Msg     string       `json:"msg"`
	Details []fieldError `json:"details"`
}

type fieldError struct {
	Location string `json:"location"`
	Msg      string `json:"msg"`
	Param    string `json:"param"`
}

type entryBody struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type indexBody struct {
	Count   int    `json:"count"`
	User    string `json:"user"`
	Entries []struct {
		ID        int64     `json:"id"`
		Title     string    `json:"title"`
		UpdatedAt time.Time `json:"updatedAt"`
	} `json:"entries"`
}

func setupEntryHandler(t *testing.T, users *mockUserRepo, entries *mockEntryRepo) http.Handler {
	t.Helper()
	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := service.NewService(&mockTxManager{}, users, entries, log)
	auth := jwtverify.Middleware(testSecret, log)
	return entryhttp.NewHandler(svc, auth, 5*time.Second, log)
}

func issueToken(t *testing.T, username string) string {
	t.Helper()
	token, err := authservice.NewTokenIssuer(testSecret, time.Hour).IssueToken(username)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, body io.Reader) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestEntriesHTTP_NoToken(t *testing.T) {
	h := setupEntryHandler(t, &mockUserRepo{}, &mockEntryRepo{})

	rec := doRequest(t, h, http.MethodGet, "/entries", "", nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	if env.Msg != "Invalid token" {
		t.Errorf("unexpected msg: %s", env.Msg)
	}
}

func TestEntriesHTTP_TamperedToken(t *testing.T) {
	h := setupEntryHandler(t, &mockUserRepo{}, &mockEntryRepo{})

	token := issueToken(t, "alice") + "x"
	rec := doRequest(t, h, http.MethodGet, "/entries", token, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestEntriesHTTP_List(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := &mockEntryRepo{
		listByOwnerFunc: func(_ context.Context, _ db.Querier, username string) ([]domain.Summary, error) {
			return []domain.Summary{
				{ID: 1, Title: "first", UpdatedAt: now},
				{ID: 2, Title: "second", UpdatedAt: now},
			}, nil
		},
	}
	h := setupEntryHandler(t, &mockUserRepo{}, entries)

	rec := doRequest(t, h, http.MethodGet, "/entries", issueToken(t, "alice"), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var idx indexBody
	if err := json.NewDecoder(rec.Body).Decode(&idx); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if idx.Count != 2 || idx.User != "alice" {
		t.Errorf("unexpected index: %+v", idx)
	}
	if len(idx.Entries) != 2 || idx.Entries[0].ID != 1 || idx.Entries[0].Title != "first" {
		t.Errorf("unexpected entries: %+v", idx.Entries)
	}
}

func TestEntriesHTTP_List_EmptyArray(t *testing.T) {
	h := setupEntryHandler(t, &mockUserRepo{}, &mockEntryRepo{})

	rec := doRequest(t, h, http.MethodGet, "/entries", issueToken(t, "alice"), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if string(raw["entries"]) != "[]" {
		t.Errorf("expected entries to be [], got %s", raw["entries"])
	}
}

func TestEntriesHTTP_List_ExpiredUser(t *testing.T) {
	users := &mockUserRepo{
		existsFunc: func(_ context.Context, _ db.Querier, _ string) (bool, error) {
			return false, nil
		},
	}
	h := setupEntryHandler(t, users, &mockEntryRepo{})

	rec := doRequest(t, h, http.MethodGet, "/entries", issueToken(t, "ghost"), nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	if env.Msg != "Current user does not exist" {
		t.Errorf("unexpected msg: %s", env.Msg)
	}
}

func TestEntriesHTTP_Create(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := &mockEntryRepo{
		insertFunc: func(_ context.Context, _ db.Querier, username, title, content string) (domain.Entry, error) {
			return domain.Entry{
				ID: 7, Title: title, Content: content, Username: username,
				CreatedAt: now, UpdatedAt: now,
			}, nil
		},
	}
	h := setupEntryHandler(t, &mockUserRepo{}, entries)

	rec := doRequest(t, h, http.MethodPost, "/entries", issueToken(t, "alice"), map[string]string{
		"title":   "  my day  ",
		"content": "it rained",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body entryBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ID != 7 || body.Username != "alice" {
		t.Errorf("unexpected body: %+v", body)
	}
	if body.Title != "my day" {
		t.Errorf("expected trimmed title, got %q", body.Title)
	}
	if body.Content != "it rained" {
		t.Errorf("unexpected content: %q", body.Content)
	}
}

func TestEntriesHTTP_Create_EmptyContentAllowed(t *testing.T) {
	entries := &mockEntryRepo{
		insertFunc: func(_ context.Context, _ db.Querier, username, title, content string) (domain.Entry, error) {
			return domain.Entry{ID: 1, Title: title, Content: content, Username: username}, nil
		},
	}
	h := setupEntryHandler(t, &mockUserRepo{}, entries)

	rec := doRequest(t, h, http.MethodPost, "/entries", issueToken(t, "alice"), map[string]string{
		"title":   "empty one",
		"content": "",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 with empty content, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestEntriesHTTP_Create_MissingFields(t *testing.T) {
	h := setupEntryHandler(t, &mockUserRepo{}, &mockEntryRepo{})

	rec := doRequest(t, h, http.MethodPost, "/entries", issueToken(t, "alice"), map[string]string{
		"title": "   ",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	if env.Msg != "Malformed request" {
		t.Errorf("unexpected msg: %s", env.Msg)
	}
	params := map[string]bool{}
	for _, d := range env.Details {
		params[d.Param] = true
	}
	if !params["title"] || !params["content"] {
		t.Errorf("expected details for title and content, got %+v", env.Details)
	}
}

func TestEntriesHTTP_Get(t *testing.T) {
	entries := &mockEntryRepo{
		findByIDFunc: func(_ context.Context, _ db.Querier, id int64) (domain.Entry, error) {
			return domain.Entry{ID: id, Title: "mine", Content: "body", Username: "alice"}, nil
		},
	}
	h := setupEntryHandler(t, &mockUserRepo{}, entries)

	rec := doRequest(t, h, http.MethodGet, "/entries/3", issueToken(t, "alice"), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body entryBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ID != 3 || body.Title != "mine" || body.Content != "body" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestEntriesHTTP_Get_NotFound(t *testing.T) {
	h := setupEntryHandler(t, &mockUserRepo{}, &mockEntryRepo{})

	rec := doRequest(t, h, http.MethodGet, "/entries/99", issueToken(t, "alice"), nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	if env.Msg != "Entry does not exist" {
		t.Errorf("unexpected msg: %s", env.Msg)
	}
}

func TestEntriesHTTP_Get_NoAccess(t *testing.T) {
	entries := &mockEntryRepo{
		findByIDFunc: func(_ context.Context, _ db.Querier, id int64) (domain.Entry, error) {
			return domain.Entry{ID: id, Username: "bob"}, nil
		},
	}
	h := setupEntryHandler(t, &mockUserRepo{}, entries)

	rec := doRequest(t, h, http.MethodGet, "/entries/3", issueToken(t, "alice"), nil)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	if env.Msg != "You do not have access to this entry" {
		t.Errorf("unexpected msg: %s", env.Msg)
	}
}

func TestEntriesHTTP_Get_BadID(t *testing.T) {
	h := setupEntryHandler(t, &mockUserRepo{}, &mockEntryRepo{})

	rec := doRequest(t, h, http.MethodGet, "/entries/abc", issueToken(t, "alice"), nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	if len(env.Details) != 1 || env.Details[0].Location != "params" || env.Details[0].Param != "entryid" {
		t.Errorf("unexpected details: %+v", env.Details)
	}
}

func TestEntriesHTTP_Replace(t *testing.T) {
	entries := &mockEntryRepo{
		findByIDFunc: func(_ context.Context, _ db.Querier, id int64) (domain.Entry, error) {
			return domain.Entry{ID: id, Title: "old", Content: "old", Username: "alice"}, nil
		},
		updateFunc: func(_ context.Context, _ db.Querier, id int64, title, content string) (domain.Entry, error) {
			return domain.Entry{ID: id, Title: title, Content: content, Username: "alice"}, nil
		},
	}
	h := setupEntryHandler(t, &mockUserRepo{}, entries)

	rec := doRequest(t, h, http.MethodPut, "/entries/3", issueToken(t, "alice"), map[string]string{
		"newTitle":   "fresh",
		"newContent": "rewritten",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body entryBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Title != "fresh" || body.Content != "rewritten" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestEntriesHTTP_Replace_MissingFields(t *testing.T) {
	h := setupEntryHandler(t, &mockUserRepo{}, &mockEntryRepo{})

	rec := doRequest(t, h, http.MethodPut, "/entries/3", issueToken(t, "alice"), map[string]string{
		"title":   "wrong field names",
		"content": "for a replace",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body)
	params := map[string]bool{}
	for _, d := range env.Details {
		params[d.Param] = true
	}
	if !params["newTitle"] || !params["newContent"] {
		t.Errorf("expected details for newTitle and newContent, got %+v", env.Details)
	}
}

func TestEntriesHTTP_Delete(t *testing.T) {
	var deletedID int64
	entries := &mockEntryRepo{
		findByIDFunc: func(_ context.Context, _ db.Querier, id int64) (domain.Entry, error) {
			return domain.Entry{ID: id, Username: "alice"}, nil
		},
		deleteFunc: func(_ context.Context, _ db.Querier, id int64) error {
			deletedID = id
			return nil
		},
	}
	h := setupEntryHandler(t, &mockUserRepo{}, entries)

	rec := doRequest(t, h, http.MethodDelete, "/entries/5", issueToken(t, "alice"), nil)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if deletedID != 5 {
		t.Errorf("expected delete of entry 5, got %d", deletedID)
	}
}

func TestEntriesHTTP_Delete_NoAccess(t *testing.T) {
	entries := &mockEntryRepo{
		findByIDFunc: func(_ context.Context, _ db.Querier, id int64) (domain.Entry, error) {
			return domain.Entry{ID: id, Username: "bob"}, nil
		},
	}
	h := setupEntryHandler(t, &mockUserRepo{}, entries)

	rec := doRequest(t, h, http.MethodDelete, "/entries/5", issueToken(t, "alice"), nil)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}
