package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudnote/internal/config"
	"cloudnote/internal/domain"
	"cloudnote/internal/domain/models"
	"cloudnote/internal/domain/services"
	"cloudnote/internal/repository/memory"
	"cloudnote/internal/service"
	"cloudnote/internal/service/attachment"
	"cloudnote/internal/service/auth"
	notebookService "cloudnote/internal/service/notebook"
	"cloudnote/internal/service/notebook/content"
	"cloudnote/internal/service/sharing"
)

// tokenVerifier accepts "token-<uid>" and derives the email from the uid
type tokenVerifier struct{}

func (tokenVerifier) VerifyToken(token string) (*models.FirebaseClaims, error) {
	uid, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return nil, errors.New("bad token")
	}
	return &models.FirebaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uid},
		Email:            uid + "@example.com",
	}, nil
}

func (tokenVerifier) Close() error { return nil }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestRouter(t *testing.T, ping error) http.Handler {
	t.Helper()
	return newTestRouterWithFiles(t, ping, attachment.NewInlineStore())
}

func newTestRouterWithFiles(t *testing.T, ping error, files services.AttachmentStore) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	noteRepo := memory.NewNoteRepository(store)
	folderRepo := memory.NewFolderRepository(store)
	globalNotes := memory.NewGlobalNoteRepository(store)
	globalFolders := memory.NewGlobalFolderRepository(store)
	profileRepo := memory.NewUserProfileRepository(store)
	txManager := memory.NewTransactionManager(store)

	authorizer := auth.NewOwnerBasedAuthorizer(noteRepo, folderRepo)
	profiles := service.NewUserProfileService(profileRepo, globalNotes, globalFolders, logger)
	sanitizer := content.NewHTMLSanitizer()
	builder := notebookService.NewStructureBuilder(folderRepo, noteRepo, logger)
	global := sharing.NewGlobalService(noteRepo, folderRepo, globalNotes, globalFolders, txManager, authorizer, profiles, builder, logger)
	notes := notebookService.NewNoteService(noteRepo, folderRepo, authorizer, profiles, global, sanitizer, content.NewMarkdownExporter(sanitizer), logger)
	folders := notebookService.NewFolderService(folderRepo, noteRepo, globalFolders, txManager, authorizer, profiles, builder, global, logger)
	admin := service.NewAdminService(profileRepo, noteRepo, folderRepo, globalNotes, globalFolders, logger)

	handlers := Handlers{
		Notes:       NewNoteHandler(notes, logger),
		Folders:     NewFolderHandler(folders, logger),
		Global:      NewGlobalHandler(global, global, logger),
		Users:       NewUserHandler(profiles, logger),
		Admin:       NewAdminHandler(admin, logger),
		Attachments: NewAttachmentHandler(files, logger),
		Health:      NewHealthHandler(pingFunc(func(context.Context) error { return ping }), "test", logger),
	}
	cfg := &config.Config{AdminEmails: []string{"root@example.com"}}

	return NewRouter(handlers, tokenVerifier{}, cfg, logger)
}

func do(t *testing.T, h http.Handler, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if uid != "" {
		req.Header.Set("Authorization", "Bearer token-"+uid)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_RequiresToken(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/api/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", decode(t, rec)["error"])

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decode(t, rec)["error"])
}

func TestRouter_NoteLifecycle(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/notes", "alice", map[string]any{
		"title":   "My First Note",
		"content": "<p>hello</p>",
		"tags":    []string{"work"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	id := created["id"].(string)
	assert.Equal(t, "text", created["type"])

	rec = do(t, h, http.MethodGet, "/api/notes/"+id, "bob", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/notes/"+id, "alice", map[string]any{"isFavorite": true, "isGlobal": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Note updated successfully", decode(t, rec)["message"])

	rec = do(t, h, http.MethodGet, "/api/notes?isFavorite=true", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0]["id"])
	assert.Equal(t, true, listed[0]["isGlobal"])

	rec = do(t, h, http.MethodGet, "/api/notes/"+id+"/export", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "my-first-note.md")
	assert.Contains(t, rec.Body.String(), "hello")

	rec = do(t, h, http.MethodDelete, "/api/notes/"+id, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode(t, rec)["id"])

	rec = do(t, h, http.MethodGet, "/api/notes/"+id, "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_NoteListRejectsBadQuery(t *testing.T) {
	h := newTestRouter(t, nil)

	for _, query := range []string{"sortBy=title", "limit=-1", "fromDate=yesterday", "isArchived=maybe"} {
		rec := do(t, h, http.MethodGet, "/api/notes?"+query, "alice", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestRouter_SharedNoteIsPublic(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/notes", "alice", map[string]any{"title": "Public"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode(t, rec)["id"].(string)

	rec = do(t, h, http.MethodPost, "/api/notes/"+id+"/share", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["shareToken"].(string)
	require.NotEmpty(t, token)

	rec = do(t, h, http.MethodGet, "/api/notes/shared/"+token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	shared := decode(t, rec)
	assert.Equal(t, "Public", shared["title"])
	assert.Equal(t, true, shared["requiresAuth"])

	rec = do(t, h, http.MethodGet, "/api/notes/"+id+"/export", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/notes/"+id+"/unknown", "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_FolderPublishing(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/folders", "alice", map[string]any{"name": "  Recipes  "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	folder := decode(t, rec)
	folderID := folder["id"].(string)
	assert.Equal(t, "Recipes", folder["name"])

	rec = do(t, h, http.MethodPost, "/api/notes", "alice", map[string]any{"title": "Soup", "folderId": folderID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/global/folder", "alice", map[string]any{"folderId": folderID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	shared := decode(t, rec)
	assert.Equal(t, "Folder shared to global feed", shared["message"])
	snapshotID := shared["id"].(string)

	rec = do(t, h, http.MethodPost, "/api/global/folder", "alice", map[string]any{"folderId": folderID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	dup := decode(t, rec)
	assert.Equal(t, "Folder already shared to global", dup["error"])
	assert.Equal(t, snapshotID, dup["snapshotId"])

	rec = do(t, h, http.MethodGet, "/api/global/folders/"+snapshotID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["noteCount"])

	rec = do(t, h, http.MethodGet, "/api/folders/"+folderID, "bob", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/global", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "folder", feed[0]["itemType"])

	rec = do(t, h, http.MethodPost, "/api/global/sync/folder/"+folderID, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["updated"])

	rec = do(t, h, http.MethodDelete, "/api/global/folder/"+folderID, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Folder removed from global feed", decode(t, rec)["message"])

	rec = do(t, h, http.MethodDelete, "/api/global/folder/"+folderID, "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_GlobalNoteCheckAndSync(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/notes", "alice", map[string]any{"title": "Draft"})
	require.Equal(t, http.StatusCreated, rec.Code)
	noteID := decode(t, rec)["id"].(string)

	rec = do(t, h, http.MethodGet, "/api/global/check/"+noteID, "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["isGlobal"])

	rec = do(t, h, http.MethodPost, "/api/global/sync/"+noteID, "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/global", "alice", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/global", "alice", map[string]any{"noteId": noteID})
	require.Equal(t, http.StatusCreated, rec.Code)
	result := decode(t, rec)
	globalID := result["id"].(string)
	token := result["shareToken"].(string)

	rec = do(t, h, http.MethodPut, "/api/notes/"+noteID, "alice", map[string]any{"title": "Final"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/global/"+globalID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Final", decode(t, rec)["title"])

	rec = do(t, h, http.MethodGet, "/api/global/share/note/"+token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", decode(t, rec)["authorName"])

	rec = do(t, h, http.MethodGet, "/api/global/check/"+noteID, "alice", nil)
	assert.Equal(t, true, decode(t, rec)["isGlobal"])
}

func TestRouter_ProfileAndAdmin(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/api/auth/profile", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode(t, rec)["uid"])

	rec = do(t, h, http.MethodPut, "/api/users/profile", "alice", map[string]any{"displayName": "Alice", "theme": "dark"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Alice", decode(t, rec)["displayName"])

	rec = do(t, h, http.MethodGet, "/api/admin/stats", "alice", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/admin/stats", "root", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["totalUsers"])

	rec = do(t, h, http.MethodGet, "/api/admin/users", "root", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["users"], 1)

	rec = do(t, h, http.MethodGet, "/api/admin/users/nobody", "root", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func uploadRequest(t *testing.T, field, contentType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="paper.pdf"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/pdf", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer token-alice")
	return req
}

func TestRouter_UploadPDF(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name        string
		field       string
		contentType string
		wantStatus  int
		wantError   string
	}{
		{name: "pdf", field: "pdf", contentType: "application/pdf", wantStatus: http.StatusOK},
		{name: "wrong type", field: "pdf", contentType: "image/png", wantStatus: http.StatusBadRequest, wantError: "Only PDF files are allowed"},
		{name: "missing field", field: "file", contentType: "application/pdf", wantStatus: http.StatusBadRequest, wantError: "No PDF file uploaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, uploadRequest(t, tt.field, tt.contentType, []byte("%PDF-1.4")))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			body := decode(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}
			assert.Equal(t, "paper.pdf", body["fileName"])
			assert.True(t, strings.HasPrefix(body["fileUrl"].(string), "data:application/pdf;base64,"))
			assert.EqualValues(t, 8, body["size"])
		})
	}
}

// fileStore serves fixed objects by key
type fileStore map[string]string

func (s fileStore) Upload(ctx context.Context, ownerID, originalName, contentType string, data []byte) (*services.StoredFile, error) {
	return nil, errors.New("read-only")
}

func (s fileStore) Open(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	data, ok := s[fileName]
	if !ok {
		return nil, "", &domain.NotFoundError{Message: "File not found"}
	}
	return io.NopCloser(strings.NewReader(data)), "application/pdf", nil
}

func TestRouter_ServePDF(t *testing.T) {
	h := newTestRouterWithFiles(t, nil, fileStore{"pdfs/alice/1700000000000_paper.pdf": "%PDF-1.4"})

	tests := []struct {
		name            string
		path            string
		wantStatus      int
		wantDisposition string
	}{
		{"view", "/api/pdf/view/pdfs/alice/1700000000000_paper.pdf", http.StatusOK, "inline"},
		{"download", "/api/pdf/download/pdfs/alice/1700000000000_paper.pdf", http.StatusOK, `attachment; filename=1700000000000_paper.pdf`},
		{"view missing", "/api/pdf/view/pdfs/alice/gone.pdf", http.StatusNotFound, ""},
		{"download missing", "/api/pdf/download/pdfs/alice/gone.pdf", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "", nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "File not found", decode(t, rec)["error"])
				return
			}
			assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantDisposition, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, "%PDF-1.4", rec.Body.String())
		})
	}
}

func TestRouter_Health(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "connected", decode(t, rec)["database"])

	rec = do(t, newTestRouter(t, errors.New("connection refused")), http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "disconnected", decode(t, rec)["database"])
}
