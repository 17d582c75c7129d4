package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *storage.Memory) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := storage.NewMemory()
	return NewClient(srv.URL+"/", store), store
}

func TestClient_AttachesTokenReadAtCallTime(t *testing.T) {
	var seen []string
	client, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`[]`))
	})
	ctx := context.Background()

	_, err := client.History(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, storage.KeyToken, "tok-1"))
	_, err = client.History(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, storage.KeyToken, "tok-2"))
	_, err = client.History(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, storage.KeyToken))
	_, err = client.History(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer tok-1", "Bearer tok-2", ""}, seen)
}

func TestClient_TargetsBaseURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/delete/a%2Fb", r.URL.RawPath)
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.DeleteDocument(context.Background(), "a/b"))
	assert.False(t, strings.HasSuffix(client.BaseURL(), "/"))
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		target  error
		message string
	}{
		{"login message", 401, `{"message":"Неверный логин или пароль"}`, ErrUnauthorized, "Неверный логин или пароль"},
		{"forbidden", 403, `{"detail":"Admin only"}`, ErrUnauthorized, "Admin only"},
		{"report missing", 404, `{"detail":"Report not found"}`, ErrNotFound, "Report not found"},
		{"recalc error", 500, `{"error":"empty text"}`, nil, "empty text"},
		{"validation", 422, `{"detail":[{"msg":"field required"},{"msg":"bad"}]}`, nil, "field required; bad"},
		{"plain text", 502, `Bad Gateway`, nil, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Me(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, Message(err))
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			} else {
				assert.NotErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", storage.NewMemory())
	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "failed to connect")
}

func TestLogin(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.kz", body["email"])
		assert.Equal(t, "secret", body["password"])
		w.Write([]byte(`{"message":"ok","token":"jwt-token"}`))
	})

	token, err := client.Login(context.Background(), "a@b.kz", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)

	_, err = client.Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, ErrMissingLogin)
}

func TestLogin_MissingToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`))
	})
	_, err := client.Login(context.Background(), "a@b.kz", "secret")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestRegister_SendsCamelCaseFields(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Aru Sadykova", body["fullName"])
		assert.Equal(t, "QAZ-2026-PRO", body["schoolCode"])
		assert.Equal(t, model.RoleTeacher, body["role"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"new"}`))
	})

	token, err := client.Register(context.Background(), RegisterRequest{
		Email: "t@school.kz", Password: "p", FullName: "Aru Sadykova",
		Role: model.RoleTeacher, School: "NIS", SchoolCode: "QAZ-2026-PRO",
	})
	require.NoError(t, err)
	assert.Equal(t, "new", token)
}

func TestChangePassword(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"old_password": "a", "new_password": "b"}, body)
	})

	assert.ErrorIs(t, client.ChangePassword(context.Background(), "", "b"), ErrMissingPassword)
	assert.False(t, called)
	require.NoError(t, client.ChangePassword(context.Background(), "a", "b"))
	assert.True(t, called)
}

func TestUploadAvatar(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(4<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "me.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		w.Write([]byte(`{"avatar_url":"/uploads/avatars/1.png"}`))
	})

	url, err := client.UploadAvatar(context.Background(), "/tmp/me.png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/1.png", url)
}

func TestAvatarContentType_Rejects(t *testing.T) {
	_, err := AvatarContentType("a.gif", []byte("GIF89a"))
	assert.ErrorIs(t, err, ErrAvatarType)

	_, err = AvatarContentType("fake.png", []byte("not really"))
	assert.ErrorIs(t, err, ErrAvatarType)

	big := make([]byte, MaxAvatarSize+1)
	copy(big, pngHeader)
	_, err = AvatarContentType("big.png", big)
	assert.ErrorIs(t, err, ErrAvatarSize)
}

func TestUpdateSettings_WrapsInSettingsKey(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"settings":{"active_rules":[],"custom_regex":"","exclude_quotes":true}}`, string(raw))
	})

	require.NoError(t, client.UpdateSettings(context.Background(), model.Settings{ExcludeQuotes: true}))
}

func TestCompareBatch_SendsFilesField(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["files"]
		require.Len(t, files, 2)
		assert.Equal(t, "A.pdf", files[0].Filename)
		assert.Equal(t, "B.docx", files[1].Filename)
		w.Write([]byte(`{"comparisons":[{"pair":"A.pdf vs B.pdf","originality":42,"report_id":"abc123","docA":{},"docB":{}}]}`))
	})

	res, err := client.CompareBatch(context.Background(), []Upload{
		{Name: "dir/A.pdf", Content: strings.NewReader("%PDF-1.4")},
		{Name: "B.docx", Content: strings.NewReader("PK")},
	})
	require.NoError(t, err)
	require.Len(t, res.Comparisons, 1)
	assert.Equal(t, "abc123", res.Comparisons[0].ReportID)
}

func TestRecalculate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body RecalcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "edited a", body.TextA)
		assert.Equal(t, "B.pdf", body.NameB)
		w.Write([]byte(`{"similarity":10,"originality":90,"semantic_info":{"dna_score":3,"lexical_score":10},"docA":{"name":"A.pdf"},"docB":{"name":"B.pdf"}}`))
	})

	res, err := client.Recalculate(context.Background(), RecalcRequest{TextA: "edited a", TextB: "b", NameA: "A.pdf", NameB: "B.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 90.0, res.Originality)
	assert.Empty(t, res.ReportID)
}

func TestAdminDocuments_UnwrapsData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/admin/all-docs", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"65f0c0ffee","owner":"u@x.kz","hash_count":120}]}`))
	})

	docs, err := client.AdminDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 120, docs[0].HashCount)
}

func TestHistoryAndClear(t *testing.T) {
	var methods []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"1","timestamp":"2026-01-02T03:04:05","total_pairs":3,"comparisons":[]}]`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	})

	sessions, err := client.History(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NoError(t, client.ClearHistory(context.Background()))
	assert.Equal(t, []string{http.MethodGet, http.MethodDelete}, methods)
}

func TestPublicReport_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reports/NOPE", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Report not found"}`))
	})

	_, err := client.PublicReport(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}
