package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/existflow/qazzerep/internal/model"
)

// Upload is one file of a compare batch
type Upload struct {
	Name    string
	Content io.Reader
}

// RecalcRequest carries edited plain text for both documents
type RecalcRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
	NameA string `json:"name_a"`
	NameB string `json:"name_b"`
}

func createFormFile(w *multipart.Writer, field, filename, contentType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		field, strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form part: %w", err)
	}
	return part, nil
}

func uploadContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// CompareBatch uploads files for pairwise comparison. Callers validate
// the file count.
func (c *Client) CompareBatch(ctx context.Context, files []Upload) (*model.BatchResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := createFormFile(w, "files", filepath.Base(f.Name), uploadContentType(f.Name))
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	var result model.BatchResult
	req := request{
		method:      http.MethodPost,
		path:        "/documents/compare-batch",
		body:        &buf,
		contentType: w.FormDataContentType(),
	}
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History lists the caller's past sessions, newest first
func (c *Client) History(ctx context.Context) ([]model.HistorySession, error) {
	var sessions []model.HistorySession
	if err := c.do(ctx, request{method: http.MethodGet, path: "/documents/history"}, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ClearHistory deletes every history session of the caller
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/documents/history"}, nil)
}

// Recalculate scores edited text. The response has no report id or pair.
func (c *Client) Recalculate(ctx context.Context, r RecalcRequest) (*model.Comparison, error) {
	req, err := jsonRequest(http.MethodPost, "/documents/recalculate", r)
	if err != nil {
		return nil, err
	}
	var result model.Comparison
	if err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteDocument removes one stored document. Admin only on the backend.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/documents/delete/" + url.PathEscape(id),
	}, nil)
}

// AdminDocuments lists every stored document across users
func (c *Client) AdminDocuments(ctx context.Context) ([]model.AdminDocument, error) {
	var resp struct {
		Data []model.AdminDocument `json:"data"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/documents/admin/all-docs"}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// PublicReport fetches a shared report. No login is needed, but a stored
// token is still sent like on every other request.
func (c *Client) PublicReport(ctx context.Context, reportID string) (*model.PublicReport, error) {
	var r model.PublicReport
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/reports/" + url.PathEscape(reportID),
	}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
