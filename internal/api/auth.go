package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/existflow/qazzerep/internal/model"
)

// MaxAvatarSize is the largest avatar the backend accepts
const MaxAvatarSize = 2 * 1024 * 1024

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// RegisterRequest is the sign-up form. SchoolCode is required by the
// backend for the TEACHER role.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"fullName"`
	Role       string `json:"role"`
	School     string `json:"school"`
	SchoolCode string `json:"schoolCode,omitempty"`
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", ErrMissingLogin
	}

	req, err := jsonRequest(http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	var resp tokenResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrNoToken
	}
	return resp.Token, nil
}

// Register creates an account and returns its token
func (c *Client) Register(ctx context.Context, r RegisterRequest) (string, error) {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return "", ErrMissingLogin
	}
	if r.Role == "" {
		r.Role = model.RoleStudent
	}

	req, err := jsonRequest(http.MethodPost, "/auth/register", r)
	if err != nil {
		return "", err
	}

	var resp tokenResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrNoToken
	}
	return resp.Token, nil
}

// Me returns the profile of the token's owner
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangePassword replaces the account password
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingPassword
	}
	req, err := jsonRequest(http.MethodPost, "/auth/change-password", map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	})
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// AvatarContentType validates an avatar and returns its MIME type
func AvatarContentType(name string, data []byte) (string, error) {
	if len(data) > MaxAvatarSize {
		return "", ErrAvatarSize
	}
	ct := http.DetectContentType(data)
	switch ct {
	case "image/jpeg", "image/png":
		return ct, nil
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		// extension says image but the bytes disagree
		return "", fmt.Errorf("%w: %s looks like %s", ErrAvatarType, filepath.Base(name), ct)
	}
	return "", ErrAvatarType
}

// UploadAvatar sends a JPEG or PNG and returns the stored avatar URL
func (c *Client) UploadAvatar(ctx context.Context, name string, data []byte) (string, error) {
	ct, err := AvatarContentType(name, data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := createFormFile(w, "file", filepath.Base(name), ct)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write avatar: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish form: %w", err)
	}

	var resp struct {
		AvatarURL string `json:"avatar_url"`
	}
	req := request{
		method:      http.MethodPost,
		path:        "/auth/upload-avatar",
		body:        &buf,
		contentType: w.FormDataContentType(),
	}
	if err := c.do(ctx, req, &resp); err != nil {
		return "", err
	}
	return resp.AvatarURL, nil
}

// UpdateSettings saves the analysis preferences
func (c *Client) UpdateSettings(ctx context.Context, s model.Settings) error {
	if s.ActiveRules == nil {
		s.ActiveRules = []string{}
	}
	req, err := jsonRequest(http.MethodPost, "/auth/update-settings", map[string]model.Settings{"settings": s})
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}
