// Package profile saves settings and avatars and mirrors the result into
// the session without refetching the user.
package profile

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/model"
)

// Backend is the profile slice of the API
type Backend interface {
	UpdateSettings(ctx context.Context, s model.Settings) error
	UploadAvatar(ctx context.Context, name string, data []byte) (string, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

// Session receives the merged user data
type Session interface {
	UpdateUserData(patch model.UserPatch)
}

// ValidateSettings checks rule ids and that the custom regex compiles
func ValidateSettings(s model.Settings) error {
	for _, r := range s.ActiveRules {
		known := false
		for _, k := range model.KnownRules {
			if r == k {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown rule %q", r)
		}
	}
	if s.CustomRegex != "" {
		if _, err := regexp.Compile(s.CustomRegex); err != nil {
			return fmt.Errorf("invalid custom regex: %w", err)
		}
	}
	return nil
}

// SaveSettings validates, saves and merges s. The display name lives
// inside settings on the backend and on the user for display.
func SaveSettings(ctx context.Context, b Backend, sess Session, s model.Settings) error {
	if err := ValidateSettings(s); err != nil {
		return err
	}
	if err := b.UpdateSettings(ctx, s); err != nil {
		return err
	}

	patch := model.UserPatch{Settings: &s}
	if s.DisplayName != "" {
		name := s.DisplayName
		patch.DisplayName = &name
	}
	sess.UpdateUserData(patch)
	logger.Info("Settings saved", logger.F("rules", s.ActiveRules))
	return nil
}

// UploadAvatarFile reads path, uploads it and merges the new URL
func UploadAvatarFile(ctx context.Context, b Backend, sess Session, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	url, err := b.UploadAvatar(ctx, path, data)
	if err != nil {
		return "", err
	}
	sess.UpdateUserData(model.UserPatch{Avatar: &url})
	logger.Info("Avatar updated", logger.F("url", url))
	return url, nil
}

// ChangePassword forwards to the backend; validation happens there and
// in the API client.
func ChangePassword(ctx context.Context, b Backend, oldPassword, newPassword string) error {
	if err := b.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return err
	}
	logger.Info("Password changed")
	return nil
}
