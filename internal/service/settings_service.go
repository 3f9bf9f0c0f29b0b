package service

import (
	"crypto/subtle"

	"leadnavi/internal/domain"
	"leadnavi/internal/models"

	"github.com/rs/zerolog"
)

// SettingsService owns the console secret. The stored value overrides
// the configured one so a password change survives restarts.
type SettingsService struct {
	settings domain.SettingsStore
	logger   *zerolog.Logger
}

func NewSettingsService(settings domain.SettingsStore, configuredPassword string, logger *zerolog.Logger) *SettingsService {
	s := &SettingsService{settings: settings, logger: logger}
	if settings.AdminPassword() == "" && configuredPassword != "" {
		if err := settings.SetAdminPassword(configuredPassword); err != nil {
			logger.Error().Err(err).Msg("Failed to seed admin password from config")
		}
	}
	return s
}

// VerifyAdminPassword compares in constant time.
func (s *SettingsService) VerifyAdminPassword(candidate string) bool {
	current := s.settings.AdminPassword()
	if current == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(current)) == 1
}

// ChangeAdminPassword rotates the console secret after verifying the
// current one.
func (s *SettingsService) ChangeAdminPassword(currentPassword, newPassword string) error {
	if !s.VerifyAdminPassword(currentPassword) {
		return ErrInvalidCredentials
	}
	if len(newPassword) < models.MinAdminPasswordLength {
		return ErrAdminPasswordTooShort
	}
	if err := s.settings.SetAdminPassword(newPassword); err != nil {
		return err
	}
	s.logger.Info().Msg("Admin password changed")
	return nil
}
