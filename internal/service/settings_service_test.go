package service

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsSeedsFromConfig(t *testing.T) {
	st := newTestStore(t)
	logger := zerolog.Nop()

	svc := NewSettingsService(st, "seeded", &logger)
	assert.True(t, svc.VerifyAdminPassword("seeded"))
	assert.Equal(t, "seeded", st.AdminPassword())
}

func TestSettingsStoredPasswordWinsOverConfig(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SetAdminPassword("stored"))
	logger := zerolog.Nop()

	svc := NewSettingsService(st, "configured", &logger)
	assert.True(t, svc.VerifyAdminPassword("stored"))
	assert.False(t, svc.VerifyAdminPassword("configured"))
}

func TestVerifyAdminPasswordRejectsEmpty(t *testing.T) {
	st := newTestStore(t)
	logger := zerolog.Nop()

	// No stored or configured password: nothing verifies, not even "".
	svc := NewSettingsService(st, "", &logger)
	assert.False(t, svc.VerifyAdminPassword(""))
	assert.False(t, svc.VerifyAdminPassword("anything"))
}

func TestChangeAdminPassword(t *testing.T) {
	st := newTestStore(t)
	logger := zerolog.Nop()
	svc := NewSettingsService(st, "old-pass", &logger)

	assert.ErrorIs(t, svc.ChangeAdminPassword("wrong", "new-pass"), ErrInvalidCredentials)
	assert.ErrorIs(t, svc.ChangeAdminPassword("old-pass", "abc"), ErrAdminPasswordTooShort)

	require.NoError(t, svc.ChangeAdminPassword("old-pass", "new-pass"))
	assert.True(t, svc.VerifyAdminPassword("new-pass"))
	assert.False(t, svc.VerifyAdminPassword("old-pass"))
	// Persisted, so a restart keeps the rotated secret.
	assert.Equal(t, "new-pass", st.AdminPassword())
}
