package store

// AdminPassword returns the persisted console secret, empty when none
// has been saved yet.
func (s *Store) AdminPassword() string {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()

	return s.settings.AdminPassword
}

// SetAdminPassword replaces the console secret and persists immediately
// so a restart keeps the changed password.
func (s *Store) SetAdminPassword(password string) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	s.settings.AdminPassword = password
	return s.flushDocument(settingsFile, s.settings)
}
