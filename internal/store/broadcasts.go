package store

import (
	"leadnavi/internal/models"
)

// Broadcasts returns a copy of the delivery log in send order.
func (s *Store) Broadcasts() []models.Broadcast {
	s.broadcastsMu.RLock()
	defer s.broadcastsMu.RUnlock()

	return append([]models.Broadcast(nil), s.broadcasts...)
}

// AppendBroadcast adds one entry to the log. Entries are never modified
// or removed afterwards.
func (s *Store) AppendBroadcast(b models.Broadcast) error {
	s.broadcastsMu.Lock()
	defer s.broadcastsMu.Unlock()

	s.broadcasts = append(s.broadcasts, b)
	return s.flushDocument(broadcastsFile, struct {
		Broadcasts []models.Broadcast `json:"broadcasts"`
	}{Broadcasts: s.broadcasts})
}
