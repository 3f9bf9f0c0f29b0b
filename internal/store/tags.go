package store

import (
	"leadnavi/internal/models"
)

// Tags returns a copy of the tag catalog.
func (s *Store) Tags() []models.Tag {
	s.tagsMu.RLock()
	defer s.tagsMu.RUnlock()

	return append([]models.Tag(nil), s.tags...)
}

// UpdateTags applies fn to a copy of the catalog under the write lock and
// flushes the result. fn returning an error aborts without mutating.
func (s *Store) UpdateTags(fn func(tags []models.Tag) ([]models.Tag, error)) error {
	s.tagsMu.Lock()
	defer s.tagsMu.Unlock()

	next, err := fn(append([]models.Tag(nil), s.tags...))
	if err != nil {
		return err
	}
	s.tags = next
	return s.flushDocument(tagsFile, struct {
		Tags []models.Tag `json:"tags"`
	}{Tags: s.tags})
}
