package store

import (
	"leadnavi/internal/models"
)

// GetCustomer returns a deep copy of the record for the token.
func (s *Store) GetCustomer(token string) (*models.Customer, error) {
	s.customersMu.RLock()
	defer s.customersMu.RUnlock()

	c, ok := s.customers[token]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

// PutCustomer inserts or replaces a record keyed by its token.
func (s *Store) PutCustomer(c *models.Customer) error {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	s.customers[c.Token] = c.Clone()
	return s.flushCustomersLocked()
}

// DeleteCustomer removes the record entirely.
func (s *Store) DeleteCustomer(token string) error {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	if _, ok := s.customers[token]; !ok {
		return ErrNotFound
	}
	delete(s.customers, token)
	return s.flushCustomersLocked()
}

// AllCustomers returns deep copies of every record.
func (s *Store) AllCustomers() []*models.Customer {
	s.customersMu.RLock()
	defer s.customersMu.RUnlock()

	out := make([]*models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c.Clone())
	}
	return out
}

// UpdateCustomer applies fn to the record under the write lock and
// flushes. fn returning an error aborts the update without mutating the
// stored record. The updated copy is returned.
func (s *Store) UpdateCustomer(token string, fn func(*models.Customer) error) (*models.Customer, error) {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	current, ok := s.customers[token]
	if !ok {
		return nil, ErrNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.Token = token

	s.customers[token] = next
	if err := s.flushCustomersLocked(); err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

// UpdateAllCustomers applies fn to every record; fn returns true when it
// changed the record. One flush covers the whole sweep.
func (s *Store) UpdateAllCustomers(fn func(*models.Customer) bool) error {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	changed := false
	for token, current := range s.customers {
		next := current.Clone()
		if fn(next) {
			next.Token = token
			s.customers[token] = next
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.flushCustomersLocked()
}

func (s *Store) flushCustomersLocked() error {
	return s.flushDocument(customersFile, s.customers)
}
