package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"leadnavi/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	logger := zerolog.Nop()
	s, err := New(dir, &logger)
	require.NoError(t, err)
	return s, dir
}

func TestPutGetCustomer(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.PutCustomer(&models.Customer{Token: "tok1", Name: "山田"}))

	c, err := s.GetCustomer("tok1")
	require.NoError(t, err)
	assert.Equal(t, "山田", c.Name)

	// The returned copy must not alias the stored record.
	c.Name = "changed"
	again, err := s.GetCustomer("tok1")
	require.NoError(t, err)
	assert.Equal(t, "山田", again.Name)
}

func TestGetCustomerNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.GetCustomer("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCustomer(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.PutCustomer(&models.Customer{Token: "tok1"}))
	require.NoError(t, s.DeleteCustomer("tok1"))

	_, err := s.GetCustomer("tok1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteCustomer("tok1"), ErrNotFound)
}

func TestUpdateCustomerAbortsOnError(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.PutCustomer(&models.Customer{Token: "tok1", Name: "before"}))

	boom := errors.New("boom")
	_, err := s.UpdateCustomer("tok1", func(c *models.Customer) error {
		c.Name = "after"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := s.GetCustomer("tok1")
	require.NoError(t, err)
	assert.Equal(t, "before", c.Name)
}

func TestUpdateCustomerReturnsUpdatedCopy(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.PutCustomer(&models.Customer{Token: "tok1"}))

	updated, err := s.UpdateCustomer("tok1", func(c *models.Customer) error {
		c.Stage = 2
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stage)

	stored, err := s.GetCustomer("tok1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Stage)
}

func TestUpdateAllCustomers(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.PutCustomer(&models.Customer{Token: "a", Stage: 1}))
	require.NoError(t, s.PutCustomer(&models.Customer{Token: "b", Stage: 2}))

	err := s.UpdateAllCustomers(func(c *models.Customer) bool {
		if c.Stage != 1 {
			return false
		}
		c.Memo = "touched"
		return true
	})
	require.NoError(t, err)

	a, _ := s.GetCustomer("a")
	b, _ := s.GetCustomer("b")
	assert.Equal(t, "touched", a.Memo)
	assert.Empty(t, b.Memo)
}

func TestStoreSurvivesRestart(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, s.PutCustomer(&models.Customer{Token: "tok1", Name: "山田"}))
	require.NoError(t, s.UpdateTags(func(tags []models.Tag) ([]models.Tag, error) {
		return append(tags, models.Tag{ID: "tag_1", Name: "大阪府"}), nil
	}))
	require.NoError(t, s.AppendBroadcast(models.Broadcast{ID: "bcast_1", Message: "hello"}))
	require.NoError(t, s.SetAdminPassword("secret"))

	logger := zerolog.Nop()
	reopened, err := New(dir, &logger)
	require.NoError(t, err)

	c, err := reopened.GetCustomer("tok1")
	require.NoError(t, err)
	assert.Equal(t, "山田", c.Name)

	tags := reopened.Tags()
	require.Len(t, tags, 1)
	assert.Equal(t, "大阪府", tags[0].Name)

	broadcasts := reopened.Broadcasts()
	require.Len(t, broadcasts, 1)
	assert.Equal(t, "hello", broadcasts[0].Message)

	assert.Equal(t, "secret", reopened.AdminPassword())
}

func TestUpdateTagsAbortsOnError(t *testing.T) {
	s, _ := newTestStore(t)
	boom := errors.New("boom")
	err := s.UpdateTags(func(tags []models.Tag) ([]models.Tag, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Tags())
}

func TestBroadcastsAppendOnly(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.AppendBroadcast(models.Broadcast{ID: "b1"}))
	require.NoError(t, s.AppendBroadcast(models.Broadcast{ID: "b2"}))

	got := s.Broadcasts()
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "b2", got[1].ID)
}

func TestNewToleratesCorruptDocuments(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, customersFile), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, tagsFile), []byte("[[["), 0o644))

	logger := zerolog.Nop()
	s, err := New(dir, &logger)
	require.NoError(t, err)

	// Unparseable documents come up empty instead of failing startup.
	assert.Empty(t, s.AllCustomers())
	assert.Empty(t, s.Tags())

	// The store stays fully usable and the next flush replaces the garbage.
	require.NoError(t, s.PutCustomer(&models.Customer{Token: "tok1", Name: "山田"}))
	reopened, err := New(dir, &logger)
	require.NoError(t, err)
	c, err := reopened.GetCustomer("tok1")
	require.NoError(t, err)
	assert.Equal(t, "山田", c.Name)
}

func TestNewToleratesMissingDirectoryContents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	logger := zerolog.Nop()
	s, err := New(dir, &logger)
	require.NoError(t, err)
	assert.Empty(t, s.AllCustomers())
	assert.Empty(t, s.Broadcasts())
	assert.Empty(t, s.AdminPassword())
}
