package segment

import (
	"testing"

	"leadnavi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCustomers() []*models.Customer {
	return []*models.Customer{
		{Token: "t1", Name: "A", CreatedAt: "2025-01-01T00:00:00Z", Tags: []string{"大阪府", "マンション"}},
		{Token: "t2", Name: "B", CreatedAt: "2025-01-02T00:00:00Z", Tags: []string{"東京都"}},
		{Token: "t3", Name: "C", CreatedAt: "2025-01-03T00:00:00Z", Tags: []string{"大阪府"}},
		{Token: "t4", Name: "D", CreatedAt: "2025-01-04T00:00:00Z", Status: models.StatusBlocked, Tags: []string{"大阪府"}},
		{Token: "t5", Name: "E", CreatedAt: "2025-01-05T00:00:00Z", Status: models.StatusWithdrawn},
		{Token: "t6", Name: "F", CreatedAt: "2025-01-06T00:00:00Z"},
	}
}

func tokens(customers []*models.Customer) []string {
	out := make([]string, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.Token)
	}
	return out
}

func TestSelectAllExcludesBlockedAndWithdrawn(t *testing.T) {
	matched, err := Select(testCustomers(), models.FilterAll, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3", "t6"}, tokens(matched))
}

func TestSelectEmptyFilterTypeMeansAll(t *testing.T) {
	matched, err := Select(testCustomers(), "", []string{"大阪府"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3", "t6"}, tokens(matched))
}

func TestSelectIncludeAll(t *testing.T) {
	matched, err := Select(testCustomers(), models.FilterIncludeAll, []string{"大阪府", "マンション"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, tokens(matched))
}

func TestSelectIncludeAny(t *testing.T) {
	matched, err := Select(testCustomers(), models.FilterIncludeAny, []string{"大阪府", "東京都"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3"}, tokens(matched))
}

func TestSelectTaglessCustomer(t *testing.T) {
	// A customer with no tags never satisfies an include predicate and
	// always survives an exclude predicate.
	cases := map[string][]string{
		models.FilterIncludeAll: {"大阪府"},
		models.FilterIncludeAny: {"大阪府", "東京都"},
	}
	for mode, tags := range cases {
		matched, err := Select(testCustomers(), mode, tags)
		require.NoError(t, err)
		assert.NotContains(t, tokens(matched), "t6", mode)
	}

	for _, mode := range []string{models.FilterExcludeAll, models.FilterExcludeAny} {
		matched, err := Select(testCustomers(), mode, []string{"大阪府"})
		require.NoError(t, err)
		assert.Contains(t, tokens(matched), "t6", mode)
	}
}

func TestSelectExcludeAll(t *testing.T) {
	// Only customers carrying every filter tag are dropped.
	matched, err := Select(testCustomers(), models.FilterExcludeAll, []string{"大阪府", "マンション"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t3", "t6"}, tokens(matched))
}

func TestSelectExcludeAny(t *testing.T) {
	matched, err := Select(testCustomers(), models.FilterExcludeAny, []string{"大阪府"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t6"}, tokens(matched))
}

func TestSelectEmptyTagListReturnsActiveSet(t *testing.T) {
	matched, err := Select(testCustomers(), models.FilterIncludeAll, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3", "t6"}, tokens(matched))
}

func TestSelectInvalidMode(t *testing.T) {
	_, err := Select(testCustomers(), "include-some", []string{"大阪府"})
	assert.ErrorIs(t, err, ErrInvalidFilterMode)
}

func TestSelectOrdersByRegistrationTime(t *testing.T) {
	customers := []*models.Customer{
		{Token: "new", CreatedAt: "2025-06-01T00:00:00Z"},
		{Token: "old", CreatedAt: "2025-01-01T00:00:00Z"},
	}
	matched, err := Select(customers, models.FilterAll, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "new"}, tokens(matched))
}
