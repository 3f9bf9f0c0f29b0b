// Package segment selects broadcast audiences from customer records by
// tag-set predicates.
package segment

import (
	"errors"
	"sort"

	"leadnavi/internal/models"
)

// ErrInvalidFilterMode rejects unknown filter modes instead of silently
// matching every active customer.
var ErrInvalidFilterMode = errors.New("invalid filter mode")

// Select returns the customers matching the filter. Blocked and withdrawn
// records are always excluded first; "all" or an empty tag list returns
// the whole active set. Results are ordered by registration time so a
// preview and the following send see the same list.
func Select(customers []*models.Customer, filterType string, filterTags []string) ([]*models.Customer, error) {
	if filterType == "" {
		filterType = models.FilterAll
	}

	switch filterType {
	case models.FilterAll, models.FilterIncludeAll, models.FilterIncludeAny,
		models.FilterExcludeAll, models.FilterExcludeAny:
	default:
		return nil, ErrInvalidFilterMode
	}

	active := make([]*models.Customer, 0, len(customers))
	for _, c := range customers {
		switch c.EffectiveStatus() {
		case models.StatusBlocked, models.StatusWithdrawn:
			continue
		}
		active = append(active, c)
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].CreatedAt == active[j].CreatedAt {
			return active[i].Token < active[j].Token
		}
		return active[i].CreatedAt < active[j].CreatedAt
	})

	if filterType == models.FilterAll || len(filterTags) == 0 {
		return active, nil
	}

	out := make([]*models.Customer, 0, len(active))
	for _, c := range active {
		if matches(c, filterType, filterTags) {
			out = append(out, c)
		}
	}
	return out, nil
}

func matches(c *models.Customer, filterType string, filterTags []string) bool {
	switch filterType {
	case models.FilterIncludeAll:
		return hasAll(c, filterTags)
	case models.FilterIncludeAny:
		return hasAny(c, filterTags)
	case models.FilterExcludeAll:
		// Drop only customers carrying every filter tag.
		return !hasAll(c, filterTags)
	case models.FilterExcludeAny:
		// Drop customers carrying any filter tag.
		return !hasAny(c, filterTags)
	}
	return false
}

func hasAll(c *models.Customer, tags []string) bool {
	for _, t := range tags {
		if !c.HasTag(t) {
			return false
		}
	}
	return true
}

func hasAny(c *models.Customer, tags []string) bool {
	for _, t := range tags {
		if c.HasTag(t) {
			return true
		}
	}
	return false
}
