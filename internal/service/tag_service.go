package service

import (
	"strings"

	"leadnavi/internal/domain"
	"leadnavi/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TagService manages the shared tag catalog and customer tag sets.
type TagService struct {
	tags      domain.TagStore
	customers domain.CustomerStore
	logger    *zerolog.Logger
}

func NewTagService(tags domain.TagStore, customers domain.CustomerStore, logger *zerolog.Logger) *TagService {
	return &TagService{
		tags:      tags,
		customers: customers,
		logger:    logger,
	}
}

// List returns the full catalog.
func (s *TagService) List() []models.Tag {
	return s.tags.Tags()
}

// Create adds a catalog entry. Names must be unique.
func (s *TagService) Create(name, color, category string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTagName
	}
	if color == "" {
		color = models.TagColorDefault
	}

	tag := models.Tag{
		ID:       "tag_" + uuid.NewString(),
		Name:     name,
		Color:    color,
		Category: category,
	}
	err := s.tags.UpdateTags(func(tags []models.Tag) ([]models.Tag, error) {
		for _, t := range tags {
			if t.Name == name {
				return nil, ErrDuplicateTagName
			}
		}
		return append(tags, tag), nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("tag", tag.Name).Msg("Tag created")
	return &tag, nil
}

// Delete removes the catalog entry and sweeps the tag off every
// customer that carries it.
func (s *TagService) Delete(id string) error {
	var name string
	err := s.tags.UpdateTags(func(tags []models.Tag) ([]models.Tag, error) {
		kept := make([]models.Tag, 0, len(tags))
		for _, t := range tags {
			if t.ID == id {
				name = t.Name
				continue
			}
			kept = append(kept, t)
		}
		if name == "" {
			return nil, ErrNotFound
		}
		return kept, nil
	})
	if err != nil {
		return err
	}

	err = s.customers.UpdateAllCustomers(func(c *models.Customer) bool {
		if !c.HasTag(name) {
			return false
		}
		kept := c.Tags[:0]
		for _, t := range c.Tags {
			if t != name {
				kept = append(kept, t)
			}
		}
		c.Tags = kept
		return true
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("tag", name).Msg("Tag deleted")
	return nil
}

// SetCustomerTags replaces a customer's tag set verbatim.
func (s *TagService) SetCustomerTags(token string, tags []string) ([]string, error) {
	if tags == nil {
		tags = []string{}
	}
	updated, err := s.customers.UpdateCustomer(token, func(c *models.Customer) error {
		c.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Tags, nil
}

// EnsureTag makes sure a catalog entry exists for the value. Sentinel
// values never become tags. An existing entry without a category gets
// the category backfilled; its color is left alone.
func (s *TagService) EnsureTag(name, color, category string) error {
	if !models.IsFilled(name) {
		return nil
	}
	return s.tags.UpdateTags(func(tags []models.Tag) ([]models.Tag, error) {
		for i, t := range tags {
			if t.Name == name {
				if category != "" && t.Category == "" {
					tags[i].Category = category
				}
				return tags, nil
			}
		}
		return append(tags, models.Tag{
			ID:       "tag_" + uuid.NewString(),
			Name:     name,
			Color:    color,
			Category: category,
		}), nil
	})
}

// AutoTags derives the registration tag set from prefecture and
// property type, ensuring catalog entries along the way.
func (s *TagService) AutoTags(prefecture, propertyType string) []string {
	tags := []string{}
	if models.IsFilled(prefecture) {
		if err := s.EnsureTag(prefecture, models.TagColorPrefecture, models.TagCategoryPrefecture); err != nil {
			s.logger.Error().Err(err).Str("tag", prefecture).Msg("Failed to ensure prefecture tag")
		} else {
			tags = append(tags, prefecture)
		}
	}
	if models.IsFilled(propertyType) && propertyType != prefecture {
		if err := s.EnsureTag(propertyType, models.TagColorPropertyType, models.TagCategoryPropertyType); err != nil {
			s.logger.Error().Err(err).Str("tag", propertyType).Msg("Failed to ensure property type tag")
		} else {
			tags = append(tags, propertyType)
		}
	}
	if len(tags) > 0 {
		s.logger.Info().Strs("tags", tags).Msg("Auto-tags assigned")
	}
	return tags
}
