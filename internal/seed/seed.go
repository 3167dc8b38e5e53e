// Package seed loads an initial taxonomy from a YAML file into the store.
package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"taxonomy/internal/logger"
	"taxonomy/internal/services"
)

// Entry is one category in a seed file. Children nest to any depth.
type Entry struct {
	Name        string  `yaml:"name"`
	Slug        string  `yaml:"slug"`
	Description string  `yaml:"description"`
	Icon        string  `yaml:"icon"`
	ImageURL    string  `yaml:"image_url"`
	Active      *bool   `yaml:"active"`
	SortOrder   int     `yaml:"sort_order"`
	Children    []Entry `yaml:"children"`
}

// File is the top level of a seed file.
type File struct {
	Categories []Entry `yaml:"categories"`
}

// Parse decodes a seed document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &f, nil
}

// LoadFile reads and seeds path. See Apply.
func LoadFile(ctx context.Context, store services.CategoryServicer, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading seed file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return 0, err
	}
	return Apply(ctx, store, f)
}

// Apply creates every entry whose slug is not already taken and returns the
// number created. Existing categories are left untouched but still serve as
// parents for their seeded children, so seeding twice is a no-op.
func Apply(ctx context.Context, store services.CategoryServicer, f *File) (int, error) {
	existing, err := store.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	bySlug := make(map[string]string, len(existing))
	for _, c := range existing {
		bySlug[c.Slug] = c.ID
	}

	created := 0
	var walk func(entries []Entry, parentID *string) error
	walk = func(entries []Entry, parentID *string) error {
		for _, e := range entries {
			slug := e.Slug
			if slug == "" {
				slug = services.Slugify(e.Name)
			}
			id, ok := bySlug[slug]
			if !ok {
				c, err := store.CreateCategory(ctx, services.CategoryInput{
					Name:        e.Name,
					Slug:        slug,
					Description: e.Description,
					Icon:        e.Icon,
					ImageURL:    e.ImageURL,
					IsActive:    e.Active,
					ParentID:    parentID,
					SortOrder:   e.SortOrder,
				})
				if err != nil {
					return fmt.Errorf("seeding %q: %w", e.Name, err)
				}
				id = c.ID
				bySlug[slug] = id
				created++
			}
			if err := walk(e.Children, &id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(f.Categories, nil); err != nil {
		return created, err
	}

	logger.Get().Infow("seeded categories", "created", created, "existing", len(existing))
	return created, nil
}
