package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type slugInput struct {
	Slug string `validate:"omitempty,slug"`
}

func TestSlugValidator(t *testing.T) {
	v := validator.New()
	if err := v.RegisterValidation("slug", validateSlug); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		slug  string
		valid bool
	}{
		{"", true},
		{"electronics", true},
		{"home-and-garden", true},
		{"tv-4k", true},
		{"Electronics", false},
		{"home--garden", false},
		{"-leading", false},
		{"trailing-", false},
		{"with space", false},
		{"café", false},
	}

	for _, tc := range tests {
		t.Run(tc.slug, func(t *testing.T) {
			err := v.Struct(slugInput{Slug: tc.slug})
			if (err == nil) != tc.valid {
				t.Errorf("slug %q: expected valid=%v, got err=%v", tc.slug, tc.valid, err)
			}
		})
	}
}
