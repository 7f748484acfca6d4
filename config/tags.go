package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/structtag"
)

// ParseTags parses a struct tag fragment such as `validate:"required" db:"id"`.
// Surrounding backquotes are accepted.
func ParseTags(fragment string) (*structtag.Tags, error) {
	fragment = strings.Trim(strings.TrimSpace(fragment), "`")
	if fragment == "" {
		return nil, errors.New("empty struct tag")
	}
	tags, err := structtag.Parse(fragment)
	if err != nil {
		return nil, fmt.Errorf("invalid struct tag %q: %w", fragment, err)
	}
	if tags == nil || tags.Len() == 0 {
		return nil, fmt.Errorf("invalid struct tag %q", fragment)
	}
	return tags, nil
}
