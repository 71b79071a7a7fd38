package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads and validates the seed file.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the seed file from disk.
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	if err := validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func validate(f *File) error {
	for i, u := range f.Users {
		if u.Email == "" {
			return fmt.Errorf("seed user %d: email is required", i)
		}
		if len(u.Password) < 8 {
			return fmt.Errorf("seed user %s: password must be at least 8 characters", u.Email)
		}
		for j, bk := range u.Bookmarks {
			if bk.Title == "" || bk.URL == "" {
				return fmt.Errorf("seed user %s: bookmark %d: title and url are required", u.Email, j)
			}
		}
	}
	return nil
}
