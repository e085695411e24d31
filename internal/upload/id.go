package upload

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// untitledName is used for descriptors that arrive without a name.
const untitledName = "untitled"

// NewID builds a task identifier from the creation time, the sanitized file
// name and a random UUID fragment. The random part keeps two files with the
// same name added within the same millisecond apart.
func NewID(name string, now time.Time) string {
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), idName(name), uuid.NewString()[:8])
}

// idName replaces every rune outside [A-Za-z0-9._] with '_', so the "-"
// separators of an ID stay unambiguous.
func idName(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			return r
		}
		return '_'
	}, name)
	if safe == "" {
		return untitledName
	}
	return safe
}

// Normalize returns f with a usable name and a non-negative size.
func Normalize(f File) File {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		f.Name = untitledName
	}
	if f.Size < 0 {
		f.Size = 0
	}
	return f
}
