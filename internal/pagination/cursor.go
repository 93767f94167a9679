package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Limits applied when a request omits or exceeds the page size.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cursor represents a decoded pagination cursor
type Cursor struct {
	LastName string
}

// PageResult represents a paginated result set
type PageResult[T any] struct {
	Items   []T    `json:"items"`
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"has_more"`
}

var (
	ErrInvalidCursor = errors.New("invalid cursor format")
)

const cursorPrefix = "name:"

// EncodeCursor creates a base64-encoded cursor from the last item's name
func EncodeCursor(lastName string) string {
	if lastName == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(cursorPrefix + lastName))
}

// DecodeCursor decodes a cursor. An empty cursor decodes to nil.
func DecodeCursor(cursor string) (*Cursor, error) {
	if cursor == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	name, ok := strings.CutPrefix(string(decoded), cursorPrefix)
	if !ok || name == "" {
		return nil, ErrInvalidCursor
	}
	return &Cursor{LastName: name}, nil
}

// ClampLimit applies DefaultLimit and MaxLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Page slices an ordered list of names after the cursor. A cursor naming an item
// that is no longer listed is invalid.
func Page(names []string, cursor *Cursor, limit int) (*PageResult[string], error) {
	limit = ClampLimit(limit)

	start := 0
	if cursor != nil {
		start = -1
		for i, n := range names {
			if n == cursor.LastName {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, ErrInvalidCursor
		}
	}

	end := min(start+limit, len(names))
	items := make([]string, end-start)
	copy(items, names[start:end])

	result := &PageResult[string]{Items: items, HasMore: end < len(names)}
	if result.HasMore {
		result.Cursor = EncodeCursor(items[len(items)-1])
	}
	return result, nil
}
