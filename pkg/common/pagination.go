// Package common holds small helpers shared between the client and the
// in-memory test backend.
package common

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// DefaultPageSize is used when a listing call does not name one
const DefaultPageSize = 20

// MaxPageSize caps what a single page may return
const MaxPageSize = 100

// pageCursor is the decoded form of a page token. Clients treat tokens as
// opaque and pass them back verbatim.
type pageCursor struct {
	Offset int `json:"offset"`
}

// EncodePageToken builds the opaque cursor for the given offset
func EncodePageToken(offset int) string {
	raw, _ := json.Marshal(pageCursor{Offset: offset})
	return base64.URLEncoding.EncodeToString(raw)
}

// DecodePageToken extracts the offset from a cursor. An empty token means
// the first page.
func DecodePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("malformed page token: %w", err)
	}

	var cursor pageCursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return 0, fmt.Errorf("malformed page token: %w", err)
	}
	if cursor.Offset < 0 {
		return 0, fmt.Errorf("malformed page token: negative offset")
	}
	return cursor.Offset, nil
}

// ClampPageSize normalizes a requested page size
func ClampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}
