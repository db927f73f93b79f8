package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// Cursor identifies the last ledger entry of a page. Entries are ordered by posting
// date, then creation time, then line id, newest first.
type Cursor struct {
	PostingDate time.Time
	CreatedAt   time.Time
	LineID      string
}

// EncodeToken creates a base64 encoded token from a cursor.
func EncodeToken(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", c.PostingDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.LineID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the base64 encoded token back into a cursor.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	postingDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (posting date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	if parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (missing line id)")
	}
	return Cursor{PostingDate: postingDate, CreatedAt: createdAt, LineID: parts[2]}, nil
}

// After reports whether an entry at (postingDate, createdAt, lineID) sorts strictly
// after the cursor in newest-first order, i.e. belongs to the next page.
func (c Cursor) After(postingDate, createdAt time.Time, lineID string) bool {
	if !postingDate.Equal(c.PostingDate) {
		return postingDate.Before(c.PostingDate)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return lineID < c.LineID
}
