package collection

import (
	"strconv"
	"strings"
	"time"
)

// Collection is a content set to be illustrated. Its id is assigned by the
// operator so it can be correlated with external data such as file names.
type Collection struct {
	ID                       int64     `json:"id"`
	Name                     string    `json:"name"`
	Type                     string    `json:"type"`
	CollectionPositivePrompt string    `json:"collection_positive_prompt"`
	CollectionNegativePrompt string    `json:"collection_negative_prompt"`
	Comment                  string    `json:"comment"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// CreateParams carries the fields accepted when creating a collection.
type CreateParams struct {
	ID                       *int64
	Name                     string
	Type                     string
	CollectionPositivePrompt string
	CollectionNegativePrompt string
	Comment                  string
}

// UpdateParams is a partial update; nil fields are left untouched.
type UpdateParams struct {
	Name                     *string
	Type                     *string
	CollectionPositivePrompt *string
	CollectionNegativePrompt *string
	Comment                  *string
}

// ParseID parses an operator supplied collection id.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
