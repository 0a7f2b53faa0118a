package core

import (
	"fmt"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// FileID identifies one uploaded file within a batch. Filenames can repeat
// across a batch, so the upload index is part of the identity.
type FileID string

// NewFileID builds a FileID from the upload index and original filename.
func NewFileID(index int, filename string) FileID {
	return FileID(fmt.Sprintf("%d:%s", index, filename))
}

// String returns the string representation
func (id FileID) String() string {
	return string(id)
}
