package domain

import "github.com/google/uuid"

// newUUID generates a random task/run identifier, using google/uuid for
// entity ids the same way internal/shared/domain does.
func newUUID() string {
	return uuid.NewString()
}
