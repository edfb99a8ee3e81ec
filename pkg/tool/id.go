package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered unique id, used for event
// subscriber handles and anywhere sortable ids are convenient.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
