package domain

import "time"

// PolicyEntry represents a row in the system_config table: a tunable
// business parameter consulted by the core at call time, not at startup.
type PolicyEntry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
