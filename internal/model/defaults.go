package model

import "time"

// Shared defaults used by both the service and CLI binaries.
const (
	DefaultUpdateInterval = 2 * time.Second
	DefaultTablePageSize  = 10
	DefaultTaskLimit      = 50
)
