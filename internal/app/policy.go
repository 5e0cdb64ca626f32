package app

import "time"

// Policy is the configuration port used by the application.
// Implemented by internal/policy.Policy.
type Policy interface {
	SeedFile() string
	WatchSeed() bool
	IDStrategy() string
	SimulatedLatency() time.Duration
}
