package state

import (
	"time"

	"mjed/config"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:  time.Now(),
		Format: config.OutputFmtMarkup,
	}
}
