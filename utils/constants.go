// File: utils/constants.go
package utils

import "time"

// MaxUtteranceRunes caps the text accepted per dialogue turn.
const MaxUtteranceRunes = 500

// SessionCleanupInterval is how often the in-memory session store sweeps expired sessions.
const SessionCleanupInterval = 5 * time.Minute

// HealthCheckInterval is how often Redis dependencies are pinged.
const HealthCheckInterval = 60 * time.Second
