// Package logging provides the process-wide zap logger.
//
// Call Initialize once at startup; until then every helper logs to a no-op
// logger, which keeps package tests silent.
package logging
