package util

import (
	"log"
	"os"
)

// NewLogger returns the shared process logger.
func NewLogger() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags)
}
