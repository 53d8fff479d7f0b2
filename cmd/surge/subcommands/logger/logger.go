package logger

import (
	"io"
	"log"
)

// Null returns a logger that discards everything. For tests.
func Null() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func Default() *log.Logger {
	return log.Default()
}
