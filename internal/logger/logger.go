// Package logger builds the process-wide zerolog logger. Request-scoped
// fields (request id, client ip, actor) are attached by middleware and travel
// in the request context; services read the logger back with zerolog.Ctx.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

func New(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
