// Package zerolog adapts rs/zerolog to the engine's core.Logger
// interface.
package zerolog

import (
	"os"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New creates a zerolog-backed logger writing a colored console stream
// to stdout, or raw JSON when jsonFormat is set.
func New(level, dateTimeLayout string, colored, jsonFormat bool) (*Adapter, error) {
	logMode, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zerolog.SetGlobalLevel(logMode)

	if jsonFormat {
		logger := log.Output(os.Stdout).With().Timestamp().Logger()
		return NewAdapter(&logger), nil
	}

	output := zerolog.ConsoleWriter{
		Out:         os.Stdout,
		NoColor:     !colored,
		TimeFormat:  dateTimeLayout,
		FormatLevel: formatLevel,
	}

	logger := log.Output(output).With().Timestamp().Logger()
	return NewAdapter(&logger), nil
}

func formatLevel(i interface{}) string {
	levelStr, ok := i.(string)
	if !ok {
		return "[UNK]"
	}

	switch levelStr {
	case zerolog.LevelTraceValue:
		return term.Cyanf("[TRC]")
	case zerolog.LevelDebugValue:
		return term.Cyanf("[DBG]")
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WAR]")
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return term.Redf("[%s]", strings.ToUpper(levelStr)[:3])
	default:
		return term.Whitef("[UNK]")
	}
}

// DefaultTimeLayout is the console timestamp layout used when nothing
// else is configured.
const DefaultTimeLayout = time.DateTime
