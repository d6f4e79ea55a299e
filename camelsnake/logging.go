package camelsnake

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to Logger
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger creates a Logger writing through l
func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{
		logger: l.With().Str("component", "camelsnake").Logger(),
	}
}

func (z *ZerologLogger) Debug(args ...interface{}) { z.logger.Debug().Msg(sprint(args)) }
func (z *ZerologLogger) Info(args ...interface{})  { z.logger.Info().Msg(sprint(args)) }
func (z *ZerologLogger) Warn(args ...interface{})  { z.logger.Warn().Msg(sprint(args)) }
func (z *ZerologLogger) Error(args ...interface{}) { z.logger.Error().Msg(sprint(args)) }

func sprint(args []interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
