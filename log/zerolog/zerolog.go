// Package zerolog adapts a zerolog.Logger to repcache.Logger.
package zerolog

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/unkn0wn-root/repcache"
)

var _ repcache.Logger = Logger{}

type Logger struct{ L zerolog.Logger }

func (z Logger) Debug(msg string, f repcache.Fields) { z.L.Debug().Fields(map[string]any(f)).Msg(msg) }
func (z Logger) Info(msg string, f repcache.Fields)  { z.L.Info().Fields(map[string]any(f)).Msg(msg) }
func (z Logger) Warn(msg string, f repcache.Fields)  { z.L.Warn().Fields(map[string]any(f)).Msg(msg) }
func (z Logger) Error(msg string, f repcache.Fields) { z.L.Error().Fields(map[string]any(f)).Msg(msg) }

// New returns a timestamped JSON logger writing to w at level.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
