// internal/cmdutil/log.go
package cmdutil

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogOptions selects encoder and level.
type LogOptions struct {
	JSON    bool
	Quiet   bool // warnings and errors only
	Verbose int  // >0 enables debug
}

// Level maps the options to a zap level; Quiet wins over Verbose.
func (o LogOptions) Level() zapcore.Level {
	switch {
	case o.Quiet:
		return zap.WarnLevel
	case o.Verbose > 0:
		return zap.DebugLevel
	default:
		return zap.InfoLevel
	}
}

// NewLogger builds a sugared logger writing to dst (normally stderr, so stdout
// stays clean for table previews).
func NewLogger(dst io.Writer, o LogOptions) *zap.SugaredLogger {
	var enc zapcore.Encoder
	if o.JSON {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.TimeKey = ""
		ec.CallerKey = ""
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(dst), zap.NewAtomicLevelAt(o.Level()))
	return zap.New(core).Sugar()
}

// Nop is the logger used before configuration is known.
func Nop() *zap.SugaredLogger { return zap.NewNop().Sugar() }
