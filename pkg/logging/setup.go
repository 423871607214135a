package logging

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levelColours = map[zapcore.Level]*color.Color{
	zapcore.DebugLevel:  color.New(color.FgMagenta),
	zapcore.InfoLevel:   color.New(color.FgHiGreen),
	zapcore.WarnLevel:   color.New(color.FgHiYellow, color.Bold),
	zapcore.ErrorLevel:  color.New(color.FgHiRed, color.Bold),
	zapcore.DPanicLevel: color.New(color.FgHiRed, color.Bold),
	zapcore.PanicLevel:  color.New(color.FgHiRed, color.Bold),
	zapcore.FatalLevel:  color.New(color.FgHiRed, color.Bold),
}

type LogOpts struct {
	Verbose bool
	// Color is one of auto, always or never.
	Color string
	// Encoding is console or json.
	Encoding string
}

func (opts LogOpts) Encoder() (zapcore.Encoder, error) {
	switch opts.Encoding {
	case "json":
		if opts.Verbose {
			return zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig()), nil
		}
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), nil
	case "console", "":
		switch opts.Color {
		case "always", "on":
			color.NoColor = false
		case "never", "off":
			color.NoColor = true
		}
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = colourLevelEncoder
		if !opts.Verbose {
			cfg.CallerKey = zapcore.OmitKey
			cfg.StacktraceKey = zapcore.OmitKey
		}
		return zapcore.NewConsoleEncoder(cfg), nil
	default:
		return nil, errors.Errorf("unknown encoding %q", opts.Encoding)
	}
}

func colourLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	s := l.CapitalString()
	if c, ok := levelColours[l]; ok {
		s = c.Sprint(s)
	}
	enc.AppendString(s)
}

func (opts LogOpts) NewCore(w zapcore.WriteSyncer) (zapcore.Core, error) {
	enc, err := opts.Encoder()
	if err != nil {
		return nil, err
	}
	leveller := zap.NewAtomicLevel()
	if opts.Verbose {
		leveller.SetLevel(zap.DebugLevel)
	} else {
		leveller.SetLevel(zap.InfoLevel)
	}
	return zapcore.NewCore(enc, w, leveller), nil
}

// NewLogger builds a logger writing to w, or to stderr when w is nil.
func (opts LogOpts) NewLogger(w io.Writer) (*zap.Logger, error) {
	ws := zapcore.AddSync(os.Stderr)
	if w != nil {
		ws = zapcore.AddSync(w)
	}
	core, err := opts.NewCore(ws)
	if err != nil {
		return nil, err
	}
	return zap.New(core, zap.AddCaller()), nil
}

// Setup installs the logger as the zap global. The returned function restores the previous one.
func (opts LogOpts) Setup(w io.Writer) (func(), error) {
	logger, err := opts.NewLogger(w)
	if err != nil {
		return nil, err
	}
	return zap.ReplaceGlobals(logger), nil
}
