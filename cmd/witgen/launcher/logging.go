package launcher

import (
	"io"

	"github.com/evalphobia/logrus_sentry"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// verbosityLevels maps the numeric --log.verbosity to logrus levels.
var verbosityLevels = []logrus.Level{
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
	logrus.TraceLevel,
}

// NewLogger builds the logger every pipeline step writes to.
func NewLogger(cfg LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	if cfg.Verbosity < 0 || cfg.Verbosity >= len(verbosityLevels) {
		return nil, errors.Errorf("log verbosity must be between 0 and %d, got %d", len(verbosityLevels)-1, cfg.Verbosity)
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(verbosityLevels[cfg.Verbosity])

	switch cfg.Format {
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("unknown log format %q (valid: text, json)", cfg.Format)
	}

	if cfg.Sentry != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.Sentry, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to set up sentry")
		}
		hook.StacktraceConfiguration.Enable = true
		logger.AddHook(hook)
	}
	return logger, nil
}
