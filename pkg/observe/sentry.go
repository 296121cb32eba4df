package observe

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

const (
	_sentryMaxErrorDepth        int           = 9
	_sentryFlushTimeout         time.Duration = 5 * time.Second
	_sentryServerRequestTimeout time.Duration = 5 * time.Second
)

// SentryHook is an io.Writer sink for the zap JSON encoder. It forwards
// error-level records to Sentry and drops everything else.
type SentryHook struct {
	appZone string
	appName string
	capture func(*sentry.Event) *sentry.EventID
	l       *Logger
}

func NewSentryHook(appZone, appName, dsn string, isDebug bool) (*SentryHook, error) {
	if dsn == "" {
		return nil, errors.New("sentry: empty DSN")
	}

	sentryTransport := sentry.NewHTTPTransport()
	sentryTransport.Timeout = _sentryServerRequestTimeout
	if err := sentry.Init(sentry.ClientOptions{
		AttachStacktrace: true,
		Debug:            isDebug,
		Dsn:              dsn,
		Environment:      appZone,
		MaxErrorDepth:    _sentryMaxErrorDepth,
		ServerName:       appName,
		Transport:        sentryTransport,
	}); err != nil {
		return nil, errors.Wrap(err, "sentry init")
	}

	return &SentryHook{
		appZone: appZone,
		appName: appName,
		capture: sentry.CaptureEvent,
	}, nil
}

// Flush waits for buffered events to be delivered.
func (h *SentryHook) Flush() bool {
	return sentry.Flush(_sentryFlushTimeout)
}

func (*SentryHook) mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.DebugLevel, zapcore.InvalidLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel, zapcore.DPanicLevel:
		return sentry.LevelFatal
	}

	return sentry.LevelDebug
}

type sentryRecord struct {
	Level      string `json:"level"`
	CallerFile string `json:"caller_file"`
	CallerLine int    `json:"caller_line"`
	CallerFunc string `json:"caller_func"`
	Stack      string `json:"stack"`
	Message    string `json:"msg"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	RunID      string `json:"run_id"`
}

func (h *SentryHook) Write(p []byte) (n int, err error) {
	var rec sentryRecord
	if err := json.Unmarshal(p, &rec); err != nil {
		h.report(errors.Wrap(err, "[SentryHook] json.Unmarshal data"))
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(rec.Level)
	if err != nil {
		h.report(errors.Wrap(err, "[SentryHook] parse zap level"))
		return len(p), nil
	}
	if level < zapcore.ErrorLevel || rec.Message == "" {
		return len(p), nil
	}

	timestamp, _ := time.ParseInLocation(timestampLayout, rec.Timestamp, time.UTC)

	event := sentry.NewEvent()
	event.Environment = h.appZone
	event.Level = h.mapLevel(level)
	event.Timestamp = timestamp
	event.Message = rec.Message
	event.Extra["AppName"] = h.appName
	event.Extra["Error"] = rec.Error
	event.Extra["CallerFile"] = rec.CallerFile
	event.Extra["CallerLine"] = rec.CallerLine
	event.Extra["CallerFunc"] = rec.CallerFunc
	event.Extra["Stack"] = rec.Stack
	if rec.RunID != "" {
		event.Tags["run_id"] = rec.RunID
	}
	event.Exception = append(event.Exception, sentry.Exception{
		Type:       rec.Message,
		Value:      rec.Error,
		Stacktrace: sentry.NewStacktrace(),
	})
	h.capture(event)

	return len(p), nil
}

// SetLogger routes the hook's own failures to l instead of the std logger.
// The hook must not be one of l's sinks.
func (h *SentryHook) SetLogger(logger *Logger) {
	if logger != nil {
		h.l = logger
	}
}

func (h *SentryHook) report(err error) {
	if h.l != nil {
		h.l.Warning(err.Error())
		return
	}
	log.Println(err.Error())
}
