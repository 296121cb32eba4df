package observe

import (
	"io"

	"github.com/pkg/errors"
)

type Options struct {
	AppName     string
	Env         string
	Level       string
	SentryDSN   string
	SentryDebug bool
}

// NewLogger builds the process logger writing JSON records to w. With a
// Sentry DSN set, error records are forwarded to Sentry as well and flushed
// on Stop.
func NewLogger(opts Options, w io.Writer) (*Logger, error) {
	writers := []io.Writer{w}

	var hook *SentryHook
	if opts.SentryDSN != "" {
		h, err := NewSentryHook(opts.Env, opts.AppName, opts.SentryDSN, opts.SentryDebug)
		if err != nil {
			return nil, err
		}
		hook = h
		writers = append(writers, hook)
	}

	l := NewZapLogger(opts.AppName, writers...).WithEnv(opts.Env)
	if opts.Level != "" {
		if err := l.SetLevel(opts.Level); err != nil {
			return nil, errors.Wrapf(err, "log level %q", opts.Level)
		}
	}

	if hook != nil {
		hook.SetLogger(NewZapLogger(opts.AppName, w).WithEnv(opts.Env))
		l.hook = hook
	}

	return l, nil
}
