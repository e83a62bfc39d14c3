package logging

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// VerboseSink builds a zap.SugaredLogger console sink used by
// cmd/fltqctl's -verbose flag as an alternate, higher-volume log path
// alongside the slog fan-out Setup builds. Its Close result is meant to
// be combined with the slog sink's close error via multierr.Combine so a
// caller tearing down both sinks sees every flush failure, not just the
// first.
type VerboseSink struct {
	sugar *zap.SugaredLogger
}

// NewVerboseSink builds a development zap logger (human-readable console
// output, debug level) and wraps it as a VerboseSink.
func NewVerboseSink() (*VerboseSink, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &VerboseSink{sugar: logger.Sugar()}, nil
}

func (v *VerboseSink) Info(msg string, args ...any)  { v.sugar.Infow(msg, args...) }
func (v *VerboseSink) Warn(msg string, args ...any)  { v.sugar.Warnw(msg, args...) }
func (v *VerboseSink) Error(msg string, args ...any) { v.sugar.Errorw(msg, args...) }

func (v *VerboseSink) Close() error {
	return v.sugar.Sync()
}

// CombineCloses aggregates the close/flush errors of every sink a host
// registered, so one failing sink never hides another's failure.
func CombineCloses(closers ...func() error) error {
	var err error
	for _, c := range closers {
		if c == nil {
			continue
		}
		err = multierr.Append(err, c())
	}
	return err
}
