/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/ssgreg/logf"
)

// MaskingLogger is a logger that masks secrets in messages and fields,
// e.g. document signatures in dumped HTTP requests.
type MaskingLogger struct {
	log    FieldLogger
	masker StringMasker
}

var _ FieldLogger = MaskingLogger{}

// NewMaskingLogger creates a new MaskingLogger.
func NewMaskingLogger(l FieldLogger, m StringMasker) FieldLogger {
	return MaskingLogger{l, m}
}

// With returns a new logger with the given additional fields.
func (l MaskingLogger) With(fs ...Field) FieldLogger {
	return MaskingLogger{l.log.With(l.maskFields(fs)...), l.masker}
}

// Debug logs a message at "debug" level.
func (l MaskingLogger) Debug(text string, fs ...Field) {
	l.log.Debug(l.masker.Mask(text), l.maskFields(fs)...)
}

// Info logs a message at "info" level.
func (l MaskingLogger) Info(text string, fs ...Field) {
	l.log.Info(l.masker.Mask(text), l.maskFields(fs)...)
}

// Warn logs a message at "warn" level.
func (l MaskingLogger) Warn(text string, fs ...Field) {
	l.log.Warn(l.masker.Mask(text), l.maskFields(fs)...)
}

// Error logs a message at "error" level.
func (l MaskingLogger) Error(text string, fs ...Field) {
	l.log.Error(l.masker.Mask(text), l.maskFields(fs)...)
}

// Debugf logs a formatted message at "debug" level.
func (l MaskingLogger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at "info" level.
func (l MaskingLogger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at "warn" level.
func (l MaskingLogger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at "error" level.
func (l MaskingLogger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// AtLevel calls the given fn if logging a message at the specified level
// is enabled, passing a LogFunc with the bound level.
func (l MaskingLogger) AtLevel(level Level, fn func(logFunc LogFunc)) {
	l.log.AtLevel(level, func(logFunc LogFunc) {
		fn(func(msg string, fs ...Field) {
			logFunc(l.masker.Mask(msg), l.maskFields(fs)...)
		})
	})
}

// WithLevel returns a new logger with additional level check.
func (l MaskingLogger) WithLevel(level Level) FieldLogger {
	return MaskingLogger{l.log.WithLevel(level), l.masker}
}

// maskFields returns fields unchanged if there is nothing to mask. Fields of other types are not masked.
func (l MaskingLogger) maskFields(fields []Field) []Field {
	var masked []Field
	replace := func(i int, f Field) {
		if masked == nil {
			masked = make([]Field, len(fields))
			copy(masked, fields)
		}
		masked[i] = f
	}
	for i := range fields {
		field := fields[i]
		switch field.Type {
		case logf.FieldTypeBytesToString:
			s := string(field.Bytes)
			if m := l.masker.Mask(s); m != s {
				replace(i, String(field.Key, m))
			}
		case logf.FieldTypeBytes, logf.FieldTypeRawBytes:
			if field.Bytes == nil {
				continue
			}
			s := string(field.Bytes)
			if m := l.masker.Mask(s); m != s {
				replace(i, logf.ConstBytes(field.Key, []byte(m)))
			}
		case logf.FieldTypeError:
			err, ok := field.Any.(error)
			if !ok || err == nil {
				continue
			}
			s := err.Error()
			if m := l.masker.Mask(s); m != s {
				replace(i, NamedError(field.Key, newMaskedError(err, l.masker, m)))
			}
		}
	}
	if masked == nil {
		return fields
	}
	return masked
}

func newMaskedError(err error, m StringMasker, maskedText string) error {
	if _, ok := err.(fmt.Formatter); ok {
		return maskedError{s: maskedText, verboseS: m.Mask(fmt.Sprintf("%+v", err))}
	}
	return errors.New(maskedText)
}

// maskedError keeps the verbose form of the error masked too.
type maskedError struct {
	s        string
	verboseS string
}

func (e maskedError) Error() string {
	return e.s
}

func (e maskedError) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, e.verboseS)
}
