/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"io"
	"os"
	"sync"

	"github.com/ssgreg/logf"

	"github.com/acronis/go-crptapi/log"
)

type syncEntryWriter struct {
	mu      sync.Mutex
	encoder logf.Encoder
	output  io.Writer
}

//nolint:gocritic
func (ew *syncEntryWriter) WriteEntry(e logf.Entry) {
	ew.mu.Lock()
	defer ew.mu.Unlock()
	var buf logf.Buffer
	if err := ew.encoder.Encode(&buf, e); err != nil {
		_, _ = io.WriteString(ew.output, err.Error()+"\n")
		return
	}
	_, _ = ew.output.Write(buf.Data)
}

// NewLogger returns a synchronous JSON logger writing debug and higher messages to w (os.Stderr if nil).
// It is slow and should never be used in production.
func NewLogger(w io.Writer) log.FieldLogger {
	if w == nil {
		w = os.Stderr
	}
	ew := &syncEntryWriter{
		encoder: logf.NewJSONEncoder(logf.JSONEncoderConfig{
			EncodeTime:   logf.RFC3339NanoTimeEncoder,
			FieldKeyTime: "time",
		}),
		output: w,
	}
	return &log.LogfAdapter{Logger: logf.NewLogger(logf.LevelDebug, ew)}
}
