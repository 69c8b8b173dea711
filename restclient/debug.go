package restclient

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/restkit/logger"
)

// DebugConfig enables the request/response trace.
type DebugConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Output is stdout, stderr or a file path. File output is rotated.
	Output     string `yaml:"output" mapstructure:"output"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups" validate:"gte=0"`
}

// open resolves Output. The closer is nil for stdout and stderr.
func (c DebugConfig) open() (io.Writer, io.Closer) {
	w := logger.OutputWriter(&logger.Config{
		Output:     c.Output,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
	})
	switch strings.ToLower(c.Output) {
	case "", "stdout", "stderr":
		return w, nil
	}
	closer, _ := w.(io.Closer)
	return w, closer
}

// lockedWriter serializes lines written by concurrent calls.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) writeLine(line string) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, _ = io.WriteString(lw.w, line+"\n")
}

// debugSink writes trace lines:
//
//	9:04:05.123 POS http://host/path a=1
//	9:04:05.456 <-- 200 OK body
type debugSink struct {
	out *lockedWriter
	now func() time.Time
}

func (d *debugSink) enabled() bool {
	return d != nil && d.out != nil
}

func (d *debugSink) request(m Method, url string, body []byte) {
	if !d.enabled() {
		return
	}
	line := clockStamp(d.now()) + " " + m.Abbrev() + " " + url
	if m.HasBody() && len(body) > 0 {
		line += " " + string(body)
	}
	d.out.writeLine(line)
}

func (d *debugSink) response(code int, message, tail string) {
	if !d.enabled() {
		return
	}
	line := clockStamp(d.now()) + " <--"
	if code != 0 {
		line += fmt.Sprintf(" %d", code)
	}
	if message != "" {
		line += " " + message
	}
	if tail != "" {
		line += " " + tail
	}
	d.out.writeLine(line)
}

// clockStamp formats t as H:mm:ss.SSS.
func clockStamp(t time.Time) string {
	return fmt.Sprintf("%d:%s", t.Hour(), t.Format("04:05.000"))
}
