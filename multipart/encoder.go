package multipart

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kbukum/restkit/errors"
)

const (
	lineEnding  = "\r\n"
	ContentType = "multipart/form-data"
)

// FormDataContentType returns the Content-Type header value for boundary.
func FormDataContentType(boundary string) string {
	return ContentType + "; boundary=" + boundary
}

// Encoder writes multipart bodies.
type Encoder struct {
	// Conformant appends the closing "--boundary--" delimiter after the
	// last part.
	Conformant bool
}

// Encode renders content with boundary, without a closing delimiter.
func Encode(boundary string, content *Content) ([]byte, error) {
	return (&Encoder{}).Encode(boundary, content)
}

// Encode renders content with boundary into memory.
func (e *Encoder) Encode(boundary string, content *Content) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.EncodeTo(&buf, boundary, content); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes content to w. Each part is
//
//	--<boundary>\r\n
//	Content-Disposition: form-data; name="<name>"
//
// followed by "\r\n\r\n<value>" for text, or by
// "; filename=\"<file>\"\r\nContent-Type: <mime>;\r\n\r\n<bytes>" for files
// and streams, and terminated by "\r\n".
func (e *Encoder) EncodeTo(w io.Writer, boundary string, content *Content) error {
	if boundary == "" {
		return errors.InvalidArgument("boundary is required")
	}
	if content == nil {
		return errors.InvalidArgument("content is required")
	}

	ew := &errWriter{w: w}
	err := content.each(func(name string, p Part) error {
		ew.str("--" + boundary + lineEnding)
		ew.str(`Content-Disposition: form-data; name="` + name + `"`)

		switch v := p.(type) {
		case TextPart:
			ew.str(lineEnding + lineEnding + v.Value)
		case FilePart:
			data, err := os.ReadFile(v.Path)
			if err != nil {
				return errors.IO("read multipart file "+v.Path, err)
			}
			fileHeader(ew, filepath.Base(v.Path), v.MimeType)
			ew.write(data)
		case StreamPart:
			if v.Reader == nil {
				return errors.InvalidArgument("stream %q has no reader", name)
			}
			fileHeader(ew, v.Filename, v.MimeType)
			if ew.err == nil {
				if _, err := io.Copy(w, v.Reader); err != nil {
					return errors.IO("read multipart stream "+name, err)
				}
			}
		default:
			return errors.UnsupportedContentType(fmt.Sprintf("%T", p))
		}

		ew.str(lineEnding)
		return ew.err
	})
	if err != nil {
		return err
	}

	if e.Conformant && content.Len() > 0 {
		ew.str("--" + boundary + "--" + lineEnding)
	}
	return ew.err
}

func fileHeader(ew *errWriter, filename, mimeType string) {
	ew.str(`; filename="` + filename + `"` + lineEnding)
	ew.str("Content-Type: " + mimeType + ";" + lineEnding + lineEnding)
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) write(p []byte) {
	if ew.err != nil {
		return
	}
	if _, err := ew.w.Write(p); err != nil {
		ew.err = errors.IO("write multipart body", err)
	}
}

func (ew *errWriter) str(s string) {
	ew.write([]byte(s))
}
