package multipart

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/kbukum/restkit/errors"
)

// Part is a single form value. The set of implementations is closed:
// TextPart, FilePart and StreamPart.
type Part interface {
	part()
}

// TextPart is a plain form field.
type TextPart struct {
	Value string
}

// FilePart uploads the contents of a file on disk.
type FilePart struct {
	Path     string
	MimeType string
}

// StreamPart uploads the contents of a reader under a file name.
type StreamPart struct {
	Filename string
	MimeType string
	Reader   io.Reader
}

func (TextPart) part()   {}
func (FilePart) part()   {}
func (StreamPart) part() {}

// Text creates a text field.
func Text(value string) TextPart { return TextPart{Value: value} }

// File creates a file upload read from path at encode time.
func File(path, mimeType string) FilePart { return FilePart{Path: path, MimeType: mimeType} }

// Stream creates a file upload read from r at encode time.
func Stream(filename, mimeType string, r io.Reader) StreamPart {
	return StreamPart{Filename: filename, MimeType: mimeType, Reader: r}
}

// Content is an insertion-ordered mapping of field name to Part.
// Putting an existing name replaces its part and keeps its position.
type Content struct {
	parts *linkedhashmap.Map
}

// NewContent creates an empty Content.
func NewContent() *Content {
	return &Content{parts: linkedhashmap.New()}
}

// Put sets the part for name.
func (c *Content) Put(name string, p Part) *Content {
	c.parts.Put(name, p)
	return c
}

// Get returns the part stored under name.
func (c *Content) Get(name string) (Part, bool) {
	v, ok := c.parts.Get(name)
	if !ok {
		return nil, false
	}
	p, _ := v.(Part)
	return p, true
}

// Remove deletes name.
func (c *Content) Remove(name string) {
	c.parts.Remove(name)
}

// Len returns the number of fields.
func (c *Content) Len() int {
	return c.parts.Size()
}

// Names returns field names in insertion order.
func (c *Content) Names() []string {
	names := make([]string, 0, c.parts.Size())
	for _, k := range c.parts.Keys() {
		names = append(names, k.(string))
	}
	return names
}

// each visits fields in insertion order until fn fails.
func (c *Content) each(fn func(name string, p Part) error) error {
	it := c.parts.Iterator()
	for it.Next() {
		name := it.Key().(string)
		if it.Value() == nil {
			return errors.InvalidArgument("content value for %q is nil", name)
		}
		p, ok := it.Value().(Part)
		if !ok {
			return errors.UnsupportedContentType(fmt.Sprintf("%T", it.Value()))
		}
		if err := fn(name, p); err != nil {
			return err
		}
	}
	return nil
}
