package printer

import (
	"bytes"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Document builds an ESC/POS byte stream around pre-rendered text.
type Document struct {
	buf bytes.Buffer
}

// NewDocument creates a new ESC/POS document, already initialized.
func NewDocument() *Document {
	d := &Document{}
	d.Init()
	return d
}

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// SetLineSpacing sets line spacing in dots (ESC 3 n).
func (d *Document) SetLineSpacing(dots byte) *Document {
	d.buf.Write([]byte{ESC, '3', dots})
	return d
}

// Write appends text as is. A trailing newline is added when missing.
func (d *Document) Write(text string) *Document {
	d.buf.WriteString(text)
	if len(text) > 0 && text[len(text)-1] != '\n' {
		d.buf.WriteByte(LF)
	}
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Encode frames rendered text for an endpoint: plain text for raw and file
// endpoints, ESC/POS (init, line spacing, feed, cut) for everything else.
func Encode(ep Endpoint, text string) []byte {
	if ep.Raw {
		return []byte(text)
	}
	return NewDocument().
		SetLineSpacing(30).
		Write(text).
		FeedLines(4).
		PartialCut().
		Bytes()
}
