// Package sse splits a server-pushed byte stream into blank-line-delimited
// records.
//
// Reads from the transport land on arbitrary byte boundaries: a record, or a
// single multi-byte character, may be split across reads. [Buffer] carries
// both kinds of partial input between calls, so the records it returns do
// not depend on how the stream was chunked.
package sse

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Delimiter separates records.
const Delimiter = "\n\n"

var delimiter = []byte(Delimiter)

// Buffer accumulates decoded text across reads and emits complete records.
// The zero value is not usable; call [NewBuffer].
type Buffer struct {
	dec     *encoding.Decoder
	carry   []byte // trailing bytes of an incomplete UTF-8 sequence
	pending []byte // text after the last delimiter
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{dec: unicode.UTF8.NewDecoder()}
}

// Feed decodes chunk, appends it to the pending text and returns every record
// completed by it, in order. Invalid UTF-8 is replaced with U+FFFD.
//
// The text after the last delimiter stays pending, even when it is empty.
// There is no flush: a pending tail left when the stream ends is discarded.
func (b *Buffer) Feed(chunk []byte) []string {
	text := b.decode(chunk)
	if len(text) == 0 {
		return nil
	}
	// Earlier text was already searched; only a delimiter straddling the
	// old end can reach back into it.
	from := max(len(b.pending)-len(Delimiter)+1, 0)
	b.pending = append(b.pending, text...)

	var records []string
	start := 0
	for {
		i := bytes.Index(b.pending[from:], delimiter)
		if i < 0 {
			break
		}
		end := from + i
		records = append(records, string(b.pending[start:end]))
		start = end + len(Delimiter)
		from = start
	}
	if start > 0 {
		b.pending = append(b.pending[:0], b.pending[start:]...)
	}
	return records
}

// Pending returns the text received after the last delimiter.
func (b *Buffer) Pending() string {
	return string(b.pending)
}

// Reset drops all buffered input.
func (b *Buffer) Reset() {
	b.dec.Reset()
	b.carry = nil
	b.pending = b.pending[:0]
}

func (b *Buffer) decode(chunk []byte) []byte {
	src := make([]byte, 0, len(b.carry)+len(chunk))
	src = append(src, b.carry...)
	src = append(src, chunk...)
	if len(src) == 0 {
		return nil
	}

	// Every invalid byte may expand to a three-byte U+FFFD.
	dst := make([]byte, len(src)*utf8.UTFMax)
	// With dst this large the only possible error is transform.ErrShortSrc,
	// reported for an incomplete sequence at the end of src.
	nDst, nSrc, _ := b.dec.Transform(dst, src, false)
	b.carry = append(b.carry[:0], src[nSrc:]...)
	return dst[:nDst]
}
