package geomessage

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// XML tags of the recorded feed format.
const (
	tagRoot    = "geomessages"
	tagMessage = "geomessage"
)

// ErrNoMessages indicates a stream that contains no well-formed geomessage.
var ErrNoMessages = errors.New("geomessage: stream contains no messages")

// Reader yields geomessages from a recorded XML file, one at a time.
// It is forward-only: playback from the start again requires Rewind (or a
// fresh Reader).
//
// Open scans ahead to the first message so that field names are known
// before playback begins; that message is still returned by the first
// call to Next.
type Reader struct {
	path    string
	file    *os.File
	dec     *xml.Decoder
	pending *Message
	names   []string
	atEnd   bool
	err     error
}

// Open opens the recorded file at path and returns the field names of its
// first message. It fails with a wrapped fs.ErrNotExist if the file does
// not exist, or ErrNoMessages if no well-formed message is found.
func Open(path string) (*Reader, error) {
	r := &Reader{path: path}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) open() error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("opening message file: %w", err)
	}
	r.file = f
	r.dec = xml.NewDecoder(f)

	first, err := r.decodeNext()
	if err != nil {
		f.Close()
		r.file = nil
		r.dec = nil
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s", ErrNoMessages, r.path)
		}
		return fmt.Errorf("reading first message of %s: %w", r.path, err)
	}
	r.pending = &first
	r.names = first.Names()
	r.atEnd = false
	r.err = nil
	return nil
}

// FieldNames returns the field names of the first message in the file.
// Empty until Open has succeeded.
func (r *Reader) FieldNames() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Next returns the next message in the stream. The second return value is
// false once the stream is exhausted or unreadable; after that point AtEnd
// reports true and Err holds any decode error.
func (r *Reader) Next() (Message, bool) {
	if r.pending != nil {
		msg := *r.pending
		r.pending = nil
		return msg, true
	}
	if r.atEnd || r.dec == nil {
		return Message{}, false
	}
	msg, err := r.decodeNext()
	if err != nil {
		r.atEnd = true
		if !errors.Is(err, io.EOF) {
			r.err = err
		}
		return Message{}, false
	}
	return msg, true
}

// AtEnd reports whether the stream has been exhausted.
func (r *Reader) AtEnd() bool {
	return r.atEnd
}

// Err returns the decode error that ended the stream early, if any.
func (r *Reader) Err() error {
	return r.err
}

// Rewind reopens the file from the start. Used by looping playback; a
// forward pass is otherwise not restartable.
func (r *Reader) Rewind() error {
	if r.file != nil {
		r.file.Close()
	}
	return r.open()
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.dec = nil
	r.atEnd = true
	return err
}

// decodeNext scans forward to the next <geomessage> element and decodes its
// child elements as fields. Returns io.EOF when the stream ends.
func (r *Reader) decodeNext() (Message, error) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return Message{}, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != tagMessage {
			continue
		}
		return r.decodeFields(start)
	}
}

// decodeFields reads the children of one <geomessage> element. Each direct
// child element becomes a field whose value is the child's character data.
func (r *Reader) decodeFields(start xml.StartElement) (Message, error) {
	var fields []Field
	depth := 0
	var name string
	var value strings.Builder

	for {
		tok, err := r.dec.Token()
		if err != nil {
			return Message{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				name = t.Name.Local
				value.Reset()
			}
		case xml.CharData:
			if depth == 1 {
				value.Write(t)
			}
		case xml.EndElement:
			if depth == 0 {
				// End of the <geomessage> element itself.
				return New(fields), nil
			}
			if depth == 1 {
				fields = append(fields, Field{Name: name, Value: strings.TrimSpace(value.String())})
			}
			depth--
		}
	}
}
