package geomessage

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
)

// EncodeXML serializes the message as a single <geomessage> element, one
// child element per field, in record order. This is the on-wire shape of
// one broadcast datagram.
func (m Message) EncodeXML() ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := encodeMessage(enc, m); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeMessage(enc *xml.Encoder, m Message) error {
	start := xml.StartElement{Name: xml.Name{Local: tagMessage}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, f := range m.fields {
		el := xml.StartElement{Name: xml.Name{Local: f.Name}}
		if err := enc.EncodeToken(el); err != nil {
			return err
		}
		if err := enc.EncodeToken(xml.CharData(f.Value)); err != nil {
			return err
		}
		if err := enc.EncodeToken(el.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// WriteFile writes messages to path as a recorded feed document:
// a <geomessages> root wrapping one <geomessage> element per record.
func WriteFile(path string, msgs []Message) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating message file: %w", err)
	}
	defer f.Close()

	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: tagRoot}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, m := range msgs {
		if err := encodeMessage(enc, m); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return enc.Flush()
}
