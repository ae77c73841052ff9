package workspace

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNoMessageID is returned when the profile declares no message.
	ErrNoMessageID = errors.New("profile declares no message")
	// ErrAmbiguousMessageID is returned when the profile declares several
	// messages and none was chosen.
	ErrAmbiguousMessageID = errors.New("profile declares more than one message")
)

// MessageID is one <Messages>/<Message> entry of a conformance profile.
type MessageID struct {
	ID       string `json:"id"`
	StructID string `json:"structId"`
	Name     string `json:"name"`
}

// MessageIDs lists the messages declared in the first <Messages> element of
// profile. Entries without an ID attribute are skipped; Name falls back to
// StructID, then to ID.
func MessageIDs(profile string) ([]MessageID, error) {
	dec := xml.NewDecoder(strings.NewReader(profile))
	dec.Strict = false

	var ids []MessageID
	depth := 0 // >0 inside the first <Messages>
	done := false
	for !done {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read profile: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case depth > 0:
				depth++
				if t.Name.Local == "Message" {
					if m, ok := messageID(t.Attr); ok {
						ids = append(ids, m)
					}
				}
			case t.Name.Local == "Messages":
				depth = 1
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
				done = depth == 0
			}
		}
	}
	return ids, nil
}

func messageID(attrs []xml.Attr) (MessageID, bool) {
	var m MessageID
	for _, a := range attrs {
		switch a.Name.Local {
		case "ID":
			m.ID = a.Value
		case "StructID":
			m.StructID = a.Value
		case "Name":
			m.Name = a.Value
		}
	}
	if m.ID == "" {
		return MessageID{}, false
	}
	if m.Name == "" {
		m.Name = m.StructID
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	return m, true
}

// SingleMessageID returns the only message of profile.
func SingleMessageID(profile string) (MessageID, error) {
	ids, err := MessageIDs(profile)
	if err != nil {
		return MessageID{}, err
	}
	switch len(ids) {
	case 0:
		return MessageID{}, ErrNoMessageID
	case 1:
		return ids[0], nil
	default:
		return MessageID{}, fmt.Errorf("%w: %d found", ErrAmbiguousMessageID, len(ids))
	}
}

// FormatXML re-indents an XML document with two spaces. Whitespace-only
// text between elements is dropped; prefixes are kept verbatim.
func FormatXML(text string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = false

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("format xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) == 0 {
				continue
			}
		case xml.StartElement:
			t.Name = rawName(t.Name)
			attrs := make([]xml.Attr, len(t.Attr))
			for i, a := range t.Attr {
				attrs[i] = xml.Attr{Name: rawName(a.Name), Value: a.Value}
			}
			t.Attr = attrs
			tok = t
		case xml.EndElement:
			t.Name = rawName(t.Name)
			tok = t
		}
		if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
			return "", fmt.Errorf("format xml: %w", err)
		}
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RawToken returns the prefix in Name.Space; the encoder would treat it as a
// namespace URI, so fold it back into Local.
func rawName(n xml.Name) xml.Name {
	if n.Space == "" {
		return n
	}
	return xml.Name{Local: n.Space + ":" + n.Local}
}
