package isapi

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Element is one node of a device XML document.
//
// The vendor schema leans on repeatable elements rather than attributes, so
// the model is a name plus an ordered child sequence; leaf elements carry
// their character data in Text. Attributes (version, xmlns) are preserved so
// a fetched document can be written back unchanged apart from deliberate
// edits.
type Element struct {
	Name     string
	Attrs    []xml.Attr
	Text     string
	Children []*Element
}

// Decode parses an XML document into an Element tree rooted at the
// document element.
func Decode(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Name:  t.Name.Local,
				Attrs: copyAttrs(t.Attr),
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple document elements", ErrBadDocument)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unbalanced end element %q", ErrBadDocument, t.Name.Local)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrBadDocument)
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unterminated document", ErrBadDocument)
	}

	return root, nil
}

// copyAttrs clones the decoder's attribute slice, which is reused between tokens.
func copyAttrs(attrs []xml.Attr) []xml.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]xml.Attr, len(attrs))
	copy(out, attrs)
	return out
}

// Encode writes the element tree as an XML document, including the
// declaration header.
func (e *Element) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	enc := xml.NewEncoder(w)
	if err := e.encodeTo(enc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

func (e *Element) encodeTo(enc *xml.Encoder) error {
	start := xml.StartElement{
		Name: xml.Name{Local: e.Name},
		Attr: e.Attrs,
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	if text := strings.TrimSpace(e.Text); text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}

	for _, child := range e.Children {
		if err := child.encodeTo(enc); err != nil {
			return err
		}
	}

	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}

// Find returns the first direct child with the given name, or nil.
func (e *Element) Find(name string) *Element {
	for _, child := range e.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// FindAll returns every direct child with the given name, in document order.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	for _, child := range e.Children {
		if child.Name == name {
			out = append(out, child)
		}
	}
	return out
}

// TextOf returns the trimmed text of the first direct child with the given
// name, or "" when no such child exists.
func (e *Element) TextOf(name string) string {
	child := e.Find(name)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text)
}

// SetText replaces the text of the first direct child with the given name.
// It reports whether such a child was found.
func (e *Element) SetText(name, value string) bool {
	child := e.Find(name)
	if child == nil {
		return false
	}
	child.Text = value
	return true
}
