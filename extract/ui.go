package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// parseUI extracts the translatable <string> properties of a Designer form.
// The context is the form class named by the top-level <class> element.
func parseUI(data []byte) ([]extracted, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		context string
		depth   int
		pending []extracted
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing form: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case t.Name.Local == "class" && depth == 2:
				text, err := readChars(dec)
				if err != nil {
					return nil, err
				}
				depth--
				if context == "" {
					context = strings.TrimSpace(text)
				}
			case t.Name.Local == "string":
				line, _ := dec.InputPos()
				e, ok := uiString(t)
				text, err := readChars(dec)
				if err != nil {
					return nil, err
				}
				depth--
				if !ok || text == "" {
					continue
				}
				e.source = text
				e.line = line
				pending = append(pending, e)
			}
		case xml.EndElement:
			depth--
		}
	}

	if context == "" && len(pending) > 0 {
		return nil, fmt.Errorf("form has translatable strings but no <class>")
	}
	for i := range pending {
		pending[i].context = context
	}
	return pending, nil
}

// uiString reads the attributes of a <string> element. It reports false
// for strings marked notr="true".
func uiString(se xml.StartElement) (extracted, bool) {
	var e extracted
	for _, a := range se.Attr {
		switch a.Name.Local {
		case "notr":
			if a.Value == "true" {
				return e, false
			}
		case "comment":
			e.comment = a.Value
		case "extracomment":
			e.extraComment = a.Value
		case "id":
			e.id = a.Value
		}
	}
	return e, true
}

// readChars returns the character data up to the end of the current element.
func readChars(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("parsing form: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return b.String(), nil
}
