package tsfile

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// variantSeparator joins <lengthvariant> texts inside one string, the same
// separator Qt uses in compiled catalogs.
const variantSeparator = "\u009c"

// Parse parses TS data.
func Parse(data []byte) (*File, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errors.New("no <TS> element found")
		}
		if err != nil {
			return nil, fmt.Errorf("parsing TS: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "TS" {
			return nil, fmt.Errorf("unexpected root element <%s>, want <TS>", se.Name.Local)
		}
		return parseTS(dec, se)
	}
}

func parseTS(dec *xml.Decoder, se xml.StartElement) (*File, error) {
	f := &File{}
	for _, attr := range se.Attr {
		switch attr.Name.Local {
		case "version":
			f.Version = attr.Value
		case "language":
			f.Language = attr.Value
		case "sourcelanguage":
			f.SourceLanguage = attr.Value
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading <TS>: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "context" {
				// <dependencies> and friends
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			c, err := parseContext(dec)
			if err != nil {
				return nil, err
			}
			// Contexts split across the file are merged, as lrelease does.
			if existing := f.Context(c.Name); existing != nil {
				existing.Messages = append(existing.Messages, c.Messages...)
				continue
			}
			f.Contexts = append(f.Contexts, c)
		case xml.EndElement:
			return f, nil
		}
	}
}

func parseContext(dec *xml.Decoder) (*Context, error) {
	c := &Context{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading <context>: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if c.Name, err = readText(dec); err != nil {
					return nil, err
				}
			case "comment":
				if c.Comment, err = readText(dec); err != nil {
					return nil, err
				}
			case "message":
				m, err := parseMessage(dec, t)
				if err != nil {
					return nil, fmt.Errorf("context %q: %w", c.Name, err)
				}
				c.Messages = append(c.Messages, m)
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return c, nil
		}
	}
}

func parseMessage(dec *xml.Decoder, se xml.StartElement) (*Message, error) {
	m := &Message{}
	for _, attr := range se.Attr {
		switch attr.Name.Local {
		case "id":
			m.ID = attr.Value
		case "numerus":
			m.Numerus = attr.Value == "yes"
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading <message>: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var target *string
			switch t.Name.Local {
			case "location":
				var loc Location
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "filename":
						loc.Filename = attr.Value
					case "line":
						loc.Line = attr.Value
					}
				}
				m.Locations = append(m.Locations, loc)
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			case "translation":
				if err := parseTranslation(dec, t, m); err != nil {
					return nil, fmt.Errorf("message %q: %w", m.Source, err)
				}
				continue
			case "source":
				target = &m.Source
			case "oldsource":
				target = &m.OldSource
			case "comment":
				target = &m.Comment
			case "oldcomment":
				target = &m.OldComment
			case "extracomment":
				target = &m.ExtraComment
			case "translatorcomment":
				target = &m.TranslatorComment
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			if *target, err = readText(dec); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return m, nil
		}
	}
}

func parseTranslation(dec *xml.Decoder, se xml.StartElement, m *Message) error {
	for _, attr := range se.Attr {
		if attr.Name.Local == "type" {
			m.Type = TranslationType(attr.Value)
		}
	}

	var direct strings.Builder
	var variants []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading <translation>: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			direct.Write(t)
		case xml.StartElement:
			switch t.Name.Local {
			case "byte":
				direct.WriteString(byteValue(t))
				if err := dec.Skip(); err != nil {
					return err
				}
			case "numerusform":
				form, err := readVariants(dec)
				if err != nil {
					return err
				}
				m.NumerusForms = append(m.NumerusForms, form)
			case "lengthvariant":
				v, err := readText(dec)
				if err != nil {
					return err
				}
				variants = append(variants, v)
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if !m.Numerus {
				if len(variants) > 0 {
					m.Translation = strings.Join(variants, variantSeparator)
				} else {
					m.Translation = direct.String()
				}
			}
			return nil
		}
	}
}

// readVariants reads a <numerusform>, which may itself hold <lengthvariant>s.
func readVariants(dec *xml.Decoder) (string, error) {
	var direct strings.Builder
	var variants []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			direct.Write(t)
		case xml.StartElement:
			switch t.Name.Local {
			case "byte":
				direct.WriteString(byteValue(t))
				if err := dec.Skip(); err != nil {
					return "", err
				}
			case "lengthvariant":
				v, err := readText(dec)
				if err != nil {
					return "", err
				}
				variants = append(variants, v)
			default:
				if err := dec.Skip(); err != nil {
					return "", err
				}
			}
		case xml.EndElement:
			if len(variants) > 0 {
				return strings.Join(variants, variantSeparator), nil
			}
			return direct.String(), nil
		}
	}
}

// readText reads the character content of the current element up to its end
// tag, decoding <byte value="…"/> escapes. Other child elements are skipped.
func readText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if t.Name.Local == "byte" {
				b.WriteString(byteValue(t))
			}
			if err := dec.Skip(); err != nil {
				return "", err
			}
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

// byteValue decodes <byte value="x1b"/> (hex) or <byte value="27"/> (decimal).
func byteValue(se xml.StartElement) string {
	for _, attr := range se.Attr {
		if attr.Name.Local != "value" {
			continue
		}
		v := attr.Value
		base := 10
		if strings.HasPrefix(v, "x") {
			v, base = v[1:], 16
		}
		n, err := strconv.ParseUint(v, base, 32)
		if err != nil {
			return ""
		}
		return string(rune(n))
	}
	return ""
}
