package openrocket

import (
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rocketcad/sdf/rocket"
	"golang.org/x/net/html/charset"
)

var (
	// ErrFormat is returned for input that is not an OpenRocket design.
	ErrFormat = errors.New("not an OpenRocket document")
	// ErrTooLarge is returned when an archive exceeds MaxArchiveSize.
	ErrTooLarge = errors.New("design archive too large")
)

// MaxArchiveSize bounds the bytes buffered from a zipped design.
var MaxArchiveSize int64 = 64 << 20

// componentKinds are the elements accepted inside subcomponents.
var componentKinds = map[string]bool{
	"stage":            true,
	"nosecone":         true,
	"bodytube":         true,
	"subcomponents":    true,
	"transition":       true,
	"trapezoidfinset":  true,
	"ellipticalfinset": true,
	"freeformfinset":   true,
	"tubefinset":       true,
	"launchlug":        true,
	"railbutton":       true,
	"engineblock":      true,
	"innertube":        true,
	"tubecoupler":      true,
	"bulkhead":         true,
	"centeringring":    true,
	"masscomponent":    true,
	"shockcord":        true,
	"parachute":        true,
	"streamer":         true,
	"boosterset":       true,
	"parallelstage":    true,
	"podset":           true,
}

// Open reads the design file at name.
func Open(name string) (*Document, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

// Decode reads a design from r. The input may be the zip archive written
// by current OpenRocket releases, a gzip stream as written by older ones,
// or plain XML.
func Decode(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(magic, []byte("PK\x03\x04")):
		data, err := io.ReadAll(io.LimitReader(br, MaxArchiveSize+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > MaxArchiveSize {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxArchiveSize)
		}
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		f := designEntry(zr)
		if f == nil {
			return nil, fmt.Errorf("%w: archive has no design entry", ErrFormat)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return decodeXML(rc)
	case bytes.HasPrefix(magic, []byte{0x1f, 0x8b}):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return decodeXML(gz)
	}
	return decodeXML(br)
}

// designEntry picks rocket.ork, or else the first .ork or .xml entry.
func designEntry(zr *zip.Reader) *zip.File {
	var first *zip.File
	for _, f := range zr.File {
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".ork", ".xml":
			if path.Base(f.Name) == "rocket.ork" {
				return f
			}
			if first == nil {
				first = f
			}
		}
	}
	return first
}

func decodeXML(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty input", ErrFormat)
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if tagName(se) != "openrocket" {
			return nil, fmt.Errorf("%w: root element %q", ErrFormat, se.Name.Local)
		}
		doc := &Document{Version: attr(se, "version"), Creator: attr(se, "creator")}
		if err := decodeRoot(dec, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
}

func decodeRoot(dec *xml.Decoder, doc *Document) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if tagName(t) != "rocket" {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			c, err := decodeComponent(dec, t, nil)
			if err != nil {
				return err
			}
			doc.Rocket = c
		case xml.EndElement:
			if doc.Rocket == nil {
				return fmt.Errorf("%w: no rocket element", ErrFormat)
			}
			return nil
		}
	}
}

func decodeComponent(dec *xml.Decoder, start xml.StartElement, parent *Component) (*Component, error) {
	c := &Component{Type: tagName(start), Values: map[string]string{}, parent: parent}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			tag := tagName(t)
			if tag == "subcomponents" {
				if err := decodeChildren(dec, c); err != nil {
					return nil, err
				}
				continue
			}
			text, nested, err := readText(dec)
			if err != nil {
				return nil, err
			}
			if nested {
				rocket.Logger().Debug().Str("component", c.Type).Str("tag", tag).Msg("skipping structured element")
				continue
			}
			if err := c.set(tag, t, text); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if c.ID == "" {
				c.ID = uuid.New().String()
				rocket.Logger().Debug().Str("component", c.Type).Str("name", c.Name).Str("id", c.ID).Msg("assigned component id")
			}
			return c, nil
		}
	}
}

func decodeChildren(dec *xml.Decoder, parent *Component) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			tag := tagName(t)
			switch {
			case tag == "subcomponents":
				if err := decodeChildren(dec, parent); err != nil {
					return err
				}
			case componentKinds[tag]:
				child, err := decodeComponent(dec, t, parent)
				if err != nil {
					return err
				}
				parent.Children = append(parent.Children, child)
			default:
				rocket.Logger().Debug().Str("parent", parent.Type).Str("tag", tag).Msg("skipping unknown component")
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// readText returns the character data of the current element. nested is
// true if the element has child elements, which are skipped.
func readText(dec *xml.Decoder) (text string, nested bool, err error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", false, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			nested = true
			if err := dec.Skip(); err != nil {
				return "", false, err
			}
		case xml.EndElement:
			return strings.TrimSpace(sb.String()), nested, nil
		}
	}
}

func (c *Component) set(tag string, se xml.StartElement, text string) error {
	switch tag {
	case "id":
		c.ID = text
	case "name":
		c.Name = text
	case "comment":
		c.Comment = text
	case "finish":
		c.Finish = text
	case "linestyle":
		c.LineStyle = text
	case "material":
		c.Material = text
		if d := attr(se, "density"); d != "" {
			c.Values["materialdensity"] = d
		}
	case "preset":
		c.Preset = strings.TrimSpace(attr(se, "manufacturer") + " " + attr(se, "partno"))
		if c.Preset == "" {
			c.Preset = text
		}
	case "color":
		c.Color = text
		if r, g, b := attr(se, "red"), attr(se, "green"), attr(se, "blue"); r != "" && g != "" && b != "" {
			c.Color = fmt.Sprintf("rgb(%s,%s,%s)", r, g, b)
		}
	case "position", "axialoffset":
		method := attr(se, "type")
		if tag == "axialoffset" {
			method = attr(se, "method")
		}
		c.Location = rocket.ParseLocation(method)
		if text == "" {
			return nil
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("%s %q: %s: %w", c.Type, c.Name, tag, err)
		}
		c.Position = v
	default:
		c.Values[tag] = text
	}
	return nil
}

func tagName(se xml.StartElement) string {
	return strings.ToLower(strings.TrimSpace(se.Name.Local))
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}
