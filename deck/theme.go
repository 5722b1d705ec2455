package deck

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/beevik/etree"

	"github.com/glizzus/themedeck/theme"
)

const (
	masterPath     = "ppt/slideMasters/slideMaster1.xml"
	masterRelsPath = "ppt/slideMasters/_rels/slideMaster1.xml.rels"
	themeRelType   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	themeFallback  = "ppt/theme/theme1.xml"
)

// ApplyTheme rewrites the theme and slide master parts of the .pptx package
// in pptx according to doc and returns the new package bytes. Scheme colors
// that cannot be located are reported in the returned slice without aborting
// the edit; every part that is not edited round-trips byte for byte.
func ApplyTheme(pptx []byte, doc *theme.Document) ([]byte, []error, error) {
	zr, err := zip.NewReader(bytes.NewReader(pptx), int64(len(pptx)))
	if err != nil {
		return nil, nil, fmt.Errorf("open pptx: %w", err)
	}

	names := make([]string, 0, len(zr.File))
	parts := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		names = append(names, f.Name)
		parts[f.Name] = data
	}

	themePath := themePartPath(parts)
	themePart, ok := parts[themePath]
	if !ok {
		return nil, nil, fmt.Errorf("theme part %s not found", themePath)
	}

	edited, soft, err := editThemePart(themePart, doc)
	if err != nil {
		return nil, nil, err
	}
	parts[themePath] = edited

	if master, ok := parts[masterPath]; ok {
		edited, err := setMasterBackground(master, doc.Background.Color.RGB())
		if err != nil {
			soft = append(soft, err)
		} else {
			parts[masterPath] = edited
		}
	} else {
		soft = append(soft, fmt.Errorf("slide master %s not found", masterPath))
	}

	out := &bytes.Buffer{}
	zw := zip.NewWriter(out)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return nil, nil, fmt.Errorf("create zip entry: %w", err)
		}
		if _, err := w.Write(parts[name]); err != nil {
			zw.Close()
			return nil, nil, fmt.Errorf("write zip entry: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, nil, fmt.Errorf("close pptx: %w", err)
	}

	return out.Bytes(), soft, nil
}

// Restyle applies doc to an existing .pptx file and returns the restyled
// package bytes.
func Restyle(fname string, doc *theme.Document) ([]byte, []error, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, nil, err
	}
	return ApplyTheme(data, doc)
}

type relationships struct {
	Rels []relationship `xml:"Relationship"`
}

type relationship struct {
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// themePartPath resolves the theme part through the slide master's
// relationships, falling back to the conventional part name when the
// relationships cannot be read.
func themePartPath(parts map[string][]byte) string {
	rels, ok := parts[masterRelsPath]
	if !ok {
		return themeFallback
	}

	var rs relationships
	if err := xml.Unmarshal(rels, &rs); err != nil {
		return themeFallback
	}

	for _, r := range rs.Rels {
		if r.Type != themeRelType {
			continue
		}
		if strings.HasPrefix(r.Target, "/") {
			return strings.TrimPrefix(r.Target, "/")
		}
		// Relative targets resolve against the slide master directory.
		return path.Clean(path.Join("ppt/slideMasters", r.Target))
	}

	return themeFallback
}

func editThemePart(data []byte, doc *theme.Document) ([]byte, []error, error) {
	xmldoc := etree.NewDocument()
	if err := xmldoc.ReadFromBytes(data); err != nil {
		return nil, nil, fmt.Errorf("parse theme part: %w", err)
	}

	var soft []error

	scheme := xmldoc.FindElement("//a:themeElements/a:clrScheme")
	if scheme == nil {
		soft = append(soft, fmt.Errorf("theme part has no color scheme"))
	} else {
		colors := doc.Theme.Colors.SchemeColors()
		for _, key := range slices.Sorted(maps.Keys(colors)) {
			if err := setSchemeColor(scheme, key, colors[key]); err != nil {
				soft = append(soft, err)
			}
		}
	}

	if err := setFonts(xmldoc, doc.Theme.Fonts.Header.Family, doc.Theme.Fonts.Body.Family); err != nil {
		return nil, nil, err
	}

	out, err := xmldoc.WriteToBytes()
	if err != nil {
		return nil, nil, fmt.Errorf("serialize theme part: %w", err)
	}

	return out, soft, nil
}

func setSchemeColor(scheme *etree.Element, key, color string) error {
	el := scheme.FindElement("a:" + key)
	if el == nil {
		return fmt.Errorf("color scheme has no %s entry", key)
	}

	srgb := el.FindElement("a:srgbClr")
	if srgb == nil {
		return fmt.Errorf("%s is not an srgbClr color", key)
	}
	srgb.CreateAttr("val", color)

	return nil
}

func setFonts(xmldoc *etree.Document, header, body string) error {
	fs := xmldoc.FindElement("//a:fontScheme")
	if fs == nil {
		return fmt.Errorf("theme part has no font scheme")
	}

	setFont := func(fontTag, name string) error {
		font := fs.FindElement(fontTag)
		if font == nil {
			return fmt.Errorf("font scheme has no %s entry", fontTag)
		}
		latin := font.FindElement("a:latin")
		if latin == nil {
			return fmt.Errorf("%s has no latin typeface", fontTag)
		}
		latin.CreateAttr("typeface", name)
		return nil
	}

	if err := setFont("a:majorFont", header); err != nil {
		return err
	}
	return setFont("a:minorFont", body)
}

// setMasterBackground replaces the slide master background with a solid
// fill of the given color.
func setMasterBackground(data []byte, rgb string) ([]byte, error) {
	xmldoc := etree.NewDocument()
	if err := xmldoc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse slide master: %w", err)
	}

	csld := xmldoc.FindElement("//p:cSld")
	if csld == nil {
		return nil, fmt.Errorf("slide master has no p:cSld element")
	}

	if bg := csld.SelectElement("p:bg"); bg != nil {
		csld.RemoveChild(bg)
	}

	// p:bg must be the first child of p:cSld
	bg := etree.NewElement("p:bg")
	bgPr := bg.CreateElement("p:bgPr")
	bgPr.CreateElement("a:solidFill").CreateElement("a:srgbClr").CreateAttr("val", rgb)
	bgPr.CreateElement("a:effectLst")
	csld.InsertChildAt(0, bg)

	out, err := xmldoc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize slide master: %w", err)
	}

	return out, nil
}
