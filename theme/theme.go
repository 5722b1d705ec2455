// Package theme defines the color and typography recommendation a model
// returns, along with the JSON schema that constrains and validates it.
package theme

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// SchemaJSON returns the JSON schema a generated theme must satisfy. The
// same document is passed to the model to constrain its output.
func SchemaJSON() json.RawMessage {
	return json.RawMessage(schemaJSON)
}

var hexPattern = regexp.MustCompile(`^#[A-F0-9]{6}$`)

// Hex is a 6-digit uppercase hex color with a leading #, e.g. "#1F497D".
type Hex string

func (h Hex) Valid() bool {
	return hexPattern.MatchString(string(h))
}

// RGB returns the color without the leading #, the form OOXML color
// attributes use.
func (h Hex) RGB() string {
	return strings.TrimPrefix(string(h), "#")
}

// ColorChoice is a single recommended color and the reason it was picked.
type ColorChoice struct {
	Color  Hex    `json:"color"`
	Reason string `json:"reason"`
}

// FontChoice is a single recommended font family and the reason it was
// picked.
type FontChoice struct {
	Family string `json:"family"`
	Reason string `json:"reason"`
}

type Fonts struct {
	Header FontChoice `json:"header"`
	Body   FontChoice `json:"body"`
}

type Colors struct {
	Dark              ColorChoice `json:"dark"`
	Light             ColorChoice `json:"light"`
	Accent1           ColorChoice `json:"accent1"`
	Accent2           ColorChoice `json:"accent2"`
	Accent3           ColorChoice `json:"accent3"`
	Accent4           ColorChoice `json:"accent4"`
	Accent5           ColorChoice `json:"accent5"`
	Accent6           ColorChoice `json:"accent6"`
	Hyperlink         ColorChoice `json:"hyperlink"`
	FollowedHyperlink ColorChoice `json:"followed_hyperlink"`
}

type Theme struct {
	Colors Colors `json:"colors"`
	Fonts  Fonts  `json:"fonts"`
}

// Document is the full theme recommendation: a slide background color plus
// the presentation-wide color scheme and fonts.
type Document struct {
	Background ColorChoice `json:"background"`
	Theme      Theme       `json:"theme"`
}

// SchemeColors maps the theme colors onto the OOXML color scheme keys they
// replace. Values are hex without the leading #.
func (c *Colors) SchemeColors() map[string]string {
	return map[string]string{
		"dk2":      c.Dark.Color.RGB(),
		"lt2":      c.Light.Color.RGB(),
		"accent1":  c.Accent1.Color.RGB(),
		"accent2":  c.Accent2.Color.RGB(),
		"accent3":  c.Accent3.Color.RGB(),
		"accent4":  c.Accent4.Color.RGB(),
		"accent5":  c.Accent5.Color.RGB(),
		"accent6":  c.Accent6.Color.RGB(),
		"hlink":    c.Hyperlink.Color.RGB(),
		"folHlink": c.FollowedHyperlink.Color.RGB(),
	}
}

// Parse validates data against the theme schema and unmarshals it. Nothing
// downstream of Parse needs to re-check color formats.
func Parse(data []byte) (*Document, error) {
	schema := new(jsonschema.Schema)
	if err := schema.UnmarshalJSON(schemaJSON); err != nil {
		return nil, fmt.Errorf("load theme schema: %w", err)
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve theme schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("decode theme JSON: %w", err)
	}
	if err := resolved.Validate(instance); err != nil {
		return nil, fmt.Errorf("theme does not match schema: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}

	return doc, nil
}
