package theme

import (
	"strings"
	"testing"
)

const validThemeJSON = `{
	"background": {"color": "#FFFFFF", "reason": "White background"},
	"theme": {
		"colors": {
			"dark": {"color": "#000000", "reason": "Black text"},
			"light": {"color": "#FFFFFF", "reason": "White background"},
			"accent1": {"color": "#0000FF", "reason": "Blue accent"},
			"accent2": {"color": "#FF0000", "reason": "Red accent"},
			"accent3": {"color": "#00FF00", "reason": "Green accent"},
			"accent4": {"color": "#FFFF00", "reason": "Yellow accent"},
			"accent5": {"color": "#00FFFF", "reason": "Cyan accent"},
			"accent6": {"color": "#FF00FF", "reason": "Magenta accent"},
			"hyperlink": {"color": "#0000FF", "reason": "Blue hyperlink"},
			"followed_hyperlink": {"color": "#800080", "reason": "Purple followed hyperlink"}
		},
		"fonts": {
			"header": {"family": "Georgia", "reason": "Serif headers"},
			"body": {"family": "Verdana", "reason": "Readable body text"}
		}
	}
}`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(validThemeJSON))
	if err != nil {
		t.Fatal(err)
	}

	if expected, actual := Hex("#FFFFFF"), doc.Background.Color; expected != actual {
		t.Errorf("Expected background %s, got %s", expected, actual)
	}
	if expected, actual := Hex("#800080"), doc.Theme.Colors.FollowedHyperlink.Color; expected != actual {
		t.Errorf("Expected followed hyperlink %s, got %s", expected, actual)
	}
	if expected, actual := "Georgia", doc.Theme.Fonts.Header.Family; expected != actual {
		t.Errorf("Expected header font %s, got %s", expected, actual)
	}
	if expected, actual := "Verdana", doc.Theme.Fonts.Body.Family; expected != actual {
		t.Errorf("Expected body font %s, got %s", expected, actual)
	}
}

func TestParseRejects(t *testing.T) {
	t.Run("lowercase hex", func(t *testing.T) {
		bad := strings.Replace(validThemeJSON, "#0000FF", "#0000ff", 1)
		if _, err := Parse([]byte(bad)); err == nil {
			t.Error("Expected error for lowercase hex color")
		}
	})

	t.Run("short hex", func(t *testing.T) {
		bad := strings.Replace(validThemeJSON, "#800080", "#808", 1)
		if _, err := Parse([]byte(bad)); err == nil {
			t.Error("Expected error for short hex color")
		}
	})

	t.Run("missing reason", func(t *testing.T) {
		bad := strings.Replace(validThemeJSON, `"reason": "Black text"`, `"note": "Black text"`, 1)
		if _, err := Parse([]byte(bad)); err == nil {
			t.Error("Expected error for missing reason")
		}
	})

	t.Run("missing color key", func(t *testing.T) {
		bad := strings.Replace(validThemeJSON, `"accent4"`, `"accentFour"`, 1)
		if _, err := Parse([]byte(bad)); err == nil {
			t.Error("Expected error for missing accent4")
		}
	})

	t.Run("truncated JSON", func(t *testing.T) {
		if _, err := Parse([]byte(validThemeJSON[:len(validThemeJSON)/2])); err == nil {
			t.Error("Expected error for truncated JSON")
		}
	})
}

func TestSchemeColors(t *testing.T) {
	doc, err := Parse([]byte(validThemeJSON))
	if err != nil {
		t.Fatal(err)
	}

	colors := doc.Theme.Colors.SchemeColors()
	for key, want := range map[string]string{
		"dk2":      "000000",
		"lt2":      "FFFFFF",
		"accent3":  "00FF00",
		"hlink":    "0000FF",
		"folHlink": "800080",
	} {
		if actual := colors[key]; actual != want {
			t.Errorf("Expected %s=%s, got %s", key, want, actual)
		}
	}
	if expected, actual := 10, len(colors); expected != actual {
		t.Errorf("Expected %d scheme colors, got %d", expected, actual)
	}
}

func TestHex(t *testing.T) {
	if !Hex("#1F497D").Valid() {
		t.Error("Expected #1F497D to be valid")
	}
	for _, bad := range []Hex{"1F497D", "#1f497d", "#1F497", "#1F497DA", ""} {
		if bad.Valid() {
			t.Errorf("Expected %q to be invalid", bad)
		}
	}
	if expected, actual := "1F497D", Hex("#1F497D").RGB(); expected != actual {
		t.Errorf("Expected %s, got %s", expected, actual)
	}
}
