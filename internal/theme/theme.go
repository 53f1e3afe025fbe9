// Package theme holds the fixed catalogue of portfolio colour themes and
// turns them into CSS custom-property blocks.
package theme

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default is the theme used when a portfolio does not name one.
const Default = "minimal-light"

// Mode selects one of the two token sets of a theme.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// Token is a single CSS custom property.
type Token struct {
	Name  string
	Value string
}

// TokenSet is an ordered list of tokens. Order follows the catalogue file.
type TokenSet []Token

// UnmarshalYAML decodes a YAML mapping while keeping its key order.
func (ts *TokenSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: token set must be a mapping", node.Line)
	}
	out := make(TokenSet, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: token %q must be a scalar", v.Line, k.Value)
		}
		out = append(out, Token{Name: k.Value, Value: v.Value})
	}
	*ts = out
	return nil
}

// MarshalJSON encodes the set as a JSON object in catalogue order.
func (ts TokenSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range ts {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(t.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(t.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object while keeping its key order.
func (ts *TokenSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("token set must be a JSON object")
	}

	out := TokenSet{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("token set key must be a string")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("token %q: %w", name, err)
		}
		out = append(out, Token{Name: name, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*ts = out
	return nil
}

// MarshalYAML encodes the set as an ordered mapping.
func (ts TokenSet) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, t := range ts {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: t.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: t.Value, Style: yaml.DoubleQuotedStyle},
		)
	}
	return node, nil
}

// Names returns the token names in order.
func (ts TokenSet) Names() []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}

// Get returns the value of a named token.
func (ts TokenSet) Get(name string) (string, bool) {
	for _, t := range ts {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}

// Theme is a named pair of light and dark token sets.
type Theme struct {
	ID    string   `yaml:"id" json:"id"`
	Name  string   `yaml:"name" json:"name"`
	Light TokenSet `yaml:"light" json:"light"`
	Dark  TokenSet `yaml:"dark" json:"dark"`
}

// Tokens returns the token set for a mode, or nil for an unknown mode.
func (t Theme) Tokens(mode Mode) TokenSet {
	switch mode {
	case ModeLight:
		return t.Light
	case ModeDark:
		return t.Dark
	default:
		return nil
	}
}

type catalogue struct {
	Themes []Theme `yaml:"themes"`
}

//go:embed themes.yaml
var catalogueYAML []byte

var (
	themes []Theme
	byID   map[string]int
)

func init() {
	loaded, err := Parse(catalogueYAML)
	if err != nil {
		panic(fmt.Sprintf("theme: embedded catalogue: %v", err))
	}
	themes = loaded
	byID = make(map[string]int, len(loaded))
	for i, t := range loaded {
		byID[t.ID] = i
	}
}

// Parse decodes and validates a catalogue document.
func Parse(data []byte) ([]Theme, error) {
	var c catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	if err := Validate(c.Themes); err != nil {
		return nil, err
	}
	return c.Themes, nil
}

// Validate checks that the catalogue is non-empty, ids are unique and every
// theme declares the same token names in the same order for both modes.
func Validate(list []Theme) error {
	if len(list) == 0 {
		return fmt.Errorf("catalogue has no themes")
	}

	seen := make(map[string]bool, len(list))
	reference := list[0].Light.Names()
	if len(reference) == 0 {
		return fmt.Errorf("theme %q: light token set is empty", list[0].ID)
	}

	for _, t := range list {
		if t.ID == "" {
			return fmt.Errorf("theme with name %q has no id", t.Name)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate theme id %q", t.ID)
		}
		seen[t.ID] = true

		for _, mode := range []Mode{ModeLight, ModeDark} {
			names := t.Tokens(mode).Names()
			if !equalNames(reference, names) {
				return fmt.Errorf("theme %q: %s tokens %v do not match %v", t.ID, mode, names, reference)
			}
		}
	}
	return nil
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// All returns every theme in catalogue order.
func All() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// IDs returns every theme id in catalogue order.
func IDs() []string {
	ids := make([]string, len(themes))
	for i, t := range themes {
		ids[i] = t.ID
	}
	return ids
}

// Lookup finds a theme by id.
func Lookup(id string) (Theme, bool) {
	i, ok := byID[id]
	if !ok {
		return Theme{}, false
	}
	return themes[i], true
}

// Exists reports whether id names a catalogue theme.
func Exists(id string) bool {
	_, ok := byID[id]
	return ok
}

// Variables renders one mode's tokens as CSS declarations, one per line,
// each indented by two spaces. Unknown themes or modes yield "".
func Variables(themeID string, mode Mode) string {
	t, ok := Lookup(themeID)
	if !ok {
		return ""
	}
	set := t.Tokens(mode)
	lines := make([]string, len(set))
	for i, tok := range set {
		lines[i] = "  " + tok.Name + ": " + tok.Value + ";"
	}
	return strings.Join(lines, "\n")
}

// CSS renders the :root block with light tokens and the
// [data-theme="dark"] block with dark tokens.
func CSS(themeID string) string {
	css := "\n:root {\n" + Variables(themeID, ModeLight) + "\n}\n\n" +
		"[data-theme=\"dark\"] {\n" + Variables(themeID, ModeDark) + "\n}\n"
	return strings.TrimSpace(css)
}
