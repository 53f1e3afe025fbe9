package portfolio

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNormalize(t *testing.T) {
	in := Data{
		FullName: "  Ada Lovelace ",
		Skills:   Skills{" Go", "", "  ", "Rust "},
		Experiences: []Experience{
			{Title: "Engineer", Bullets: Lines{"Led X", "", "  ", "Improved Y"}},
		},
		Education: []Education{
			{Year: "2020"},
			{Degree: "BSc"},
			{School: "  "},
		},
		Certifications: []Certification{
			{Year: "2021"},
			{Issuer: "CNCF"},
		},
	}

	got := Normalize(in)

	want := Data{
		FullName: "Ada Lovelace",
		Skills:   Skills{"Go", "Rust"},
		Experiences: []Experience{
			{Title: "Engineer", Bullets: Lines{"Led X", "Improved Y"}},
		},
		Education:      []Education{{Degree: "BSc"}},
		Certifications: []Certification{{Issuer: "CNCF"}},
		Theme:          "minimal-light",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
	assert.Equal(t, "  Ada Lovelace ", in.FullName, "input must not be mutated")
}

func TestNormalizeKeepsTheme(t *testing.T) {
	assert.Equal(t, "forest", Normalize(Data{Theme: " forest "}).Theme)
}

func TestInitials(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"Ada Lovelace", "AL"},
		{"Madonna", "M"},
		{"ada lovelace byron", "AL"},
		{"  Grace   Hopper ", "GH"},
		{"élodie durand", "ÉD"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Initials(tc.name))
		})
	}
}

func TestSlug(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"Ada Lovelace", "ada-lovelace"},
		{"  --Jean-Luc  Picard!! ", "jean-luc-picard"},
		{"O'Brien & Sons", "o-brien-sons"},
		{"Zoë", "zo"},
		{"***", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slug(tc.in))
		})
	}
}

func TestArchiveName(t *testing.T) {
	assert.Equal(t, "ada-lovelace-portfolio.zip", ArchiveName(Data{FullName: "Ada Lovelace"}))
}

func TestLinesAndSkillsDecoding(t *testing.T) {
	t.Run("yaml block and comma string", func(t *testing.T) {
		var e struct {
			Bullets Lines  `yaml:"bullets"`
			Skills  Skills `yaml:"skills"`
		}
		doc := "bullets: |\n  Led X\n\n  Improved Y\nskills: Go, Rust\n"
		require.NoError(t, yaml.Unmarshal([]byte(doc), &e))
		assert.Equal(t, Lines{"Led X", "", "Improved Y", ""}, e.Bullets)
		assert.Equal(t, Skills{"Go", " Rust"}, e.Skills)
	})

	t.Run("yaml lists", func(t *testing.T) {
		var e struct {
			Bullets Lines  `yaml:"bullets"`
			Skills  Skills `yaml:"skills"`
		}
		require.NoError(t, yaml.Unmarshal([]byte("bullets: [a, b]\nskills: [Go]\n"), &e))
		assert.Equal(t, Lines{"a", "b"}, e.Bullets)
		assert.Equal(t, Skills{"Go"}, e.Skills)
	})

	t.Run("json string and array", func(t *testing.T) {
		var e struct {
			Bullets Lines  `json:"bullets"`
			Skills  Skills `json:"skills"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"bullets":"a\nb","skills":["Go","Rust"]}`), &e))
		assert.Equal(t, Lines{"a", "b"}, e.Bullets)
		assert.Equal(t, Skills{"Go", "Rust"}, e.Skills)
	})

	t.Run("json rejects objects", func(t *testing.T) {
		var l Lines
		assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &l))
	})
}

func TestSplitHelpers(t *testing.T) {
	assert.Equal(t, Lines{"Led X", "Improved Y"}, SplitLines("Led X\n\n  \nImproved Y\n"))
	assert.Equal(t, Skills{"Go", "Rust"}, SplitSkills(" Go, ,Rust,"))
	assert.Nil(t, SplitSkills(""))
}

func TestHasContent(t *testing.T) {
	assert.False(t, Data{Theme: "forest"}.HasContent())
	assert.True(t, Data{Email: "a@b.co"}.HasContent())
	assert.True(t, Data{Experiences: []Experience{{Company: "Acme"}}}.HasContent())
}
