package portfolio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/conneroisu/folio/internal/errors"
)

const sampleYAML = `fullName: Ada Lovelace
role: Engineer
intro: Hello
email: ada@example.com
phone: 5550100
skills: Go, Rust
experiences:
  - title: Engineer
    company: Acme
    dates: 2020 - 2022
    bullets: |
      Led X

      Improved Y
education:
  - degree: BSc
    year: 2019
theme: forest
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	d, err := Load(writeFile(t, "portfolio.yaml", sampleYAML))
	require.NoError(t, err)

	d = Normalize(d)
	assert.Equal(t, "Ada Lovelace", d.FullName)
	assert.Equal(t, "5550100", d.Phone)
	assert.Equal(t, Skills{"Go", "Rust"}, d.Skills)
	require.Len(t, d.Experiences, 1)
	assert.Equal(t, Lines{"Led X", "Improved Y"}, d.Experiences[0].Bullets)
	assert.Equal(t, "2019", d.Education[0].Year)
	assert.Equal(t, "forest", d.Theme)
	assert.NoError(t, Validate(d))
}

func TestLoadJSON(t *testing.T) {
	doc := `{"fullName":"Ada","skills":["Go"],"experiences":[{"title":"T","bullets":["a","b"]}]}`
	d, err := Load(writeFile(t, "portfolio.json", doc))
	require.NoError(t, err)
	assert.Equal(t, "Ada", d.FullName)
	assert.Equal(t, Lines{"a", "b"}, d.Experiences[0].Bullets)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load("portfolio.toml")
		assert.True(t, ferrors.HasCode(err, ferrors.ErrCodeUnsupportedFormat))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.True(t, ferrors.HasCode(err, ferrors.ErrCodeFileNotFound))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "fullName: [unterminated"))
		assert.True(t, ferrors.IsType(err, ferrors.ErrorTypeSchema))
	})

	t.Run("schema violations", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "fullName: Ada\nnickname: Countess\nexperiences: nope\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, ferrors.HasCode(err, ferrors.ErrCodeSchemaInvalid))

		var fields ferrors.FieldErrors
		require.True(t, errors.As(err, &fields))
		assert.Len(t, fields, 2)

		var fe *ferrors.FolioError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, path, fe.FilePath)
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			out, err := Encode(Sample(), format)
			require.NoError(t, err)

			back, err := Decode(out, format)
			require.NoError(t, err)
			if diff := cmp.Diff(Sample(), back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveWritesByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Save(path, Sample()))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", d.FullName)
}
