package portfolio

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	ferrors "github.com/conneroisu/folio/internal/errors"
)

//go:embed schema.json
var schemaJSON string

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// Format is a data file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", ferrors.NewConfigError(ferrors.ErrCodeUnsupportedFormat,
			"data file must end in .yaml, .yml or .json").WithFile(path)
	}
}

// Load reads, schema-checks and decodes a data file. The returned record is
// not normalized.
func Load(path string) (Data, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Data{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, ferrors.NewIOError(ferrors.ErrCodeFileNotFound, "cannot read data file", err).WithFile(path)
	}

	d, err := Decode(raw, format)
	if err != nil {
		var fe *ferrors.FolioError
		if errors.As(err, &fe) {
			fe.WithFile(path)
		}
		return Data{}, err
	}
	return d, nil
}

// Decode schema-checks and decodes a document. JSON is a subset of the YAML
// the decoder accepts, so both formats share one decoding path.
func Decode(raw []byte, format Format) (Data, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Data{}, ferrors.NewSchemaError(ferrors.ErrCodeSchemaInvalid, "data file is not valid "+string(format), err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	if err := CheckSchema(doc); err != nil {
		return Data{}, err
	}

	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, ferrors.NewSchemaError(ferrors.ErrCodeSchemaInvalid, "cannot decode data file", err)
	}
	return d, nil
}

// CheckSchema validates a generic document tree against the embedded JSON
// Schema. Violations come back as FieldErrors wrapped in a schema error.
func CheckSchema(doc interface{}) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return ferrors.NewSchemaError(ferrors.ErrCodeSchemaInvalid, "schema check could not run", err)
	}
	if result.Valid() {
		return nil
	}

	var fields ferrors.FieldErrors
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" || field == "(root)" {
			field = "(root)"
		}
		fields.Add(field, ferrors.ErrCodeSchemaInvalid, desc.Description())
	}
	return ferrors.NewSchemaError(ferrors.ErrCodeSchemaInvalid,
		fmt.Sprintf("data file has %d structural problem(s)", len(fields)), fields)
}

// Encode writes a record in the given format.
func Encode(d Data, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// Save encodes a record and writes it to path, choosing the format from the
// extension.
func Save(path string, d Data) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := Encode(d, format)
	if err != nil {
		return ferrors.WrapInternal(err, ferrors.ErrCodeWriteFailed, "cannot encode data file")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot write data file", err).WithFile(path)
	}
	return nil
}
