package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

type DataFormat string

const (
	FORMAT_LIST DataFormat = "list"
	FORMAT_JSON DataFormat = "json"
	FORMAT_YAML DataFormat = "yaml"
)

var Formats = []DataFormat{FORMAT_LIST, FORMAT_JSON, FORMAT_YAML}

func (df DataFormat) String() string {
	return string(df)
}

func (df *DataFormat) Set(v string) error {
	switch DataFormat(v) {
	case FORMAT_LIST, FORMAT_JSON, FORMAT_YAML:
		*df = DataFormat(v)
		return nil
	default:
		return fmt.Errorf("must be one of %v", Formats)
	}
}

func (df DataFormat) Type() string {
	return "DataFormat"
}

// Lister is implemented by values that can be printed as an aligned table
// in the list format.
type Lister interface {
	Header() []string
	Rows() [][]string
}

// Marshal renders data as outFormat. The list format requires data to
// implement Lister.
func Marshal(data any, outFormat DataFormat) ([]byte, error) {
	switch outFormat {
	case FORMAT_JSON:
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data into JSON: %w", err)
		}
		return b, nil
	case FORMAT_YAML:
		b, err := yaml.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data into YAML: %w", err)
		}
		return b, nil
	case FORMAT_LIST:
		l, ok := data.(Lister)
		if !ok {
			return nil, fmt.Errorf("%T cannot be printed as a list", data)
		}
		return table(l), nil
	default:
		return nil, fmt.Errorf("unknown data format: %s", outFormat)
	}
}

func table(l Lister) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(l.Header(), "\t"))
	for _, row := range l.Rows() {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	return buf.Bytes()
}

// Unmarshal decodes data formatted as inFormat into v.
func Unmarshal(data []byte, v any, inFormat DataFormat) error {
	switch inFormat {
	case FORMAT_JSON:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to unmarshal data from JSON: %w", err)
		}
	case FORMAT_YAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to unmarshal data from YAML: %w", err)
		}
	case FORMAT_LIST:
		return fmt.Errorf("the list format cannot be read back")
	default:
		return fmt.Errorf("unknown data format: %s", inFormat)
	}
	return nil
}

// DataFormatFromFileExt picks JSON or YAML from the extension of path and
// falls back to defaultFmt for anything else.
func DataFormatFromFileExt(path string, defaultFmt DataFormat) DataFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FORMAT_JSON
	case ".yaml", ".yml":
		return FORMAT_YAML
	}
	return defaultFmt
}
