package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats understood by Serialize.
const (
	FormatYAML  = "yaml"
	FormatJSON  = "json"
	FormatTable = "table"
	FormatPlot  = "plot"
)

// ErrUnknownFormat is returned for formats Serialize does not handle.
// Table and plot rendering live in their own packages.
var ErrUnknownFormat = errors.New("unknown serialization format")

// jsonIndent matches the two-space indent used across report output.
const jsonIndent = "  "

// Serialize writes the history in the given text format.
func Serialize(points []Point, format string, w io.Writer) error {
	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(w)

		err := encoder.Encode(points)
		if err != nil {
			return fmt.Errorf("encode yaml history: %w", err)
		}

		return encoder.Close()
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", jsonIndent)

		err := encoder.Encode(points)
		if err != nil {
			return fmt.Errorf("encode json history: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
