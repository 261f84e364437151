package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatHTML = "html"
)

// ErrUnknownFormat wraps the offending format name.
type ErrUnknownFormat struct {
	Format string
}

func (e *ErrUnknownFormat) Error() string {
	return fmt.Sprintf("report: unknown format %q", e.Format)
}

// Render writes the summary to the writer in the requested format.
func Render(summary *Summary, format string, writer io.Writer) error {
	switch format {
	case FormatText:
		return WriteText(summary, writer)
	case FormatJSON:
		return writeJSON(summary, writer)
	case FormatYAML:
		return writeYAML(summary, writer)
	case FormatHTML:
		return WriteHTML(summary, writer)
	default:
		return &ErrUnknownFormat{Format: format}
	}
}

func writeJSON(summary *Summary, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(summary)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

func writeYAML(summary *Summary, writer io.Writer) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	_, err = writer.Write(data)
	if err != nil {
		return fmt.Errorf("yaml write: %w", err)
	}

	return nil
}
