package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Render encodes r in the given format.
func Render(r *Report, format string) ([]byte, error) {
	switch format {
	case "", FormatText:
		return []byte(Text(r)), nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal report")
		}

		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal report")
		}

		return data, nil
	}

	return nil, errors.Errorf("unsupported format %q, must be one of %s", format, strings.Join(Formats, ", "))
}

// Text renders r as a human-readable summary.
func Text(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Ran %d scenario", r.Total)
	if r.Total != 1 {
		b.WriteString("s")
	}

	if r.BaseURL != "" {
		fmt.Fprintf(&b, " against %s", r.BaseURL)
	}

	b.WriteString("\n\n")

	for _, s := range r.Scenarios {
		d := (time.Duration(s.DurationMs) * time.Millisecond).String()

		switch s.Status {
		case StatusPassed:
			fmt.Fprintf(&b, "  PASS  %s (%s)\n", s.ID(), d)
		case StatusFailed:
			fmt.Fprintf(&b, "  FAIL  %s (%s)\n", s.ID(), d)

			if s.Expected != "" {
				fmt.Fprintf(&b, "        expected %s, got %s\n", s.Expected, s.Actual)
			}

			fmt.Fprintf(&b, "        %s\n", s.Reason)
		case StatusSkipped:
			fmt.Fprintf(&b, "  SKIP  %s: %s\n", s.ID(), s.Cause)
		}
	}

	fmt.Fprintf(&b, "\n%d of %d scenarios passed.", r.Passed, r.Total)

	if r.Failed > 0 || r.Skipped > 0 {
		fmt.Fprintf(&b, " %d failed, %d skipped.", r.Failed, r.Skipped)
	}

	b.WriteString("\n")

	return b.String()
}

// Read loads a report written in the json or yaml format.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read report %s", path)
	}

	r := &Report{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, errors.Wrapf(err, "failed to parse report %s", path)
	}

	return r, nil
}
