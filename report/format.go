package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/chainsum/errs"
)

// Format selects a report rendering.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied name to a Format; the empty string is text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown report format %q (want text or yaml)", errs.ErrInvalidConfig, name)
	}
}

// Write renders in to w in the given format.
func Write(w io.Writer, in *Input, f Format) error {
	switch f {
	case FormatText, "":
		return WriteText(w, in)
	case FormatYAML:
		return WriteYAML(w, in)
	default:
		return fmt.Errorf("%w: unknown report format %q", errs.ErrInvalidConfig, string(f))
	}
}
