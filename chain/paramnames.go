package chain

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arloliu/chainsum/errs"
)

// derivedMarker is appended to names of derived parameters in paramnames files.
const derivedMarker = "*"

// ReadParamNames reads a paramnames file: one "name label" pair per line, where
// the label is the remainder of the line. Line order defines the schema.
func ReadParamNames(path string) (Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return Schema{}, fmt.Errorf("failed to open paramnames: %w", err)
	}
	defer f.Close()

	return ParseParamNames(f, path)
}

// ParseParamNames parses paramnames content from r. name identifies the source in errors.
func ParseParamNames(r io.Reader, name string) (Schema, error) {
	var params []Param
	seen := make(map[string]int)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, defaultCommentPrefix) {
			continue
		}

		fields := strings.Fields(line)
		pname := strings.TrimSuffix(fields[0], derivedMarker)
		if pname == "" {
			return Schema{}, malformed(name, lineNo, "empty parameter name")
		}
		if first, dup := seen[pname]; dup {
			return Schema{}, malformed(name, lineNo, "parameter %q already declared on line %d", pname, first)
		}
		seen[pname] = lineNo

		label := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		params = append(params, Param{Name: pname, Label: label})
	}
	if err := sc.Err(); err != nil {
		return Schema{}, fmt.Errorf("%s: %w", name, err)
	}
	if len(params) == 0 {
		return Schema{}, fmt.Errorf("%s: %w: no parameters declared", name, errs.ErrInvalidConfig)
	}

	return NewSchema(params)
}
