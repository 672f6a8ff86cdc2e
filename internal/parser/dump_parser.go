package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// openInput opens path, mapping a missing file to ErrFileNotFound.
func openInput(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return file, nil
}

// ParseDump reads a DD/AVD file laid out as described by layout.
func ParseDump(path string, layout Layout) (*Dump, error) {
	file, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadDump(file, path, layout)
}

// ReadDump parses dump rows from r. name is only used in error messages.
// The first row is a header and is discarded without validation.
func ReadDump(r io.Reader, name string, layout Layout) (*Dump, error) {
	schema, ok := schemas[layout]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownLayout, layout)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows are checked against the schema instead
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	dump := NewDump(name, layout)
	headerSeen := false

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		line, _ := reader.FieldPos(0)

		if !headerSeen {
			headerSeen = true
			continue
		}
		if isBlankRow(row) {
			continue
		}
		if len(row) < schema.Width() {
			return nil, &MalformedRowError{
				Path:  name,
				Line:  line,
				Field: "row",
				Value: strings.Join(row, ","),
				Err:   fmt.Errorf("expected %d columns for %v layout, got %d", schema.Width(), layout, len(row)),
			}
		}

		if err := dump.parseRow(row, schema, line); err != nil {
			return nil, err
		}
	}

	return dump, nil
}

// isBlankRow reports a row with no fields, which csv yields for a
// whitespace-only line as a single empty field. A row of several empty
// fields is not blank and fails on its coefficient.
func isBlankRow(row []string) bool {
	return len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "")
}

// field returns the trimmed value at column idx, or "" for absent columns.
func field(row []string, idx int) string {
	if idx == absent {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (d *Dump) parseRow(row []string, schema Schema, line int) error {
	malformed := func(fieldName, value string, err error) error {
		return &MalformedRowError{Path: d.Path, Line: line, Field: fieldName, Value: value, Err: err}
	}

	coefStr := field(row, schema.Coefficient)
	coef, err := strconv.ParseFloat(coefStr, 64)
	if err != nil {
		return malformed("coefficient", coefStr, err)
	}

	orderStr := field(row, schema.Order)
	order, err := strconv.Atoi(orderStr)
	if err != nil {
		return malformed("order", orderStr, err)
	}

	expStr := field(row, schema.Exponents)
	exponents, err := ParseExponents(expStr)
	if err != nil {
		return malformed("exponents", expStr, err)
	}

	if d.NumExponents == 0 {
		d.NumExponents = len(exponents)
	} else if len(exponents) != d.NumExponents {
		return malformed("exponents", expStr,
			fmt.Errorf("expected %d exponents, got %d", d.NumExponents, len(exponents)))
	}

	d.insert(
		PatchID(field(row, schema.Patch)),
		DeltaID(field(row, schema.Delta)),
		VariableID(field(row, schema.Variable)),
		TermIndex(field(row, schema.Term)),
		Coefficient{Coefficient: coef, Order: order, Exponents: exponents},
	)
	return nil
}

// ParseExponents converts a bracketed, space separated exponent field such
// as "[1 0 2]" into integers.
func ParseExponents(s string) ([]int, error) {
	s = strings.NewReplacer("[", "", "]", "").Replace(strings.TrimSpace(s))
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return nil, errors.New("no exponents")
	}
	exponents := make([]int, len(parts))
	for i, p := range parts {
		e, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		exponents[i] = e
	}
	return exponents, nil
}
