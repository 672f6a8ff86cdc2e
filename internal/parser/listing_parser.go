package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseListing reads a DACE text listing holding an expansion variable
// followed by a function of it:
//
//	x
//	     I  COEFFICIENT              ORDER EXPONENTS
//	     1    1.0000000000000000e+00   1   1
//	------------------------------------------------
//	y = sin(x)
//	     I  COEFFICIENT              ORDER EXPONENTS
//	     ...
func ParseListing(path string) (*Listing, error) {
	file, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadListing(file, path)
}

// isListingHeader matches the "I COEFFICIENT ORDER EXPONENTS" line.
func isListingHeader(fields []string) bool {
	return len(fields) >= 2 && fields[0] == "I" && fields[1] == "COEFFICIENT"
}

// isSeparator matches the dashed line DACE prints after each variable.
func isSeparator(line string) bool {
	return len(line) >= 4 && strings.Trim(line, "-") == ""
}

// ReadListing parses a DACE text listing from r.
func ReadListing(r io.Reader, name string) (*Listing, error) {
	listing := &Listing{Path: name}
	scanner := bufio.NewScanner(r)

	current := &listing.Variable
	expectName := true
	headerSeen := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if expectName {
			current.Name = line
			expectName = false
			headerSeen = false
			continue
		}

		if isSeparator(line) {
			if current == &listing.Function {
				// Trailing separator after the function block.
				continue
			}
			current = &listing.Function
			expectName = true
			continue
		}

		fields := strings.Fields(line)
		if isListingHeader(fields) {
			headerSeen = true
			continue
		}
		if !headerSeen {
			return nil, &MalformedRowError{Path: name, Line: lineNo, Field: "header", Value: line}
		}
		// DACE prints this instead of rows for an all-zero variable.
		if strings.HasPrefix(line, "ALL COEFFICIENTS ZERO") {
			continue
		}

		term, err := parseListingTerm(fields, name, lineNo, line)
		if err != nil {
			return nil, err
		}
		current.Terms = append(current.Terms, term)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return listing, nil
}

func parseListingTerm(fields []string, name string, lineNo int, line string) (ListingTerm, error) {
	malformed := func(fieldName, value string, err error) error {
		return &MalformedRowError{Path: name, Line: lineNo, Field: fieldName, Value: value, Err: err}
	}
	if len(fields) < 4 {
		return ListingTerm{}, malformed("row", line, fmt.Errorf("expected at least 4 columns, got %d", len(fields)))
	}

	idx, err := strconv.Atoi(fields[0])
	if err != nil {
		return ListingTerm{}, malformed("index", fields[0], err)
	}
	coef, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return ListingTerm{}, malformed("coefficient", fields[1], err)
	}
	order, err := strconv.Atoi(fields[2])
	if err != nil {
		return ListingTerm{}, malformed("order", fields[2], err)
	}
	exponents, err := ParseExponents(strings.Join(fields[3:], " "))
	if err != nil {
		return ListingTerm{}, malformed("exponents", strings.Join(fields[3:], " "), err)
	}

	return ListingTerm{Index: idx, Coefficient: coef, Order: order, Exponents: exponents}, nil
}
