package catalog

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const tleLineLength = 69

// TLE is a two-line element set.
type TLE [2]string

// LoadTLEs reads three-line records (name, line 1, line 2) keyed by the
// trimmed name. Records with invalid lines are an error.
func LoadTLEs(r io.Reader) (map[string]TLE, error) {
	scanner := bufio.NewScanner(r)
	satellites := make(map[string]TLE)

	var name, line1 string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimRight(scanner.Text(), "\r ")
		if name == "" && strings.TrimSpace(text) == "" {
			continue
		}

		switch {
		case name == "":
			name = strings.TrimSpace(text)
		case line1 == "":
			line1 = text
		default:
			if err := ValidateTLE(line1, text); err != nil {
				return nil, errors.Wrapf(err, "tle: %s (line %d)", name, lineNo)
			}
			satellites[name] = TLE{line1, text}
			name, line1 = "", ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "tle")
	}
	if name != "" {
		return nil, errors.Wrapf(ErrMalformedRecord, "tle: %s is truncated", name)
	}
	return satellites, nil
}

func LoadTLEFile(path string) (map[string]TLE, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "tle")
	}
	defer file.Close()
	return LoadTLEs(file)
}

// ValidateTLE checks line numbers, lengths and modulo-10 checksums, since
// the SGP4 parser assumes well formed input.
func ValidateTLE(line1, line2 string) error {
	for i, line := range []string{line1, line2} {
		if len(line) != tleLineLength {
			return errors.Wrapf(ErrMalformedRecord, "line %d has %d characters", i+1, len(line))
		}
		if line[0] != byte('1'+i) || line[1] != ' ' {
			return errors.Wrapf(ErrMalformedRecord, "line %d does not start with %q", i+1, '1'+i)
		}
		want := int(line[68] - '0')
		if got := checksum(line[:68]); got != want {
			return errors.Wrapf(ErrMalformedRecord, "line %d checksum %d, want %d", i+1, got, want)
		}
	}
	if line1[2:7] != line2[2:7] {
		return errors.Wrapf(ErrMalformedRecord, "catalog numbers differ: %s != %s", line1[2:7], line2[2:7])
	}
	return nil
}

func checksum(s string) int {
	sum := 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}
