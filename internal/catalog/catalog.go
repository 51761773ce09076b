// Package catalog reads satellite catalogs and two-line element sets.
package catalog

import (
	"bufio"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"satviz/internal/orbit"
)

var ErrMalformedRecord = errors.New("malformed catalog record")

// Catalog columns, tab separated.
const (
	colName = iota
	colUsers
	colClass
	colApogee
	colPerigee
	colEccentricity
	colInclination
	colPeriod
	numColumns
)

// Record is one catalog line with typed fields.
type Record struct {
	Name           string
	Users          orbit.Category
	Class          orbit.Class
	Apogee         float64 // km
	Perigee        float64 // km
	Eccentricity   float64
	InclinationDeg float64
	PeriodMin      float64
}

// Parse reads tab separated records. Blank lines and lines starting with
// '#' are skipped. Any malformed line fails the whole catalog.
func Parse(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseRecord(strings.Split(line, "\t"))
		if err != nil {
			return nil, errors.Wrapf(err, "catalog: line %d", lineNo)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "catalog")
	}
	return records, nil
}

func parseRecord(fields []string) (Record, error) {
	if len(fields) != numColumns {
		return Record{}, errors.Wrapf(ErrMalformedRecord, "want %d fields, got %d", numColumns, len(fields))
	}

	rec := Record{Name: strings.TrimSpace(fields[colName])}
	if rec.Name == "" {
		return Record{}, errors.Wrap(ErrMalformedRecord, "empty name")
	}

	var err error
	if rec.Users, err = orbit.ParseCategory(fields[colUsers]); err != nil {
		return Record{}, errors.Wrap(ErrMalformedRecord, err.Error())
	}
	if rec.Class, err = orbit.ParseClass(fields[colClass]); err != nil {
		return Record{}, errors.Wrap(ErrMalformedRecord, err.Error())
	}

	numbers := []struct {
		col  int
		name string
		dst  *float64
	}{
		{colApogee, "apogee", &rec.Apogee},
		{colPerigee, "perigee", &rec.Perigee},
		{colEccentricity, "eccentricity", &rec.Eccentricity},
		{colInclination, "inclination", &rec.InclinationDeg},
		{colPeriod, "period", &rec.PeriodMin},
	}
	for _, n := range numbers {
		v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(fields[n.col]), ",", ""), 64)
		if err != nil {
			return Record{}, errors.Wrapf(ErrMalformedRecord, "%s %q", n.name, fields[n.col])
		}
		*n.dst = v
	}

	if rec.Eccentricity < 0 || rec.Eccentricity >= 1 {
		return Record{}, errors.Wrapf(ErrMalformedRecord, "eccentricity %v outside [0,1)", rec.Eccentricity)
	}
	if rec.PeriodMin <= 0 {
		return Record{}, errors.Wrapf(ErrMalformedRecord, "period %v", rec.PeriodMin)
	}
	return rec, nil
}

// Satellite builds the orbital state for r. Ω and ω come from rng.
func (r Record) Satellite(rng *rand.Rand) *orbit.Satellite {
	return &orbit.Satellite{
		Name:     r.Name,
		Users:    r.Users,
		Class:    r.Class,
		Elements: orbit.NewElements(r.Apogee, r.Perigee, r.Eccentricity, r.InclinationDeg, r.PeriodMin, rng),
		Visible:  true,
	}
}
