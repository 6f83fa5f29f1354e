package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type lineKind int

const (
	lineSkip lineKind = iota
	lineMalformed
	lineField
	lineData
)

// lineResult is the outcome of parsing one raw line. err is set only for
// fatal coercion failures; malformed lines are reported through kind.
type lineResult struct {
	kind    lineKind
	key     string
	raw     string
	value   any
	points  []Point
	dropped int
	err     error
}

// parseLine splits line on its first whitespace run and coerces the value
// according to the key.
func parseLine(line string) lineResult {
	if strings.TrimSpace(line) == "" {
		return lineResult{kind: lineSkip}
	}
	line = strings.TrimLeftFunc(strings.TrimRight(line, "\r\n"), unicode.IsSpace)

	sep := strings.IndexFunc(line, unicode.IsSpace)
	if sep < 0 {
		return lineResult{kind: lineMalformed, raw: line}
	}
	key := strings.TrimSpace(line[:sep])
	rest := strings.TrimSpace(line[sep:])

	res := lineResult{kind: lineField, key: key, raw: rest}
	switch key {
	case KeyWidth, KeyHeight, KeyHornHeight, KeyGroundHeight:
		v, err := strconv.Atoi(rest)
		if err != nil {
			res.err = fmt.Errorf("expected integer: %w", err)
		}
		res.value = v
	case KeyLatCentre, KeyLonCentre, KeyLatitudeIncrement, KeyLongitudeIncrement:
		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			res.err = fmt.Errorf("expected float: %w", err)
		}
		res.value = v
	case KeyValidTime:
		v, err := time.Parse(ValidTimeLayout, rest)
		if err != nil {
			res.err = fmt.Errorf("expected YYYYMMDDHHmm: %w", err)
		}
		res.value = v
	case KeyData:
		res.kind = lineData
		res.points, res.dropped, res.err = parseData(rest)
	default:
		res.value = rest
	}
	return res
}

// parseData regroups a comma separated token list into (lat, lon, value)
// triples. Tokens of a trailing incomplete triple are dropped and counted.
// NaN and infinities are rejected.
func parseData(rest string) ([]Point, int, error) {
	tokens := strings.Split(rest, ",")
	n := len(tokens) / 3
	points := make([]Point, 0, n)

	for i := 0; i < n; i++ {
		var triple [3]float64
		for j := range triple {
			tok := strings.TrimSpace(tokens[3*i+j])
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("point %d: %w", i, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, 0, fmt.Errorf("point %d: non-finite value %q", i, tok)
			}
			triple[j] = v
		}
		points = append(points, Point{Lat: triple[0], Lon: triple[1], Value: triple[2]})
	}
	return points, len(tokens) % 3, nil
}
