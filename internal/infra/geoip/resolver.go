// Package geoip resolves and normalizes restaurant country codes.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"golang.org/x/text/language"
)

var (
	// ErrUnavailable is returned by lookups on a resolver without a database.
	ErrUnavailable = errors.New("geoip resolver unavailable")
	// ErrInvalidCountry is returned when a code is not an ISO 3166 region.
	ErrInvalidCountry = errors.New("invalid country code")
)

// DB maps client IPs to ISO 3166-1 alpha-2 codes using a MaxMind
// GeoIP2/GeoLite2 country database.
type DB struct {
	reader *geoip2.Reader
}

// Open loads the database at path. An empty path yields a nil *DB so
// callers can skip lookups entirely.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open %s: %w", path, err)
	}
	return &DB{reader: reader}, nil
}

func (d *DB) Country(ip string) (string, error) {
	if d == nil || d.reader == nil {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := d.reader.Country(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup %s: %w", ip, err)
	}
	return record.Country.IsoCode, nil
}

func (d *DB) Close() error {
	if d == nil || d.reader == nil {
		return nil
	}
	return d.reader.Close()
}

// Canonical returns the upper-case ISO 3166-1 alpha-2 form of code. Alpha-3
// and UN M.49 numeric codes are accepted and converted when they denote a
// country.
func Canonical(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrInvalidCountry
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountry, code)
	}
	if !region.IsCountry() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountry, code)
	}
	canon := region.Canonicalize().String()
	if len(canon) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountry, code)
	}
	return canon, nil
}
