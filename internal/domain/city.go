package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// City is one of the fixed depot cities served by the network.
// Cities are totally ordered west to east by their index.
type City int

const (
	CityNone City = iota - 1
	Windsor
	London
	Hamilton
	Toronto
	Oshawa
	Belleville
	Kingston
	Ottawa
)

var cityNames = [...]string{
	"Windsor",
	"London",
	"Hamilton",
	"Toronto",
	"Oshawa",
	"Belleville",
	"Kingston",
	"Ottawa",
}

// Cities returns every valid city in west-to-east order.
func Cities() []City {
	out := make([]City, 0, len(cityNames))
	for i := range cityNames {
		out = append(out, City(i))
	}
	return out
}

func (c City) Valid() bool { return c >= Windsor && c <= Ottawa }

func (c City) Index() int { return int(c) }

func (c City) String() string {
	if !c.Valid() {
		return "None"
	}
	return cityNames[c]
}

// ParseCity accepts a city name (case-insensitive) or its numeric index.
func ParseCity(s string) (City, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CityNone, fmt.Errorf("parse city: empty value: %w", ErrUnknownCity)
	}

	for i, name := range cityNames {
		if strings.EqualFold(name, s) {
			return City(i), nil
		}
	}

	if n, err := strconv.Atoi(s); err == nil && City(n).Valid() {
		return City(n), nil
	}

	return CityNone, fmt.Errorf("parse city %q: %w", s, ErrUnknownCity)
}

func (c City) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("marshal city %d: %w", int(c), ErrUnknownCity)
	}
	return []byte(c.String()), nil
}

func (c *City) UnmarshalText(b []byte) error {
	parsed, err := ParseCity(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
