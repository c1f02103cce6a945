package morph

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed bands.yaml
var defaultBands []byte

// Band one interpretation interval. A band applies to values strictly below
// Below, or up to and including Upto; a band with neither is unbounded.
type Band struct {
	Below *float64 `yaml:"below,omitempty"`
	Upto  *float64 `yaml:"upto,omitempty"`
	Label string   `yaml:"label"`
}

func (b Band) bound() (float64, bool) {
	switch {
	case b.Below != nil:
		return *b.Below, true
	case b.Upto != nil:
		return *b.Upto, true
	}
	return 0., false
}

func (b Band) contains(v float64) bool {
	switch {
	case b.Below != nil:
		return v < *b.Below
	case b.Upto != nil:
		return v <= *b.Upto
	}
	return true
}

// Bands ordered interpretation intervals keyed by parameter.
type Bands map[string][]Band

// DefaultBands returns the embedded literature table.
func DefaultBands() Bands {
	b, err := LoadBands(bytes.NewReader(defaultBands))
	if err != nil {
		panic(err)
	}
	return b
}

// LoadBands decodes and validates a YAML band table.
func LoadBands(r io.Reader) (Bands, error) {
	var b Bands
	if err := yaml.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBands, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks that every key lists strictly increasing bounds and ends
// with an unbounded band.
func (bs Bands) Validate() error {
	keys := make([]string, 0, len(bs))
	for k := range bs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		bands := bs[k]
		if len(bands) == 0 {
			return fmt.Errorf("%w: %s has no bands", ErrInvalidBands, k)
		}
		for i, b := range bands {
			if b.Label == "" {
				return fmt.Errorf("%w: %s band %d has no label", ErrInvalidBands, k, i)
			}
			if b.Below != nil && b.Upto != nil {
				return fmt.Errorf("%w: %s band %d sets both below and upto", ErrInvalidBands, k, i)
			}
			v, bounded := b.bound()
			last := i == len(bands)-1
			switch {
			case last && bounded:
				return fmt.Errorf("%w: %s last band must be unbounded", ErrInvalidBands, k)
			case !last && !bounded:
				return fmt.Errorf("%w: %s band %d is unbounded", ErrInvalidBands, k, i)
			case i > 0 && bounded:
				if prev, _ := bands[i-1].bound(); v <= prev {
					return fmt.Errorf("%w: %s bounds are not increasing at band %d", ErrInvalidBands, k, i)
				}
			}
		}
	}
	return nil
}

// Merge returns bs with every key of over replacing its own bands.
func (bs Bands) Merge(over Bands) Bands {
	m := make(Bands, len(bs)+len(over))
	for k, b := range bs {
		m[k] = b
	}
	for k, b := range over {
		m[k] = b
	}
	return m
}

// Interpret returns the label of the band containing v.
func (bs Bands) Interpret(key string, v float64) (string, bool) {
	for _, b := range bs[key] {
		if b.contains(v) {
			return b.Label, true
		}
	}
	return "", false
}
