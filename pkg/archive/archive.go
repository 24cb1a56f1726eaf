package archive

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/gravestench/dune/pkg/hsq"
)

// ErrNotFound is returned for a resource name the archive does not hold
var ErrNotFound = errors.New("archive: resource not found")

// Archive provides resources by name, as stored
type Archive interface {
	ReadRaw(name string) ([]byte, error)
}

// Read fetches name from a and unpacks it when it is HSQ packed
func Read(a Archive, name string) ([]byte, error) {
	data, err := a.ReadRaw(name)
	if err != nil {
		return nil, err
	}

	unpacked, err := hsq.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", name, err)
	}

	return unpacked, nil
}

// Map is an in-memory Archive keyed by resource name
type Map map[string][]byte

// ReadRaw returns the stored bytes of name
func (m Map) ReadRaw(name string) ([]byte, error) {
	data, found := m[name]
	if !found {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	return data, nil
}

// Names lists the resources of the archive in order
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
