package ring

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/agbru/nfloat/internal/nfloat"
)

// ErrUnknownType is returned for a type name that is not registered.
var ErrUnknownType = errors.New("ring: unknown type")

// RegisteredPrecisions lists the precisions, in bits, that have registered
// real and complex tables.
var RegisteredPrecisions = []int{64, 128, 192, 256, 512, 1024, 2048, 4096}

const (
	realPrefix    = "nfloat"
	complexPrefix = "nfloat_complex"
)

func realName(prec int) string    { return realPrefix + strconv.Itoa(prec) }
func complexName(prec int) string { return complexPrefix + strconv.Itoa(prec) }

var registry struct {
	once      sync.Once
	reals     map[string]*Table[nfloat.Float]
	complexes map[string]*Table[nfloat.Complex]
}

func load() {
	registry.once.Do(func() {
		registry.reals = make(map[string]*Table[nfloat.Float], len(RegisteredPrecisions))
		registry.complexes = make(map[string]*Table[nfloat.Complex], len(RegisteredPrecisions))
		for _, prec := range RegisteredPrecisions {
			c := nfloat.MustContext(prec)
			registry.reals[realName(prec)] = Real(c)
			registry.complexes[complexName(prec)] = Complex(c)
		}
	})
}

// LookupReal returns the registered real table for name, e.g. "nfloat256".
func LookupReal(name string) (*Table[nfloat.Float], error) {
	load()
	if t, ok := registry.reals[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// LookupComplex returns the registered complex table for name, e.g.
// "nfloat_complex128".
func LookupComplex(name string) (*Table[nfloat.Complex], error) {
	load()
	if t, ok := registry.complexes[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// IsComplex reports whether name denotes a complex type.
func IsComplex(name string) bool {
	return strings.HasPrefix(name, complexPrefix)
}

// Names returns all registered type names in sorted order.
func Names() []string {
	load()
	names := make([]string, 0, len(registry.reals)+len(registry.complexes))
	for name := range registry.reals {
		names = append(names, name)
	}
	for name := range registry.complexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
