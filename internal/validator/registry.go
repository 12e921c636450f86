package validator

import (
	"slices"
	"strings"

	"github.com/thoreinstein/prerelease/internal/errors"
)

// ErrDuplicateValidator is returned when registering a name twice.
var ErrDuplicateValidator = errors.New("validator already registered")

// Registry holds the available validators in registration order.
type Registry struct {
	order  []string
	byName map[string]Validator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Validator),
	}
}

// Register adds v to the registry.
func (r *Registry) Register(v Validator) error {
	name := v.Name()
	if name == "" {
		return errors.New("validator name is empty")
	}
	if _, ok := r.byName[name]; ok {
		return errors.Wrapf(ErrDuplicateValidator, "%s", name)
	}
	r.byName[name] = v
	r.order = append(r.order, name)
	return nil
}

// MustRegister registers validators and panics on error. It is meant for
// building fixed registries at startup.
func (r *Registry) MustRegister(vs ...Validator) {
	for _, v := range vs {
		if err := r.Register(v); err != nil {
			panic(err)
		}
	}
}

// Get returns the validator registered under name.
func (r *Registry) Get(name string) (Validator, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// All returns every registered validator in registration order.
func (r *Registry) All() []Validator {
	out := make([]Validator, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Resolve maps selected names to validators, preserving selection order.
// A nil selection means every registered validator. Unknown or repeated
// names yield an error wrapping errors.ErrUnknownValidator or
// ErrDuplicateValidator.
func (r *Registry) Resolve(selected []string) ([]Validator, error) {
	if selected == nil {
		return r.All(), nil
	}

	var unknown []string
	seen := make(map[string]bool, len(selected))
	out := make([]Validator, 0, len(selected))
	for _, name := range selected {
		if seen[name] {
			return nil, errors.Wrapf(ErrDuplicateValidator, "%s selected more than once", name)
		}
		seen[name] = true

		v, ok := r.byName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		out = append(out, v)
	}

	if len(unknown) > 0 {
		return nil, errors.Wrapf(errors.ErrUnknownValidator, "%s (available: %s)",
			strings.Join(unknown, ", "), strings.Join(r.order, ", "))
	}
	return out, nil
}
