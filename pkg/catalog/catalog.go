// Package catalog holds the validated, immutable set of workflow states.
//
// The catalog is constructed once at startup from configuration and shared
// by reference with every component that needs it. Construction fails fast
// on an empty state list, duplicate state IDs, or transitions that point at
// states that do not exist.
package catalog

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/selvklart/docflow/pkg/models"
)

// Catalog is the ordered list of workflow states plus the document schema
// types the workflow applies to. It is immutable after construction.
type Catalog struct {
	states      []models.State
	index       map[string]int
	schemaTypes []string
}

// New validates the configuration and builds a catalog from it. Any error
// returned here is a configuration error; the process must not start
// serving with an invalid catalog.
func New(cfg models.Config) (*Catalog, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid workflow configuration: %w", err)
	}

	index := make(map[string]int, len(cfg.States))

	for i, state := range cfg.States {
		if _, exists := index[state.ID]; exists {
			return nil, fmt.Errorf("duplicate state id %q", state.ID)
		}

		index[state.ID] = i
	}

	for _, state := range cfg.States {
		for _, target := range state.Transitions {
			if _, exists := index[target]; !exists {
				return nil, fmt.Errorf("state %q allows a transition to unknown state %q", state.ID, target)
			}
		}
	}

	return &Catalog{
		states:      slices.Clone(cfg.States),
		index:       index,
		schemaTypes: slices.Clone(cfg.SchemaTypes),
	}, nil
}

// States returns the ordered state list.
func (c *Catalog) States() []models.State {
	return slices.Clone(c.states)
}

// SchemaTypes returns the document types this workflow applies to.
func (c *Catalog) SchemaTypes() []string {
	return slices.Clone(c.schemaTypes)
}

// AppliesTo reports whether documents of the given schema type take part in
// the workflow.
func (c *Catalog) AppliesTo(schemaType string) bool {
	return slices.Contains(c.schemaTypes, schemaType)
}

// ByID looks a state up by its ID.
func (c *Catalog) ByID(id string) (models.State, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.State{}, false
	}

	return c.states[i], true
}

// First returns the state new documents enter the workflow in.
func (c *Catalog) First() models.State {
	return c.states[0]
}

// Last returns the terminal state.
func (c *Catalog) Last() models.State {
	return c.states[len(c.states)-1]
}

// IsLast reports whether the given state ID is the terminal state.
func (c *Catalog) IsLast(id string) bool {
	return id == c.Last().ID
}

// IndexOf returns the position of a state in the ordered list, or -1 when
// the ID is unknown.
func (c *Catalog) IndexOf(id string) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}

	return i
}

// Next returns the linear successor of the given state. There is no
// successor for the terminal state or for an unknown ID.
func (c *Catalog) Next(id string) (models.State, bool) {
	i, ok := c.index[id]
	if !ok || i+1 >= len(c.states) {
		return models.State{}, false
	}

	return c.states[i+1], true
}
