package node

import (
	"context"
)

// value types understood by the host editor
const (
	TypeImage  = "IMAGE"
	TypeString = "STRING"
)

// InputSpec declares one input slot of a node.
type InputSpec struct {
	Name      string
	Type      string
	Required  bool
	Default   string
	Multiline bool
	Masked    bool
	Choices   []string
}

// OutputSpec declares one output slot of a node.
type OutputSpec struct {
	Name string
	Type string
}

// Info carries the human-readable metadata the host uses for node discovery.
type Info struct {
	DisplayName string
	Category    string
}

// Values holds the named inputs or outputs of a single invocation.
type Values map[string]interface{}

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Descriptor is implemented by every node the host can invoke.
type Descriptor interface {
	Info() Info
	Inputs() []InputSpec
	Outputs() []OutputSpec
	Execute(ctx context.Context, in Values) (Values, error)
}
