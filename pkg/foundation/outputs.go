package foundation

import (
	"encoding/json"

	"github.com/iancoleman/orderedmap"
	"github.com/wdk/amazon-connect-foundation/pkg/config"
	"go.uber.org/zap"
)

// Output type tags.
const (
	OutputTypeString = "string"
	OutputTypeArn    = "arn"
)

type (
	// Output is a named value surfaced to downstream deployment units. Exactly one of
	// Value and Ref is meaningful: a non-nil Ref wins.
	Output struct {
		Name        string `json:"-"`
		Value       string `json:"value"`
		Ref         *Ref   `json:"-"`
		Type        string `json:"type"`
		Exported    bool   `json:"exported"`
		Description string `json:"description,omitempty"`
	}

	// Outputs keeps outputs in declaration order.
	Outputs struct {
		m *orderedmap.OrderedMap
	}
)

func NewOutputs() *Outputs {
	return &Outputs{m: orderedmap.New()}
}

func (o *Outputs) add(name string, value string, typ string) {
	o.m.Set(name, &Output{Name: name, Value: value, Type: typ, Exported: true})
}

func (o *Outputs) addRef(name string, ref Ref, typ string) {
	o.m.Set(name, &Output{Name: name, Ref: &ref, Type: typ, Exported: true})
}

func (o *Outputs) Get(name string) (*Output, bool) {
	v, ok := o.m.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Output), true
}

func (o *Outputs) Names() []string {
	return o.m.Keys()
}

func (o *Outputs) All() []*Output {
	keys := o.m.Keys()
	all := make([]*Output, 0, len(keys))
	for _, k := range keys {
		v, _ := o.m.Get(k)
		all = append(all, v.(*Output))
	}
	return all
}

// Resolved returns the value of the output, resolving refs through resolver.
func (out *Output) Resolved(resolver Resolver) string {
	if out.Ref != nil {
		return resolver.Resolve(*out.Ref)
	}
	return out.Value
}

// Describe attaches descriptions from the requested descriptors. Descriptors naming an output
// that is never produced are reported and otherwise ignored.
func (o *Outputs) Describe(descriptors []config.OutputDescriptor) []string {
	var unknown []string
	for _, d := range descriptors {
		out, ok := o.Get(d.Name)
		if !ok {
			zap.S().Warnf("requested output %q is not produced by this module", d.Name)
			unknown = append(unknown, d.Name)
			continue
		}
		if d.Description != "" {
			out.Description = d.Description
		}
	}
	return unknown
}

// Map renders the outputs as name -> {value, type, exported}, in declaration order.
func (o *Outputs) Map(resolver Resolver) *orderedmap.OrderedMap {
	m := orderedmap.New()
	for _, out := range o.All() {
		rendered := *out
		rendered.Value = out.Resolved(resolver)
		m.Set(out.Name, rendered)
	}
	return m
}

func (o *Outputs) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Map(PlaceholderResolver{}))
}

// PlaceholderResolver renders refs as ${provider:type:name.Attribute}, for plans shown
// before anything is deployed.
type PlaceholderResolver struct{}

func (PlaceholderResolver) Resolve(ref Ref) string {
	if ref.Resource.Type == TypeBucket && ref.Attribute == AttrArn {
		return (&Bucket{BucketName: ref.Resource.Name}).Arn()
	}
	return ref.String()
}
