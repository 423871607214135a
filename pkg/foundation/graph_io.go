package foundation

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func (e Edge) String() string {
	return fmt.Sprintf("%s -> %s", e.Source, e.Target)
}

func (e Edge) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Edge) UnmarshalText(data []byte) error {
	source, target, found := strings.Cut(string(data), " -> ")
	if !found {
		return errors.New("invalid edge format, expected `source -> target`")
	}
	if err := e.Source.UnmarshalText([]byte(source)); err != nil {
		return err
	}
	return e.Target.UnmarshalText([]byte(target))
}

// Properties describes the declared settings of a resource, with refs left unresolved.
func Properties(r Resource) map[string]interface{} {
	resolver := PlaceholderResolver{}
	switch r := r.(type) {
	case *Instance:
		return map[string]interface{}{
			"alias":                  r.Alias,
			"identityManagementType": r.IdentityManagementType,
			"attributes":             r.Attributes,
		}
	case *EncryptionKey:
		if r.Imported() {
			return map[string]interface{}{"importedArn": r.ImportedArn}
		}
		return map[string]interface{}{"alias": r.Alias, "enableKeyRotation": true}
	case *Bucket:
		return map[string]interface{}{
			"bucketName": r.BucketName,
			"shared":     r.Shared,
			"key":        r.Key.String(),
		}
	case *Stream:
		return map[string]interface{}{
			"streamName":   r.StreamName,
			"resourceType": string(r.ResourceType),
			"key":          r.Key.String(),
		}
	case *StorageAssociation:
		return map[string]interface{}{
			"method":         string(r.Method),
			"idempotencyKey": r.IdempotencyKey(),
			"parameters":     r.Parameters(resolver),
		}
	case *InstanceAttribute:
		return map[string]interface{}{
			"idempotencyKey": r.IdempotencyKey(),
			"parameters":     r.Parameters(resolver),
		}
	}
	return nil
}

// WriteYAML renders the plan as YAML. The document is assembled as a node tree so resources
// keep their dependency order and outputs their declaration order.
func (p *Plan) WriteYAML(w io.Writer) error {
	resources, err := p.Graph.Resources()
	if err != nil {
		return err
	}
	edges, err := p.Graph.Edges()
	if err != nil {
		return err
	}

	resourcesNode := mappingNode()
	for _, r := range resources {
		addPair(resourcesNode, scalarNode(r.ID().String()), sortedMap(Properties(r)))
	}

	edgesNode := &yaml.Node{Kind: yaml.SequenceNode}
	for _, e := range edges {
		edgesNode.Content = append(edgesNode.Content, scalarNode(e.String()))
	}

	outputsNode := mappingNode()
	for _, out := range p.Outputs.All() {
		o := mappingNode()
		addPair(o, scalarNode("value"), scalarNode(out.Resolved(PlaceholderResolver{})))
		addPair(o, scalarNode("type"), scalarNode(out.Type))
		addPair(o, scalarNode("exported"), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(out.Exported)})
		if out.Description != "" {
			addPair(o, scalarNode("description"), scalarNode(out.Description))
		}
		addPair(outputsNode, scalarNode(out.Name), o)
	}

	doc := mappingNode()
	addPair(doc, scalarNode("stack"), scalarNode(p.StackName))
	addPair(doc, scalarNode("resources"), resourcesNode)
	addPair(doc, scalarNode("edges"), edgesNode)
	addPair(doc, scalarNode("outputs"), outputsNode)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "could not write plan")
	}
	return enc.Close()
}

// MarshalJSON renders the plan with the same structure as WriteYAML.
func (p *Plan) MarshalJSON() ([]byte, error) {
	resources, err := p.Graph.Resources()
	if err != nil {
		return nil, err
	}
	doc := orderedmap.New()
	doc.Set("stack", p.StackName)

	rs := orderedmap.New()
	for _, r := range resources {
		entry := orderedmap.New()
		entry.Set("properties", Properties(r))
		deps, err := p.Graph.DirectDependencies(r.ID())
		if err != nil {
			return nil, err
		}
		dependsOn := make([]string, 0, len(deps))
		for _, d := range deps {
			dependsOn = append(dependsOn, d.String())
		}
		entry.Set("dependsOn", dependsOn)
		rs.Set(r.ID().String(), entry)
	}
	doc.Set("resources", rs)
	doc.Set("outputs", p.Outputs)
	return json.Marshal(doc)
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func addPair(m *yaml.Node, k, v *yaml.Node) {
	m.Content = append(m.Content, k, v)
}

// sortedMap turns nested string maps into yaml nodes with sorted keys.
func sortedMap(m map[string]interface{}) *yaml.Node {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	n := mappingNode()
	for _, k := range keys {
		var v *yaml.Node
		switch val := m[k].(type) {
		case map[string]interface{}:
			v = sortedMap(val)
		default:
			v = &yaml.Node{}
			if err := v.Encode(val); err != nil {
				v = scalarNode(fmt.Sprint(val))
			}
		}
		addPair(n, scalarNode(k), v)
	}
	return n
}
