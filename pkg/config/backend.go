package config

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heetch/confita"
	"github.com/heetch/confita/backend"
	"github.com/pkg/errors"
)

// ContextReader is satisfied by a CDK construct node.
type ContextReader interface {
	TryGetContext(key *string) interface{}
}

type contextBackend struct {
	node ContextReader
}

// NewContextBackend reads keys from the CDK context (cdk.json or `-c key=value`).
func NewContextBackend(node ContextReader) backend.Backend {
	return &contextBackend{node: node}
}

func (b *contextBackend) Name() string { return "cdk-context" }

func (b *contextBackend) Get(_ context.Context, key string) ([]byte, error) {
	raw := b.node.TryGetContext(&key)
	switch v := raw.(type) {
	case nil:
		return nil, backend.ErrNotFound
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, backend.ErrNotFound
		}
		return []byte(v), nil
	case *string:
		if v == nil || strings.TrimSpace(*v) == "" {
			return nil, backend.ErrNotFound
		}
		return []byte(*v), nil
	case []interface{}, map[string]interface{}:
		// cdk.json can hold the outputs list as structured JSON
		return json.Marshal(v)
	default:
		return []byte(fmt.Sprint(v)), nil
	}
}

type mapBackend struct {
	name   string
	values map[string]string
}

// NewMapBackend serves keys from a plain map, ignoring blank values.
func NewMapBackend(name string, values map[string]string) backend.Backend {
	return &mapBackend{name: name, values: values}
}

func (b *mapBackend) Name() string { return b.name }

func (b *mapBackend) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := b.values[key]
	if !ok || strings.TrimSpace(v) == "" {
		return nil, backend.ErrNotFound
	}
	return []byte(v), nil
}

// LoadParams resolves the invocation parameters from the backends, in order. A missing
// required parameter yields ErrMissingParameters before anything else happens.
func LoadParams(ctx context.Context, backends ...backend.Backend) (*Params, error) {
	var p Params
	if err := confita.NewLoader(backends...).Load(ctx, &p); err != nil {
		return nil, errors.Wrap(err, "could not load parameters")
	}
	p.PrefixName = strings.TrimSpace(p.PrefixName)
	p.StageName = strings.TrimSpace(p.StageName)
	p.AccountNumber = strings.TrimSpace(p.AccountNumber)
	p.Region = strings.TrimSpace(p.Region)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
