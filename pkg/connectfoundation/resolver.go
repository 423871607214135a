package connectfoundation

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
)

// tokenResolver resolves references to the CDK tokens of already rendered constructs.
type tokenResolver struct {
	attrs      map[foundation.ResourceId]map[string]*string
	unresolved map[string]struct{}
}

func newTokenResolver() *tokenResolver {
	return &tokenResolver{
		attrs:      make(map[foundation.ResourceId]map[string]*string),
		unresolved: make(map[string]struct{}),
	}
}

func (r *tokenResolver) set(id foundation.ResourceId, attribute string, token *string) {
	if r.attrs[id] == nil {
		r.attrs[id] = make(map[string]*string)
	}
	r.attrs[id][attribute] = token
}

func (r *tokenResolver) Resolve(ref foundation.Ref) string {
	if token := r.attrs[ref.Resource][ref.Attribute]; token != nil {
		return *token
	}
	if ref.Resource.Type == foundation.TypeBucket && ref.Attribute == foundation.AttrArn {
		return (&foundation.Bucket{BucketName: ref.Resource.Name}).Arn()
	}
	r.unresolved[ref.String()] = struct{}{}
	return ref.String()
}

// Err reports references that were resolved before their resource was rendered.
func (r *tokenResolver) Err() error {
	if len(r.unresolved) == 0 {
		return nil
	}
	refs := make([]string, 0, len(r.unresolved))
	for ref := range r.unresolved {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return errors.Errorf("unresolved references: %s", strings.Join(refs, ", "))
}
