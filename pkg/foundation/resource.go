package foundation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Resource types understood by the foundation graph.
const (
	TypeInstance           = "connect_instance"
	TypeKey                = "kms_key"
	TypeBucket             = "s3_bucket"
	TypeStream             = "kinesis_stream"
	TypeStorageAssociation = "connect_storage_association"
	TypeInstanceAttribute  = "connect_instance_attribute"

	providerAWS = "aws"
)

// Attributes that can be referenced on a declared resource.
const (
	AttrArn         = "Arn"
	AttrId          = "Id"
	AttrName        = "Name"
	AttrServiceRole = "ServiceRole"
)

type (
	ResourceId struct {
		Provider string `yaml:"provider"`
		Type     string `yaml:"type"`
		Name     string `yaml:"name"`
	}

	// Resource is a declared cloud resource. Descriptions are immutable once added to a Graph.
	Resource interface {
		ID() ResourceId
	}

	// Ref points at an attribute of another resource. Its value is only known to the
	// provisioning engine, so it is resolved late through a Resolver.
	Ref struct {
		Resource  ResourceId
		Attribute string
	}

	// Resolver turns a Ref into a concrete value (a CDK token, or a real ARN).
	Resolver interface {
		Resolve(ref Ref) string
	}

	Instance struct {
		Name                   string
		Alias                  string
		IdentityManagementType string
		Attributes             InstanceAttributes
	}

	InstanceAttributes struct {
		AutoResolveBestVoices     bool `yaml:"autoResolveBestVoices"`
		HighVolumeOutbound        bool `yaml:"highVolumeOutBound"`
		ContactflowLogs           bool `yaml:"contactflowLogs"`
		OutboundCalls             bool `yaml:"outboundCalls"`
		InboundCalls              bool `yaml:"inboundCalls"`
		ContactLens               bool `yaml:"contactLens"`
		EnhancedContactMonitoring bool `yaml:"enhancedContactMonitoring"`
		EnhancedChatMonitoring    bool `yaml:"enhancedChatMonitoring"`
		EarlyMedia                bool `yaml:"earlyMedia"`
		MultiPartyConference      bool `yaml:"multiPartyConference"`
		MultiPartyChatConference  bool `yaml:"multiPartyChatConference"`
	}

	// EncryptionKey is either imported by ARN or created with the given alias.
	EncryptionKey struct {
		Name        string
		ImportedArn string
		Alias       string
	}

	Bucket struct {
		BucketName string
		Key        ResourceId
		Shared     bool
	}

	Stream struct {
		StreamName   string
		Key          ResourceId
		ResourceType ResourceType
	}

	// InstanceAttribute is an UpdateInstanceAttribute call issued after the instance exists.
	InstanceAttribute struct {
		Name          string
		Instance      ResourceId
		AttributeType string
		Value         string
		Prefix        string
	}
)

func (id ResourceId) String() string {
	if id.IsZero() {
		return ""
	}
	return id.Provider + ":" + id.Type + ":" + id.Name
}

func (id ResourceId) IsZero() bool {
	return id == ResourceId{}
}

func (id ResourceId) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ResourceId) UnmarshalText(b []byte) error {
	parts := strings.SplitN(string(b), ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return errors.Errorf("invalid resource id %q, expected provider:type:name", string(b))
	}
	*id = ResourceId{Provider: parts[0], Type: parts[1], Name: parts[2]}
	return nil
}

func ResourceIdLess(a, b ResourceId) bool {
	if a.Provider != b.Provider {
		return a.Provider < b.Provider
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.Name < b.Name
}

func newId(typ, name string) ResourceId {
	return ResourceId{Provider: providerAWS, Type: typ, Name: name}
}

func (r Ref) String() string {
	return fmt.Sprintf("${%s.%s}", r.Resource, r.Attribute)
}

func (i *Instance) ID() ResourceId { return newId(TypeInstance, i.Name) }

func (i *Instance) Arn() Ref { return Ref{Resource: i.ID(), Attribute: AttrArn} }

func (i *Instance) ServiceRole() Ref { return Ref{Resource: i.ID(), Attribute: AttrServiceRole} }

func (k *EncryptionKey) ID() ResourceId { return newId(TypeKey, k.Name) }

func (k *EncryptionKey) Imported() bool { return k.ImportedArn != "" }

func (b *Bucket) ID() ResourceId { return newId(TypeBucket, b.BucketName) }

// Arn is derivable from the bucket name, so it never needs to be resolved.
func (b *Bucket) Arn() string { return "arn:aws:s3:::" + b.BucketName }

func (s *Stream) ID() ResourceId { return newId(TypeStream, s.StreamName) }

func (a *InstanceAttribute) ID() ResourceId { return newId(TypeInstanceAttribute, a.Name) }

// IdempotencyKey is the physical id of the attribute update.
func (a *InstanceAttribute) IdempotencyKey() string {
	return fmt.Sprintf("%s-%s-attribute", a.Prefix, a.AttributeType)
}

// Parameters is the UpdateInstanceAttribute request body.
func (a *InstanceAttribute) Parameters(resolver Resolver) map[string]interface{} {
	return map[string]interface{}{
		"InstanceId":    resolver.Resolve(Ref{Resource: a.Instance, Attribute: AttrArn}),
		"AttributeType": a.AttributeType,
		"Value":         a.Value,
	}
}

func (a *InstanceAttribute) PolicyStatements() []PolicyStatement {
	return []PolicyStatement{
		{
			Actions:   []string{"connect:UpdateInstanceAttribute"},
			Resources: []Ref{{Resource: a.Instance, Attribute: AttrArn}},
		},
		{
			Actions:   []string{"iam:PutRolePolicy"},
			Resources: []Ref{{Resource: a.Instance, Attribute: AttrServiceRole}},
		},
	}
}
