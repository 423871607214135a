package foundation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/wdk/amazon-connect-foundation/pkg/config"
	"go.uber.org/zap"
)

var ErrDuplicateAssociation = errors.New("storage association already declared")

// Plan is the declared foundation: the resource graph and the outputs derived from it.
type Plan struct {
	Prefix    string
	StackName string
	Graph     *Graph
	Outputs   *Outputs

	instance     *Instance
	key          *EncryptionKey
	associations map[ResourceType]*StorageAssociation
}

type builder struct {
	plan  *Plan
	setup *config.Setup
}

// Build declares the foundation for prefix (<prefixName>-<stageName>). It performs no I/O:
// the returned plan is handed to a renderer (CDK stack, CLI output, management-API applier).
func Build(prefix string, setup *config.Setup) (*Plan, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, errors.New("prefix must not be empty")
	}
	if setup == nil {
		setup = config.DefaultSetup()
	}
	b := &builder{
		plan: &Plan{
			Prefix:       prefix,
			StackName:    fmt.Sprintf("wdk-%s-%s", prefix, config.ModuleName),
			Graph:        NewGraph(),
			Outputs:      NewOutputs(),
			associations: make(map[ResourceType]*StorageAssociation),
		},
		setup: setup,
	}
	if err := b.build(); err != nil {
		return nil, errors.Wrapf(err, "could not build foundation %s", prefix)
	}
	zap.S().Debugw("built foundation", "prefix", prefix, "resources", b.plan.Graph.Len())
	return b.plan, nil
}

func (b *builder) build() error {
	p := b.plan
	prefix := p.Prefix

	p.instance = &Instance{
		Name:                   prefix + "-amazon-connect-instance",
		Alias:                  prefix,
		IdentityManagementType: b.setup.IdentityManagementType,
		Attributes: InstanceAttributes{
			AutoResolveBestVoices:     true,
			HighVolumeOutbound:        b.setup.EnableHighVolumeOutbound,
			ContactflowLogs:           true,
			OutboundCalls:             true,
			InboundCalls:              true,
			ContactLens:               true,
			EnhancedContactMonitoring: true,
			EnhancedChatMonitoring:    true,
			EarlyMedia:                true,
			MultiPartyConference:      true,
			MultiPartyChatConference:  true,
		},
	}
	if err := p.Graph.Add(p.instance); err != nil {
		return err
	}

	p.key = &EncryptionKey{
		Name:        prefix + "-foundation-key",
		ImportedArn: b.setup.FoundationEncryptionKeyArn,
		Alias:       "alias/" + prefix + "-foundation-key",
	}
	if err := p.Graph.Add(p.key); err != nil {
		return err
	}

	shared, err := b.bucket(prefix+"-amazon-connect-bucket", true)
	if err != nil {
		return err
	}

	p.Outputs.addRef("ConnectInstanceArn", p.instance.Arn(), OutputTypeArn)
	p.Outputs.addRef("ConnectInstanceId", Ref{Resource: p.instance.ID(), Attribute: AttrId}, OutputTypeString)
	p.Outputs.add("ConnectInstanceAlias", p.instance.Alias, OutputTypeString)
	if p.key.Imported() {
		p.Outputs.add("FoundationEncryptionKeyArn", p.key.ImportedArn, OutputTypeArn)
	} else {
		p.Outputs.addRef("FoundationEncryptionKeyArn", Ref{Resource: p.key.ID(), Attribute: AttrArn}, OutputTypeArn)
	}
	p.Outputs.add("AmazonConnectBucketName", shared.BucketName, OutputTypeString)
	p.Outputs.add("AmazonConnectBucketArn", shared.Arn(), OutputTypeArn)

	for _, entry := range catalog {
		switch entry.Backend {
		case backendSharedBucket, backendBucket:
			err = b.declareBucketStorage(entry, shared)
		case backendStream:
			err = b.declareStreamStorage(entry)
		case backendVideoStream:
			err = b.declareVideoStorage()
		}
		if err != nil {
			return errors.Wrapf(err, "could not declare storage for %s", entry.ResourceType)
		}
	}

	for _, attributeType := range postCreateAttributes {
		attr := &InstanceAttribute{
			Name:          fmt.Sprintf("%s-%s-attribute", prefix, strings.ReplaceAll(strings.ToLower(attributeType), "_", "-")),
			Instance:      p.instance.ID(),
			AttributeType: attributeType,
			Value:         "true",
			Prefix:        prefix,
		}
		if err := p.Graph.Add(attr); err != nil {
			return err
		}
		if err := p.Graph.DependsOn(attr.ID(), p.instance.ID()); err != nil {
			return err
		}
	}
	return nil
}

// bucket declares a bucket encrypted with the foundation key.
func (b *builder) bucket(name string, shared bool) (*Bucket, error) {
	bucket := &Bucket{BucketName: name, Key: b.plan.key.ID(), Shared: shared}
	if err := b.plan.Graph.Add(bucket); err != nil {
		return nil, err
	}
	if err := b.plan.Graph.DependsOn(bucket.ID(), bucket.Key); err != nil {
		return nil, err
	}
	return bucket, nil
}

func (b *builder) declareBucketStorage(entry catalogEntry, shared *Bucket) error {
	target := shared
	if entry.Backend == backendBucket && entry.Enabled(b.setup) {
		var err error
		target, err = b.bucket(fmt.Sprintf("%s-%s-bucket", b.plan.Prefix, entry.Slug), false)
		if err != nil {
			return err
		}
	}
	association, err := NewS3StorageAssociation(b.plan.Prefix, b.plan.instance.ID(), entry.ResourceType, target, entry.BucketPrefix, b.plan.key.ID(), entry.Method)
	if err != nil {
		return err
	}
	if err := b.associate(association); err != nil {
		return err
	}

	o := b.plan.Outputs
	o.add(entry.OutputStem+"BucketName", target.BucketName, OutputTypeString)
	o.add(entry.OutputStem+"BucketArn", target.Arn(), OutputTypeArn)
	o.add(entry.OutputStem+"BucketPrefix", entry.BucketPrefix, OutputTypeString)
	return nil
}

func (b *builder) declareStreamStorage(entry catalogEntry) error {
	o := b.plan.Outputs
	if !entry.Enabled(b.setup) {
		zap.S().Debugw("stream disabled", "resourceType", entry.ResourceType)
		o.add(entry.OutputStem+"StreamEnabled", "false", OutputTypeString)
		o.add(entry.OutputStem+"StreamName", "", OutputTypeString)
		return nil
	}

	stream := &Stream{
		StreamName:   fmt.Sprintf("%s-%s-stream", b.plan.Prefix, entry.Slug),
		Key:          b.plan.key.ID(),
		ResourceType: entry.ResourceType,
	}
	if err := b.plan.Graph.Add(stream); err != nil {
		return err
	}
	if err := b.plan.Graph.DependsOn(stream.ID(), stream.Key); err != nil {
		return err
	}
	association, err := NewKinesisStreamAssociation(b.plan.Prefix, b.plan.instance.ID(), entry.ResourceType, stream, entry.Method)
	if err != nil {
		return err
	}
	if err := b.associate(association); err != nil {
		return err
	}

	o.add(entry.OutputStem+"StreamEnabled", "true", OutputTypeString)
	o.add(entry.OutputStem+"StreamName", stream.StreamName, OutputTypeString)
	return nil
}

func (b *builder) declareVideoStorage() error {
	hours := b.setup.MediaStreamsRetentionHours
	if hours > MaxMediaStreamsRetentionHours {
		zap.S().Warnw("media streams retention out of range, using default",
			"hours", hours, "max", MaxMediaStreamsRetentionHours, "default", MediaStreamsRetentionHours)
		hours = MediaStreamsRetentionHours
	}
	if hours <= 0 {
		hours = MediaStreamsRetentionHours
	}
	association := NewKinesisVideoStreamAssociation(b.plan.Prefix, b.plan.instance.ID(), MediaStreamsPrefix, int32(hours), b.plan.key.ID())
	if err := b.associate(association); err != nil {
		return err
	}
	b.plan.Outputs.add("MediaStreamsPrefix", MediaStreamsPrefix, OutputTypeString)
	return nil
}

// associate adds the association and its edges to {instance, backend, key}.
func (b *builder) associate(a *StorageAssociation) error {
	if existing, ok := b.plan.associations[a.ResourceType]; ok {
		return errors.Wrapf(ErrDuplicateAssociation, "%s is already stored by %s", a.ResourceType, existing.ID())
	}
	if err := b.plan.Graph.Add(a); err != nil {
		return err
	}
	if err := b.plan.Graph.DependsOn(a.ID(), a.Dependencies()...); err != nil {
		return err
	}
	b.plan.associations[a.ResourceType] = a
	return nil
}

func (p *Plan) Instance() *Instance { return p.instance }

func (p *Plan) Key() *EncryptionKey { return p.key }

// Association returns the storage association declared for rt, if any.
func (p *Plan) Association(rt ResourceType) (*StorageAssociation, bool) {
	a, ok := p.associations[rt]
	return a, ok
}

// Associations returns the declared storage associations in dependency order.
func (p *Plan) Associations() ([]*StorageAssociation, error) {
	resources, err := p.Graph.ResourcesOfType(TypeStorageAssociation)
	if err != nil {
		return nil, err
	}
	out := make([]*StorageAssociation, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.(*StorageAssociation))
	}
	return out, nil
}

func (p *Plan) InstanceAttributes() ([]*InstanceAttribute, error) {
	resources, err := p.Graph.ResourcesOfType(TypeInstanceAttribute)
	if err != nil {
		return nil, err
	}
	out := make([]*InstanceAttribute, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.(*InstanceAttribute))
	}
	return out, nil
}

func (p *Plan) Buckets() ([]*Bucket, error) {
	resources, err := p.Graph.ResourcesOfType(TypeBucket)
	if err != nil {
		return nil, err
	}
	out := make([]*Bucket, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.(*Bucket))
	}
	return out, nil
}

func (p *Plan) Streams() ([]*Stream, error) {
	resources, err := p.Graph.ResourcesOfType(TypeStream)
	if err != nil {
		return nil, err
	}
	out := make([]*Stream, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.(*Stream))
	}
	return out, nil
}
