package connectfoundation

import (
	"sort"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsconnect"
	"github.com/aws/aws-cdk-go/awscdk/v2/awskinesis"
	"github.com/aws/aws-cdk-go/awscdk/v2/awskms"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/pkg/errors"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
	"go.uber.org/zap"
)

type AmazonConnectFoundationStackProps struct {
	awscdk.StackProps
	Tags map[string]string
}

// renderer turns declared resources into constructs of one stack.
type renderer struct {
	stack      awscdk.Stack
	resolver   *tokenResolver
	constructs map[foundation.ResourceId]constructs.IConstruct
	keys       map[foundation.ResourceId]awskms.IKey
}

// NewAmazonConnectFoundationStack renders plan into a CloudFormation stack. Resources are created
// in dependency order and every graph edge becomes a construct dependency.
func NewAmazonConnectFoundationStack(scope constructs.Construct, id string, props *AmazonConnectFoundationStackProps, plan *foundation.Plan) (awscdk.Stack, error) {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}
	if sprops.StackName == nil {
		sprops.StackName = jsii.String(plan.StackName)
	}
	stack := awscdk.NewStack(scope, &id, &sprops)

	if props != nil {
		keys := make([]string, 0, len(props.Tags))
		for k := range props.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			awscdk.Tags_Of(stack).Add(jsii.String(k), jsii.String(props.Tags[k]), nil)
		}
	}

	r := &renderer{
		stack:      stack,
		resolver:   newTokenResolver(),
		constructs: make(map[foundation.ResourceId]constructs.IConstruct),
		keys:       make(map[foundation.ResourceId]awskms.IKey),
	}

	resources, err := plan.Graph.Resources()
	if err != nil {
		return nil, err
	}
	for _, res := range resources {
		if err := r.render(res); err != nil {
			return nil, errors.Wrapf(err, "could not render %s", res.ID())
		}
		if err := r.resolver.Err(); err != nil {
			return nil, errors.Wrapf(err, "could not render %s", res.ID())
		}
	}

	edges, err := plan.Graph.Edges()
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		source, ok := r.constructs[e.Source]
		if !ok {
			continue
		}
		// imported resources have no construct to wait for
		target, ok := r.constructs[e.Target]
		if !ok {
			continue
		}
		source.Node().AddDependency(target)
	}

	for _, out := range plan.Outputs.All() {
		outProps := &awscdk.CfnOutputProps{
			Value:      jsii.String(out.Resolved(r.resolver)),
			ExportName: jsii.String(plan.StackName + "-" + out.Name),
		}
		if out.Description != "" {
			outProps.Description = jsii.String(out.Description)
		}
		awscdk.NewCfnOutput(stack, jsii.String(out.Name), outProps)
	}
	if err := r.resolver.Err(); err != nil {
		return nil, errors.Wrap(err, "could not render outputs")
	}

	zap.S().Infow("rendered stack", "stack", plan.StackName, "resources", len(resources), "dependencies", len(edges))
	return stack, nil
}

func (r *renderer) render(res foundation.Resource) error {
	switch res := res.(type) {
	case *foundation.Instance:
		r.instance(res)
	case *foundation.EncryptionKey:
		r.key(res)
	case *foundation.Bucket:
		return r.bucket(res)
	case *foundation.Stream:
		return r.stream(res)
	case *foundation.StorageAssociation:
		return r.association(res)
	case *foundation.InstanceAttribute:
		cr := NewInstanceAttributeUpdate(r.stack, res.Name, &InstanceAttributeUpdateProps{
			Attribute: res,
			Resolver:  r.resolver,
		})
		r.constructs[res.ID()] = cr
	default:
		return errors.Errorf("unsupported resource %T", res)
	}
	return nil
}

func (r *renderer) instance(i *foundation.Instance) {
	a := i.Attributes
	instance := awsconnect.NewCfnInstance(r.stack, jsii.String(i.Name), &awsconnect.CfnInstanceProps{
		InstanceAlias:          jsii.String(i.Alias),
		IdentityManagementType: jsii.String(i.IdentityManagementType),
		Attributes: &awsconnect.CfnInstance_AttributesProperty{
			AutoResolveBestVoices: jsii.Bool(a.AutoResolveBestVoices),
			ContactflowLogs:       jsii.Bool(a.ContactflowLogs),
			OutboundCalls:         jsii.Bool(a.OutboundCalls),
			InboundCalls:          jsii.Bool(a.InboundCalls),
			ContactLens:           jsii.Bool(a.ContactLens),
			EarlyMedia:            jsii.Bool(a.EarlyMedia),
		},
	})
	// attributes the pinned CfnInstance props do not model yet
	overrides := []struct {
		name  string
		value bool
	}{
		{"HighVolumeOutBound", a.HighVolumeOutbound},
		{"EnhancedContactMonitoring", a.EnhancedContactMonitoring},
		{"EnhancedChatMonitoring", a.EnhancedChatMonitoring},
		{"MultiPartyConference", a.MultiPartyConference},
		{"MultiPartyChatConference", a.MultiPartyChatConference},
	}
	for _, o := range overrides {
		instance.AddPropertyOverride(jsii.String("Attributes."+o.name), o.value)
	}
	r.constructs[i.ID()] = instance
	r.resolver.set(i.ID(), foundation.AttrArn, instance.AttrArn())
	r.resolver.set(i.ID(), foundation.AttrId, instance.AttrId())
	r.resolver.set(i.ID(), foundation.AttrServiceRole, instance.AttrServiceRole())
}

func (r *renderer) key(k *foundation.EncryptionKey) {
	if k.Imported() {
		key := awskms.Key_FromKeyArn(r.stack, jsii.String("FoundationEncryptionKey"), jsii.String(k.ImportedArn))
		r.keys[k.ID()] = key
		r.resolver.set(k.ID(), foundation.AttrArn, jsii.String(k.ImportedArn))
		return
	}
	key := awskms.NewKey(r.stack, jsii.String("FoundationEncryptionKey"), &awskms.KeyProps{
		Alias:             jsii.String(k.Alias),
		Description:       jsii.String("Encryption key for " + k.Name),
		EnableKeyRotation: jsii.Bool(true),
		RemovalPolicy:     awscdk.RemovalPolicy_RETAIN,
	})
	r.keys[k.ID()] = key
	r.constructs[k.ID()] = key
	r.resolver.set(k.ID(), foundation.AttrArn, key.KeyArn())
	r.resolver.set(k.ID(), foundation.AttrId, key.KeyId())
}

func (r *renderer) bucket(b *foundation.Bucket) error {
	key, ok := r.keys[b.Key]
	if !ok {
		return errors.Errorf("key %s not rendered", b.Key)
	}
	bucket := awss3.NewBucket(r.stack, jsii.String(b.BucketName), &awss3.BucketProps{
		BucketName:        jsii.String(b.BucketName),
		Encryption:        awss3.BucketEncryption_KMS,
		EncryptionKey:     key,
		BucketKeyEnabled:  jsii.Bool(true),
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		EnforceSSL:        jsii.Bool(true),
		RemovalPolicy:     awscdk.RemovalPolicy_RETAIN,
	})
	r.constructs[b.ID()] = bucket
	r.resolver.set(b.ID(), foundation.AttrName, bucket.BucketName())
	r.resolver.set(b.ID(), foundation.AttrArn, bucket.BucketArn())
	return nil
}

func (r *renderer) stream(s *foundation.Stream) error {
	key, ok := r.keys[s.Key]
	if !ok {
		return errors.Errorf("key %s not rendered", s.Key)
	}
	stream := awskinesis.NewStream(r.stack, jsii.String(s.StreamName), &awskinesis.StreamProps{
		StreamName:    jsii.String(s.StreamName),
		StreamMode:    awskinesis.StreamMode_ON_DEMAND,
		Encryption:    awskinesis.StreamEncryption_KMS,
		EncryptionKey: key,
	})
	r.constructs[s.ID()] = stream
	r.resolver.set(s.ID(), foundation.AttrName, stream.StreamName())
	r.resolver.set(s.ID(), foundation.AttrArn, stream.StreamArn())
	return nil
}

func (r *renderer) association(a *foundation.StorageAssociation) error {
	if a.Method == foundation.MethodAPI {
		props := &StorageAssociationProps{Association: a, Resolver: r.resolver}
		var (
			c   *ConnectInstanceStorageAssociation
			err error
		)
		if a.Backend.StorageType == foundation.StorageTypeKinesisStream {
			c, err = NewConnectInstanceKinesisStreamAssociation(r.stack, a.Name, props)
		} else {
			c, err = NewConnectInstanceS3StorageAssociation(r.stack, a.Name, props)
		}
		if err != nil {
			return err
		}
		r.constructs[a.ID()] = c.Construct
		return nil
	}

	b := a.Backend
	cfgProps := &awsconnect.CfnInstanceStorageConfigProps{
		InstanceArn:  jsii.String(r.resolver.Resolve(foundation.Ref{Resource: a.Instance, Attribute: foundation.AttrArn})),
		ResourceType: jsii.String(string(a.ResourceType)),
		StorageType:  jsii.String(b.StorageType),
	}
	switch b.StorageType {
	case foundation.StorageTypeS3:
		cfgProps.S3Config = &awsconnect.CfnInstanceStorageConfig_S3ConfigProperty{
			BucketName:       jsii.String(b.BucketName),
			BucketPrefix:     jsii.String(b.BucketPrefix),
			EncryptionConfig: r.encryptionConfig(b.Key),
		}
	case foundation.StorageTypeKinesisStream:
		cfgProps.KinesisStreamConfig = &awsconnect.CfnInstanceStorageConfig_KinesisStreamConfigProperty{
			StreamArn: jsii.String(r.resolver.Resolve(foundation.Ref{Resource: b.Stream, Attribute: foundation.AttrArn})),
		}
	case foundation.StorageTypeKinesisVideoStream:
		cfgProps.KinesisVideoStreamConfig = &awsconnect.CfnInstanceStorageConfig_KinesisVideoStreamConfigProperty{
			Prefix:               jsii.String(b.VideoPrefix),
			RetentionPeriodHours: jsii.Number(float64(b.RetentionPeriodHours)),
			EncryptionConfig:     r.encryptionConfig(b.Key),
		}
	default:
		return errors.Errorf("unsupported storage type %q", b.StorageType)
	}
	cfg := awsconnect.NewCfnInstanceStorageConfig(r.stack, jsii.String(a.Name), cfgProps)
	r.constructs[a.ID()] = cfg
	return nil
}

func (r *renderer) encryptionConfig(key foundation.ResourceId) *awsconnect.CfnInstanceStorageConfig_EncryptionConfigProperty {
	return &awsconnect.CfnInstanceStorageConfig_EncryptionConfigProperty{
		EncryptionType: jsii.String(foundation.EncryptionTypeKMS),
		KeyId:          jsii.String(r.resolver.Resolve(foundation.Ref{Resource: key, Attribute: foundation.AttrArn})),
	}
}
