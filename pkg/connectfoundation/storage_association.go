package connectfoundation

import (
	"fmt"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/customresources"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/pkg/errors"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
)

type (
	// StorageAssociationProps carries a declared association and the resolver that turns its
	// references into tokens of the enclosing stack.
	StorageAssociationProps struct {
		Association *foundation.StorageAssociation
		Resolver    foundation.Resolver
	}

	// ConnectInstanceStorageAssociation issues one AssociateInstanceStorageConfig call through an
	// AwsCustomResource, so no Lambda code of our own is deployed.
	ConnectInstanceStorageAssociation struct {
		constructs.Construct
		CustomResource customresources.AwsCustomResource
	}

	// InstanceAttributeUpdateProps carries a declared attribute update.
	InstanceAttributeUpdateProps struct {
		Attribute *foundation.InstanceAttribute
		Resolver  foundation.Resolver
	}
)

// NewConnectInstanceS3StorageAssociation associates a bucket, prefix and KMS key as the storage
// of an S3 resource type.
func NewConnectInstanceS3StorageAssociation(scope constructs.Construct, id string, props *StorageAssociationProps) (*ConnectInstanceStorageAssociation, error) {
	if props.Association.Backend.StorageType != foundation.StorageTypeS3 {
		return nil, errors.Errorf("%s is not an S3 storage association", props.Association.ID())
	}
	return newStorageAssociation(scope, id, props), nil
}

// NewConnectInstanceKinesisStreamAssociation associates a Kinesis Data Stream as the storage of
// a stream resource type.
func NewConnectInstanceKinesisStreamAssociation(scope constructs.Construct, id string, props *StorageAssociationProps) (*ConnectInstanceStorageAssociation, error) {
	if props.Association.Backend.StorageType != foundation.StorageTypeKinesisStream {
		return nil, errors.Errorf("%s is not a Kinesis stream association", props.Association.ID())
	}
	return newStorageAssociation(scope, id, props), nil
}

func newStorageAssociation(scope constructs.Construct, id string, props *StorageAssociationProps) *ConnectInstanceStorageAssociation {
	this := constructs.NewConstruct(scope, &id)
	a := props.Association

	crId := fmt.Sprintf("%s-%s-association", a.Prefix, strings.ToLower(string(a.ResourceType)))
	cr := customresources.NewAwsCustomResource(this, jsii.String(crId), &customresources.AwsCustomResourceProps{
		OnCreate: &customresources.AwsSdkCall{
			Service:            jsii.String("Connect"),
			Action:             jsii.String("associateInstanceStorageConfig"),
			Parameters:         a.Parameters(props.Resolver),
			PhysicalResourceId: customresources.PhysicalResourceId_Of(jsii.String(a.IdempotencyKey())),
		},
		Policy:              customresources.AwsCustomResourcePolicy_FromStatements(policyStatements(a.PolicyStatements(), props.Resolver)),
		InstallLatestAwsSdk: jsii.Bool(false),
	})
	return &ConnectInstanceStorageAssociation{Construct: this, CustomResource: cr}
}

// NewInstanceAttributeUpdate switches an instance attribute through UpdateInstanceAttribute.
func NewInstanceAttributeUpdate(scope constructs.Construct, id string, props *InstanceAttributeUpdateProps) customresources.AwsCustomResource {
	a := props.Attribute
	call := &customresources.AwsSdkCall{
		Service:            jsii.String("Connect"),
		Action:             jsii.String("updateInstanceAttribute"),
		Parameters:         a.Parameters(props.Resolver),
		PhysicalResourceId: customresources.PhysicalResourceId_Of(jsii.String(a.IdempotencyKey())),
	}
	return customresources.NewAwsCustomResource(scope, jsii.String(id), &customresources.AwsCustomResourceProps{
		OnCreate:            call,
		OnUpdate:            call,
		Policy:              customresources.AwsCustomResourcePolicy_FromStatements(policyStatements(a.PolicyStatements(), props.Resolver)),
		InstallLatestAwsSdk: jsii.Bool(false),
	})
}

func policyStatements(statements []foundation.PolicyStatement, resolver foundation.Resolver) *[]awsiam.PolicyStatement {
	out := make([]awsiam.PolicyStatement, 0, len(statements))
	for _, s := range statements {
		resources := make([]*string, 0, len(s.Resources))
		for _, ref := range s.Resources {
			resources = append(resources, jsii.String(resolver.Resolve(ref)))
		}
		out = append(out, awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
			Effect:    awsiam.Effect_ALLOW,
			Actions:   jsii.Strings(s.Actions...),
			Resources: &resources,
		}))
	}
	return &out
}
