package connectapi

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/connect"
	"github.com/aws/aws-sdk-go-v2/service/connect/types"
	"github.com/pkg/errors"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
)

// storageConfig is the comparable projection of an instance storage config.
type storageConfig struct {
	StorageType          string `diff:"storageType"`
	BucketName           string `diff:"bucketName"`
	BucketPrefix         string `diff:"bucketPrefix"`
	StreamArn            string `diff:"streamArn"`
	VideoPrefix          string `diff:"videoPrefix"`
	RetentionPeriodHours int32  `diff:"retentionPeriodHours"`
	EncryptionType       string `diff:"encryptionType"`
	KeyId                string `diff:"keyId"`
}

// AssociateInput builds the AssociateInstanceStorageConfig request for a. It carries the same
// members as StorageAssociation.Parameters.
func AssociateInput(a *foundation.StorageAssociation, resolver foundation.Resolver) (*connect.AssociateInstanceStorageConfigInput, error) {
	cfg, err := instanceStorageConfig(a, resolver)
	if err != nil {
		return nil, err
	}
	return &connect.AssociateInstanceStorageConfigInput{
		InstanceId:    aws.String(resolver.Resolve(foundation.Ref{Resource: a.Instance, Attribute: foundation.AttrArn})),
		ResourceType:  types.InstanceStorageResourceType(a.ResourceType),
		StorageConfig: cfg,
	}, nil
}

func UpdateAttributeInput(a *foundation.InstanceAttribute, resolver foundation.Resolver) *connect.UpdateInstanceAttributeInput {
	return &connect.UpdateInstanceAttributeInput{
		InstanceId:    aws.String(resolver.Resolve(foundation.Ref{Resource: a.Instance, Attribute: foundation.AttrArn})),
		AttributeType: types.InstanceAttributeType(a.AttributeType),
		Value:         aws.String(a.Value),
	}
}

func instanceStorageConfig(a *foundation.StorageAssociation, resolver foundation.Resolver) (*types.InstanceStorageConfig, error) {
	b := a.Backend
	cfg := &types.InstanceStorageConfig{StorageType: types.StorageType(b.StorageType)}
	switch b.StorageType {
	case foundation.StorageTypeS3:
		cfg.S3Config = &types.S3Config{
			BucketName:       aws.String(b.BucketName),
			BucketPrefix:     aws.String(b.BucketPrefix),
			EncryptionConfig: encryptionConfig(b.Key, resolver),
		}
	case foundation.StorageTypeKinesisStream:
		cfg.KinesisStreamConfig = &types.KinesisStreamConfig{
			StreamArn: aws.String(resolver.Resolve(foundation.Ref{Resource: b.Stream, Attribute: foundation.AttrArn})),
		}
	case foundation.StorageTypeKinesisVideoStream:
		cfg.KinesisVideoStreamConfig = &types.KinesisVideoStreamConfig{
			Prefix:               aws.String(b.VideoPrefix),
			RetentionPeriodHours: b.RetentionPeriodHours,
			EncryptionConfig:     encryptionConfig(b.Key, resolver),
		}
	default:
		return nil, errors.Errorf("unsupported storage type %q for %s", b.StorageType, a.ID())
	}
	return cfg, nil
}

func encryptionConfig(key foundation.ResourceId, resolver foundation.Resolver) *types.EncryptionConfig {
	return &types.EncryptionConfig{
		EncryptionType: types.EncryptionType(foundation.EncryptionTypeKMS),
		KeyId:          aws.String(resolver.Resolve(foundation.Ref{Resource: key, Attribute: foundation.AttrArn})),
	}
}

func project(cfg *types.InstanceStorageConfig) storageConfig {
	if cfg == nil {
		return storageConfig{}
	}
	p := storageConfig{StorageType: string(cfg.StorageType)}
	var enc *types.EncryptionConfig
	if s3 := cfg.S3Config; s3 != nil {
		p.BucketName = aws.ToString(s3.BucketName)
		p.BucketPrefix = aws.ToString(s3.BucketPrefix)
		enc = s3.EncryptionConfig
	}
	if ks := cfg.KinesisStreamConfig; ks != nil {
		p.StreamArn = aws.ToString(ks.StreamArn)
	}
	if kvs := cfg.KinesisVideoStreamConfig; kvs != nil {
		p.VideoPrefix = aws.ToString(kvs.Prefix)
		p.RetentionPeriodHours = kvs.RetentionPeriodHours
		enc = kvs.EncryptionConfig
	}
	if enc != nil {
		p.EncryptionType = string(enc.EncryptionType)
		p.KeyId = aws.ToString(enc.KeyId)
	}
	return p
}
