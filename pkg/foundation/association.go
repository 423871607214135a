package foundation

import (
	"fmt"

	"github.com/pkg/errors"
)

// Storage types accepted by AssociateInstanceStorageConfig.
const (
	StorageTypeS3                 = "S3"
	StorageTypeKinesisStream      = "KINESIS_STREAM"
	StorageTypeKinesisVideoStream = "KINESIS_VIDEO_STREAM"

	EncryptionTypeKMS = "KMS"
)

type (
	// StorageAssociation binds one resource type of an instance to a storage backend.
	StorageAssociation struct {
		Name         string
		Prefix       string
		Instance     ResourceId
		ResourceType ResourceType
		Method       AssociationMethod
		Backend      StorageBackend
	}

	StorageBackend struct {
		StorageType string

		// S3
		Bucket       ResourceId
		BucketName   string
		BucketPrefix string

		// KINESIS_STREAM
		Stream ResourceId

		// KINESIS_VIDEO_STREAM
		VideoPrefix          string
		RetentionPeriodHours int32

		// Key encrypts the backend. Only S3 and KINESIS_VIDEO_STREAM configs carry it in the request.
		Key ResourceId
	}

	PolicyStatement struct {
		Actions   []string
		Resources []Ref
	}
)

var kinesisWriteActions = []string{
	"kinesis:DescribeStreamSummary",
	"kinesis:ListShards",
	"kinesis:PutRecord",
	"kinesis:PutRecords",
}

// NewS3StorageAssociation declares a bucket + prefix + KMS key as the storage of resourceType.
func NewS3StorageAssociation(prefix string, instance ResourceId, resourceType ResourceType, bucket *Bucket, bucketPrefix string, key ResourceId, method AssociationMethod) (*StorageAssociation, error) {
	if bucket == nil {
		return nil, errors.Errorf("no bucket given for %s", resourceType)
	}
	if key.IsZero() {
		return nil, errors.Errorf("no encryption key given for %s", resourceType)
	}
	return &StorageAssociation{
		Name:         fmt.Sprintf("%s-%s-storage-config", prefix, resourceType.Slug()),
		Prefix:       prefix,
		Instance:     instance,
		ResourceType: resourceType,
		Method:       method,
		Backend: StorageBackend{
			StorageType:  StorageTypeS3,
			Bucket:       bucket.ID(),
			BucketName:   bucket.BucketName,
			BucketPrefix: bucketPrefix,
			Key:          key,
		},
	}, nil
}

// NewKinesisStreamAssociation declares a Kinesis Data Stream as the storage of resourceType.
func NewKinesisStreamAssociation(prefix string, instance ResourceId, resourceType ResourceType, stream *Stream, method AssociationMethod) (*StorageAssociation, error) {
	if !resourceType.IsStreamType() {
		return nil, errors.Errorf("resource type %s cannot be stored in a Kinesis stream", resourceType)
	}
	if stream == nil {
		return nil, errors.Errorf("no stream given for %s", resourceType)
	}
	if stream.Key.IsZero() {
		return nil, errors.Errorf("stream %s has no encryption key", stream.StreamName)
	}
	return &StorageAssociation{
		Name:         fmt.Sprintf("%s-%s-stream-storage-config", prefix, resourceType.Slug()),
		Prefix:       prefix,
		Instance:     instance,
		ResourceType: resourceType,
		Method:       method,
		Backend: StorageBackend{
			StorageType: StorageTypeKinesisStream,
			Stream:      stream.ID(),
			Key:         stream.Key,
		},
	}, nil
}

// NewKinesisVideoStreamAssociation declares the media streams retention and encryption policy.
func NewKinesisVideoStreamAssociation(prefix string, instance ResourceId, videoPrefix string, retentionHours int32, key ResourceId) *StorageAssociation {
	return &StorageAssociation{
		Name:         fmt.Sprintf("%s-%s-stream-storage-config", prefix, MediaStreams.Slug()),
		Prefix:       prefix,
		Instance:     instance,
		ResourceType: MediaStreams,
		Method:       MethodNative,
		Backend: StorageBackend{
			StorageType:          StorageTypeKinesisVideoStream,
			VideoPrefix:          videoPrefix,
			RetentionPeriodHours: retentionHours,
			Key:                  key,
		},
	}
}

func (a *StorageAssociation) ID() ResourceId { return newId(TypeStorageAssociation, a.Name) }

// IdempotencyKey identifies the association across re-applies. It depends only on
// the prefix and resource type.
func (a *StorageAssociation) IdempotencyKey() string {
	switch a.Backend.StorageType {
	case StorageTypeKinesisStream:
		return fmt.Sprintf("%s-%s-stream-association", a.Prefix, a.ResourceType)
	case StorageTypeKinesisVideoStream:
		return fmt.Sprintf("%s-%s-video-stream-association", a.Prefix, a.ResourceType)
	default:
		return fmt.Sprintf("%s-%s-storage-association", a.Prefix, a.ResourceType)
	}
}

// BackendResource is the resource that stores the data, or the zero id for inline backends.
func (a *StorageAssociation) BackendResource() ResourceId {
	switch a.Backend.StorageType {
	case StorageTypeS3:
		return a.Backend.Bucket
	case StorageTypeKinesisStream:
		return a.Backend.Stream
	}
	return ResourceId{}
}

// Dependencies is the set the association must apply after: its instance, its own backend
// and its key.
func (a *StorageAssociation) Dependencies() []ResourceId {
	deps := []ResourceId{a.Instance}
	if b := a.BackendResource(); !b.IsZero() {
		deps = append(deps, b)
	}
	if !a.Backend.Key.IsZero() {
		deps = append(deps, a.Backend.Key)
	}
	return deps
}

// StorageConfig is the StorageConfig member of the AssociateInstanceStorageConfig request.
func (a *StorageAssociation) StorageConfig(resolver Resolver) map[string]interface{} {
	b := a.Backend
	cfg := map[string]interface{}{"StorageType": b.StorageType}
	switch b.StorageType {
	case StorageTypeS3:
		cfg["S3Config"] = map[string]interface{}{
			"BucketName":   b.BucketName,
			"BucketPrefix": b.BucketPrefix,
			"EncryptionConfig": map[string]interface{}{
				"EncryptionType": EncryptionTypeKMS,
				"KeyId":          resolver.Resolve(Ref{Resource: b.Key, Attribute: AttrArn}),
			},
		}
	case StorageTypeKinesisStream:
		cfg["KinesisStreamConfig"] = map[string]interface{}{
			"StreamArn": resolver.Resolve(Ref{Resource: b.Stream, Attribute: AttrArn}),
		}
	case StorageTypeKinesisVideoStream:
		cfg["KinesisVideoStreamConfig"] = map[string]interface{}{
			"Prefix":               b.VideoPrefix,
			"RetentionPeriodHours": b.RetentionPeriodHours,
			"EncryptionConfig": map[string]interface{}{
				"EncryptionType": EncryptionTypeKMS,
				"KeyId":          resolver.Resolve(Ref{Resource: b.Key, Attribute: AttrArn}),
			},
		}
	}
	return cfg
}

// Parameters is the full AssociateInstanceStorageConfig request body.
func (a *StorageAssociation) Parameters(resolver Resolver) map[string]interface{} {
	return map[string]interface{}{
		"InstanceId":    resolver.Resolve(Ref{Resource: a.Instance, Attribute: AttrArn}),
		"ResourceType":  string(a.ResourceType),
		"StorageConfig": a.StorageConfig(resolver),
	}
}

// PolicyStatements are the permissions the principal issuing the association call needs.
func (a *StorageAssociation) PolicyStatements() []PolicyStatement {
	statements := []PolicyStatement{
		{
			Actions:   []string{"connect:AssociateInstanceStorageConfig"},
			Resources: []Ref{{Resource: a.Instance, Attribute: AttrArn}},
		},
		{
			Actions:   []string{"iam:PutRolePolicy"},
			Resources: []Ref{{Resource: a.Instance, Attribute: AttrServiceRole}},
		},
	}
	switch a.Backend.StorageType {
	case StorageTypeS3:
		statements = append(statements,
			PolicyStatement{
				Actions:   []string{"s3:*"},
				Resources: []Ref{{Resource: a.Backend.Bucket, Attribute: AttrArn}},
			},
			PolicyStatement{
				Actions:   []string{"kms:*"},
				Resources: []Ref{{Resource: a.Backend.Key, Attribute: AttrArn}},
			},
		)
	case StorageTypeKinesisStream:
		statements = append(statements, PolicyStatement{
			Actions:   kinesisWriteActions,
			Resources: []Ref{{Resource: a.Backend.Stream, Attribute: AttrArn}},
		})
	}
	return statements
}
