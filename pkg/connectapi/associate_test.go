package connectapi

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/connect/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wdk/amazon-connect-foundation/pkg/foundation"
)

func operations(actions []Action) map[Operation]int {
	counts := make(map[Operation]int)
	for _, a := range actions {
		counts[a.Operation]++
	}
	return counts
}

func TestAssociator_Apply(t *testing.T) {
	ctx := context.Background()
	plan := testPlan(t)
	client := newFakeConnect()
	associator := &Associator{Client: client}

	actions, err := associator.Apply(ctx, plan, testResolver())
	require.NoError(t, err)
	assert.Equal(t, map[Operation]int{OperationAssociate: 6, OperationUpdate: 3}, operations(actions))
	assert.Equal(t, 9, client.writeCount())
	assert.Len(t, client.configs[types.InstanceStorageResourceTypeScreenRecordings], 1)
	assert.Empty(t, client.configs[types.InstanceStorageResourceTypeCallRecordings], "native associations are left to the stack")
	assert.Equal(t, "true", client.attributes[botManagement])

	actions, err = associator.Apply(ctx, plan, testResolver())
	require.NoError(t, err)
	assert.Equal(t, map[Operation]int{OperationUnchanged: 9}, operations(actions))
	assert.Equal(t, 9, client.writeCount(), "second apply issues no writes")
}

func TestAssociator_Apply_all(t *testing.T) {
	plan := testPlan(t)
	client := newFakeConnect()

	actions, err := (&Associator{Client: client, All: true}).Apply(context.Background(), plan, testResolver())
	require.NoError(t, err)
	assert.Equal(t, map[Operation]int{OperationAssociate: 12, OperationUpdate: 3}, operations(actions))
	assert.Equal(t, 15, client.writeCount())
}

func TestAssociator_Apply_dryRun(t *testing.T) {
	plan := testPlan(t)
	client := newFakeConnect()

	actions, err := (&Associator{Client: client, DryRun: true}).Apply(context.Background(), plan, testResolver())
	require.NoError(t, err)
	assert.Equal(t, map[Operation]int{OperationAssociate: 6, OperationUpdate: 3}, operations(actions))
	assert.Zero(t, client.writeCount())
}

func TestAssociator_Apply_conflict(t *testing.T) {
	plan := testPlan(t)
	client := newFakeConnect()
	legacy := types.InstanceStorageConfig{
		AssociationId: aws.String("legacy"),
		StorageType:   types.StorageTypeS3,
		S3Config: &types.S3Config{
			BucketName:       aws.String("legacy-bucket"),
			BucketPrefix:     aws.String("attachments"),
			EncryptionConfig: &types.EncryptionConfig{EncryptionType: types.EncryptionTypeKms, KeyId: aws.String(testKeyArn)},
		},
	}
	client.configs[types.InstanceStorageResourceTypeAttachments] = []types.InstanceStorageConfig{legacy}

	actions, err := (&Associator{Client: client}).Apply(context.Background(), plan, testResolver())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflictingStorageConfig))
	assert.Contains(t, err.Error(), "ATTACHMENTS")

	assert.Equal(t, map[Operation]int{OperationAssociate: 5, OperationConflict: 1, OperationUpdate: 3}, operations(actions))
	assert.Equal(t, 8, client.writeCount())
	assert.Equal(t, []types.InstanceStorageConfig{legacy}, client.configs[types.InstanceStorageResourceTypeAttachments])

	for _, a := range actions {
		if a.Operation == OperationConflict {
			attachments, _ := plan.Association(foundation.Attachments)
			assert.Equal(t, attachments.ID(), a.Resource)
			assert.Contains(t, a.Detail, "legacy-bucket")
			assert.Contains(t, a.Detail, "acme-dev-attachments-bucket")
		}
	}
}

func TestAssociator_Apply_matchesAnyLiveConfig(t *testing.T) {
	plan := testPlan(t)
	r := testResolver()
	client := newFakeConnect()

	screen, ok := plan.Association(foundation.ScreenRecordings)
	require.True(t, ok)
	in, err := AssociateInput(screen, r)
	require.NoError(t, err)
	other := types.InstanceStorageConfig{StorageType: types.StorageTypeS3, S3Config: &types.S3Config{BucketName: aws.String("other")}}
	client.configs[types.InstanceStorageResourceTypeScreenRecordings] = []types.InstanceStorageConfig{other, *in.StorageConfig}

	actions, err := (&Associator{Client: client, DryRun: true}).Apply(context.Background(), plan, r)
	require.NoError(t, err)
	for _, a := range actions {
		if a.Resource == screen.ID() {
			assert.Equal(t, OperationUnchanged, a.Operation)
		}
	}
}

func TestStorageConfigChanges(t *testing.T) {
	desired := &types.InstanceStorageConfig{
		StorageType:         types.StorageTypeKinesisStream,
		KinesisStreamConfig: &types.KinesisStreamConfig{StreamArn: aws.String("arn:aws:kinesis:us-east-1:111122223333:stream/a")},
	}

	changes, err := storageConfigChanges([]types.InstanceStorageConfig{*desired}, desired)
	require.NoError(t, err)
	assert.Empty(t, changes)

	changes, err = storageConfigChanges([]types.InstanceStorageConfig{{
		StorageType:         types.StorageTypeKinesisStream,
		KinesisStreamConfig: &types.KinesisStreamConfig{StreamArn: aws.String("arn:aws:kinesis:us-east-1:111122223333:stream/b")},
	}}, desired)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Contains(t, changes[0], "stream/b")
	assert.Contains(t, changes[0], "stream/a")
}

func TestStorageConfigChanges_matchAfterMismatch(t *testing.T) {
	desired := &types.InstanceStorageConfig{
		StorageType: types.StorageTypeS3,
		S3Config:    &types.S3Config{BucketName: aws.String("want"), BucketPrefix: aws.String("p")},
	}
	other := types.InstanceStorageConfig{
		StorageType: types.StorageTypeS3,
		S3Config:    &types.S3Config{BucketName: aws.String("other"), BucketPrefix: aws.String("p")},
	}

	changes, err := storageConfigChanges([]types.InstanceStorageConfig{other, *desired}, desired)
	require.NoError(t, err)
	assert.Empty(t, changes)

	changes, err = storageConfigChanges([]types.InstanceStorageConfig{other, other}, desired)
	require.NoError(t, err)
	assert.Equal(t, []string{"bucketName: other -> want"}, changes)
}
