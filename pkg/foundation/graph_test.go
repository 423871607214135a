package foundation

import (
	"testing"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_DependsOn(t *testing.T) {
	key := &EncryptionKey{Name: "k"}
	bucket := &Bucket{BucketName: "b", Key: key.ID()}
	stream := &Stream{StreamName: "s", Key: key.ID()}

	tests := []struct {
		name    string
		source  ResourceId
		targets []ResourceId
		wantErr error
	}{
		{name: "new edge", source: bucket.ID(), targets: []ResourceId{key.ID()}},
		{name: "duplicate edge is ignored", source: bucket.ID(), targets: []ResourceId{key.ID(), key.ID()}},
		{name: "cycle", source: key.ID(), targets: []ResourceId{bucket.ID()}, wantErr: graph.ErrEdgeCreatesCycle},
		{name: "self loop", source: stream.ID(), targets: []ResourceId{stream.ID()}, wantErr: graph.ErrEdgeCreatesCycle},
		{name: "unknown target", source: stream.ID(), targets: []ResourceId{newId(TypeBucket, "missing")}, wantErr: graph.ErrVertexNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			require.NoError(t, g.Add(key))
			require.NoError(t, g.Add(bucket))
			require.NoError(t, g.Add(stream))
			require.NoError(t, g.DependsOn(bucket.ID(), key.ID()))

			err := g.DependsOn(tt.source, tt.targets...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
		})
	}
}

func TestGraph_Add_duplicate(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Add(&Bucket{BucketName: "b"}))
	assert.Error(t, g.Add(&Bucket{BucketName: "b"}))
	assert.Equal(t, 1, g.Len())
}

func TestGraph_Resources(t *testing.T) {
	assert := assert.New(t)
	g := NewGraph()
	instance := &Instance{Name: "i"}
	key := &EncryptionKey{Name: "k"}
	bucket := &Bucket{BucketName: "b", Key: key.ID()}
	association, err := NewS3StorageAssociation("p", instance.ID(), Attachments, bucket, "attachments", key.ID(), MethodAPI)
	require.NoError(t, err)

	for _, r := range []Resource{association, bucket, instance, key} {
		require.NoError(t, g.Add(r))
	}
	require.NoError(t, g.DependsOn(bucket.ID(), key.ID()))
	require.NoError(t, g.DependsOn(association.ID(), association.Dependencies()...))

	resources, err := g.Resources()
	require.NoError(t, err)
	require.Len(t, resources, 4)
	assert.Equal(association.ID(), resources[3].ID())

	deps, err := g.DirectDependencies(association.ID())
	require.NoError(t, err)
	assert.Equal([]ResourceId{instance.ID(), key.ID(), bucket.ID()}, deps)

	_, err = g.DirectDependencies(newId(TypeBucket, "missing"))
	assert.True(errors.Is(err, graph.ErrVertexNotFound))

	buckets, err := g.ResourcesOfType(TypeBucket)
	require.NoError(t, err)
	assert.Equal([]Resource{bucket}, buckets)

	edges, err := g.Edges()
	require.NoError(t, err)
	assert.Len(edges, 4)
	assert.Equal("aws:connect_storage_association:p-attachments-storage-config -> aws:connect_instance:i", edges[0].String())
}

func TestResourceId_text(t *testing.T) {
	id := newId(TypeStream, "acme-dev-ctr-stream")
	b, err := id.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "aws:kinesis_stream:acme-dev-ctr-stream", string(b))

	var parsed ResourceId
	require.NoError(t, parsed.UnmarshalText(b))
	assert.Equal(t, id, parsed)

	assert.Error(t, parsed.UnmarshalText([]byte("aws:kinesis_stream")))

	var e Edge
	require.NoError(t, e.UnmarshalText([]byte("aws:s3_bucket:b -> aws:kms_key:k")))
	assert.Equal(t, Edge{Source: newId(TypeBucket, "b"), Target: newId(TypeKey, "k")}, e)
	assert.Error(t, e.UnmarshalText([]byte("aws:s3_bucket:b")))
}
