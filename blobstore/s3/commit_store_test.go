package s3

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jamal-wia/Paginator-sub000/blobstore"
)

// MockDDBClient implements DDBClient for unit tests.
type MockDDBClient struct {
	mock.Mock
}

func (m *MockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*dynamodb.PutItemOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*dynamodb.QueryOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func versionItem(version, stateName string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"base_uri":   &types.AttributeValueMemberS{Value: "s3://bucket/prefix"},
		"version":    &types.AttributeValueMemberN{Value: version},
		"state_name": &types.AttributeValueMemberS{Value: stateName},
	}
}

func TestCommitStore_Current(t *testing.T) {
	ctx := context.Background()

	t.Run("empty commit log", func(t *testing.T) {
		ddb := new(MockDDBClient)
		cs := NewCommitStore(blobstore.NewMemoryStore(), ddb, "commits", "s3://bucket/prefix")

		ddb.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil).Once()

		_, err := cs.Get(ctx, CurrentName)
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("latest version wins", func(t *testing.T) {
		ddb := new(MockDDBClient)
		cs := NewCommitStore(blobstore.NewMemoryStore(), ddb, "commits", "s3://bucket/prefix")

		ddb.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
			return *input.TableName == "commits" && !*input.ScanIndexForward
		})).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{versionItem("7", "state-000007.bin")},
		}, nil).Once()

		name, err := cs.Get(ctx, CurrentName)
		require.NoError(t, err)
		assert.Equal(t, "state-000007.bin", string(name))
	})
}

func TestCommitStore_Commit(t *testing.T) {
	ctx := context.Background()

	t.Run("appends the next version", func(t *testing.T) {
		ddb := new(MockDDBClient)
		cs := NewCommitStore(blobstore.NewMemoryStore(), ddb, "commits", "s3://bucket/prefix")

		ddb.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{versionItem("3", "state-000003.bin")},
		}, nil).Once()
		ddb.On("PutItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.PutItemInput) bool {
			version := input.Item["version"].(*types.AttributeValueMemberN)
			name := input.Item["state_name"].(*types.AttributeValueMemberS)
			return version.Value == "4" && name.Value == "state-000004.bin" &&
				*input.ConditionExpression == "attribute_not_exists(version)"
		})).Return(&dynamodb.PutItemOutput{}, nil).Once()

		err := cs.Put(ctx, CurrentName, []byte("state-000004.bin"))
		assert.NoError(t, err)
		ddb.AssertExpectations(t)
	})

	t.Run("version collision", func(t *testing.T) {
		ddb := new(MockDDBClient)
		cs := NewCommitStore(blobstore.NewMemoryStore(), ddb, "commits", "s3://bucket/prefix")

		ddb.On("Query", mock.Anything, mock.Anything).Return(&dynamodb.QueryOutput{}, nil).Once()
		ddb.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		err := cs.Put(ctx, CurrentName, []byte("state-000001.bin"))
		assert.ErrorIs(t, err, ErrConcurrentModification)
	})
}

func TestCommitStore_PassThrough(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	cs := NewCommitStore(mem, new(MockDDBClient), "commits", "s3://bucket/prefix")

	require.NoError(t, cs.Put(ctx, "state-000001.bin", []byte("payload")))

	data, err := cs.Get(ctx, "state-000001.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	names, err := cs.List(ctx, "state-")
	require.NoError(t, err)
	assert.Equal(t, []string{"state-000001.bin"}, names)

	require.NoError(t, cs.Delete(ctx, "state-000001.bin"))
	_, err = cs.Get(ctx, "state-000001.bin")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	assert.Error(t, cs.Delete(ctx, CurrentName))
}
