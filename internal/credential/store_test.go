package credential

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParameters struct {
	values map[string]string
	puts   []*ssm.PutParameterInput
	err    error
	empty  bool
}

func (f *fakeParameters) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return &ssm.GetParameterOutput{}, nil
	}
	v, ok := f.values[aws.ToString(in.Name)]
	if !ok {
		return nil, &types.ParameterNotFound{}
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(v)}}, nil
}

func (f *fakeParameters) PutParameter(_ context.Context, in *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, in)
	f.values[aws.ToString(in.Name)] = aws.ToString(in.Value)
	return &ssm.PutParameterOutput{}, nil
}

func TestParameterStore(t *testing.T) {
	ctx := context.Background()
	api := &fakeParameters{values: map[string]string{}}
	store := &ParameterStore{Client: api, Path: "/brandbot/hf-key"}

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, store.Set(ctx, "  hf_secret \n"))
	require.Len(t, api.puts, 1)
	assert.Equal(t, types.ParameterTypeSecureString, api.puts[0].Type)
	assert.True(t, aws.ToBool(api.puts[0].Overwrite))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hf_secret", got)
}

func TestParameterStoreRejectsEmpty(t *testing.T) {
	api := &fakeParameters{values: map[string]string{}}
	store := &ParameterStore{Client: api, Path: "/p"}
	require.ErrorIs(t, store.Set(context.Background(), "   "), ErrEmptyCredential)
	assert.Empty(t, api.puts)
}

func TestParameterStorePropagatesErrors(t *testing.T) {
	boom := errors.New("throttled")
	store := &ParameterStore{Client: &fakeParameters{err: boom}, Path: "/p"}
	_, err := store.Get(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestParameterStoreMissingParameter(t *testing.T) {
	store := &ParameterStore{Client: &fakeParameters{empty: true}, Path: "/p"}
	_, err := store.Get(context.Background())
	require.ErrorIs(t, err, ErrNoCredential)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store := &FileStore{Path: path}

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, store.Set(ctx, "hf_one"))
	require.NoError(t, store.Set(ctx, "hf_two"))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hf_two", got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened := &FileStore{Path: path}
	got, err = reopened.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hf_two", got)
}

func TestFileStoreKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0600))

	store := &FileStore{Path: path}
	require.NoError(t, store.Set(ctx, "hf_key"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"theme": "dark"`)
	assert.Contains(t, string(data), `"hf_api_key": "hf_key"`)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := (&FileStore{Path: path}).Get(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCredential)
}

func TestWithFallback(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")

	store := WithFallback(&FileStore{Path: path}, " hf_env ")
	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hf_env", got)

	require.NoError(t, store.Set(ctx, "hf_saved"))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hf_saved", got)
}

func TestWithFallbackEmpty(t *testing.T) {
	inner := &FileStore{Path: filepath.Join(t.TempDir(), "c.json")}
	assert.Same(t, inner, WithFallback(inner, "  "))
}
