package assets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathamesh/auto-apply/internal/memory"
	"github.com/prathamesh/auto-apply/internal/types"
)

func newTestStores(t *testing.T) (*Store, *memory.FileStore) {
	t.Helper()
	dir := t.TempDir()

	store, err := Open(filepath.Join(dir, "assets.json"))
	require.NoError(t, err)

	mem, err := memory.OpenFileStore(filepath.Join(dir, "qa_memory.json"))
	require.NoError(t, err)
	return store, mem
}

func TestRegisterFansOutRoleKeys(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStores(t)

	require.NoError(t, mem.Set(ctx, "phone", "9998887777"))

	asset := &types.StoredFileAsset{Name: "Prathamesh_Resume.pdf", Type: "application/pdf"}
	asset.Encode([]byte("pdf bytes"))
	require.NoError(t, store.Register(ctx, types.RoleResume, asset, mem))

	for _, key := range types.RoleKeyVariants[types.RoleResume] {
		v, ok, err := mem.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, "variant %q not written", key)
		assert.Equal(t, "Prathamesh_Resume.pdf", v)
	}

	// Unrelated keys untouched.
	v, _, err := mem.Get(ctx, "phone")
	require.NoError(t, err)
	assert.Equal(t, "9998887777", v)

	got, ok := store.Get(types.RoleResume)
	assert.True(t, ok)
	assert.Equal(t, "Prathamesh_Resume.pdf", got.Name)
}

func TestRegisterReuploadReplacesSlot(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStores(t)

	first := &types.StoredFileAsset{Name: "resume_v1.pdf"}
	first.Encode([]byte("v1"))
	require.NoError(t, store.Register(ctx, types.RoleResume, first, mem))

	second := &types.StoredFileAsset{Name: "resume_v2.pdf"}
	second.Encode([]byte("v2"))
	require.NoError(t, store.Register(ctx, types.RoleResume, second, mem))

	got, ok := store.Get(types.RoleResume)
	require.True(t, ok)
	assert.Equal(t, "resume_v2.pdf", got.Name)

	v, _, err := mem.Get(ctx, "cv")
	require.NoError(t, err)
	assert.Equal(t, "resume_v2.pdf", v)
}

func TestRegisterRejectsUnnamedAsset(t *testing.T) {
	store, mem := newTestStores(t)
	err := store.Register(context.Background(), types.RoleResume, &types.StoredFileAsset{}, mem)
	assert.Error(t, err)
}

func TestOpenPersistsSlots(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "assets.json")

	store, err := Open(path)
	require.NoError(t, err)
	asset := &types.StoredFileAsset{Name: "cover.pdf"}
	asset.Encode([]byte("letter"))
	require.NoError(t, store.Register(ctx, types.RoleCoverLetter, asset, nil))

	reopened, err := Open(path)
	require.NoError(t, err)
	got, ok := reopened.Get(types.RoleCoverLetter)
	require.True(t, ok)
	assert.Equal(t, "cover.pdf", got.Name)

	decoded, err := got.Decode()
	require.NoError(t, err)
	assert.Equal(t, []byte("letter"), decoded)
}

func TestRoleForLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected types.AssetRole
		ok       bool
	}{
		{"Resume label", "Upload your Resume", types.RoleResume, true},
		{"CV label", "CV (PDF only)", types.RoleResume, true},
		{"Cover letter label", "Cover Letter", types.RoleCoverLetter, true},
		{"Cover letter beats cv", "Cover letter / CV", types.RoleCoverLetter, true},
		{"Unrelated label", "Portfolio link", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := RoleForLabel(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, role)
		})
	}
}
