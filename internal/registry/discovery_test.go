package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devhub/internal/logging"
	"devhub/internal/project"
	"devhub/internal/store"
)

func newDiscovery(t *testing.T, root string, meta map[string]project.Metadata) (*Discovery, *store.MemoryMetadataStore) {
	t.Helper()
	mem := store.NewMemoryMetadataStore(meta)
	d := NewDiscovery(root, func(string) store.MetadataStore { return mem }, WithClock(fixedClock))
	return d, mem
}

func TestDiscovery_ListJoinsMetadata(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "api", "worker", ".hidden")
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	d, mem := newDiscovery(t, root, map[string]project.Metadata{"api": {LastAccessedAt: &at}})

	projects, err := d.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"api", "worker"}, projectNames(projects))

	api := projects[0]
	assert.Equal(t, "api", api.ID)
	assert.Equal(t, filepath.Join(root, "api"), api.Path)
	require.NotNil(t, api.LastAccessedAt)
	assert.True(t, at.Equal(*api.LastAccessedAt))
	assert.Nil(t, projects[1].LastAccessedAt)
	assert.Equal(t, 0, mem.Writes, "nothing stale, nothing saved")
}

func TestDiscovery_PrunesGoneProjects(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "api")
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	d, mem := newDiscovery(t, root, map[string]project.Metadata{
		"api":  {LastAccessedAt: &at},
		"gone": {LastAccessedAt: &at},
	})

	projects, err := d.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, projectNames(projects))

	assert.Equal(t, 1, mem.Writes)
	snapshot := mem.Snapshot()
	assert.NotContains(t, snapshot, "gone")
	assert.Contains(t, snapshot, "api")
}

func TestDiscovery_ReconcileIsIdempotent(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "api")

	d, mem := newDiscovery(t, root, map[string]project.Metadata{"api": {}, "gone": {}})

	saved, err := d.Reconcile()
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = d.Reconcile()
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, 1, mem.Writes)
}

func TestDiscovery_MissingRootIsEmpty(t *testing.T) {
	d, mem := newDiscovery(t, filepath.Join(t.TempDir(), "missing"), map[string]project.Metadata{"a": {}})

	projects, err := d.List()
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.Equal(t, 0, mem.Writes)
}

func TestDiscovery_FileRootIsEmpty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	d, _ := newDiscovery(t, file, nil)

	projects, err := d.List()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestDiscovery_MarkAccessed(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "api")
	d, mem := newDiscovery(t, root, nil)

	require.NoError(t, d.MarkAccessed("api"))
	got := mem.Snapshot()["api"].LastAccessedAt
	require.NotNil(t, got)
	assert.True(t, fixedNow.Equal(*got))

	err := d.MarkAccessed("nope")
	assert.True(t, errors.Is(err, project.ErrNotFound))
}

func TestDiscovery_Remove(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "api", "fresh")
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d, mem := newDiscovery(t, root, map[string]project.Metadata{"api": {LastAccessedAt: &at}})

	require.NoError(t, d.Remove("api"))
	assert.NotContains(t, mem.Snapshot(), "api")
	assert.Equal(t, 1, mem.Writes)

	// Existing directory without history: nothing to forget
	require.NoError(t, d.Remove("fresh"))
	assert.Equal(t, 1, mem.Writes)

	assert.ErrorIs(t, d.Remove("missing"), project.ErrNotFound)
}

func TestDiscovery_AddUnsupported(t *testing.T) {
	d, _ := newDiscovery(t, t.TempDir(), nil)

	_, err := d.Add("/tmp")
	assert.ErrorIs(t, err, project.ErrUnsupported)
	_, err = d.AddAll("/tmp")
	assert.ErrorIs(t, err, project.ErrUnsupported)
	assert.Equal(t, project.ModeDiscovery, d.Mode())
}

func TestDiscovery_Find(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "api", ".git")
	d, _ := newDiscovery(t, root, nil)

	p, ok := d.Find("api")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "api"), p.Path)

	_, ok = d.Find(".git")
	assert.False(t, ok)
	_, ok = d.Find("../api")
	assert.False(t, ok)
}

func TestDiscovery_SetRootSwapsStore(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	mkdirs(t, second, "svc")

	opened := map[string]int{}
	d := NewDiscovery(first, func(root string) store.MetadataStore {
		opened[root]++
		return store.NewMetadataStore(root, logging.NopLogger())
	})

	require.NoError(t, d.SetRoot(second))
	assert.Equal(t, second, d.Root())
	assert.Equal(t, 1, opened[second])

	projects, err := d.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"svc"}, projectNames(projects))

	assert.ErrorIs(t, d.SetRoot(filepath.Join(second, "missing")), project.ErrNotFound)
	assert.Equal(t, second, d.Root(), "failed SetRoot keeps the old root")
}

func TestDiscovery_PersistsBesideRoot(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "api")
	d := NewDiscovery(root, func(r string) store.MetadataStore {
		return store.NewMetadataStore(r, logging.NopLogger())
	}, WithClock(fixedClock))

	require.NoError(t, d.MarkAccessed("api"))
	assert.FileExists(t, filepath.Join(root, ".devhub", "config.json"))

	// The metadata directory is hidden and never listed as a project
	projects, err := d.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, projectNames(projects))
	require.NotNil(t, projects[0].LastAccessedAt)
}

func TestDiscovery_MalformedMetadataIsNotOverwritten(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "api")
	path := store.DiscoveryPath(root)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o600))

	d := NewDiscovery(root, func(r string) store.MetadataStore {
		return store.NewMetadataStore(r, logging.NopLogger())
	}, WithClock(fixedClock))

	projects, err := d.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"api"}, projectNames(projects))

	var readErr *store.ReadError
	require.ErrorAs(t, d.MarkAccessed("api"), &readErr)
	require.ErrorAs(t, d.Remove("api"), &readErr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{oops", string(data))
}
