package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focbcli/internal/config"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{
		DataDir: filepath.Join(base, "data"),
		LogsDir: filepath.Join(base, "logs"),
	})
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func TestManager_ResolvesLayoutPrefixes(t *testing.T) {
	paths := testPaths(t)
	m := NewManager(paths)

	require.NoError(t, os.WriteFile(paths.GetRawPath("focb_tn.xlsx"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(paths.StrictCSV, []byte("station,date\n"), 0644))

	assert.True(t, m.FileExists("raw/focb_tn.xlsx"))
	assert.True(t, m.FileExists("clean/"+config.StrictDatasetFile))
	assert.False(t, m.FileExists("stats/focb_stats_tn.csv"))
	assert.False(t, m.FileExists("raw/other.xlsx"))
}

func TestManager_AbsolutePathPassthrough(t *testing.T) {
	paths := testPaths(t)
	m := NewManager(paths)

	path := filepath.Join(t.TempDir(), "stations.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, m.FileExists(path))

	size, err := m.GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)
}

// A path that already came out of a Paths accessor must not be joined
// under the data directory a second time. The cleaner feeds
// GetRawPath results straight into FileExists with a relative
// data_dir, so double resolution would report existing inputs as
// missing.
func TestManager_FileExists_AcceptsResolvedPaths(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	paths := config.NewPaths(config.PathsConfig{DataDir: "data", LogsDir: "logs"})
	require.NoError(t, paths.EnsureDirectories())
	m := NewManager(paths)

	rawPath := paths.GetRawPath("focb_surface_nutrients.xlsx")
	require.NoError(t, os.WriteFile(rawPath, []byte("x"), 0644))

	assert.True(t, m.FileExists(rawPath))
	assert.True(t, m.FileExists("raw/focb_surface_nutrients.xlsx"))

	size, err := m.GetFileSize(rawPath)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)
}
