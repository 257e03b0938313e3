package artifact

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-scoring-api/internal/core/domain"
)

func newMemResolver(t *testing.T, files ...string) *Resolver {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("x"), 0o644))
	}
	return &Resolver{
		Fs:         fs,
		BaseDirs:   []string{"/srv/app/api", "/srv/app"},
		SearchRoot: "/srv/app",
	}
}

func TestResolver_BesideComponent(t *testing.T) {
	r := newMemResolver(t, "/srv/app/api/df_test_reduit.csv", "/srv/app/df_test_reduit.csv")

	path, err := r.Resolve("df_test_reduit.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/app/api", "df_test_reduit.csv"), path)
}

func TestResolver_ParentDirectory(t *testing.T) {
	r := newMemResolver(t, "/srv/app/df_test_reduit.csv")

	path, err := r.Resolve("df_test_reduit.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/app", "df_test_reduit.csv"), path)
}

func TestResolver_RecursiveScan(t *testing.T) {
	r := newMemResolver(t,
		"/srv/app/data/raw/LGBM_TTS.json",
		"/srv/app/models/LGBM_TTS.json",
	)

	path, err := r.Resolve("LGBM_TTS.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/app/data/raw", "LGBM_TTS.json"), path, "scan is lexical, first match wins")
}

func TestResolver_ScanSkipsHiddenDirectories(t *testing.T) {
	r := newMemResolver(t, "/srv/app/.git/LGBM_TTS.json")

	_, err := r.Resolve("LGBM_TTS.json")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestResolver_NotFound(t *testing.T) {
	r := newMemResolver(t, "/srv/app/other.csv")

	_, err := r.Resolve("df_test_reduit.csv")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	assert.Contains(t, err.Error(), "df_test_reduit.csv")
}

func TestResolver_DirectoryWithArtifactNameIsIgnored(t *testing.T) {
	r := newMemResolver(t, "/srv/app/models/LGBM_TTS.json")
	require.NoError(t, r.Fs.MkdirAll("/srv/app/api/LGBM_TTS.json", 0o755))

	path, err := r.Resolve("LGBM_TTS.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/app/models", "LGBM_TTS.json"), path)
}

func TestResolver_ExplicitPath(t *testing.T) {
	r := newMemResolver(t, "/opt/models/LGBM_TTS.json")

	path, err := r.Resolve("/opt/models/LGBM_TTS.json")
	require.NoError(t, err)
	assert.Equal(t, "/opt/models/LGBM_TTS.json", path)

	_, err = r.Resolve("/opt/models/missing.json")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestResolver_Open(t *testing.T) {
	r := newMemResolver(t, "/srv/app/df_test_reduit.csv")

	f, path, err := r.Open("df_test_reduit.csv")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, filepath.Join("/srv/app", "df_test_reduit.csv"), path)
}
