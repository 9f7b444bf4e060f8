package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/padicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "padicon.toml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, "icons", s.CacheDir)
	assert.Equal(t, "png", s.Format)
	assert.NotEmpty(t, s.Fonts.Bold)
	assert.NotEmpty(t, s.Fonts.Regular)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
cache_dir = "/var/cache/padicon"
format = "bmp"

[fonts]
dirs = ["/opt/fonts"]
regular = ["/opt/fonts/Go-Regular.ttf"]

[log]
level = "debug"
max_size_mb = 5
`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/padicon", s.CacheDir)
	assert.Equal(t, "bmp", s.Format)
	assert.Equal(t, []string{"/opt/fonts"}, s.Fonts.Dirs)
	assert.Equal(t, []string{"/opt/fonts/Go-Regular.ttf"}, s.Fonts.Regular)
	assert.Equal(t, Default().Fonts.Bold, s.Fonts.Bold, "keys missing from the file keep their default")
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, 5, s.Log.MaxSizeMB)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "cache_dir = \"from-file\"\nformat = \"bmp\"\n")
	t.Setenv("PADICON_CACHE_DIR", "from-env")
	t.Setenv("PADICON_FONT_DIRS", "/a:/b")
	t.Setenv("PADICON_LOG_LEVEL", "warn")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", s.CacheDir)
	assert.Equal(t, "bmp", s.Format)
	assert.Equal(t, []string{"/a", "/b"}, s.Fonts.Dirs)
	assert.Equal(t, "warn", s.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "cache_dir = \n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "cache_dir = \"icons\"\ncolour = \"red\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config keys: colour")

	_, err = Load(writeConfig(t, "format = \"jpeg\"\n"))
	assert.Error(t, err)

	t.Setenv("PADICON_LOG_MAX_SIZE_MB", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestGeneratorConfig(t *testing.T) {
	s := Default()
	s.Format = "TIFF"
	s.Fonts.Dirs = []string{"/opt/fonts"}

	cfg, err := s.GeneratorConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, padicon.TIFF, cfg.Format)
	assert.Equal(t, "icons", cfg.CacheDir)
	assert.Equal(t, []string{"/opt/fonts"}, cfg.FontDirs)
	assert.Equal(t, s.Fonts.Bold, cfg.BoldFonts)
}
