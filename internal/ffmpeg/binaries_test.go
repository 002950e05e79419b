package ffmpeg

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetForPlatform(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"linux", "amd64", "ffmpeg-6.1-linux-64.zip"},
		{"linux", "arm64", "ffmpeg-6.1-linux-arm-64.zip"},
		{"darwin", "amd64", "ffmpeg-6.1-macos-64.zip"},
		{"windows", "amd64", "ffmpeg-6.1-win-64.zip"},
	}
	for _, tt := range tests {
		got, err := assetForPlatform(tt.goos, tt.goarch)
		require.NoError(t, err, "%s/%s", tt.goos, tt.goarch)
		assert.Equal(t, tt.want, got)
	}

	_, err := assetForPlatform("plan9", "386")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan9/386")
}

func TestBinaryNameMatching(t *testing.T) {
	assert.True(t, isFFmpegBinary("ffmpeg"))
	assert.True(t, isFFmpegBinary("FFMPEG.EXE"))
	assert.False(t, isFFmpegBinary("ffmpeg.txt"))
	assert.True(t, isFFprobeBinary("ffprobe.exe"))
	assert.False(t, isFFprobeBinary("ffplay"))
}

func writeZip(t *testing.T, entries map[string]string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return &buf
}

func TestExtractArchiveFromReader(t *testing.T) {
	dir := t.TempDir()
	archive := writeZip(t, map[string]string{
		"bundle/ffmpeg":  "ffmpeg-bytes",
		"bundle/ffprobe": "ffprobe-bytes",
		"README":         "ignored",
	})

	require.NoError(t, extractArchiveFromReader("test.zip", archive, dir))

	got, err := os.ReadFile(filepath.Join(dir, "ffmpeg"+executableSuffix()))
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg-bytes", string(got))
	assert.True(t, binariesExist(
		filepath.Join(dir, "ffmpeg"+executableSuffix()),
		filepath.Join(dir, "ffprobe"+executableSuffix()),
	))
	_, err = os.Stat(filepath.Join(dir, "README"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractArchiveMissingBinary(t *testing.T) {
	archive := writeZip(t, map[string]string{"ffmpeg": "only one"})

	err := extractArchiveFromReader("partial.zip", archive, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partial.zip")
	assert.Contains(t, err.Error(), "missing required binaries")
}

func TestFileExistsRejectsEmptyAndDirs(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	assert.False(t, fileExists(empty))
	assert.False(t, fileExists(dir))
	assert.False(t, fileExists(filepath.Join(dir, "absent")))
}

func TestInstallDirIsVersionedPerPlatform(t *testing.T) {
	dir := InstallDir("linux", "arm64")
	assert.True(t, strings.HasSuffix(dir, filepath.Join("cuesheet", "ffmpeg", ffmpegReleaseVersion, "linux", "arm64")))
}
