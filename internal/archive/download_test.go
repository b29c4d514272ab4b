package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveFile(t *testing.T, path string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dist/spark.tgz" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInstallFromURL(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "spark.tgz")
	writeTarGz(t, src, sparkEntries)
	srv := serveFile(t, src)
	dest := filepath.Join(dir, "opt", "spark")

	extracted, err := Install(context.Background(), srv.URL+"/dist/spark.tgz", dest)
	require.NoError(t, err)
	assert.True(t, extracted)
	assert.FileExists(t, filepath.Join(dest, "bin", "spark-shell"))
}

func TestInstallSkipsPopulatedDestination(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "RELEASE"), []byte("x"), 0644))

	// The URL is never fetched.
	extracted, err := Install(context.Background(), "http://127.0.0.1:1/spark.tgz", dest)
	require.NoError(t, err)
	assert.False(t, extracted)
}

func TestDownloadNotFound(t *testing.T) {
	dir := t.TempDir()
	srv := serveFile(t, filepath.Join(dir, "missing.tgz"))

	_, err := Download(context.Background(), srv.URL+"/other.tgz", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDownloadNeedsFileName(t *testing.T) {
	_, err := Download(context.Background(), "https://example.com/", t.TempDir())
	require.Error(t, err)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://archive.apache.org/dist/spark/spark-3.5.1-bin-hadoop3.tgz"))
	assert.False(t, IsRemote("/tmp/spark.tgz"))
	assert.False(t, IsRemote("~/Downloads/spark.zip"))
}
