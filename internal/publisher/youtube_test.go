package publisher

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

func tempVideoFiles(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "video-*.mp4"))
	require.NoError(t, err)
	return matches
}

func TestDownloadMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("video-bytes"))
	}))
	defer server.Close()

	name, err := downloadMedia(context.Background(), server.URL)
	require.NoError(t, err)
	defer os.Remove(name)

	content, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(content))
}

func TestDownloadMediaErrorRemovesTempFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	before := tempVideoFiles(t)

	_, err := downloadMedia(context.Background(), server.URL)
	require.Error(t, err)

	assert.Equal(t, before, tempVideoFiles(t))
}

func TestDownloadMediaUnreachableRemovesTempFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	before := tempVideoFiles(t)

	_, err := downloadMedia(context.Background(), server.URL)
	require.Error(t, err)

	assert.Equal(t, before, tempVideoFiles(t))
}

func TestVideoTitle(t *testing.T) {
	assert.Equal(t, "Untitled", videoTitle(""))
	assert.Equal(t, "short caption", videoTitle("short caption"))

	long := make([]rune, 150)
	for i := range long {
		long[i] = 'a'
	}
	title := videoTitle(string(long))
	assert.Len(t, []rune(title), 100)
}
