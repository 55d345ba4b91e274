package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uploadKeyPattern = regexp.MustCompile(`^uploads/[0-9a-f-]{36}-[a-z0-9-]+(\.[a-z0-9]+)?$`)

func TestUploadKey(t *testing.T) {
	k := UploadKey("My Solution (final).PY")
	assert.Regexp(t, uploadKeyPattern, k)
	assert.True(t, strings.HasSuffix(k, "-my-solution-final.py"))

	assert.Regexp(t, uploadKeyPattern, UploadKey("../../etc/passwd"))
	assert.NotContains(t, UploadKey("../../etc/passwd"), "..")
	assert.Regexp(t, uploadKeyPattern, UploadKey("???"))
	assert.NotEqual(t, UploadKey("a.txt"), UploadKey("a.txt"))
}

func TestLocalStorageSaveAndServe(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/media")
	require.NoError(t, err)
	assert.Equal(t, "/media/", s.BaseURL())

	obj, err := s.Save(context.Background(), "uploads/abc-notes.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "uploads/abc-notes.txt", obj.Key)
	assert.Equal(t, "/media/uploads/abc-notes.txt", obj.URL)

	data, err := os.ReadFile(filepath.Join(root, "uploads", "abc-notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/uploads/abc-notes.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/uploads/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLocalStorageRejectsTraversalKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "../escape.txt", "", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = s.Save(context.Background(), "uploads/../../escape.txt", "", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/bucket/uploads/a%20b.txt", PublicURL("bucket", "uploads/a b.txt"))
}

func TestLocalStorageDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/media/")
	require.NoError(t, err)
	ctx := context.Background()

	obj, err := s.Save(ctx, "uploads/abc-notes.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, obj.Key))
	_, err = os.Stat(filepath.Join(root, "uploads", "abc-notes.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, obj.Key), "missing key")
	assert.Error(t, s.Delete(ctx, "../escape.txt"))
}
