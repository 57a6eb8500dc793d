package blob

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskflow-api/internal/form"
)

func TestClient_Upload(t *testing.T) {
	store := NewMemStore()
	client := NewClient(store, "task-files")

	part := form.Part{
		Name:     "attachment",
		Filename: "report.pdf",
		Content:  []byte("pdf bytes"),
	}

	ref, err := client.Upload(context.Background(), part)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref.Key, "uploads/"))
	assert.True(t, strings.HasSuffix(ref.Key, "report.pdf"))
	// uploads/ + 32 hex + имя файла
	assert.Len(t, ref.Key, len("uploads/")+32+len("report.pdf"))
	assert.Equal(t, "https://task-files.s3.amazonaws.com/"+ref.Key, ref.URL)

	data, ok := store.Get(ref.Key)
	require.True(t, ok)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestClient_Upload_DistinctKeys(t *testing.T) {
	store := NewMemStore()
	client := NewClient(store, "task-files")
	part := form.Part{Name: "attachment", Filename: "a.txt", Content: []byte("x")}

	ref1, err := client.Upload(context.Background(), part)
	require.NoError(t, err)
	ref2, err := client.Upload(context.Background(), part)
	require.NoError(t, err)

	assert.NotEqual(t, ref1.Key, ref2.Key)
}

func TestClient_Remove(t *testing.T) {
	store := NewMemStore()
	client := NewClient(store, "task-files")

	require.NoError(t, store.Put(context.Background(), "uploads/abc", []byte("x")))
	require.NoError(t, client.Remove(context.Background(), "uploads/abc"))

	_, ok := store.Get("uploads/abc")
	assert.False(t, ok)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "report.pdf", "report.pdf"},
		{"unix path traversal", "../../etc/passwd", "passwd"},
		{"absolute path", "/etc/shadow", "shadow"},
		{"windows path", `C:\Users\me\doc.txt`, "doc.txt"},
		{"control characters", "re\x00port\n.pdf", "report.pdf"},
		{"dot only", ".", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFilename(tt.input))
		})
	}
}
