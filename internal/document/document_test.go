package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pathcanvas/pkg/canvas"
	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

func sample(t *testing.T) graph.Snapshot {
	t.Helper()
	m := graph.New()
	a := m.AddNode(geom.Pt(0, 0), "a")
	b := m.AddShapedNode(geom.Pt(100, 50), "b", graph.Rectangle)
	_, err := m.AddEdge(a, b)
	require.NoError(t, err)
	return m.Snapshot()
}

func TestRoundTrip(t *testing.T) {
	cfg := canvas.DefaultConfig()
	cfg.AllowReciprocal = true
	d := New(sample(t))
	d.Config = &cfg

	var buf bytes.Buffer
	require.NoError(t, d.Write(&buf))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, d.Graph, got.Graph)
	require.NotNil(t, got.Config)
	assert.True(t, got.Config.AllowReciprocal)
}

func TestReadBareSnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, graph.WriteSnapshot(&buf, sample(t)))

	d, err := Read(&buf)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.Equal(t, Version, d.Version)
	assert.Len(t, d.Graph.Nodes, 2)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"not json", "{", errors.ErrCodeInvalidFormat},
		{"future version", `{"version": 99, "graph": {"nodes": [], "edges": []}}`, errors.ErrCodeInvalidFormat},
		{"missing version", `{"graph": {"nodes": [], "edges": []}}`, errors.ErrCodeInvalidFormat},
		{"dangling edge", `{"version": 1, "graph": {"nodes": [{"id": 1, "label": "a"}], "edges": [{"id": 1, "source": 1, "target": 2}]}}`, errors.ErrCodeInvalidEdge},
		{"bad config", `{"version": 1, "config": {"zoom_step": 0.5}, "graph": {"nodes": [], "edges": []}}`, errors.ErrCodeConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.data))
			assert.True(t, errors.Is(err, tt.code), "error = %v, want %s", err, tt.code)
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "drawing.json")
	d := New(sample(t))
	require.NoError(t, d.WriteFile(path))
	assert.False(t, d.Saved.IsZero())

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.True(t, d.Saved.Equal(got.Saved))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	m, err := got.Model()
	require.NoError(t, err)
	assert.Equal(t, 1, m.EdgeCount())
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}
