// Package document is the on-disk format of a pathcanvas drawing.
//
// A document wraps a graph.Snapshot with an id, a format version, the save
// time and, optionally, the canvas configuration it was edited with. Bare
// snapshots (as written by "pathcanvas export --format json") are accepted
// on read and wrapped in a fresh document.
package document

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pathcanvas/pkg/canvas"
	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

// Version is the document format written by this package.
const Version = 1

// Document is a saved drawing.
type Document struct {
	ID      uuid.UUID      `json:"id"`
	Version int            `json:"version"`
	Saved   time.Time      `json:"saved"`
	Config  *canvas.Config `json:"config,omitempty"`
	Graph   graph.Snapshot `json:"graph"`
}

// New wraps s in a document with a fresh id.
func New(s graph.Snapshot) *Document {
	return &Document{ID: uuid.New(), Version: Version, Graph: s}
}

// Read decodes a document or a bare snapshot from r.
//
// Returns an INVALID_FORMAT error for malformed JSON or an unsupported
// version, and the graph package's errors for snapshots that do not describe
// a valid graph.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read document")
	}

	var head struct {
		Graph json.RawMessage `json:"graph"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	if head.Graph == nil {
		s, err := graph.ReadSnapshot(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		d := New(s)
		return d, d.Validate()
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	if d.Version < 1 || d.Version > Version {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document version %d", d.Version)
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return &d, d.Validate()
}

// ReadFile reads a document from path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "document %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Validate checks that the graph and, when present, the configuration are
// usable.
func (d *Document) Validate() error {
	if _, err := graph.FromSnapshot(d.Graph); err != nil {
		return err
	}
	if d.Config != nil {
		return d.Config.WithDefaults().Validate()
	}
	return nil
}

// Write encodes d as indented JSON.
func (d *Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// WriteFile stamps d with the current time and writes it to path. The file
// is replaced atomically through a temporary file in the same directory.
func (d *Document) WriteFile(path string) error {
	d.Saved = time.Now().UTC().Truncate(time.Second)
	if d.Version == 0 {
		d.Version = Version
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".pathcanvas-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if err := d.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save %s", path)
	}
	return nil
}

// Model rebuilds the graph model of d.
func (d *Document) Model(opts ...graph.Option) (*graph.Model, error) {
	return graph.FromSnapshot(d.Graph, opts...)
}
