package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/graphgo/blobstore"
	"github.com/hupe1980/graphgo/codec"
	"github.com/hupe1980/graphgo/internal/fs"
	"github.com/hupe1980/graphgo/internal/hash"
	"github.com/hupe1980/graphgo/internal/resource"
	"github.com/hupe1980/graphgo/internal/storage"
	"github.com/hupe1980/graphgo/model"
)

const (
	// ManifestName is the blob name of a snapshot manifest.
	ManifestName = "MANIFEST.json"
	// ManifestVersion is the current manifest format version.
	ManifestVersion = 1

	restoreSuffix = ".restore"
)

// ErrManifest is returned when a snapshot manifest is missing or invalid.
var ErrManifest = errors.New("disk: invalid snapshot manifest")

// Manifest describes a snapshot.
type Manifest struct {
	Version          int                  `json:"version"`
	Codec            string               `json:"codec"`
	CreatedAt        time.Time            `json:"created_at"`
	Compression      Compression          `json:"compression"`
	NextNode         model.NodeID         `json:"next_node"`
	NextEdge         model.EdgeID         `json:"next_edge"`
	NextRelationship model.RelationshipID `json:"next_relationship"`
	Files            []ManifestFile       `json:"files"`
}

// ManifestFile describes one store file inside a snapshot.
type ManifestFile struct {
	Name   string `json:"name"` // store file name, e.g. nodes.dat
	Blob   string `json:"blob"` // blob name relative to the snapshot prefix
	Size   int64  `json:"size"` // uncompressed size
	CRC32C uint32 `json:"crc32c"`
}

// storeFiles returns the names of the six files that make up a store.
func storeFiles() []string {
	var names []string
	for _, n := range []string{relationshipsStorage, nodesStorage, edgesStorage} {
		idx, dat := storage.Files(n)
		names = append(names, idx, dat)
	}
	return names
}

type backupOptions struct {
	prefix      string
	compression Compression
	ioLimit     int64
	concurrency int64
	codec       codec.Codec
	fs          fs.FileSystem
	logger      *slog.Logger
}

// BackupOption configures Backup and Restore.
type BackupOption func(*backupOptions)

// WithPrefix places the snapshot under prefix in the blob store.
func WithPrefix(prefix string) BackupOption {
	return func(o *backupOptions) { o.prefix = prefix }
}

// WithCompression selects the snapshot compression. Restore reads it from
// the manifest instead.
func WithCompression(c Compression) BackupOption {
	return func(o *backupOptions) { o.compression = c }
}

// WithIOLimit caps snapshot throughput in bytes per second. 0 is unlimited.
func WithIOLimit(bytesPerSec int64) BackupOption {
	return func(o *backupOptions) { o.ioLimit = bytesPerSec }
}

// WithConcurrency sets how many files are transferred at once.
func WithConcurrency(n int) BackupOption {
	return func(o *backupOptions) { o.concurrency = int64(n) }
}

// WithManifestCodec sets the codec the manifest is written with. It must
// be one of the codecs codec.ByName knows, so ReadManifest can select it.
func WithManifestCodec(c codec.Codec) BackupOption {
	return func(o *backupOptions) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithRestoreFileSystem sets the file system Restore writes to.
func WithRestoreFileSystem(fsys fs.FileSystem) BackupOption {
	return func(o *backupOptions) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithRestoreLogger sets the logger Restore reports to.
func WithRestoreLogger(l *slog.Logger) BackupOption {
	return func(o *backupOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyBackupOptions(opts []BackupOption) (backupOptions, error) {
	o := backupOptions{
		compression: CompressionZstd,
		concurrency: 2,
		codec:       codec.Default,
		fs:          fs.Default,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.compression.valid() {
		return o, fmt.Errorf("unknown compression %q: %w", o.compression, model.ErrInvalidArgument)
	}
	if _, ok := codec.ByName(o.codec.Name()); !ok {
		return o, fmt.Errorf("unknown manifest codec %q: %w", o.codec.Name(), model.ErrInvalidArgument)
	}
	if o.ioLimit < 0 || o.concurrency < 0 {
		return o, fmt.Errorf("negative backup limit: %w", model.ErrInvalidArgument)
	}
	return o, nil
}

func (o backupOptions) controller() *resource.Controller {
	return resource.NewController(resource.Config{
		MaxBackgroundWorkers: o.concurrency,
		IOLimitBytesPerSec:   o.ioLimit,
	})
}

// Backup copies the store files into dst and writes the manifest last.
// Mutations block until the copy is complete; queries proceed.
func (s *Store) Backup(ctx context.Context, dst blobstore.BlobStore, opts ...BackupOption) (*Manifest, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	o, err := applyBackupOptions(opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	rc := o.controller()
	files := storeFiles()
	results := make([]ManifestFile, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range files {
		g.Go(func() error {
			if err := rc.AcquireBackground(gctx); err != nil {
				return err
			}
			defer rc.ReleaseBackground()

			mf, err := s.backupFile(gctx, dst, rc, o, name)
			if err != nil {
				return fmt.Errorf("backup %s: %w", name, err)
			}
			results[i] = mf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Manifest{
		Version:          ManifestVersion,
		Codec:            o.codec.Name(),
		CreatedAt:        time.Now().UTC(),
		Compression:      o.compression,
		NextNode:         s.nextNode,
		NextEdge:         s.nextEdge,
		NextRelationship: s.nextRel,
		Files:            results,
	}
	data, err := o.codec.Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := dst.Put(ctx, path.Join(o.prefix, ManifestName), data); err != nil {
		return nil, fmt.Errorf("backup manifest: %w", err)
	}

	s.logger.Info("backup complete",
		"prefix", o.prefix,
		"compression", o.compression,
		"files", len(results),
		"duration", time.Since(start))
	return m, nil
}

func (s *Store) backupFile(ctx context.Context, dst blobstore.BlobStore, rc *resource.Controller, o backupOptions, name string) (ManifestFile, error) {
	f, err := s.fs.OpenFile(filepath.Join(s.dir, name), os.O_RDONLY, 0)
	if err != nil {
		return ManifestFile{}, err
	}
	defer f.Close()

	blob := name + o.compression.Ext()
	blobPath := path.Join(o.prefix, blob)

	w, err := dst.Create(ctx, blobPath)
	if err != nil {
		return ManifestFile{}, err
	}

	src := hash.NewReader(resource.NewRateLimitedReader(ctx, f, rc))
	if err := copyCompressed(w, src, o.compression); err != nil {
		_ = w.Close()
		_ = dst.Delete(ctx, blobPath)
		return ManifestFile{}, err
	}
	if err := w.Close(); err != nil {
		return ManifestFile{}, err
	}

	s.logger.Debug("backed up file", "file", name, "blob", blobPath, "size", src.N())
	return ManifestFile{Name: name, Blob: blob, Size: src.N(), CRC32C: src.Sum32()}, nil
}

func copyCompressed(w io.Writer, r io.Reader, c Compression) error {
	cw, err := compressWriter(w, c)
	if err != nil {
		return err
	}
	if _, err := io.Copy(cw, r); err != nil {
		_ = cw.Close()
		return err
	}
	return cw.Close()
}

// ReadManifest loads and validates the manifest of the snapshot under prefix.
func ReadManifest(ctx context.Context, src blobstore.BlobStore, prefix string) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, src, path.Join(prefix, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}

	// Every built-in codec writes JSON, so the codec name can be read with
	// any of them before the manifest is decoded with its own.
	var head struct {
		Codec string `json:"codec"`
	}
	if err := codec.Default.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	c, ok := codec.ByName(head.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: codec %q", ErrManifest, head.Codec)
	}

	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("%w: version %d", ErrManifest, m.Version)
	}
	if !m.Compression.valid() {
		return nil, fmt.Errorf("%w: compression %q", ErrManifest, m.Compression)
	}

	want := make(map[string]bool)
	for _, n := range storeFiles() {
		want[n] = true
	}
	for _, f := range m.Files {
		if !want[f.Name] || f.Blob != f.Name+m.Compression.Ext() {
			return nil, fmt.Errorf("%w: unexpected file %q", ErrManifest, f.Name)
		}
		delete(want, f.Name)
	}
	if len(want) != 0 {
		return nil, fmt.Errorf("%w: %d store files missing", ErrManifest, len(want))
	}
	return &m, nil
}

// Restore writes the snapshot under the configured prefix of src into dir.
// dir must exist and must not already contain store files. Every file is
// checked against its manifest size and CRC32C before any is moved into
// place. If moving a file into place fails, the files already moved are
// removed again, so dir holds either the whole store or none of it.
func Restore(ctx context.Context, src blobstore.BlobStore, dir string, opts ...BackupOption) (*Manifest, error) {
	o, err := applyBackupOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := checkDir(o.fs, dir); err != nil {
		return nil, err
	}
	for _, name := range storeFiles() {
		exists, err := fs.Exists(o.fs, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &ConfigurationError{Dir: dir, Reason: "already contains a graph store"}
		}
	}

	m, err := ReadManifest(ctx, src, o.prefix)
	if err != nil {
		return nil, err
	}

	rc := o.controller()
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range m.Files {
		g.Go(func() error {
			if err := rc.AcquireBackground(gctx); err != nil {
				return err
			}
			defer rc.ReleaseBackground()

			if err := restoreFile(gctx, src, rc, o, m.Compression, dir, f); err != nil {
				return fmt.Errorf("restore %s: %w", f.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, f := range m.Files {
			_ = o.fs.Remove(filepath.Join(dir, f.Name+restoreSuffix))
		}
		return nil, err
	}

	for i, f := range m.Files {
		if err := o.fs.Rename(filepath.Join(dir, f.Name+restoreSuffix), filepath.Join(dir, f.Name)); err != nil {
			for _, done := range m.Files[:i] {
				_ = o.fs.Remove(filepath.Join(dir, done.Name))
			}
			for _, pending := range m.Files[i:] {
				_ = o.fs.Remove(filepath.Join(dir, pending.Name+restoreSuffix))
			}
			return nil, fmt.Errorf("restore %s: %w", f.Name, err)
		}
	}

	o.logger.Info("restore complete", "dir", dir, "prefix", o.prefix, "files", len(m.Files))
	return m, nil
}

func restoreFile(ctx context.Context, src blobstore.BlobStore, rc *resource.Controller, o backupOptions, c Compression, dir string, mf ManifestFile) error {
	b, err := src.Open(ctx, path.Join(o.prefix, mf.Blob))
	if err != nil {
		return err
	}
	defer b.Close()

	rr, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return err
	}
	defer rr.Close()

	dr, err := decompressReader(rr, c)
	if err != nil {
		return err
	}
	defer dr.Close()

	out, err := o.fs.OpenFile(filepath.Join(dir, mf.Name+restoreSuffix), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	hr := hash.NewReader(dr)
	if _, err := io.Copy(resource.NewRateLimitedWriter(ctx, out, rc), hr); err != nil {
		return err
	}
	if hr.N() != mf.Size || hr.Sum32() != mf.CRC32C {
		return fmt.Errorf("%w: got %d bytes crc %08x, want %d bytes crc %08x",
			ErrChecksumMismatch, hr.N(), hr.Sum32(), mf.Size, mf.CRC32C)
	}
	return out.Sync()
}
