// Package dataset drives the full run: select eligible files from a
// folder, label each one, normalize it (through the cache), stream its
// augmented variants to staged files, and seal capacity-bounded batches
// into zip archives.
//
// The Runner centralizes this logic so the CLI and the preview server
// behave identically.
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/costajob/image-augmenter/pkg/archive"
	"github.com/costajob/image-augmenter/pkg/augment"
	"github.com/costajob/image-augmenter/pkg/cache"
	"github.com/costajob/image-augmenter/pkg/errors"
	"github.com/costajob/image-augmenter/pkg/imgio"
	"github.com/costajob/image-augmenter/pkg/label"
	"github.com/costajob/image-augmenter/pkg/observability"
)

// Runner executes dataset runs with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store run results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Result contains the outputs of a run.
type Result struct {
	// Files is the number of eligible source files processed.
	Files int

	// Variants is the total number of materialized variants.
	Variants int

	// Archives lists the produced archive paths in sequence order.
	Archives []string

	// Skipped lists folder entries that were not eligible sources.
	Skipped []string

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks normalization cache effectiveness.
	CacheInfo CacheInfo
}

// Stats contains run execution statistics.
type Stats struct {
	ProcessTime time.Duration
	ArchiveTime time.Duration
}

// CacheInfo tracks cache hits and misses for the normalization stage.
type CacheInfo struct {
	Hits   int
	Misses int
}

// collaborators holds the per-run pure helpers, constructed once from the
// validated options and shared across every file.
type collaborators struct {
	labeller   *label.Labeller
	normalizer *imgio.Normalizer
	augmenter  *augment.Augmenter
}

func (r *Runner) assemble(opts *Options) (*collaborators, error) {
	normalizer, err := imgio.NewNormalizer(opts.Size, opts.ParsedCanvas())
	if err != nil {
		return nil, err
	}
	augmenter, err := augment.New(opts.Cutoff, augment.Catalog(opts.CatalogConfig())...)
	if err != nil {
		return nil, err
	}
	return &collaborators{
		labeller:   label.New(opts.LabelDigits),
		normalizer: normalizer,
		augmenter:  augmenter,
	}, nil
}

// Execute runs the complete select → normalize → augment → batch → archive
// pipeline. Staged files live in a temporary directory that is removed
// before Execute returns; only the archives survive.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	collab, err := r.assemble(&opts)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	files, skipped, err := eligible(opts.Folder)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped
	if len(files) == 0 {
		logger.Warn("no eligible images found", "folder", opts.Folder)
		return result, nil
	}
	logger.Info("starting run",
		"files", len(files),
		"cutoff", opts.Cutoff,
		"max_variants", collab.augmenter.Count())

	tmpdir, err := os.MkdirTemp("", "imgpack")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating staging directory")
	}
	defer os.RemoveAll(tmpdir)

	zipper := archive.NewZipper(opts.OutputDir)
	batch := newBatch(0, opts.BatchCapacity)

	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		start := time.Now()
		observability.Pipeline().OnBatchSealed(ctx, batch.Index(), batch.Len())
		entries := make([]archive.Entry, batch.Len())
		for i, e := range batch.Entries() {
			entries[i] = archive.Entry{Source: e.TempPath, Archive: e.ArchivePath}
		}
		archivePath, err := zipper.Archive(entries)
		observability.Pipeline().OnBatchArchived(ctx, batch.Index(), archivePath, time.Since(start), err)
		if err != nil {
			return err
		}
		logger.Info("archived batch",
			"archive", filepath.Base(archivePath),
			"entries", batch.Len())
		result.Archives = append(result.Archives, archivePath)
		result.Stats.ArchiveTime += time.Since(start)
		batch = newBatch(batch.Index()+1, opts.BatchCapacity)
		return nil
	}
	add := func(e Entry) error {
		if batch.Add(e) {
			return flush()
		}
		return nil
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		observability.Pipeline().OnFileStart(ctx, file)
		variants, hit, err := r.processFile(ctx, &opts, collab, tmpdir, file, add)
		observability.Pipeline().OnFileComplete(ctx, file, variants, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		logger.Debug("processed file",
			"file", filepath.Base(file),
			"variants", variants,
			"cache_hit", hit)
		result.Files++
		result.Variants += variants
		result.Stats.ProcessTime += time.Since(start)
		if hit {
			result.CacheInfo.Hits++
		} else {
			result.CacheInfo.Misses++
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	logger.Info("run complete",
		"files", result.Files,
		"variants", result.Variants,
		"archives", len(result.Archives))
	return result, nil
}

// Materialize writes the variants of a single image file into destDir,
// named label_NNN.ext, and returns the number written. It shares the
// normalization cache with Execute.
func (r *Runner) Materialize(ctx context.Context, opts Options, file, destDir string) (int, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return 0, err
	}
	collab, err := r.assemble(&opts)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "creating output directory %s", destDir)
	}

	norm, _, err := r.normalized(ctx, &opts, collab.normalizer, file)
	if err != nil {
		return 0, err
	}
	lbl := collab.labeller.Label(file)

	written := 0
	stream := collab.augmenter.Stream(norm)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		img, ok := stream.Next()
		if !ok {
			return written, nil
		}
		name := fmt.Sprintf("%s_%03d.%s", lbl, written, img.Ext())
		if err := writeImage(filepath.Join(destDir, name), img); err != nil {
			return written, err
		}
		written++
	}
}

// Variants streams the augmented variants of one file in memory, invoking
// yield for each. The preview server uses this to render variants without
// touching disk.
func (r *Runner) Variants(ctx context.Context, opts Options, file string, yield func(i int, img *imgio.Image) error) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	collab, err := r.assemble(&opts)
	if err != nil {
		return err
	}
	norm, _, err := r.normalized(ctx, &opts, collab.normalizer, file)
	if err != nil {
		return err
	}

	stream := collab.augmenter.Stream(norm)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, ok := stream.Next()
		if !ok {
			return nil
		}
		if err := yield(i, img); err != nil {
			return err
		}
	}
}

// processFile materializes every variant of one source file into tmpdir and
// feeds the resulting entries to add.
func (r *Runner) processFile(ctx context.Context, opts *Options, collab *collaborators, tmpdir, file string, add func(Entry) error) (int, bool, error) {
	lbl := collab.labeller.Label(file)
	norm, hit, err := r.normalized(ctx, opts, collab.normalizer, file)
	if err != nil {
		return 0, false, err
	}

	base := variantBasename()
	variants := 0
	stream := collab.augmenter.Stream(norm)
	for {
		img, ok := stream.Next()
		if !ok {
			return variants, hit, nil
		}
		name := fmt.Sprintf("%s%03d.%s", base, variants, img.Ext())
		tmp := filepath.Join(tmpdir, name)
		if err := writeImage(tmp, img); err != nil {
			return variants, hit, err
		}
		if err := add(Entry{TempPath: tmp, ArchivePath: path.Join(lbl, name)}); err != nil {
			return variants, hit, err
		}
		variants++
	}
}

// normalized returns the normalized image for file, served from the cache
// when possible. The key covers the file's path, its modification time and
// the normalization options, so touched files never hit stale entries.
func (r *Runner) normalized(ctx context.Context, opts *Options, n *imgio.Normalizer, file string) (*imgio.Image, bool, error) {
	st, err := os.Stat(file)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", file)
	}
	key := cache.NormalizeKey(file, st.ModTime(), n.Size(), n.Canvas().String())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if img, err := decodeCached(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "normalize")
				return img, true, nil
			}
			// A corrupt entry falls through to recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "normalize")

	img, err := n.Normalize(file)
	if err != nil {
		return nil, false, err
	}
	if data, err := encodeCached(img); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLNormalized)
		observability.Cache().OnCacheSet(ctx, "normalize", len(data))
	}
	return img, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// eligible returns the recognized image files directly under folder, in
// lexical order, plus the skipped entry names. The walk is deliberately
// non-recursive: labels group by filename, not by directory.
func eligible(folder string) ([]string, []string, error) {
	dirents, err := os.ReadDir(folder)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading folder %s", folder)
	}
	var files, skipped []string
	for _, d := range dirents {
		if d.IsDir() {
			skipped = append(skipped, d.Name())
			continue
		}
		if !imgio.Recognized(d.Name()) {
			skipped = append(skipped, d.Name())
			continue
		}
		files = append(files, filepath.Join(folder, d.Name()))
	}
	return files, skipped, nil
}

// variantBasename returns a fresh 13-character name shared by all variants
// of one source file, so archive entries never collide across files.
func variantBasename() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
}

// writeImage encodes img into a new file at dest.
func writeImage(dest string, img *imgio.Image) error {
	f, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "creating %s", dest)
	}
	if err := img.Encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "flushing %s", dest)
	}
	return nil
}

// Cached entries carry the logical channel count in the first byte,
// followed by a lossless PNG payload. JPEG would lose the exact pixels the
// key promises.
func encodeCached(img *imgio.Image) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(img.Channels))
	if err := imaging.Encode(&buf, img.NRGBA, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncode, err, "encoding cache entry")
	}
	return buf.Bytes(), nil
}

func decodeCached(data []byte) (*imgio.Image, error) {
	if len(data) < 2 {
		return nil, errors.New(errors.ErrCodeDecode, "cache entry too short")
	}
	channels := int(data[0])
	if channels != imgio.ChannelsRGB && channels != imgio.ChannelsRGBA {
		return nil, errors.New(errors.ErrCodeDecode, "cache entry with invalid channel count %d", channels)
	}
	px, err := imaging.Decode(bytes.NewReader(data[1:]))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decoding cache entry")
	}
	return imgio.FromImage(px, channels), nil
}
