// Package pkg provides the core libraries for the imgpack augmentation tool.
//
// # Overview
//
// Imgpack expands small labelled image datasets into training-ready archives.
// The pkg directory is organized by pipeline stage:
//
//  1. [label] - Derive grouping labels from filenames
//  2. [imgio] - Canonical image representation, decoding, normalization
//  3. [augment] - Filter catalog, cutoff scaling, the variant engine
//  4. [dataset] - Run orchestration (select → normalize → augment → batch)
//  5. [archive] - Zip archive emission
//  6. [cache] - Normalized-image cache backends (file, redis, null)
//
// # Architecture
//
// The typical data flow through a run:
//
//	source folder
//	      ↓
//	 [label] package (filename → label)
//	      ↓
//	 [imgio] package (decode + resize + canvas padding, cached)
//	      ↓
//	 [augment] package (identity + filter variants, lazily)
//	      ↓
//	 [dataset] package (staged files, capacity-bounded batches)
//	      ↓
//	 [archive] package (label-grouped zip files)
//
// # Quick Start
//
// Run the full pipeline over a folder:
//
//	import (
//	    "context"
//	    "github.com/costajob/image-augmenter/pkg/cache"
//	    "github.com/costajob/image-augmenter/pkg/dataset"
//	)
//
//	runner := dataset.NewRunner(cache.NewNullCache(), nil)
//	result, _ := runner.Execute(context.Background(), dataset.Options{
//	    Folder: "resources",
//	    Cutoff: 0.5,
//	})
//	for _, a := range result.Archives {
//	    fmt.Println(a)
//	}
//
// Drive the engine directly for a single image:
//
//	catalog := augment.Catalog(augment.CatalogConfig{})
//	aug, _ := augment.New(1.0, catalog...)
//	stream := aug.Stream(img)
//	for v, ok := stream.Next(); ok; v, ok = stream.Next() {
//	    // first v is the identity, then one variant per admissible parameter
//	}
//
// Supporting packages: [errors] for coded errors shared by the CLI and the
// preview server, [observability] for pluggable pipeline/cache/HTTP hooks,
// and [buildinfo] for version stamping.
//
// [label]: https://pkg.go.dev/github.com/costajob/image-augmenter/pkg/label
// [imgio]: https://pkg.go.dev/github.com/costajob/image-augmenter/pkg/imgio
// [augment]: https://pkg.go.dev/github.com/costajob/image-augmenter/pkg/augment
// [dataset]: https://pkg.go.dev/github.com/costajob/image-augmenter/pkg/dataset
// [archive]: https://pkg.go.dev/github.com/costajob/image-augmenter/pkg/archive
// [cache]: https://pkg.go.dev/github.com/costajob/image-augmenter/pkg/cache
// [errors]: https://pkg.go.dev/github.com/costajob/image-augmenter/pkg/errors
// [observability]: https://pkg.go.dev/github.com/costajob/image-augmenter/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/costajob/image-augmenter/pkg/buildinfo
package pkg
