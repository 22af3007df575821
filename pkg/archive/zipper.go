// Package archive writes the sealed batches of an augmentation run as
// numbered zip files sharing a timestamped basename.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/costajob/image-augmenter/pkg/errors"
)

// Entry pairs a staged file on disk with its destination path inside the
// archive, typically label/name.
type Entry struct {
	Source  string
	Archive string
}

// Zipper emits sequence-numbered archives into a destination directory. A
// run constructs one Zipper so every archive it produces shares the same
// basename and a gapless sequence.
type Zipper struct {
	dir      string
	basename string
	seq      int
}

// NewZipper returns a Zipper writing into dir with a basename derived from
// the current time.
func NewZipper(dir string) *Zipper {
	return &Zipper{dir: dir, basename: Basename(time.Now())}
}

// Basename derives the shared archive prefix from a timestamp: the unix
// seconds concatenated with the microsecond fraction.
func Basename(ts time.Time) string {
	return fmt.Sprintf("dataset_%d%06d", ts.Unix(), ts.Nanosecond()/1000)
}

// Dir returns the destination directory.
func (z *Zipper) Dir() string { return z.dir }

// Archive compresses the entries into the next archive of the sequence and
// returns its path. The file appears atomically: content is staged under a
// temporary name and renamed into place only once fully written.
func (z *Zipper) Archive(entries []Entry) (string, error) {
	name := fmt.Sprintf("%s%02d.zip", z.basename, z.seq)
	dest := filepath.Join(z.dir, name)

	tmp, err := os.CreateTemp(z.dir, name+".*")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeArchive, err, "staging %s", name)
	}
	if err := z.write(tmp, entries); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(errors.ErrCodeArchive, err, "flushing %s", name)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(errors.ErrCodeArchive, err, "publishing %s", name)
	}
	z.seq++
	return dest, nil
}

func (z *Zipper) write(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		if err := z.add(zw, e); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "closing archive")
	}
	return nil
}

func (z *Zipper) add(zw *zip.Writer, e Entry) error {
	f, err := os.Open(e.Source)
	if err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "reading staged file %s", e.Source)
	}
	defer f.Close()

	// Archive paths always use forward slashes.
	hdr := &zip.FileHeader{
		Name:     filepath.ToSlash(e.Archive),
		Method:   zip.Deflate,
		Modified: time.Now(),
	}
	out, err := zw.CreateHeader(hdr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "adding entry %s", e.Archive)
	}
	if _, err := io.Copy(out, f); err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "compressing entry %s", e.Archive)
	}
	return nil
}
