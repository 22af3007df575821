package imgio

import (
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"strings"

	"github.com/costajob/image-augmenter/pkg/errors"
)

// Eligible source extensions, lower-case.
var recognizedExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
}

// Recognized reports whether path has an eligible raster extension
// (case-insensitive). Files that fail this check are skipped at the
// selection stage and never abort a run.
func Recognized(path string) bool {
	return recognizedExts[SourceExt(path)]
}

// SourceExt returns the lower-case extension of path without the dot.
func SourceExt(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(path[idx+1:])
}

// Open decodes the image file at path into the canonical representation.
// PNG sources keep their alpha channel (4 logical channels); every other
// format decodes to 3.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode reads an image from r. The hint (usually the source filename) is
// used only for error messages; the channel count comes from the decoded
// format itself.
func Decode(r io.Reader, hint string) (*Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode %s", hint)
	}
	channels := ChannelsRGB
	if format == "png" {
		channels = ChannelsRGBA
	}
	return FromImage(img, channels), nil
}
