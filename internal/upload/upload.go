package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"golang.org/x/sync/errgroup"
)

var (
	ErrEmpty           = errors.New("no images provided")
	ErrTooMany         = errors.New("too many images")
	ErrTooLarge        = errors.New("image too large")
	ErrUnsupportedType = errors.New("unsupported image type")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Image is one captured photo: raw bytes plus the sniffed MIME type.
type Image struct {
	Filename string
	MIME     string
	Data     []byte
}

// Set is the ordered batch of images captured for one analysis request.
// Order always matches the order the files were submitted in.
type Set []Image

func (s Set) TotalBytes() int {
	total := 0
	for _, img := range s {
		total += len(img.Data)
	}
	return total
}

type Limits struct {
	MaxFiles      int
	MaxFileBytes  int64
	MaxTotalBytes int64
}

func DefaultLimits() Limits {
	return Limits{
		MaxFiles:      6,
		MaxFileBytes:  8 << 20,
		MaxTotalBytes: 24 << 20,
	}
}

// ReadMultipart reads the submitted files into an ordered Set. Files are
// read concurrently but results land at their submission index, so the
// set's order is stable regardless of which read finishes first.
func ReadMultipart(ctx context.Context, files []*multipart.FileHeader, limits Limits) (Set, error) {
	if len(files) == 0 {
		return nil, ErrEmpty
	}
	if limits.MaxFiles > 0 && len(files) > limits.MaxFiles {
		return nil, fmt.Errorf("%w: %d files, limit %d", ErrTooMany, len(files), limits.MaxFiles)
	}

	set := make(Set, len(files))
	g, ctx := errgroup.WithContext(ctx)

	for i, fh := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := readOne(fh, limits)
			if err != nil {
				return fmt.Errorf("%s: %w", fh.Filename, err)
			}
			set[i] = *img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if limits.MaxTotalBytes > 0 && int64(set.TotalBytes()) > limits.MaxTotalBytes {
		return nil, fmt.Errorf("%w: %d bytes combined, limit %d", ErrTooLarge, set.TotalBytes(), limits.MaxTotalBytes)
	}
	return set, nil
}

func readOne(fh *multipart.FileHeader, limits Limits) (*Image, error) {
	if limits.MaxFileBytes > 0 && fh.Size > limits.MaxFileBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, fh.Size, limits.MaxFileBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if limits.MaxFileBytes > 0 {
		// Size comes from the client; cap the actual read too.
		r = io.LimitReader(f, limits.MaxFileBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if limits.MaxFileBytes > 0 && int64(len(data)) > limits.MaxFileBytes {
		return nil, fmt.Errorf("%w: limit %d", ErrTooLarge, limits.MaxFileBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedType)
	}

	// Sniff the content instead of trusting the client header.
	mime := http.DetectContentType(data)
	if !allowedTypes[mime] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}

	return &Image{
		Filename: fh.Filename,
		MIME:     mime,
		Data:     data,
	}, nil
}
