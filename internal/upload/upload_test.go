package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 16)...)
	jpegBytes = append([]byte("\xff\xd8\xff\xe0"), bytes.Repeat([]byte{0}, 16)...)
	gifBytes  = append([]byte("GIF87a"), bytes.Repeat([]byte{0}, 16)...)
)

func buildForm(t *testing.T, files map[string][]byte, order []string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range order {
		part, err := w.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(files[name]); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File["images"]
}

func TestReadMultipart_Empty(t *testing.T) {
	_, err := ReadMultipart(context.Background(), nil, DefaultLimits())
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestReadMultipart_SingleImage(t *testing.T) {
	headers := buildForm(t, map[string][]byte{"leaf.png": pngBytes}, []string{"leaf.png"})

	set, err := ReadMultipart(context.Background(), headers, DefaultLimits())
	if err != nil {
		t.Fatalf("ReadMultipart failed: %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("expected 1 image, got %d", len(set))
	}
	if set[0].MIME != "image/png" {
		t.Errorf("expected image/png, got %s", set[0].MIME)
	}
	if set[0].Filename != "leaf.png" {
		t.Errorf("expected filename leaf.png, got %s", set[0].Filename)
	}
	if !bytes.Equal(set[0].Data, pngBytes) {
		t.Error("image data should round-trip unchanged")
	}
}

func TestReadMultipart_PreservesOrder(t *testing.T) {
	files := make(map[string][]byte)
	var order []string
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("photo-%d.jpg", i)
		data := append(append([]byte{}, jpegBytes...), byte(i))
		files[name] = data
		order = append(order, name)
	}

	headers := buildForm(t, files, order)
	set, err := ReadMultipart(context.Background(), headers, DefaultLimits())
	if err != nil {
		t.Fatalf("ReadMultipart failed: %v", err)
	}
	if len(set) != 5 {
		t.Fatalf("expected 5 images, got %d", len(set))
	}
	for i, img := range set {
		want := fmt.Sprintf("photo-%d.jpg", i)
		if img.Filename != want {
			t.Errorf("index %d: expected %s, got %s", i, want, img.Filename)
		}
		if img.Data[len(img.Data)-1] != byte(i) {
			t.Errorf("index %d: data does not match submission order", i)
		}
	}
}

func TestReadMultipart_RejectsUnsupportedType(t *testing.T) {
	headers := buildForm(t, map[string][]byte{
		"anim.gif": gifBytes,
	}, []string{"anim.gif"})

	_, err := ReadMultipart(context.Background(), headers, DefaultLimits())
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestReadMultipart_RejectsTextFile(t *testing.T) {
	headers := buildForm(t, map[string][]byte{
		"notes.txt": []byte("definitely not an image, just some text"),
	}, []string{"notes.txt"})

	_, err := ReadMultipart(context.Background(), headers, DefaultLimits())
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestReadMultipart_RejectsTooMany(t *testing.T) {
	files := make(map[string][]byte)
	var order []string
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("p%d.png", i)
		files[name] = pngBytes
		order = append(order, name)
	}

	headers := buildForm(t, files, order)
	_, err := ReadMultipart(context.Background(), headers, Limits{MaxFiles: 2, MaxFileBytes: 1 << 20})
	if !errors.Is(err, ErrTooMany) {
		t.Errorf("expected ErrTooMany, got %v", err)
	}
}

func TestReadMultipart_RejectsTooLarge(t *testing.T) {
	big := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{1}, 256)...)
	headers := buildForm(t, map[string][]byte{"big.png": big}, []string{"big.png"})

	_, err := ReadMultipart(context.Background(), headers, Limits{MaxFiles: 4, MaxFileBytes: 64})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestReadMultipart_RejectsTooLargeCombined(t *testing.T) {
	files := make(map[string][]byte)
	var order []string
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("p%d.png", i)
		files[name] = pngBytes
		order = append(order, name)
	}

	// Each file passes the per-file cap; together they exceed the total.
	headers := buildForm(t, files, order)
	limits := Limits{MaxFiles: 4, MaxFileBytes: 64, MaxTotalBytes: int64(2 * len(pngBytes))}
	_, err := ReadMultipart(context.Background(), headers, limits)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestSet_TotalBytes(t *testing.T) {
	set := Set{
		{Data: []byte{1, 2, 3}},
		{Data: []byte{4, 5}},
	}
	if set.TotalBytes() != 5 {
		t.Errorf("expected 5, got %d", set.TotalBytes())
	}
}
