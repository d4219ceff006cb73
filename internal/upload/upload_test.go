package upload

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/bmp"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: 200, B: uint8(y * 10), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "leaf.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func uploadServer(t *testing.T, status int, body string) (*httptest.Server, *[]byte) {
	t.Helper()
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer f.Close()
			assert.Equal(t, "leaf.png", header.Filename)
			assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
			received, _ = io.ReadAll(f)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

func TestClientUploadFile(t *testing.T) {
	path := writePNG(t, 4, 4)
	srv, received := uploadServer(t, http.StatusOK, `{"imgUrl":"http://x/y.png"}`)

	got, err := NewClient(srv.URL, nil).UploadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "http://x/y.png", got)

	want, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, *received)
}

func TestClientUploadFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "non-2xx", status: http.StatusBadRequest, body: `{"error":"No query or image provided"}`, wantErr: ErrStatus},
		{name: "missing image url", status: http.StatusOK, body: `{"predicted_disease":"Tomato___healthy"}`, wantErr: ErrNoImageURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := uploadServer(t, tt.status, tt.body)
			_, err := NewClient(srv.URL, nil).Upload(context.Background(), "leaf.png", strings.NewReader("png"))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClientUploadMalformedJSON(t *testing.T) {
	srv, _ := uploadServer(t, http.StatusOK, `<html>`)
	_, err := NewClient(srv.URL, nil).Upload(context.Background(), "leaf.png", strings.NewReader("png"))
	assert.Error(t, err)
}

func TestPreviewSnapshotAndRelease(t *testing.T) {
	src := writePNG(t, 20, 10)

	p, err := NewPreview(src, 8)
	require.NoError(t, err)

	snapshot := p.Path()
	assert.NotEqual(t, src, snapshot)
	assert.FileExists(t, snapshot)
	assert.Equal(t, "leaf.png", p.Name())
	assert.Contains(t, p.Label(), "leaf.png")

	// 8 cells wide, 20x10 source -> 4 pixel rows -> 2 cell rows
	require.Len(t, p.Lines(), 2)
	assert.Contains(t, p.Lines()[0], "▀")

	require.NoError(t, p.Release())
	assert.NoFileExists(t, snapshot)
	assert.Empty(t, p.Path())
	require.NoError(t, p.Release())
}

func TestPreviewWithoutThumbnail(t *testing.T) {
	p, err := NewPreview(writePNG(t, 4, 4), 0)
	require.NoError(t, err)
	defer p.Release()

	assert.Empty(t, p.Lines())
}

func TestPreviewRejectsNonImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("N=90 P=42"), 0o644))

	_, err := NewPreview(path, 8)
	assert.ErrorIs(t, err, ErrNotImage)
}

func writeBMP(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, color.RGBA{R: 90, G: 160, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "leaf.bmp")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestPreviewUndecodableImage(t *testing.T) {
	// ICO header: sniffed as an image but there is no decoder for it.
	path := filepath.Join(t.TempDir(), "leaf.ico")
	require.NoError(t, os.WriteFile(path, []byte("\x00\x00\x01\x00\x01\x00 junk"), 0o644))

	p, err := NewPreview(path, 8)
	require.NoError(t, err)
	defer p.Release()

	assert.Empty(t, p.Lines())
	assert.FileExists(t, p.Path())
	assert.Equal(t, "leaf.ico", p.Name())
}

func TestControlUploadsBMP(t *testing.T) {
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer f.Close()
			assert.Equal(t, "leaf.bmp", header.Filename)
			received, _ = io.ReadAll(f)
		}
		_, _ = w.Write([]byte(`{"imgUrl":"http://x/leaf.bmp"}`))
	}))
	defer srv.Close()
	client := NewClient(srv.URL, srv.Client())

	c := NewControl(8)
	defer c.Close()

	job, err := c.Select(writeBMP(t))
	require.NoError(t, err)
	assert.True(t, c.State().Uploading)
	assert.NotEmpty(t, c.Preview().Lines())

	f, err := os.Open(job.Path)
	require.NoError(t, err)
	defer f.Close()
	url, err := client.Upload(context.Background(), job.Name, f)
	require.NoError(t, err)
	assert.NotEmpty(t, received)

	reported, applied := c.Finish(job, url, nil)
	assert.True(t, applied)
	assert.Equal(t, "http://x/leaf.bmp", reported)
}

func TestControlSuccessfulUpload(t *testing.T) {
	c := NewControl(8)
	defer c.Close()

	job, err := c.Select(writePNG(t, 4, 4))
	require.NoError(t, err)

	st := c.State()
	assert.True(t, st.Uploading)
	assert.NotEmpty(t, st.PreviewPath)
	assert.Empty(t, st.Err)
	assert.Equal(t, "leaf.png", job.Name)

	reported, applied := c.Finish(job, "http://x/y.png", nil)
	assert.True(t, applied)
	assert.Equal(t, "http://x/y.png", reported)

	st = c.State()
	assert.False(t, st.Uploading)
	assert.Equal(t, "http://x/y.png", st.ImageURL)
	assert.Empty(t, st.Err)
}

func TestControlFailedUploadKeepsPreview(t *testing.T) {
	c := NewControl(8)
	defer c.Close()

	job, err := c.Select(writePNG(t, 4, 4))
	require.NoError(t, err)

	reported, applied := c.Finish(job, "", ErrStatus)
	assert.True(t, applied)
	assert.Empty(t, reported)

	st := c.State()
	assert.False(t, st.Uploading)
	assert.Equal(t, FailedText, st.Err)
	assert.Empty(t, st.ImageURL)
	assert.NotEmpty(t, st.PreviewPath)
	assert.FileExists(t, st.PreviewPath)
}

func TestControlResetAfterSuccess(t *testing.T) {
	c := NewControl(8)

	job, err := c.Select(writePNG(t, 4, 4))
	require.NoError(t, err)
	c.Finish(job, "http://x/y.png", nil)
	snapshot := c.State().PreviewPath

	assert.Empty(t, c.Reset())
	assert.Equal(t, State{}, c.State())
	assert.Nil(t, c.Preview())
	assert.NoFileExists(t, snapshot)
}

func TestControlDiscardsStaleResults(t *testing.T) {
	c := NewControl(0)
	defer c.Close()

	first, err := c.Select(writePNG(t, 4, 4))
	require.NoError(t, err)
	firstSnapshot := first.Path

	second, err := c.Select(writePNG(t, 6, 6))
	require.NoError(t, err)
	assert.NoFileExists(t, firstSnapshot, "superseded preview must be released")

	_, applied := c.Finish(first, "http://x/old.png", nil)
	assert.False(t, applied)
	assert.True(t, c.State().Uploading)

	_, applied = c.Finish(second, "http://x/new.png", nil)
	assert.True(t, applied)
	assert.Equal(t, "http://x/new.png", c.State().ImageURL)
}

func TestControlResetDuringUpload(t *testing.T) {
	c := NewControl(0)

	job, err := c.Select(writePNG(t, 4, 4))
	require.NoError(t, err)
	c.Reset()

	_, applied := c.Finish(job, "http://x/y.png", nil)
	assert.False(t, applied)
	assert.Equal(t, State{}, c.State())
}

func TestControlSelectNonImage(t *testing.T) {
	c := NewControl(8)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))

	_, err := c.Select(path)
	require.ErrorIs(t, err, ErrNotImage)
	assert.Equal(t, State{Err: FailedText}, c.State())
	assert.Nil(t, c.Preview())
}
