package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/pdfbot/internal/pdfgen"
	"github.com/m3rciful/pdfbot/internal/style"
)

type captureAssembler struct {
	pages   []image.Image
	quality pdfgen.Quality
	data    []byte
	err     error
}

func (c *captureAssembler) Render(images []image.Image, q pdfgen.Quality) ([]byte, error) {
	c.pages = images
	c.quality = q
	return c.data, c.err
}

func writeJPEG(t *testing.T, dir, name string, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())
	return path
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestRenderPassesPagesInOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeJPEG(t, dir, "000.jpg", color.RGBA{R: 255, A: 255}),
		writeJPEG(t, dir, "001.jpg", color.RGBA{G: 255, A: 255}),
		writePNG(t, dir, "002.png"),
	}

	asm := &captureAssembler{data: []byte("%PDF")}
	o := New(asm)

	data, err := o.Render(context.Background(), paths, style.Original, pdfgen.QualityHigh)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)
	assert.Len(t, asm.pages, 3)
	assert.Equal(t, pdfgen.QualityHigh, asm.quality)
}

func TestRenderAppliesStyle(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeJPEG(t, dir, "000.jpg", color.RGBA{R: 200, G: 50, B: 50, A: 255})}

	asm := &captureAssembler{data: []byte("ok")}
	o := New(asm)

	_, err := o.Render(context.Background(), paths, style.Grayscale, pdfgen.QualityLow)
	require.NoError(t, err)
	require.Len(t, asm.pages, 1)
	_, isGray := asm.pages[0].(*image.Gray)
	assert.True(t, isGray)
}

func TestRenderEmptyInput(t *testing.T) {
	o := New(&captureAssembler{})
	_, err := o.Render(context.Background(), nil, style.Original, pdfgen.QualityHigh)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "No images to convert.", rerr.UserMessage())
}

func TestRenderUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeJPEG(t, dir, "000.jpg", color.RGBA{A: 255}),
		filepath.Join(dir, "missing.jpg"),
	}

	o := New(&captureAssembler{})
	_, err := o.Render(context.Background(), paths, style.Original, pdfgen.QualityHigh)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Could not read image 2.", rerr.UserMessage())
	assert.NotContains(t, rerr.UserMessage(), dir)
}

func TestRenderCorruptFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "000.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))

	o := New(&captureAssembler{})
	_, err := o.Render(context.Background(), []string{bad}, style.Original, pdfgen.QualityHigh)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Could not read image 1.", rerr.UserMessage())
}

func TestRenderUnknownStyle(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeJPEG(t, dir, "000.jpg", color.RGBA{A: 255})}

	o := New(&captureAssembler{})
	_, err := o.Render(context.Background(), paths, style.ID("sepia"), pdfgen.QualityHigh)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Unsupported image style.", rerr.UserMessage())
	assert.ErrorIs(t, err, style.ErrUnknown)
}

func TestRenderAssemblerFailure(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeJPEG(t, dir, "000.jpg", color.RGBA{A: 255})}

	cause := errors.New("disk full")
	o := New(&captureAssembler{err: cause})
	_, err := o.Render(context.Background(), paths, style.Original, pdfgen.QualityHigh)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Could not assemble the PDF.", rerr.UserMessage())
	assert.ErrorIs(t, err, cause)
}

func TestNewDefaultsToPDFGenerator(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeJPEG(t, dir, "000.jpg", color.RGBA{R: 10, G: 20, B: 30, A: 255})}

	o := New(nil)
	data, err := o.Render(context.Background(), paths, style.Enhanced, pdfgen.QualityMedium)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
