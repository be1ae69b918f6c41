// Package render drives the pipeline from collected image files to a
// finished document. Every collaborator failure is caught at this boundary
// and converted into a user-facing error.
package render

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"log/slog"

	"github.com/m3rciful/pdfbot/core/logger"
	"github.com/m3rciful/pdfbot/internal/pdfgen"
	"github.com/m3rciful/pdfbot/internal/style"
)

// Error carries a short human-readable message safe to show to the user,
// wrapping the underlying cause for logs.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the text shown to the user; it never contains
// internals such as file paths or stack traces.
func (e *Error) UserMessage() string { return e.Msg }

// Assembler is the document-assembly collaborator.
type Assembler interface {
	Render(images []image.Image, q pdfgen.Quality) ([]byte, error)
}

// Orchestrator applies the selected style to every collected image in order
// and hands the sequence to the assembler.
type Orchestrator struct {
	assembler Assembler
}

// New builds an Orchestrator; a nil assembler defaults to the PDF generator.
func New(assembler Assembler) *Orchestrator {
	if assembler == nil {
		assembler = pdfgen.NewGenerator()
	}
	return &Orchestrator{assembler: assembler}
}

// Render produces the document bytes for the given page files. Page order
// follows the input order. Failures never panic or escape untyped: the
// returned error is always a *render.Error.
func (o *Orchestrator) Render(ctx context.Context, paths []string, styleID style.ID, q pdfgen.Quality) ([]byte, error) {
	start := time.Now()
	if len(paths) == 0 {
		return nil, &Error{Msg: "No images to convert."}
	}

	pages := make([]image.Image, 0, len(paths))
	for i, path := range paths {
		img, err := loadImage(path)
		if err != nil {
			logger.Error(ctx, "render", "page.load.fail",
				slog.Int("pages", i+1),
				slog.String("file", filepath.Base(path)),
				slog.String("err", err.Error()),
			)
			return nil, &Error{Msg: fmt.Sprintf("Could not read image %d.", i+1), Err: err}
		}
		styled, err := style.Apply(img, styleID)
		if err != nil {
			return nil, &Error{Msg: "Unsupported image style.", Err: err}
		}
		pages = append(pages, styled)
	}

	data, err := o.assembler.Render(pages, q)
	if err != nil {
		logger.Error(ctx, "render", "assemble.fail",
			slog.String("style", string(styleID)),
			slog.String("quality", string(q)),
			slog.Int("pages", len(pages)),
			slog.String("err", err.Error()),
		)
		return nil, &Error{Msg: "Could not assemble the PDF.", Err: err}
	}

	logger.Info(ctx, "render", "render.done",
		slog.String("status", "ok"),
		slog.String("style", string(styleID)),
		slog.String("quality", string(q)),
		slog.Int("pages", len(pages)),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", logger.Took(start)),
	)
	return data, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}
