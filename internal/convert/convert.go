// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns presentations, word-processor documents, images and
// plain text into PDF files. Office formats are delegated to the rendering
// engine, images to pdfcpu, and text is paginated with gofpdf.
package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/docmerge/internal/pdfops"
	"github.com/pdiddy/docmerge/internal/render"
	"github.com/pdiddy/docmerge/pkg/types"
)

// Converter produces a PDF at outPath from src. Implementations must not
// leave a file at outPath when they return an error.
type Converter interface {
	Convert(ctx context.Context, src types.SourceFile, outPath string) error
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, src types.SourceFile, outPath string) error

func (f ConverterFunc) Convert(ctx context.Context, src types.SourceFile, outPath string) error {
	return f(ctx, src, outPath)
}

// Set maps each convertible Kind to its Converter. PDFs and unsupported
// files have no entry.
type Set map[types.Kind]Converter

// NewSet builds the standard converters around engine and layout.
func NewSet(engine render.Engine, layout Layout) Set {
	return Set{
		types.KindPresentation: Presentation{Engine: engine},
		types.KindDocument:     Document{Engine: engine},
		types.KindImage:        Image{},
		types.KindText:         Text{Layout: layout},
	}
}

// Presentation exports slides through the rendering engine.
type Presentation struct {
	Engine render.Engine
}

func (p Presentation) Convert(ctx context.Context, src types.SourceFile, outPath string) error {
	return exportOffice(ctx, p.Engine, src, outPath, render.FilterImpress)
}

// Document exports word-processor documents through the rendering engine.
type Document struct {
	Engine render.Engine
}

func (d Document) Convert(ctx context.Context, src types.SourceFile, outPath string) error {
	return exportOffice(ctx, d.Engine, src, outPath, render.FilterWriter)
}

// exportOffice holds an engine session for exactly one export and releases
// it whether or not the export succeeds.
func exportOffice(ctx context.Context, engine render.Engine, src types.SourceFile, outPath string, filter render.Filter) (err error) {
	sess, err := engine.Open(ctx)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src.Name, err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("releasing engine session: %w", cerr)
		}
	}()

	if err := sess.Export(ctx, src.Path, outPath, filter); err != nil {
		return err
	}
	return nil
}

// Image wraps a raster image in a single page sized to the image.
type Image struct{}

func (Image) Convert(ctx context.Context, src types.SourceFile, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pdfops.ImportImage(src.Path, outPath); err != nil {
		return fmt.Errorf("importing image %s: %w", src.Name, err)
	}
	return nil
}
