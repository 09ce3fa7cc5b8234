// Package pdf renders input documents to per-page JPEG images via go-fitz.
package pdf

import (
	"context"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

// Converter implements PDF-to-image rendering using go-fitz. Rendering is
// all-or-nothing: a failure on any page aborts with no partial sequence.
type Converter struct {
	doc     *fitz.Document
	tempDir string
}

// NewConverter creates a new PDF converter instance
func NewConverter() *Converter {
	return &Converter{}
}

// Convert renders every page of the PDF to a JPEG image in a temp
// directory and returns the ordered page list, 1..N.
func (c *Converter) Convert(ctx context.Context, pdfPath string, quality int) ([]domain.PageImage, error) {
	if err := ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if quality < 1 || quality > 100 {
		return nil, domain.ValidationError(fmt.Sprintf("quality must be between 1 and 100, got %d", quality), nil)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.ConversionError("Failed to open PDF", err)
	}
	c.doc = doc

	tempDir, err := os.MkdirTemp("", "pdf-translator-*")
	if err != nil {
		return nil, domain.IOError("Failed to create temp directory", err)
	}
	c.tempDir = tempDir

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ValidationError("PDF has no pages", nil)
	}

	images := make([]domain.PageImage, 0, pageCount)

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.Image(pageNum)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("Failed to render page %d", pageNum+1), err)
		}

		outputPath := filepath.Join(tempDir, fmt.Sprintf("page_%03d.jpg", pageNum+1))
		outputFile, err := os.Create(outputPath)
		if err != nil {
			return nil, domain.IOError(fmt.Sprintf("Failed to create output file for page %d", pageNum+1), err)
		}

		err = jpeg.Encode(outputFile, img, &jpeg.Options{Quality: quality})
		outputFile.Close()
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("Failed to encode page %d as JPG", pageNum+1), err)
		}

		bounds := img.Bounds()
		images = append(images, domain.PageImage{
			PageNumber: pageNum + 1,
			ImagePath:  outputPath,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		})
	}

	return images, nil
}

// Cleanup closes the document and removes the temp image directory. Safe to
// call on every exit path, including after a Convert failure.
func (c *Converter) Cleanup() error {
	var errs []error

	if c.doc != nil {
		c.doc.Close()
		c.doc = nil
	}

	if c.tempDir != "" {
		if err := os.RemoveAll(c.tempDir); err != nil {
			errs = append(errs, err)
		}
		c.tempDir = ""
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}
