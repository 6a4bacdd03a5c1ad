// Package handlers wires CLI commands to domain services.
package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ersonp/legends-core/internal/domain/builders"
	"github.com/ersonp/legends-core/internal/domain/services"
)

// ImportHandler handles importing legends export files.
type ImportHandler struct {
	service *services.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{
		service: service,
	}
}

// ClassifyFile decides which export a file is from its name. The plus export
// is always named with a "legends_plus" suffix by the game.
func ClassifyFile(path string) builders.DocKind {
	if strings.Contains(strings.ToLower(filepath.Base(path)), "legends_plus") {
		return builders.DocPlus
	}
	return builders.DocBase
}

// Handle imports the given export files in order. Base documents are imported
// before plus documents so the plus data can extend records already seen.
func (h *ImportHandler) Handle(ctx context.Context, paths []string) (*services.Report, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no export files given")
	}

	var inputs []services.Input
	var closers []*os.File
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	// base first, then plus
	for _, kind := range []builders.DocKind{builders.DocBase, builders.DocPlus} {
		for _, path := range paths {
			if ClassifyFile(path) != kind {
				continue
			}
			file, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("opening file: %w", err)
			}
			closers = append(closers, file)
			inputs = append(inputs, services.Input{
				Reader: file,
				Kind:   kind,
				Name:   filepath.Base(path),
			})
		}
	}

	return h.service.Run(ctx, inputs)
}
