// Package fsx abstracts the file storage that holds candidate résumés.
package fsx

import (
	"context"
	"net/http"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
)

// FileSystem is the storage contract used by the application. Paths are
// relative keys ("resumes/abc.pdf"); implementations map them to a local
// directory or an object bucket.
type FileSystem interface {
	WriteFile(ctx context.Context, path string, data []byte) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	DeleteFile(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

var ErrRegistry = errx.NewRegistry("FS")

var (
	CodeFileNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Arquivo não encontrado")
	CodeInvalidPath  = ErrRegistry.Register("INVALID_PATH", errx.TypeValidation, http.StatusBadRequest, "Caminho de arquivo inválido")
)

func ErrFileNotFound() *errx.Error {
	return ErrRegistry.New(CodeFileNotFound)
}

func ErrInvalidPath() *errx.Error {
	return ErrRegistry.New(CodeInvalidPath)
}
