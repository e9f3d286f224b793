// Package storage persists uploaded payment proof images on local
// disk.  Files are renamed to a UUID so an upload can never clobber
// another customer's proof or traverse out of the proof directory.
package storage

import (
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strings"

    "github.com/google/uuid"
)

// allowed image extensions for payment proofs.
var allowedExt = map[string]bool{
    ".jpg":  true,
    ".jpeg": true,
    ".png":  true,
    ".webp": true,
}

// ErrUnsupportedType is returned when an upload's extension is not an
// accepted image format.
var ErrUnsupportedType = errors.New("unsupported file type")

// ProofStore writes payment proof uploads under a base directory and
// returns URL paths for them.
type ProofStore struct {
    dir     string
    baseURL string
}

// NewProofStore ensures the proof directory exists and returns a store
// rooted there.  baseURL, when set, is prefixed to returned paths so
// clients receive absolute URLs.
func NewProofStore(dir, baseURL string) (*ProofStore, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return nil, fmt.Errorf("create proof dir: %w", err)
    }
    return &ProofStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save streams an uploaded proof to disk under a fresh UUID name and
// returns the public URL path for it.  The original filename only
// contributes its extension.
func (s *ProofStore) Save(src io.Reader, originalName string) (string, error) {
    ext := strings.ToLower(filepath.Ext(originalName))
    if !allowedExt[ext] {
        return "", ErrUnsupportedType
    }
    name := uuid.NewString() + ext
    dst, err := os.Create(filepath.Join(s.dir, name))
    if err != nil {
        return "", fmt.Errorf("create proof file: %w", err)
    }
    defer dst.Close()
    if _, err := io.Copy(dst, src); err != nil {
        os.Remove(dst.Name())
        return "", fmt.Errorf("write proof file: %w", err)
    }
    return s.baseURL + "/proofs/" + name, nil
}

// Dir returns the directory proofs are stored in, for static serving.
func (s *ProofStore) Dir() string { return s.dir }
