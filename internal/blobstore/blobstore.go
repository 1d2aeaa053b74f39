// Package blobstore stores receipt images and hands out time-limited URLs for
// them. Only storage paths are persisted by the ledger; URLs are produced
// when a record is read.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotFound is returned when no blob exists at a path.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidPath is returned for paths that are empty or escape the store root.
var ErrInvalidPath = errors.New("invalid blob path")

// ErrInvalidToken is returned when a signed URL token does not verify.
var ErrInvalidToken = errors.New("invalid or expired blob token")

// Store is the blob storage contract used by the expense service.
type Store interface {
	Put(ctx context.Context, p string, r io.Reader, size int64, mimeType string) error
	SignedURL(ctx context.Context, p string, ttl time.Duration) (string, error)
	Open(ctx context.Context, p string) (io.ReadCloser, error)
	Delete(ctx context.Context, p string) error
}

// ImagePath builds the storage path of an expense image.
func ImagePath(tripID, expenseID, imageID, ext string) string {
	return path.Join("trips", tripID, "expenses", expenseID, imageID+ext)
}

// URLClaims are carried by a signed blob URL token.
type URLClaims struct {
	Path string `json:"path"`
	jwt.RegisteredClaims
}

// FileStore keeps blobs on the local filesystem.
type FileStore struct {
	root    string
	secret  []byte
	baseURL string
}

// NewFileStore creates a FileStore rooted at dir. baseURL is the public
// prefix that serves /blobs; secret signs URL tokens.
func NewFileStore(dir, baseURL, secret string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &FileStore{
		root:    dir,
		secret:  []byte(secret),
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *FileStore) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" || strings.Contains(p, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Put writes the blob atomically. If size is positive the reader must yield
// exactly that many bytes.
func (s *FileStore) Put(_ context.Context, p string, r io.Reader, size int64, _ string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create blob parent: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	if size > 0 && written != size {
		return fmt.Errorf("write blob: expected %d bytes, got %d", size, written)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("commit blob: %w", err)
	}
	return nil
}

// Open returns a reader for the blob at p.
func (s *FileStore) Open(_ context.Context, p string) (io.ReadCloser, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Delete removes the blob at p. Deleting a missing blob is not an error.
func (s *FileStore) Delete(_ context.Context, p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// SignedURL returns a URL that serves p until ttl elapses.
func (s *FileStore) SignedURL(_ context.Context, p string, ttl time.Duration) (string, error) {
	if _, err := s.resolve(p); err != nil {
		return "", err
	}
	now := time.Now()
	claims := &URLClaims{
		Path: p,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign blob url: %w", err)
	}
	return s.baseURL + "/blobs/" + p + "?token=" + url.QueryEscape(token), nil
}

// VerifyToken checks that token is a valid, unexpired grant for p.
func (s *FileStore) VerifyToken(p, token string) error {
	claims := &URLClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	if claims.Path != p {
		return ErrInvalidToken
	}
	return nil
}
