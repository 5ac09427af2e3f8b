package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps blobs under a directory; the HTTP server exposes that
// directory at the public base URL.
type LocalStore struct {
	root  string
	codec urlCodec
}

func NewLocalStore(root, publicBaseURL string) (*LocalStore, error) {
	codec, err := newURLCodec(publicBaseURL)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &LocalStore{root: abs, codec: codec}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) file(objectPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(objectPath))
}

func (s *LocalStore) Upload(ctx context.Context, objectPath string, data []byte, _ string) error {
	if err := validObjectPath(objectPath); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := s.file(objectPath)
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, objectPath)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, dst)
}

func (s *LocalStore) PublicURL(objectPath string) string {
	return s.codec.publicURL(objectPath)
}

func (s *LocalStore) ObjectPath(publicURL string) (string, error) {
	return s.codec.objectPath(publicURL)
}

func (s *LocalStore) Remove(ctx context.Context, objectPaths ...string) error {
	for _, p := range objectPaths {
		if err := validObjectPath(p); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(s.file(p)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}
