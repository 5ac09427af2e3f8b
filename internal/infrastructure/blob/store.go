package blob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrExists      = errors.New("blob already exists")
	ErrInvalidPath = errors.New("invalid blob path")
	ErrForeignURL  = errors.New("url does not belong to this blob store")
)

// Store is a flat object store addressed by slash-separated paths. Objects
// are publicly readable at PublicURL(path).
type Store interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) error
	PublicURL(objectPath string) string
	// ObjectPath is the inverse of PublicURL.
	ObjectPath(publicURL string) (string, error)
	// Remove deletes the given objects. Missing objects are not an error.
	Remove(ctx context.Context, objectPaths ...string) error
}

const ResumePrefix = "resumes"

// ResumeObjectPath places a resume file under its owner's folder.
func ResumeObjectPath(ownerID uuid.UUID, name string) string {
	return path.Join(ResumePrefix, ownerID.String(), name)
}

// OwnerOf returns the owner segment of a resume object path.
func OwnerOf(objectPath string) (uuid.UUID, bool) {
	parts := strings.Split(objectPath, "/")
	if len(parts) != 3 || parts[0] != ResumePrefix {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func validObjectPath(p string) error {
	if p == "" || strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	if path.Clean(p) != p {
		return fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	return nil
}

// urlCodec maps object paths to public URLs below a base URL and back.
type urlCodec struct {
	base *url.URL
}

func newURLCodec(base string) (urlCodec, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/"))
	if err != nil {
		return urlCodec{}, fmt.Errorf("parse public base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return urlCodec{}, fmt.Errorf("public base url must be absolute: %q", base)
	}
	return urlCodec{base: u}, nil
}

func (c urlCodec) publicURL(objectPath string) string {
	u := *c.base
	u.Path = c.base.Path + "/" + objectPath
	u.RawPath = ""
	return u.String()
}

func (c urlCodec) objectPath(publicURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(publicURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrForeignURL, err)
	}
	if !strings.EqualFold(u.Scheme, c.base.Scheme) || !strings.EqualFold(u.Host, c.base.Host) {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, publicURL)
	}
	prefix := c.base.Path + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, publicURL)
	}
	p := strings.TrimPrefix(u.Path, prefix)
	if err := validObjectPath(p); err != nil {
		return "", err
	}
	return p, nil
}
