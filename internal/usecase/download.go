package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"job-tracker/internal/infrastructure/blob"
)

type BlobFetcher interface {
	Fetch(ctx context.Context, publicURL string) (blob.Object, error)
}

// Download is a resume document ready to hand to the user.
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// DownloadFileName derives the saved name from a profile title, e.g.
// "Backend Dev" becomes "Resume_Backend_Dev.pdf".
func DownloadFileName(profileTitle string) string {
	name := whitespaceRun.ReplaceAllString(profileTitle, "_")
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	return "Resume_" + name + ".pdf"
}

// FetchDownload retrieves a public document and names it after title.
func FetchDownload(ctx context.Context, f BlobFetcher, publicURL, title string) (Download, error) {
	obj, err := f.Fetch(ctx, publicURL)
	if err != nil {
		return Download{}, err
	}
	return Download{FileName: DownloadFileName(title), ContentType: obj.ContentType, Data: obj.Data}, nil
}

// SaveDownload writes d into dir through a temp file and rename, so a failed
// write never leaves a partial document behind.
func SaveDownload(dir string, d Download) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, filepath.Base(d.FileName))

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(d.Data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return "", err
	}
	return dst, nil
}
