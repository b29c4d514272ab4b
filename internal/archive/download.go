package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"mac-provision/internal/logger"
)

// IsRemote reports whether src is an http(s) URL rather than a local path.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Install extracts src into dest like Extract, downloading it first when src is a URL.
// The download is skipped along with the extraction when dest is already populated.
func Install(ctx context.Context, src, dest string) (bool, error) {
	if !isEmptyDir(dest) {
		logger.Info("[INFO] %s already populated. Skipping %s.\n", dest, src)
		return false, nil
	}
	if !IsRemote(src) {
		return Extract(src, dest)
	}

	dir, err := os.MkdirTemp("", "mac-provision-download-")
	if err != nil {
		return false, fmt.Errorf("failed to create download directory: %w", err)
	}
	defer os.RemoveAll(dir)

	local, err := Download(ctx, src, dir)
	if err != nil {
		return false, err
	}
	return Extract(local, dest)
}

// Download saves the content at rawURL into dir, keeping the file name of the URL path so the
// archive format can still be detected. It returns the path of the saved file.
func Download(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid archive URL %s: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return "", fmt.Errorf("archive URL %s has no file name", rawURL)
	}
	destPath := filepath.Join(dir, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	logger.Info("[INFO] Downloading %s\n", rawURL)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to GET %s: %w", rawURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to GET %s: HTTP status %d", rawURL, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close %s: %v\n", destPath, cerr)
		}
	}()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	logger.Debug("[DEBUG] Downloaded %d bytes to %s\n", n, destPath)
	logger.Run.WithField("url", rawURL).WithField("bytes", n).Info("archive downloaded")
	return destPath, nil
}
