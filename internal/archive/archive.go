package archive

import (
	"archive/tar"    // .tar and compressed tar variants
	"archive/zip"    // .zip archives
	"compress/bzip2" // .bz2 compressed data
	"compress/gzip"  // .gz compressed data
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip" // .7z archives
	"github.com/xi2/xz"          // .xz compressed data

	"mac-provision/internal/logger"
)

// Supported reports whether src has an archive extension Extract understands.
func Supported(src string) bool {
	_, ok := formatOf(src)
	return ok
}

type format int

const (
	formatTar format = iota
	formatZip
	format7z
)

func formatOf(src string) (format, bool) {
	name := strings.ToLower(src)
	switch {
	case strings.HasSuffix(name, ".zip"):
		return formatZip, true
	case strings.HasSuffix(name, ".7z"):
		return format7z, true
	case strings.HasSuffix(name, ".tar"), strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"),
		strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tar.xz"):
		return formatTar, true
	}
	return 0, false
}

// Extract unpacks src into dest. When every entry sits under one top-level directory (the usual
// layout of a distribution tarball, e.g. spark-3.5.1-bin-hadoop3/), that directory is stripped so
// its contents land directly in dest. Extract does nothing and returns false when dest already
// exists and is not empty.
func Extract(src, dest string) (bool, error) {
	if !isEmptyDir(dest) {
		logger.Info("[INFO] %s already populated. Skipping extraction of %s.\n", dest, filepath.Base(src))
		return false, nil
	}
	f, ok := formatOf(src)
	if !ok {
		return false, fmt.Errorf("unsupported archive format: %s", src)
	}

	staging, err := os.MkdirTemp(filepath.Dir(dest), ".extract-")
	if err != nil {
		// The parent of dest may not exist yet.
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return false, fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
		}
		if staging, err = os.MkdirTemp(filepath.Dir(dest), ".extract-"); err != nil {
			return false, fmt.Errorf("failed to create staging directory: %w", err)
		}
	}
	defer os.RemoveAll(staging)

	logger.Debug("[DEBUG] Extracting %s to %s\n", src, staging)
	switch f {
	case formatZip:
		err = extractZip(src, staging)
	case format7z:
		err = extract7z(src, staging)
	default:
		err = extractTar(src, staging)
	}
	if err != nil {
		return false, fmt.Errorf("failed to extract %s: %w", src, err)
	}

	root := staging
	if entries, err := os.ReadDir(staging); err == nil && len(entries) == 1 && entries[0].IsDir() {
		root = filepath.Join(staging, entries[0].Name())
	}

	// dest is empty or missing here; remove it so the rename can take its place.
	if err := os.RemoveAll(dest); err != nil {
		return false, fmt.Errorf("failed to clear %s: %w", dest, err)
	}
	if err := os.Rename(root, dest); err != nil {
		return false, fmt.Errorf("failed to move extracted files to %s: %w", dest, err)
	}
	logger.Run.WithField("archive", src).WithField("dest", dest).Info("extracted archive")
	return true, nil
}

func isEmptyDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	return err == nil && len(entries) == 0
}

// target resolves name inside dest, rejecting entries that would escape it, either by path or by
// passing through a symlink created by an earlier entry.
func target(dest, name string) (string, error) {
	path := filepath.Join(dest, name)
	if !within(dest, path) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	if err := noSymlinks(dest, path); err != nil {
		return "", fmt.Errorf("archive entry %q: %w", name, err)
	}
	return path, nil
}

func within(dest, path string) bool {
	return path == dest || strings.HasPrefix(path, dest+string(os.PathSeparator))
}

// noSymlinks fails when path, or any directory between dest and path, already exists as a symlink.
func noSymlinks(dest, path string) error {
	rel, err := filepath.Rel(dest, path)
	if err != nil || rel == "." {
		return err
	}
	cur := dest
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		cur = filepath.Join(cur, part)
		info, err := os.Lstat(cur)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("refusing to write through symlink %s", cur)
		}
	}
	return nil
}

// checkLink rejects a symlink at path whose target is absolute or resolves outside dest.
func checkLink(dest, path, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("symlink %s has absolute target %q", path, linkname)
	}
	if !within(dest, filepath.Join(filepath.Dir(path), linkname)) {
		return fmt.Errorf("symlink %s points outside destination: %q", path, linkname)
	}
	return nil
}

func writeFile(path string, r io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if mode.Perm() == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// extractTar handles tar and compressed tar variants.
func extractTar(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	name := strings.ToLower(src)
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(name, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(name, ".tar.xz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		path, err := target(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(path, tr, fs.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := checkLink(dest, path, hdr.Linkname); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, path); err != nil {
				return err
			}
		}
	}
}

// extractZip extracts a .zip archive.
func extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		path, err := target(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(path, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// extract7z handles .7z extraction using the sevenzip library.
func extract7z(src, dest string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		path, err := target(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeFile(path, rc, f.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
