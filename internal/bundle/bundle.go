// Package bundle writes a rendered portfolio to disk, either as the
// downloadable ZIP archive or as a plain directory tree.
package bundle

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/logging"
	"github.com/conneroisu/folio/internal/render"
)

// Root is the top-level folder inside the archive.
const Root = "portfolio"

// Output formats.
const (
	FormatZip = "zip"
	FormatDir = "dir"
)

// File is one file of the exported site, with a slash-separated path
// relative to Root.
type File struct {
	Path    string
	Content []byte
}

// Files lists the exported files in archive order.
func Files(b *render.Bundle) []File {
	return []File{
		{Path: "index.html", Content: []byte(b.HTML)},
		{Path: "css/style.css", Content: []byte(b.CSS)},
		{Path: "README.md", Content: []byte(b.Readme)},
	}
}

// WriteZip streams the bundle as a ZIP archive. Every entry carries modTime
// so identical bundles produce identical archives.
func WriteZip(w io.Writer, b *render.Bundle, modTime time.Time) error {
	zw := zip.NewWriter(w)

	for _, f := range Files(b) {
		hdr := &zip.FileHeader{
			Name:     path.Join(Root, f.Path),
			Method:   zip.Deflate,
			Modified: modTime,
		}
		hdr.SetMode(0o644)

		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", hdr.Name, err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return fmt.Errorf("write %s: %w", hdr.Name, err)
		}
	}

	return zw.Close()
}

// Writer places bundles under an output directory.
type Writer struct {
	outputDir string
	logger    logging.Logger
	now       func() time.Time
}

// NewWriter creates a Writer for outputDir.
func NewWriter(outputDir string, logger logging.Logger) *Writer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Writer{
		outputDir: outputDir,
		logger:    logger.WithComponent("bundle"),
		now:       time.Now,
	}
}

// Write stores b in the requested format and returns the path written: the
// archive file for FormatZip, the site folder for FormatDir.
func (w *Writer) Write(ctx context.Context, b *render.Bundle, format string) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot create output directory", err).
			WithFile(w.outputDir)
	}

	switch format {
	case FormatDir:
		return w.writeDir(ctx, b)
	case FormatZip, "":
		return w.writeZip(ctx, b)
	default:
		return "", ferrors.NewConfigError(ferrors.ErrCodeConfigInvalid,
			fmt.Sprintf("unknown output format %q (want zip or dir)", format))
	}
}

func (w *Writer) writeZip(ctx context.Context, b *render.Bundle) (string, error) {
	target := filepath.Join(w.outputDir, b.ArchiveName)

	tmp, err := os.CreateTemp(w.outputDir, ".folio-*.zip")
	if err != nil {
		return "", ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot create archive", err).WithFile(target)
	}
	defer os.Remove(tmp.Name())

	if err := WriteZip(tmp, b, w.now()); err != nil {
		tmp.Close()
		return "", ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot write archive", err).WithFile(target)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot set archive permissions", err).WithFile(target)
	}
	if err := tmp.Close(); err != nil {
		return "", ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot write archive", err).WithFile(target)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot move archive into place", err).WithFile(target)
	}

	w.logger.Info(ctx, "Wrote archive", "path", target, "theme", b.Theme)
	return target, nil
}

func (w *Writer) writeDir(ctx context.Context, b *render.Bundle) (string, error) {
	root := filepath.Join(w.outputDir, Root)

	for _, f := range Files(b) {
		dest := filepath.Join(root, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return "", ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot create directory", err).WithFile(dest)
		}
		if err := os.WriteFile(dest, f.Content, 0o644); err != nil {
			return "", ferrors.NewIOError(ferrors.ErrCodeWriteFailed, "cannot write file", err).WithFile(dest)
		}
		w.logger.Debug(ctx, "Wrote file", "path", dest, "bytes", len(f.Content))
	}

	w.logger.Info(ctx, "Wrote site directory", "path", root, "theme", b.Theme)
	return root, nil
}
