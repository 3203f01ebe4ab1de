package operations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/kebairia/wslsnap/internal/wsl"
)

// DateFormat stamps backup file names.
const DateFormat = "2006-01-02"

// TarExt is the extension of the archive the tool exports.
const TarExt = ".tar"

// SelectDistro returns distros[index-1]. index is 1-based as shown in the menu.
func SelectDistro(distros []wsl.Distro, index int) (wsl.Distro, error) {
	if index < 1 || index > len(distros) {
		return wsl.Distro{}, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", index, len(distros))
	}
	return distros[index-1], nil
}

// ExportPath is where the tool writes the uncompressed archive:
// <backupDir>/<name>-<YYYY-MM-DD>.tar.
func ExportPath(backupDir, name string, day time.Time) string {
	return filepath.Join(backupDir, fmt.Sprintf("%s-%s%s", name, day.Format(DateFormat), TarExt))
}

// ExportDistro exports d into backupDir, compresses the archive and removes
// the uncompressed copy. It returns the path of the .tar.gz.
func (om *OperationManager) ExportDistro(ctx context.Context, backupDir string, d wsl.Distro) (string, error) {
	if err := EnsureDirectoryExist(backupDir); err != nil {
		return "", err
	}

	tarPath := ExportPath(backupDir, d.Name, om.now())

	err := om.withProgress(func() error {
		return om.distros.Export(ctx, d.Name, tarPath)
	})
	if err != nil {
		om.discard(tarPath)
		return "", errors.Wrap(err, "export failed")
	}

	start := time.Now()
	var size int64
	if info, err := os.Stat(tarPath); err == nil {
		size = info.Size()
	}

	gzPath, err := CompressGzip(tarPath)
	if err != nil {
		om.discard(tarPath)
		return "", errors.Wrap(err, "compress backup file")
	}

	om.log.Info("backup compressed",
		"distro", d.Name,
		"path", gzPath,
		"size_bytes", size,
		"duration", time.Since(start).String(),
	)
	return gzPath, nil
}

// discard removes an intermediate file after a failed step, logging rather
// than returning any error.
func (om *OperationManager) discard(path string) {
	if err := RemoveFile(path); err != nil {
		om.log.Warn("could not remove intermediate file", "path", path, "error", err.Error())
	}
}
