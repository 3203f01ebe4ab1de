package operations

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-homedir"
)

// BackupExt identifies compressed backups in the backup directory.
const BackupExt = TarExt + GzipExt

// DefaultInstallSubdir is created under the home directory for imports.
const DefaultInstallSubdir = "wsl_installs"

// ImportRequest describes one import.
type ImportRequest struct {
	// Backup is the path of the .tar.gz to restore.
	Backup     string
	Name       string
	InstallDir string
}

// ListBackups returns the names of the .tar.gz files in dir, creating dir
// when it does not exist yet.
func ListBackups(dir string) ([]string, error) {
	if err := EnsureDirectoryExist(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fsError(err, "read backup directory %q", dir)
	}

	backups := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), BackupExt) {
			backups = append(backups, e.Name())
		}
	}
	return backups, nil
}

// SelectBackup returns backups[index-1]. index is 1-based as shown in the menu.
func SelectBackup(backups []string, index int) (string, error) {
	if index < 1 || index > len(backups) {
		return "", errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", index, len(backups))
	}
	return backups[index-1], nil
}

// DefaultInstallDir is ~/wsl_installs/<name>.
func DefaultInstallDir(name string) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home directory")
	}
	return filepath.Join(home, DefaultInstallSubdir, name), nil
}

// ImportBackup decompresses req.Backup next to itself, registers it with the
// tool as req.Name under req.InstallDir and removes the decompressed archive.
func (om *OperationManager) ImportBackup(ctx context.Context, req ImportRequest) error {
	var tarPath string
	err := om.withProgress(func() error {
		var err error
		tarPath, err = DecompressGzip(req.Backup)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "decompress backup")
	}
	defer om.discard(tarPath)

	start := time.Now()
	err = om.withProgress(func() error {
		return om.distros.Import(ctx, req.Name, req.InstallDir, tarPath)
	})
	if err != nil {
		return errors.Wrap(err, "import failed")
	}

	om.log.Info("restore completed",
		"distro", req.Name,
		"source", req.Backup,
		"install_dir", req.InstallDir,
		"duration", time.Since(start).String(),
	)
	return nil
}
