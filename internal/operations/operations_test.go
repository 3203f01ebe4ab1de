package operations

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebairia/wslsnap/internal/logger"
	"github.com/kebairia/wslsnap/internal/wsl"
)

// fakeDistros stands in for the wsl client. Export writes payload to the
// destination, Import captures the archive contents.
type fakeDistros struct {
	distros   []wsl.Distro
	payload   []byte
	exportErr error
	importErr error

	exports  [][]string
	imports  [][]string
	imported []byte
}

func (f *fakeDistros) ListDistros(context.Context) ([]wsl.Distro, error) {
	return f.distros, nil
}

func (f *fakeDistros) Export(_ context.Context, name, dest string) error {
	f.exports = append(f.exports, []string{name, dest})
	if err := os.WriteFile(dest, f.payload, 0o644); err != nil {
		return err
	}
	return f.exportErr
}

func (f *fakeDistros) Import(_ context.Context, name, installDir, archive string) error {
	f.imports = append(f.imports, []string{name, installDir, archive})
	data, err := os.ReadFile(archive)
	if err != nil {
		return err
	}
	f.imported = data
	return f.importErr
}

// countingProgress records how often the indicator was started and stopped.
type countingProgress struct {
	started, stopped int
}

func (p *countingProgress) start() Indicator {
	p.started++
	return p
}

func (p *countingProgress) Stop() { p.stopped++ }

var exportDay = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

func newManager(f *fakeDistros, p *countingProgress) *OperationManager {
	return NewOperationManager(f,
		WithLogger(logger.Nop()),
		WithClock(func() time.Time { return exportDay }),
		WithProgress(p.start),
	)
}

func TestSelectDistro(t *testing.T) {
	distros := []wsl.Distro{{Name: "Ubuntu"}, {Name: "Debian"}}

	d, err := SelectDistro(distros, 2)
	require.NoError(t, err)
	assert.Equal(t, "Debian", d.Name)

	for _, idx := range []int{0, -1, 3} {
		_, err := SelectDistro(distros, idx)
		assert.True(t, errors.Is(err, ErrInvalidSelection), "index %d", idx)
	}

	_, err = SelectDistro(nil, 1)
	assert.True(t, errors.Is(err, ErrInvalidSelection))
}

func TestExportPath(t *testing.T) {
	got := ExportPath("/backups", "Ubuntu", exportDay)
	assert.Equal(t, filepath.Join("/backups", "Ubuntu-2024-01-15.tar"), got)
}

func TestExportDistro_Scenario(t *testing.T) {
	backupDir := filepath.Join(t.TempDir(), "backups")
	f := &fakeDistros{payload: []byte("distro filesystem")}
	p := &countingProgress{}

	gz, err := newManager(f, p).ExportDistro(context.Background(), backupDir, wsl.Distro{Name: "Ubuntu"})
	require.NoError(t, err)

	tarPath := filepath.Join(backupDir, "Ubuntu-2024-01-15.tar")
	assert.Equal(t, [][]string{{"Ubuntu", tarPath}}, f.exports)
	assert.Equal(t, tarPath+".gz", gz)
	assert.FileExists(t, gz)
	assert.NoFileExists(t, tarPath)
	assert.Equal(t, 1, p.started)
	assert.Equal(t, 1, p.stopped)

	out, err := DecompressGzip(gz)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, f.payload, data)
}

func TestExportDistro_ToolFailureCleansUp(t *testing.T) {
	backupDir := t.TempDir()
	f := &fakeDistros{
		payload:   []byte("partial"),
		exportErr: wsl.Result{Args: []string{"wsl"}, Outcome: wsl.NonZeroExit, ExitCode: 1}.Err(),
	}
	p := &countingProgress{}

	_, err := newManager(f, p).ExportDistro(context.Background(), backupDir, wsl.Distro{Name: "Ubuntu"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, wsl.ErrNonZeroExit))
	assert.Equal(t, 1, p.stopped, "indicator stopped on failure")

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no .tar or .tar.gz left behind")
}

func TestListBackups(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-yet-created")

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	assert.Empty(t, backups)
	assert.DirExists(t, dir)

	for _, name := range []string{"Ubuntu-2024-01-15.tar.gz", "Debian-2024-01-14.tar.gz", "notes.txt", "x.tar", "y.gz"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.tar.gz"), 0o755))

	backups, err = ListBackups(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Debian-2024-01-14.tar.gz", "Ubuntu-2024-01-15.tar.gz"}, backups)
}

func TestSelectBackup(t *testing.T) {
	backups := []string{"a.tar.gz", "b.tar.gz"}

	got, err := SelectBackup(backups, 1)
	require.NoError(t, err)
	assert.Equal(t, "a.tar.gz", got)

	_, err = SelectBackup(backups, 3)
	assert.True(t, errors.Is(err, ErrInvalidSelection))
	_, err = SelectBackup(nil, 1)
	assert.True(t, errors.Is(err, ErrInvalidSelection))
}

func TestImportBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Ubuntu-2024-01-15.tar")
	payload := []byte("exported tarball")
	require.NoError(t, os.WriteFile(src, payload, 0o644))
	gz, err := CompressGzip(src)
	require.NoError(t, err)

	f := &fakeDistros{}
	p := &countingProgress{}
	req := ImportRequest{Backup: gz, Name: "Ubuntu2", InstallDir: "/installs/Ubuntu2"}

	require.NoError(t, newManager(f, p).ImportBackup(context.Background(), req))

	assert.Equal(t, [][]string{{"Ubuntu2", "/installs/Ubuntu2", src}}, f.imports)
	assert.Equal(t, payload, f.imported)
	assert.NoFileExists(t, src, "decompressed archive removed")
	assert.FileExists(t, gz, "backup kept")
	assert.Equal(t, 2, p.started)
	assert.Equal(t, 2, p.stopped)
}

func TestImportBackup_ToolFailureStillCleansUp(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Debian-2024-01-15.tar")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	gz, err := CompressGzip(src)
	require.NoError(t, err)

	f := &fakeDistros{importErr: wsl.Result{Args: []string{"wsl"}, Outcome: wsl.NonZeroExit, ExitCode: 2}.Err()}
	err = newManager(f, &countingProgress{}).ImportBackup(context.Background(),
		ImportRequest{Backup: gz, Name: "Debian2", InstallDir: filepath.Join(dir, "inst")})
	require.Error(t, err)
	assert.Equal(t, 2, wsl.ExitCode(err))
	assert.NoFileExists(t, src)
}

func TestImportBackup_MissingBackup(t *testing.T) {
	f := &fakeDistros{}
	err := newManager(f, &countingProgress{}).ImportBackup(context.Background(),
		ImportRequest{Backup: filepath.Join(t.TempDir(), "gone.tar.gz"), Name: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileSystem))
	assert.Empty(t, f.imports, "tool never invoked")
}

func TestDefaultInstallDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false; homedir.Reset() })

	got, err := DefaultInstallDir("Ubuntu2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultInstallSubdir, "Ubuntu2"), got)
}
