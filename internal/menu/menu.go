// Package menu implements the interactive text menu. All input is read from
// an io.Reader so the loop can be driven without a terminal.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/kebairia/wslsnap/internal/config"
	"github.com/kebairia/wslsnap/internal/logger"
	"github.com/kebairia/wslsnap/internal/operations"
	"github.com/kebairia/wslsnap/internal/wsl"
)

// ErrInputClosed is returned by a prompt when input ends before an answer.
var ErrInputClosed = errors.New("input closed")

// Operations is what the menu dispatches to.
type Operations interface {
	ListDistros(ctx context.Context) ([]wsl.Distro, error)
	ExportDistro(ctx context.Context, backupDir string, d wsl.Distro) (string, error)
	ImportBackup(ctx context.Context, req operations.ImportRequest) error
}

// Menu is the blocking read-eval loop.
type Menu struct {
	in      *bufio.Reader
	out     io.Writer
	ops     Operations
	cfg     config.Config
	cfgPath string
	log     logger.Logger
}

// New builds a menu reading answers from in and writing to out. cfg is the
// loaded configuration and cfgPath where changes to it are saved.
func New(in io.Reader, out io.Writer, ops Operations, cfg config.Config, cfgPath string, log logger.Logger) *Menu {
	if log == nil {
		log = logger.Global()
	}
	return &Menu{
		in:      bufio.NewReader(in),
		out:     out,
		ops:     ops,
		cfg:     cfg,
		cfgPath: cfgPath,
		log:     log,
	}
}

// Config returns the configuration as currently held by the menu.
func (m *Menu) Config() config.Config { return m.cfg }

// Run shows the menu until the user picks exit or input ends. Failures of
// individual actions are reported and the menu continues.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printMenu()

		line, err := m.readLine()
		if errors.Is(err, ErrInputClosed) {
			fmt.Fprintln(m.out)
			m.goodbye()
			return nil
		}
		if err != nil {
			return err
		}

		action, ok := ParseChoice(line)
		if !ok {
			fmt.Fprintln(m.out, color.RedString("Invalid choice. Please select again."))
			continue
		}
		if action == ActionExit {
			m.goodbye()
			return nil
		}

		if err := m.dispatch(ctx, action); err != nil {
			m.report(action, err)
		}
	}
}

func (m *Menu) dispatch(ctx context.Context, action Action) error {
	switch action {
	case ActionExport:
		return m.exportDistro(ctx)
	case ActionImport:
		return m.importDistro(ctx)
	case ActionSetBackupDir:
		return m.setBackupDir()
	default:
		return errors.Newf("unhandled action %d", int(action))
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out, color.YellowString("\nWSL Snapshot Manager"))
	fmt.Fprintf(m.out, "---\nThe default export(backup) directory is %s\n---\n\n", color.GreenString(m.cfg.BackupDir))
	fmt.Fprintln(m.out, "1. Export a WSL distro")
	fmt.Fprintln(m.out, "2. Import a WSL distro")
	fmt.Fprintln(m.out, "3. Set backup directory")
	fmt.Fprintln(m.out, "4. Exit")
	fmt.Fprint(m.out, "Select an option: ")
}

func (m *Menu) goodbye() {
	fmt.Fprintln(m.out, color.YellowString("Goodbye! 👋"))
}

func (m *Menu) report(action Action, err error) {
	m.log.Error("action failed", "action", action.String(), "error", err.Error())

	switch {
	case errors.Is(err, operations.ErrInvalidSelection):
		fmt.Fprintln(m.out, color.RedString("Invalid selection: %v", err))
	case errors.Is(err, wsl.ErrLaunch):
		fmt.Fprintln(m.out, color.RedString("Could not run the wsl tool, is it on PATH? %v", err))
	default:
		fmt.Fprintln(m.out, color.RedString("Failed to %s: %v", action, err))
	}
}

func (m *Menu) exportDistro(ctx context.Context) error {
	distros, err := m.ops.ListDistros(ctx)
	if err != nil {
		return err
	}
	if len(distros) == 0 {
		fmt.Fprintln(m.out, color.RedString("No distros available to export."))
		return nil
	}

	fmt.Fprintln(m.out, "\nAvailable distros to export:")
	for i, d := range distros {
		fmt.Fprintf(m.out, "%s %s\n", color.CyanString("%d.", i+1), distroLabel(d))
	}

	answer, err := m.prompt("Select a distro to export: ")
	if err != nil {
		return err
	}
	idx, err := ParseIndex(answer, len(distros))
	if err != nil {
		return err
	}
	d, err := operations.SelectDistro(distros, idx)
	if err != nil {
		return err
	}

	if d.State == wsl.StateRunning {
		fmt.Fprintln(m.out, color.YellowString("%s is running; the export will capture its live filesystem.", d.Name))
	}

	fmt.Fprintln(m.out, color.CyanString("Exporting %s to %s...", d.Name, m.cfg.BackupDir))
	path, err := m.ops.ExportDistro(ctx, m.cfg.BackupDir, d)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, color.GreenString("Export and compression complete! ✅ %s", path))
	return nil
}

func distroLabel(d wsl.Distro) string {
	label := color.YellowString("%-20s", d.Name) +
		color.MagentaString("%-15s", d.State) +
		color.BlueString("(WSL %d)", d.Version)
	if d.IsDefault {
		label += color.GreenString(" [default]")
	}
	return label
}

func (m *Menu) importDistro(ctx context.Context) error {
	backups, err := operations.ListBackups(m.cfg.BackupDir)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintln(m.out, color.RedString("No backups available to import."))
		return nil
	}

	fmt.Fprintln(m.out, "Available backups to import:")
	for i, b := range backups {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, b)
	}

	answer, err := m.prompt("Select a backup to import: ")
	if err != nil {
		return err
	}
	idx, err := ParseIndex(answer, len(backups))
	if err != nil {
		return err
	}
	backup, err := operations.SelectBackup(backups, idx)
	if err != nil {
		return err
	}

	name, err := m.prompt("Enter a name for the new distro: ")
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)

	defaultDir, err := operations.DefaultInstallDir(name)
	if err != nil {
		return err
	}
	installDir, err := m.prompt(fmt.Sprintf("Enter the install location (default: %s): ", defaultDir))
	if err != nil {
		return err
	}
	installDir = strings.TrimSpace(installDir)
	if installDir == "" {
		installDir = defaultDir
	} else if installDir, err = config.ExpandPath(installDir); err != nil {
		return err
	}

	req := operations.ImportRequest{
		Backup:     filepath.Join(m.cfg.BackupDir, backup),
		Name:       name,
		InstallDir: installDir,
	}
	fmt.Fprintln(m.out, color.CyanString("Importing %s from %s into %s...", name, req.Backup, installDir))
	if err := m.ops.ImportBackup(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(m.out, color.GreenString("Import complete! ✅"))
	return nil
}

func (m *Menu) setBackupDir() error {
	answer, err := m.prompt("Enter new backup directory path: ")
	if err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		fmt.Fprintln(m.out, color.RedString("Backup directory unchanged."))
		return nil
	}

	updated := m.cfg
	if err := updated.SetBackupDir(answer); err != nil {
		return err
	}
	if err := config.Save(m.cfgPath, updated); err != nil {
		return err
	}
	m.cfg = updated

	m.log.Info("backup directory changed", "backup_dir", m.cfg.BackupDir)
	fmt.Fprintln(m.out, color.GreenString("Backup directory set to %s", m.cfg.BackupDir))
	return nil
}

// prompt writes question and reads one answer line.
func (m *Menu) prompt(question string) (string, error) {
	fmt.Fprint(m.out, question)
	return m.readLine()
}

// readLine returns the next line without its terminator. A final line with
// no newline is still returned; ErrInputClosed follows it.
func (m *Menu) readLine() (string, error) {
	line, err := m.in.ReadString('\n')
	if err == nil || (errors.Is(err, io.EOF) && line != "") {
		return trimEOL(line), nil
	}
	if errors.Is(err, io.EOF) {
		return "", ErrInputClosed
	}
	return "", errors.Wrap(err, "read input")
}
