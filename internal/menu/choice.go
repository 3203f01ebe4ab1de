package menu

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/kebairia/wslsnap/internal/operations"
)

// Action is one entry of the main menu.
type Action int

const (
	ActionExport Action = iota + 1
	ActionImport
	ActionSetBackupDir
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionExport:
		return "export"
	case ActionImport:
		return "import"
	case ActionSetBackupDir:
		return "set backup directory"
	case ActionExit:
		return "exit"
	default:
		return "unknown"
	}
}

// ParseChoice maps a main-menu answer to an Action. Only the exact strings
// "1" to "4" are accepted; the line terminator is ignored.
func ParseChoice(input string) (Action, bool) {
	switch trimEOL(input) {
	case "1":
		return ActionExport, true
	case "2":
		return ActionImport, true
	case "3":
		return ActionSetBackupDir, true
	case "4":
		return ActionExit, true
	default:
		return 0, false
	}
}

// ParseIndex parses a 1-based selection among n items.
func ParseIndex(input string, n int) (int, error) {
	s := strings.TrimSpace(input)
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(operations.ErrInvalidSelection, "%q is not a number", s)
	}
	if idx < 1 || idx > n {
		return 0, errors.Wrapf(operations.ErrInvalidSelection, "%d is out of range [1-%d]", idx, n)
	}
	return idx, nil
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
