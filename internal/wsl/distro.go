package wsl

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	xunicode "golang.org/x/text/encoding/unicode"
)

// ErrEncoding indicates the listing output is not valid UTF-16.
var ErrEncoding = errors.New("tool output is not valid UTF-16")

// State is the run state column of the listing.
type State string

const (
	StateRunning    State = "Running"
	StateStopped    State = "Stopped"
	StateInstalling State = "Installing"
)

// Distro is one row of `wsl --list --verbose`.
type Distro struct {
	Name      string `mapstructure:"name"`
	State     State  `mapstructure:"state"`
	Version   int    `mapstructure:"version"`
	IsDefault bool   `mapstructure:"-"`
}

// distroLine matches an optional default marker followed by the name, state
// and version columns. Anything after the version is ignored, so names with
// embedded spaces or extra columns are read from their first three tokens only.
var distroLine = regexp.MustCompile(`^(?P<marker>[* ]?)\s*(?P<name>\S+)\s+(?P<state>\S+)\s+(?P<version>\d+)`)

// DecodeOutput decodes the tool's UTF-16 output. A byte-order mark selects
// the endianness; without one little-endian is assumed.
func DecodeOutput(raw []byte) (string, error) {
	if len(raw)%2 != 0 {
		return "", errors.Wrapf(ErrEncoding, "odd length %d", len(raw))
	}
	dec := xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM).NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "decode UTF-16"), ErrEncoding)
	}
	return string(out), nil
}

// ParseDistros parses decoded listing text. The first line is the header and
// is skipped; blank or non-matching lines are skipped too. Rows keep the
// order in which the tool emitted them.
func ParseDistros(text string) []Distro {
	lines := strings.Split(strings.TrimFunc(text, isPadding), "\n")
	distros := make([]Distro, 0, len(lines))
	if len(lines) < 2 {
		return distros
	}

	for _, line := range lines[1:] {
		d, ok := parseDistroLine(line)
		if !ok {
			continue
		}
		distros = append(distros, d)
	}
	return distros
}

func parseDistroLine(line string) (Distro, bool) {
	line = strings.TrimFunc(line, isPadding)
	if line == "" {
		return Distro{}, false
	}
	m := distroLine.FindStringSubmatch(line)
	if m == nil {
		return Distro{}, false
	}

	fields := make(map[string]string, len(m))
	for i, name := range distroLine.SubexpNames() {
		if name != "" {
			fields[name] = m[i]
		}
	}

	var d Distro
	if err := mapstructure.WeakDecode(fields, &d); err != nil {
		return Distro{}, false
	}
	d.IsDefault = fields["marker"] == "*"
	return d, true
}

func isPadding(r rune) bool {
	return unicode.IsSpace(r) || r == 0 || r == '\ufeff'
}
