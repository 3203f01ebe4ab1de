package menu

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebairia/wslsnap/internal/operations"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input  string
		want   Action
		wantOK bool
	}{
		{"1", ActionExport, true},
		{"2\n", ActionImport, true},
		{"3\r\n", ActionSetBackupDir, true},
		{"4", ActionExit, true},
		{"5", 0, false},
		{"", 0, false},
		{" 1", 0, false},
		{"1 ", 0, false},
		{"01", 0, false},
		{"exit", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseChoice(tt.input)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseIndex(t *testing.T) {
	idx, err := ParseIndex(" 2 \n", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	for _, input := range []string{"0", "4", "-1", "x", "", "1.5"} {
		_, err := ParseIndex(input, 3)
		assert.True(t, errors.Is(err, operations.ErrInvalidSelection), "input %q", input)
	}
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "export", ActionExport.String())
	assert.Equal(t, "set backup directory", ActionSetBackupDir.String())
	assert.Equal(t, "unknown", Action(42).String())
}
