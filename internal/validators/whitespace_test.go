package validators

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/prerelease/internal/validator"
)

func TestInspectWhitespace(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		data string
		want []string
	}{
		{"clean", "a.sh", "echo a\necho b\n", nil},
		{"empty", "a.sh", "", nil},
		{"trailing", "a.sh", "echo a \necho b\n\techo c\t\n", []string{"trailing whitespace on 2 line(s), first at line 1"}},
		{"crlf", "a.yml", "a: 1\r\nb: 2\r\n", []string{"CRLF line endings"}},
		{"no final newline", "a.yml", "a: 1", []string{"missing final newline"}},
		{"markdown hard break", "README.md", "line one  \nline two\n", nil},
		{"windows batch", "run.bat", "echo a\r\n", nil},
		{"everything", "a.sh", "echo a \r\necho b", []string{
			"trailing whitespace on 1 line(s), first at line 1",
			"CRLF line endings",
			"missing final newline",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inspectWhitespace(tt.rel, []byte(tt.data)).describe())
		})
	}
}

func TestCleanWhitespace(t *testing.T) {
	tests := []struct {
		name string
		rel  string
		data string
		want string
	}{
		{"trailing", "a.sh", "echo a \n\techo b\t\n", "echo a\n\techo b\n"},
		{"crlf", "a.yml", "a: 1 \r\nb: 2\r\n", "a: 1\nb: 2\n"},
		{"final newline", "a.yml", "a: 1", "a: 1\n"},
		{"markdown keeps hard breaks", "README.md", "one  \r\ntwo", "one  \ntwo\n"},
		{"batch keeps crlf", "run.bat", "echo a \r\necho b", "echo a\r\necho b\r\n"},
		{"empty", "a.sh", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanWhitespace(tt.rel, []byte(tt.data))
			assert.Equal(t, tt.want, string(got))
			assert.True(t, inspectWhitespace(tt.rel, got).clean(), "cleaned output must be clean")
		})
	}
}

func TestWhitespace_Validate(t *testing.T) {
	target := newTarget(t, map[string]string{
		"scripts/a.sh": "echo a \n",
		"site.yml":     "- hosts: all\r\n",
		"README.md":    "# Title\n",
	})

	r := validate(t, NewWhitespace(), target)
	assert.Equal(t, validator.StatusWarn, r.Status)
	assert.Equal(t, []string{
		"warning: scripts/a.sh: trailing whitespace on 1 line(s), first at line 1",
		"warning: site.yml: CRLF line endings",
	}, r.Messages)
}

func TestWhitespace_Fix(t *testing.T) {
	target := newTarget(t, map[string]string{
		"scripts/a.sh": "#!/bin/sh \necho a",
		"site.yml":     "- hosts: all\r\n",
		"README.md":    "# Title\n",
	})
	require.NoError(t, os.Chmod(target.Abs("scripts/a.sh"), 0o750))

	env := &recordingEnv{}
	v := NewWhitespace()

	fixes, err := v.Fix(context.Background(), target, env)
	require.NoError(t, err)
	require.Len(t, fixes, 2)
	assert.Equal(t, "fixed: scripts/a.sh: trailing whitespace on 1 line(s), first at line 1, missing final newline", fixes[0].String())
	assert.Equal(t, "fixed: site.yml: CRLF line endings", fixes[1].String())
	assert.Equal(t, []string{target.Abs("scripts/a.sh"), target.Abs("site.yml")}, env.preserved)

	data, err := os.ReadFile(target.Abs("scripts/a.sh"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho a\n", string(data))

	if info, err := os.Stat(target.Abs("scripts/a.sh")); assert.NoError(t, err) {
		assert.Equal(t, os.FileMode(0o750), info.Mode().Perm(), "rewrite keeps the file mode")
	}

	r := validate(t, v, target)
	assert.Equal(t, validator.StatusPass, r.Status, "messages: %v", r.Messages)

	again, err := v.Fix(context.Background(), target, env)
	require.NoError(t, err)
	assert.Empty(t, again)
}

// cancelOnLock cancels the fix context when the first file is locked.
type cancelOnLock struct {
	recordingEnv
	cancel context.CancelFunc
}

func (e *cancelOnLock) Lock(path string) func() {
	e.cancel()
	return e.recordingEnv.Lock(path)
}

func TestWhitespace_FixStopsWhenCancelled(t *testing.T) {
	target := newTarget(t, map[string]string{
		"a.sh": "echo a \n",
		"b.sh": "echo b \n",
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env := &cancelOnLock{cancel: cancel}

	results, err := NewWhitespace().Fix(ctx, target, env)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Equal(t, "a.sh", results[0].Path)

	b, err := os.ReadFile(target.Abs("b.sh"))
	require.NoError(t, err)
	assert.Equal(t, "echo b \n", string(b), "no file is rewritten after cancellation")
	assert.Len(t, env.preserved, 1)
}
