package tool

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExec_LookPath(t *testing.T) {
	_, err := NewExec().LookPath("definitely-not-a-real-command-xyz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInstalled))

	p, err := NewExec().LookPath("sh")
	require.NoError(t, err)
	assert.NotEmpty(t, p)
}

func TestExec_Run(t *testing.T) {
	res, err := NewExec().Run(context.Background(), t.TempDir(), "sh", "-c", "echo out; echo err >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExec_RunNotFound(t *testing.T) {
	_, err := NewExec().Run(context.Background(), "", "definitely-not-a-real-command-xyz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotInstalled))
}

func TestExec_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExec().Run(ctx, "", "sh", "-c", "sleep 5")
	assert.Error(t, err)
}
