package main

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/fsmx"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	out, errOut, _, err := runApp(t, stdin, args...)
	return out, errOut, err
}

func runApp(t *testing.T, stdin string, args ...string) (string, string, *app, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out)
	cmd := newRootCmd(a)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := a.execute(cmd)
	return out.String(), errOut.String(), a, err
}

func TestElevatorSession(t *testing.T) {
	out, logs, err := run(t, "c 2\nf 1\nf 3\nc 9\nx\na\nq\n", "elevator", "--log-level", "debug")
	require.NoError(t, err)

	assert.Contains(t, out, "[elevator] idle -> moving")
	assert.Contains(t, out, "[motor] stopped -> up")
	assert.Contains(t, out, "*** calling maintenance ***")
	assert.Contains(t, out, "[elevator] moving -> panic")
	assert.Contains(t, out, "floor must be 0..3")
	assert.Contains(t, out, `invalid input "x"`)
	assert.Contains(t, out, "*** calling firefighters ***")
	assert.Contains(t, out, "Thanks for playing!")

	assert.Contains(t, logs, "session=")
	assert.Contains(t, logs, "floor sensor defect")
	assert.Contains(t, logs, "outcome=handled")
}

func TestSwitchSession(t *testing.T) {
	out, _, err := run(t, "t\nt\nr\nq\n", "switch", "--variant", "resetting")
	require.NoError(t, err)

	assert.Contains(t, out, "* Switch is On, counter=1")
	assert.Contains(t, out, "* Switch is Off, counter=2")
	assert.Contains(t, out, "[resetting-switch] off -> on")
	assert.Equal(t, 3, strings.Count(out, "** RESET State=On"), "build, start and restart each create On")
}

func TestSwitchUnknownVariant(t *testing.T) {
	_, _, err := run(t, "", "switch", "--variant", "dimmer")
	assert.ErrorContains(t, err, `unknown switch variant "dimmer"`)
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	out, _, err := run(t, "", "describe", "--format", "json", "--out", dir)
	require.NoError(t, err)

	var ds []fsmx.Description
	require.NoError(t, json.Unmarshal([]byte(out), &ds))
	require.Len(t, ds, 2)
	assert.Equal(t, "motor", ds[0].Name)
	assert.Equal(t, "elevator", ds[1].Name)
	assert.Equal(t, "moore", ds[0].Flavor)

	for _, name := range []string{"motor.json", "elevator.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestDescribeDOTFromConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "fsmx.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[describe]\nformat = \"dot\"\n"), 0o600))

	out, _, err := run(t, "", "describe", "mealy", "--config", cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph fsmx {"))
	assert.Contains(t, out, `label="mealy-switch (mealy)";`)
}

func TestInvalidFlags(t *testing.T) {
	_, _, err := run(t, "", "describe", "--log-format", "xml")
	assert.Error(t, err)

	_, _, err = run(t, "", "describe", "--format", "svg")
	assert.Error(t, err)
}

func TestMetricsServerStopsWhenCommandFails(t *testing.T) {
	_, logs, a, err := runApp(t, "", "switch", "--variant", "dimmer", "--metrics-addr", "127.0.0.1:0")
	require.Error(t, err)
	require.NotNil(t, a.server)
	assert.Contains(t, logs, "serving metrics")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	assert.ErrorIs(t, a.server.Serve(ln), http.ErrServerClosed)
}
