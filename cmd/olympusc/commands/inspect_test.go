package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInspectReportsProcedures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collide.olympus")

	src := `rpc {
  proc getFile() -> @string;
  proc putFile() -> @string;
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cmd := GetRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"inspect", path, "--output", "json"})
	require.NoError(t, cmd.Execute())

	var report InspectReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Len(t, report.Procedures, 2)
	assert.Empty(t, report.Collisions)
}

func TestRunInspectTableOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simple.olympus")
	require.NoError(t, os.WriteFile(path, []byte("rpc {\n  proc ping();\n}\n"), 0o644))

	cmd := GetRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"inspect", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "ping")
}
