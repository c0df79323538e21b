package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"logstat/internal"
	"logstat/internal/config"
	"logstat/internal/errors"
)

func writeLog(t *testing.T, dir, name string, columns []string, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("# generated\n")
	b.WriteString("state\t" + strings.Join(columns, "\t") + "\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%d", i*1000)
		for range columns {
			fmt.Fprintf(&b, "\t%d", i)
		}
		b.WriteString("\n")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(config.Default(), internal.Discard())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSummaryCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.log", []string{"mu", "kappa"}, 10)
	b := writeLog(t, dir, "b.log", []string{"kappa", "nu"}, 10)

	out, err := execute(t, "summary", a, b, "--format", "json", "--hpd", "0.5", "--workers", "2")
	require.NoError(t, err)

	doc := gjson.Parse(out)
	assert.Equal(t, `["ESS","mean","median","25%","75%","stdev"]`, doc.Get("header").Raw)
	assert.True(t, doc.Get("shared").Bool())
	rows := doc.Get("rows").Array()
	require.Len(t, rows, 2)
	assert.Equal(t, "kappa", rows[0].Get("label").String())
	assert.Equal(t, int64(1), rows[1].Get("run").Int())
	assert.Equal(t, 5.5, rows[1].Get("stats.mean").Float())
}

func TestSummaryCmd_Text(t *testing.T) {
	path := writeLog(t, t.TempDir(), "run.log", []string{"mu", "kappa"}, 10)

	out, err := execute(t, "summary", path, "--burnin", "0.5", "--exclude", "kappa")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ESS")
	assert.Contains(t, lines[0], "2.5%")
	cells := strings.Split(lines[2], "|")
	require.Len(t, cells, 7)
	assert.Equal(t, "mu", strings.TrimSpace(cells[0]))
	assert.Equal(t, "8", strings.TrimSpace(cells[2]))
}

func TestSummaryCmd_Errors(t *testing.T) {
	path := writeLog(t, t.TempDir(), "run.log", []string{"mu"}, 10)

	_, err := execute(t, "summary", path, "--format", "yaml")
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))

	_, err = execute(t, "summary", path, "--include", "missing")
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))

	_, err = execute(t, "summary", filepath.Join(t.TempDir(), "absent.log"))
	assert.Error(t, err)

	_, err = execute(t, "summary")
	assert.Error(t, err)
}

func TestSummaryCmd_SkipFailed(t *testing.T) {
	dir := t.TempDir()
	good := writeLog(t, dir, "good.log", []string{"mu"}, 10)
	missing := filepath.Join(dir, "missing.log")

	_, err := execute(t, "summary", good, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 2")

	out, err := execute(t, "summary", good, missing, "--skip-failed", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "| mu |")
}

func TestSummaryCmd_ColumnNamesWithCommas(t *testing.T) {
	path := writeLog(t, t.TempDir(), "run.log", []string{"rate,clock", "mu", "kappa"}, 10)

	out, err := execute(t, "summary", path, "--format", "json", "--include", "rate,clock", "--include", "kappa")
	require.NoError(t, err)

	rows := gjson.Parse(out).Get("rows").Array()
	require.Len(t, rows, 2)
	assert.Equal(t, "rate,clock", rows[0].Get("variable").String())
	assert.Equal(t, "kappa", rows[1].Get("variable").String())
}
