package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/chainsum/compress"
	"github.com/arloliu/chainsum/errs"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()

	return out.String(), err
}

func chainDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"lcdm.paramnames": "H0 H_0\nomegam \\Omega_m\n",
		"lcdm.1.txt":      "1 12 66 0.30\n2 10 67 0.31\n1 11 68 0.32\n",
		"lcdm.2.txt":      "1 13 67.5 0.315\n1 9 67.2 0.312\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return dir
}

func TestReportText(t *testing.T) {
	dir := chainDir(t)

	out, err := execute(t, "report", "lcdm", "--dir", dir, "--burn-in", "0", "--corr", "H0:omegam", "--fit", "om_h0=H0:omegam")
	require.NoError(t, err)
	for _, want := range []string{"prefix", "lcdm", "best fit", "posterior", "correlations", "fits", "om_h0"} {
		assert.Contains(t, out, want)
	}

	again, err := execute(t, "report", "lcdm", "--dir", dir, "--burn-in", "0", "--corr", "H0:omegam", "--fit", "om_h0=H0:omegam")
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestReportYAMLFromConfig(t *testing.T) {
	dir := chainDir(t)
	cfgPath := filepath.Join(dir, "runs.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
runs:
  - name: lcdm_baseline
    prefix: lcdm
    burn_in: 0
    params: [H0]
    format: yaml
  - name: other
    dir: elsewhere
`), 0o644))

	out, err := execute(t, "report", "--config", cfgPath, "--run", "lcdm_baseline")
	require.NoError(t, err)

	var doc struct {
		Run     string `yaml:"run"`
		Prefix  string `yaml:"prefix"`
		BestFit struct {
			Chain     int     `yaml:"chain"`
			Row       int     `yaml:"row"`
			Objective float64 `yaml:"objective"`
		} `yaml:"best_fit"`
		Posterior []struct {
			Name string `yaml:"name"`
		} `yaml:"posterior"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Equal(t, "lcdm_baseline", doc.Run)
	require.Equal(t, "lcdm", doc.Prefix)
	require.Equal(t, 2, doc.BestFit.Chain)
	require.Equal(t, 1, doc.BestFit.Row)
	require.Equal(t, 9.0, doc.BestFit.Objective)
	require.Len(t, doc.Posterior, 1)
	require.Equal(t, "H0", doc.Posterior[0].Name)

	// an explicit flag overrides the record
	out, err = execute(t, "report", "--config", cfgPath, "--run", "lcdm_baseline", "--format", "text")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "run"), out)

	_, err = execute(t, "report", "--config", cfgPath, "--run", "missing")
	require.ErrorIs(t, err, errs.ErrUnknownRun)

	_, err = execute(t, "report", "--config", cfgPath)
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestReportErrors(t *testing.T) {
	dir := chainDir(t)

	_, err := execute(t, "report", "--dir", dir, "--run", "x")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)

	_, err = execute(t, "report", "--dir", dir, "--burn-in", "1")
	require.ErrorIs(t, err, errs.ErrInvalidBurnIn)

	_, err = execute(t, "report", "--dir", dir, "--params", "w0")
	require.ErrorIs(t, err, errs.ErrUnknownParameter)

	_, err = execute(t, "report", "--dir", dir, "--format", "html")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)

	_, err = execute(t, "report", "--dir", t.TempDir())
	require.ErrorIs(t, err, errs.ErrNoChains)
}

func TestRunsCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "runs.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
runs:
  - {name: a, dir: chains/a, prefix: a, burn_in: 0.5}
  - {name: b, dir: /abs/b}
`), 0o644))

	out, err := execute(t, "runs", "--config", cfgPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], filepath.Join(dir, "chains/a"))
	assert.Contains(t, lines[1], "0.5")
	assert.Contains(t, lines[2], "(auto)")
	assert.Contains(t, lines[2], "0.3")

	_, err = execute(t, "runs")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "chainsum dev\n", out)
}

func TestParseFit(t *testing.T) {
	fit, err := parseFit("h0_om=omegam:H0")
	require.NoError(t, err)
	require.Equal(t, "h0_om", fit.Name)
	require.Equal(t, "omegam", fit.U.String())
	require.Equal(t, "H0", fit.V.String())

	fit, err = parseFit("a:b")
	require.NoError(t, err)
	require.Equal(t, "b_vs_a", fit.Name)

	for _, bad := range []string{"", "name=a", "name=:b", "a:"} {
		_, err := parseFit(bad)
		require.ErrorIs(t, err, errs.ErrInvalidConfig, bad)
	}
}

func TestParseCorrelation(t *testing.T) {
	pair, err := parseCorrelation(" H0 : omegam ")
	require.NoError(t, err)
	require.Equal(t, [2]string{"H0", "omegam"}, pair)

	_, err = parseCorrelation("H0")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestPackRoundTrip(t *testing.T) {
	dir := chainDir(t)
	posterior := func() any {
		t.Helper()
		out, err := execute(t, "report", "--dir", dir, "--burn-in", "0", "--format", "yaml")
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &doc))

		return doc["posterior"]
	}
	before := posterior()

	out, err := execute(t, "pack", "--dir", dir, "--codec", "zstd")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "lcdm.1.txt.zst"))
	for _, name := range []string{"lcdm.1.txt", "lcdm.2.txt"} {
		assert.NoFileExists(t, filepath.Join(dir, name))
		assert.FileExists(t, filepath.Join(dir, name+".zst"))
	}
	assert.FileExists(t, filepath.Join(dir, "lcdm.paramnames"))
	require.Equal(t, before, posterior())

	// already packed files are left alone
	out, err = execute(t, "pack", "lcdm", "--dir", dir, "--codec", "ZSTD")
	require.NoError(t, err)
	require.Empty(t, out)

	_, err = execute(t, "pack", "--dir", dir, "--codec", "lz4")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "lcdm.2.txt.lz4"))
	require.Equal(t, before, posterior())

	_, err = execute(t, "pack", "--dir", dir, "--codec", "none")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "lcdm.1.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "lcdm.1.txt.lz4"))
	require.Equal(t, before, posterior())
}

func TestPackErrors(t *testing.T) {
	dir := chainDir(t)

	_, err := execute(t, "pack", "--dir", dir, "--codec", "brotli")
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = execute(t, "pack", "--dir", t.TempDir())
	require.NoError(t, err, "an empty directory has nothing to pack")

	_, err = execute(t, "pack", "other", "--dir", dir)
	require.ErrorIs(t, err, errs.ErrNoChains)
}

func TestReportReadOverrides(t *testing.T) {
	dir := chainDir(t)
	plain, err := execute(t, "report", "--dir", dir, "--burn-in", "0", "--format", "yaml")
	require.NoError(t, err)

	// zstd frames stored under plain .txt names
	codec, err := compress.GetCodec(compress.TypeZstd)
	require.NoError(t, err)
	for _, name := range []string{"lcdm.1.txt", "lcdm.2.txt"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		packed, err := codec.Compress(data)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, packed, 0o644))
	}

	_, err = execute(t, "report", "--dir", dir, "--burn-in", "0")
	require.Error(t, err)

	forced, err := execute(t, "report", "--dir", dir, "--burn-in", "0", "--format", "yaml", "--codec", "zstd")
	require.NoError(t, err)
	var want, got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(plain), &want))
	require.NoError(t, yaml.Unmarshal([]byte(forced), &got))
	require.Equal(t, want["posterior"], got["posterior"])
	require.Equal(t, want["best_fit"], got["best_fit"])

	_, err = execute(t, "report", "--dir", dir, "--codec", "brotli")
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = execute(t, "report", "--dir", dir, "--codec", "zstd", "--comment", "")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}
