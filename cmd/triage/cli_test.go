package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzeCmd(t *testing.T) {
	out, _, err := runCLI(t, "", "analyze", "--industry", "healthcare", "--budget", "10k-35k",
		"Our fintech startup handles banking payments and loan credit checks.")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	analysis := got["analysis"].(map[string]interface{})
	assert.Equal(t, "finance", analysis["detectedIndustry"])
	assert.Equal(t, true, analysis["industryMismatch"])
	assert.Equal(t, "high", got["detection"].(map[string]interface{})["confidence"])
	assert.Contains(t, got["draftReply"], "https://endicode.dev/demo")
}

func TestAnalyzeCmd_ReplyFromStdin(t *testing.T) {
	out, _, err := runCLI(t, "We need a new website ASAP", "analyze", "--reply", "--origin", "https://example.test/", "-")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Hi there,"))
	assert.Contains(t, out, "time-sensitive")
	assert.Contains(t, out, "https://example.test/demo")
}

func TestAnalyzeCmd_RejectsUnknownValues(t *testing.T) {
	_, _, err := runCLI(t, "", "analyze", "--industry", "mining", "hello")
	assert.EqualError(t, err, `unknown industry "mining"`)

	_, _, err = runCLI(t, "", "analyze", "--budget", "1m", "hello")
	assert.EqualError(t, err, `unknown budget "1m"`)

	_, _, err = runCLI(t, "", "analyze", "--industry", "other", "hello")
	assert.NoError(t, err)
}

func TestDetectCmd(t *testing.T) {
	out, _, err := runCLI(t, "", "detect", "We", "run", "a", "small", "clinic")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "healthcare", got["detected"])
	assert.Equal(t, "medium", got["confidence"])
}

func TestScoreCmd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "leads.csv")
	require.NoError(t, os.WriteFile(in, []byte("email,message\na@x.io,urgent automation with hubspot\nb@x.io,hi\n"), 0o600))
	outPath := filepath.Join(dir, "scored.csv")

	_, stderr, err := runCLI(t, "", "score", in, "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "scored 2 leads")

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(written)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,email,company,message,score,segment", lines[0])
}

func TestScoreCmd_Stdout(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "leads.csv")
	require.NoError(t, os.WriteFile(in, []byte("name,message\nBob,hi\n"), 0o600))

	_, _, err := runCLI(t, "", "score", in, "-o", "-")
	assert.EqualError(t, err, "No valid leads found. Please ensure your CSV has 'email' column.")
}

func TestActivitiesCmd(t *testing.T) {
	out, _, err := runCLI(t, "", "activities")
	require.NoError(t, err)
	assert.Contains(t, out, `"taskType": "analyze-inquiry"`)

	path := filepath.Join(t.TempDir(), "activity-registry.json")
	_, _, err = runCLI(t, "", "activities", "--write", path)
	require.NoError(t, err)

	out, _, err = runCLI(t, "", "activities", "--validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid (6 activities)")

	_, _, err = runCLI(t, "", "activities", "--validate", path, "--write", path)
	assert.Error(t, err)
}
