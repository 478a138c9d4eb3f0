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
	"gopkg.in/yaml.v3"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestExplainCommand_StdinJSON(t *testing.T) {
	query := `{"filtered": {"query": {"match_all": {}}, "filter": {"term": {"a": 1}}, "boost": 2.0}}`

	out, err := runCommand(t, query, "explain")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "constant_score", result["kind"])
	assert.Equal(t, "constant_score(term(a:1))^2", result["canonical"])
}

func TestExplainCommand_FileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.json")
	query := `{"filtered": {"query": {"term": {"b": 2}}, "filter": {"term": {"a": 1}}, "_cache": true, "_cache_key": "k1"}}`
	require.NoError(t, os.WriteFile(path, []byte(query), 0o600))

	out, err := runCommand(t, "", "explain", path, "--output", "yaml")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	assert.Equal(t, "filtered", result["kind"])
	assert.Equal(t, "filtered(term(b:2), cached(term(a:1)))", result["canonical"])
}

func TestExplainCommand_Errors(t *testing.T) {
	_, err := runCommand(t, `{"filtered": {"query": {"match_all": {}}}}`, "explain")
	require.Error(t, err)
	assert.Equal(t, "[filtered] requires 'filter' element", err.Error())

	_, err = runCommand(t, `{"match_all": {}}`, "explain", "--output", "xml")
	require.Error(t, err)

	_, err = runCommand(t, "", "explain", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
