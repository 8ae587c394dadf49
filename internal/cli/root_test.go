package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/nodata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against a fresh users project.
func run(t *testing.T, root string, args ...string) (string, string, error) {
	t.Helper()
	cfg := testutil.WriteFile(t, root, "nodata.yaml", "log_level: error\n")

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func csvLines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestQuery_AllRows(t *testing.T) {
	out, _, err := run(t, testutil.UsersProject(t), "query", "users", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"id,name,age", "1,Edilson,22", "2,Mungoi,23", "3,Grahms,24"}, csvLines(out))
}

func TestQuery_Where(t *testing.T) {
	root := testutil.UsersProject(t)

	out, _, err := run(t, root, "query", "users", "--where", `name != "Edilson"`, "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"id,name,age", "2,Mungoi,23", "3,Grahms,24"}, csvLines(out))

	out, _, err = run(t, root, "query", "users", "age >= 23", "-o", "json")
	require.NoError(t, err)
	var doc struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 2, doc.Count)
}

func TestQuery_ByID(t *testing.T) {
	root := testutil.UsersProject(t)

	out, _, err := run(t, root, "query", "users", "--id", "2", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"id,name,age", "2,Mungoi,23"}, csvLines(out))

	out, _, err = run(t, root, "query", "users", "--id", "9", "-o", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "(0 rows)\n", out)
}

func TestQuery_Errors(t *testing.T) {
	root := testutil.UsersProject(t)

	_, _, err := run(t, root, "query", "users", "--where", `name > "A"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "condition '>' is not implemented for type '[String]'")

	_, _, err = run(t, root, "query", "users", "--where", "nickname == 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no field named 'nickname'")

	_, _, err = run(t, root, "query", "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")

	_, _, err = run(t, root, "query", "users", "--id", "1", "--where", "age > 1")
	require.Error(t, err)
}

func TestLoad_ReportsRejectedFiles(t *testing.T) {
	root := testutil.UsersProject(t)
	testutil.WriteFile(t, root, "models/04_bad.model", `"users": {"name": "Ana"}`)

	out, errOut, err := run(t, root, "load", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Models: 4 files (3 rows, 1 rejected)")
	assert.Contains(t, out, "| users | name String, age Number | 3 | 4 |")
	assert.Contains(t, errOut, "04_bad.model")
	assert.Contains(t, errOut, "expects 2 fields but found 1")
}

func TestLoad_MissingSchemasDir(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "load")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schemas directory does not exist")
}

func TestCheck(t *testing.T) {
	root := testutil.UsersProject(t)
	good := filepath.Join(root, "schemas", "users.schema")
	bad := testutil.WriteFile(t, root, "broken.model", `"users": {"name": }`)

	out, _, err := run(t, root, "check", good, bad, "-o", "markdown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "✓ "+good+" (schema users)")
	assert.Contains(t, out, "✗ "+bad+": parse error at line 1, column 19")

	out, _, err = run(t, root, "check", "--tokens", good, "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "[Type Annotation] String")
	assert.Contains(t, out, "EOF")
}

func TestCheck_StdinJSON(t *testing.T) {
	root := testutil.UsersProject(t)
	cfg := testutil.WriteFile(t, root, "nodata.yaml", "")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(`"users": {"name": "Ana", "age": 1}`))
	cmd.SetArgs([]string{"--config", cfg, "check", "-", "-o", "json"})
	require.NoError(t, cmd.Execute())

	var results []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "model", results[0]["kind"])
	assert.Equal(t, "users", results[0]["name"])
}

func TestDemo(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "demo", "-o", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, `"users": {"name": "Grahms", "age": 24, "phone": "+34 123-4567"} -> id 3`)
	assert.Contains(t, out, "rejected: insert into users: field 'age' must be of type '[Number]' found type '[String]'")
	assert.Contains(t, out, "id,name,age,phone\n")
	assert.Contains(t, out, "2,Mungoi,26,+244 123-4567\n")
	assert.Contains(t, out, "3,Grahms,24,+34 123-4567\n")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nodata v"+Version)
}

func TestCompletion(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "nodata")

	_, _, err = run(t, t.TempDir(), "completion", "tcsh")
	require.Error(t, err)
}

func TestInvalidOutputFlag(t *testing.T) {
	_, _, err := run(t, testutil.UsersProject(t), "query", "users", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output")
}
