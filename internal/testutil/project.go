package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// UsersSchema is the schema used throughout the tests.
const UsersSchema = `"users": {"name": String, "age": Number}`

// WriteProject creates a project directory under t.TempDir with the given
// files. Keys are slash-separated paths relative to the project root.
func WriteProject(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		WriteFile(t, root, name, content)
	}
	return root
}

// WriteFile writes content to root/name, creating parent directories.
func WriteFile(t testing.TB, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// UsersProject returns a project with the users schema and three rows.
func UsersProject(t testing.TB) string {
	t.Helper()
	return WriteProject(t, map[string]string{
		"schemas/users.schema":    UsersSchema,
		"models/01_edilson.model": `"users": {"name": "Edilson", "age": 22}`,
		"models/02_mungoi.model":  `"users": {"name": "Mungoi", "age": 23}`,
		"models/03_grahms.model":  `"users": {"name": "Grahms", "age": 24}`,
	})
}
