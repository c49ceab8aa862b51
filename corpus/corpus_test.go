package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuild_LabelsMatchDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sport", "a.txt"), "match")
	writeFile(t, filepath.Join(root, "sport", "b.txt"), "but")
	writeFile(t, filepath.Join(root, "afrique", "c.txt"), "rdc")

	c, err := Build(root, DefaultMaxFilesPerTheme)
	require.NoError(t, err)

	assert.Equal(t, []string{"afrique", "sport", "sport"}, c.Label)
	assert.Equal(t, []string{"rdc", "match", "but"}, c.Text)
	assert.Equal(t, map[string]int{"afrique": 1, "sport": 2}, c.CountByLabel())
}

func TestBuild_CapPerTheme(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 7; i++ {
		writeFile(t, filepath.Join(root, "planete", fmt.Sprintf("%02d.txt", i)), fmt.Sprintf("text %d", i))
	}
	writeFile(t, filepath.Join(root, "sport", "x.txt"), "x")

	c, err := Build(root, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, c.CountByLabel()["planete"])
	assert.Equal(t, 1, c.CountByLabel()["sport"])
	assert.Equal(t, []string{"text 0", "text 1", "text 2"}, c.Text[:3])
	assert.Equal(t, len(c.Label), len(c.Text))
}

func TestBuild_NoCap(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 4; i++ {
		writeFile(t, filepath.Join(root, "sport", fmt.Sprintf("%d.txt", i)), "x")
	}

	c, err := Build(root, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
}

func TestBuild_IgnoresHiddenAndStrayEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref")
	writeFile(t, filepath.Join(root, "stray.json"), "{}")
	writeFile(t, filepath.Join(root, "sport", ".DS_Store"), "junk")
	writeFile(t, filepath.Join(root, "sport", "nested", "deep.txt"), "deep")
	writeFile(t, filepath.Join(root, "sport", "a.txt"), "")

	c, err := Build(root, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"sport"}, c.Label)
	assert.Equal(t, []string{""}, c.Text, "empty files pass through")
}

func TestBuild_MissingRoot(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "nope"), 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read corpus directory")
}

func TestBuild_EmptyRoot(t *testing.T) {
	c, err := Build(t.TempDir(), 10)
	require.NoError(t, err)

	assert.Equal(t, 0, c.Len())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	c := New()
	c.Add("sport", "Le match <final> & \"la\" suite\n\n")
	c.Add("afrique", "Élection à Kinshasa\n\n")

	path := filepath.Join(t.TempDir(), "lx_corpus.json")
	require.NoError(t, Save(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"label":["sport","afrique"]`)
}

func TestSave_EmptyCorpusUsesArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lx_corpus.json")
	require.NoError(t, Save(path, New()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label": [], "text": []}`, string(data))
}

func TestSave_RejectsInconsistentCorpus(t *testing.T) {
	c := &Corpus{Label: []string{"a"}, Text: []string{}}

	err := Save(filepath.Join(t.TempDir(), "x.json"), c)

	assert.Error(t, err)
}

func TestLoad_RejectsInconsistentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	writeFile(t, path, `{"label": ["a", "b"], "text": ["only one"]}`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent")
}
