package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabquiz/internal/database"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
	require.NoError(t, database.Connect())
	t.Cleanup(func() { _ = database.Close() })
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportCSV(t *testing.T) {
	setupTestDB(t)

	path := writeTempCSV(t, `text,definition,part_of_speech,language
ephemeral,lasting a very short time,adjective,en
serendipity,a fortunate accidental discovery,noun,
ubiquitous,found everywhere,adjective,en
`)

	result, err := ImportWords(DefaultConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)

	count, err := database.NewWordRepository().Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Missing language falls back to the default
	var lang string
	require.NoError(t, database.DB.Get(&lang, "SELECT language FROM words WHERE text = 'serendipity'"))
	assert.Equal(t, "en", lang)
}

func TestImportCSVHeaderAliases(t *testing.T) {
	setupTestDB(t)

	path := writeTempCSV(t, `Word,Definition,POS
laconic,using few words,adjective
`)

	result, err := ImportWords(DefaultConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	var pos string
	require.NoError(t, database.DB.Get(&pos, "SELECT part_of_speech FROM words WHERE text = 'laconic'"))
	assert.Equal(t, "adjective", pos)
}

func TestImportCSVCollectsRowErrors(t *testing.T) {
	setupTestDB(t)

	path := writeTempCSV(t, `text,definition
valid,has a definition
,missing the text
orphan,
another,also fine
`)

	result, err := ImportWords(DefaultConfig(path))
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "row 3")
	assert.Contains(t, result.Errors[0], "text cannot be empty")
	assert.Contains(t, result.Errors[1], "row 4")
	assert.Contains(t, result.Errors[1], "definition cannot be empty")
}

func TestImportCSVMissingRequiredColumns(t *testing.T) {
	setupTestDB(t)

	path := writeTempCSV(t, `text,part_of_speech
orphan,noun
`)

	_, err := ImportWords(DefaultConfig(path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'text' and 'definition'")
}

func TestSeedIfEmpty(t *testing.T) {
	setupTestDB(t)

	path := writeTempCSV(t, `text,definition
first,the one before second
`)

	result, err := SeedIfEmpty(path)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Imported)

	// Second call finds a non-empty catalog and does nothing
	result, err = SeedIfEmpty(path)
	require.NoError(t, err)
	assert.Nil(t, result)

	// No configured path is not an error
	result, err = SeedIfEmpty("")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSeedIfEmptyMissingFile(t *testing.T) {
	setupTestDB(t)

	_, err := SeedIfEmpty(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
