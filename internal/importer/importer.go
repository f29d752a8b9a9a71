// Package importer loads vocabulary catalog rows from CSV or Excel files.
// Rows missing the required text or definition are rejected with a
// row-numbered error rather than silently dropped.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/pkg/models"
)

// Config defines the import configuration
type Config struct {
	FilePath  string // Path to the CSV or Excel file
	SheetName string // Sheet to read for Excel files
}

// DefaultConfig returns the default import configuration
func DefaultConfig(path string) Config {
	return Config{
		FilePath:  path,
		SheetName: "Sheet1",
	}
}

// Result holds the outcome of an import operation
type Result struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportWords imports catalog rows from a CSV or Excel file
func ImportWords(config Config) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".xlsx" || ext == ".xlsm" {
		return importFromExcel(config)
	}
	return importFromCSV(config)
}

// importFromCSV imports rows from a CSV file with a header row
func importFromCSV(config Config) (*Result, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}

	return importRows(rows, cols)
}

// importFromExcel imports rows from the configured sheet of an Excel file
func importFromExcel(config Config) (*Result, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", config.SheetName)
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}
	return importRows(rows[1:], cols)
}

// columns holds header indexes; -1 means the column is absent
type columns struct {
	text         int
	definition   int
	partOfSpeech int
	language     int
}

// mapColumns resolves header names to indexes. text and definition are
// required; part_of_speech and language are optional.
func mapColumns(header []string) (columns, error) {
	cols := columns{text: -1, definition: -1, partOfSpeech: -1, language: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "text", "word":
			cols.text = i
		case "definition":
			cols.definition = i
		case "part_of_speech", "pos":
			cols.partOfSpeech = i
		case "language", "lang":
			cols.language = i
		}
	}
	if cols.text == -1 || cols.definition == -1 {
		return cols, fmt.Errorf("file must contain 'text' and 'definition' columns")
	}
	return cols, nil
}

// cell returns the trimmed value at idx, or "" when the row is short
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// importRows validates each data row and bulk-inserts the valid ones.
// Invalid rows are reported in the result with their row number; valid rows
// are still imported.
func importRows(rows [][]string, cols columns) (*Result, error) {
	result := &Result{Errors: make([]string, 0)}
	words := make([]models.Word, 0, len(rows))

	for i, row := range rows {
		result.TotalProcessed++
		rowNum := i + 2 // 1-based, after the header

		text := cell(row, cols.text)
		definition := cell(row, cols.definition)
		if text == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: text cannot be empty", rowNum))
			continue
		}
		if definition == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: definition cannot be empty", rowNum))
			continue
		}

		language := cell(row, cols.language)
		if language == "" {
			language = "en"
		}
		words = append(words, models.Word{
			Text:         text,
			Definition:   definition,
			PartOfSpeech: cell(row, cols.partOfSpeech),
			Language:     language,
		})
	}

	repo := database.NewWordRepository()
	if err := repo.BulkInsert(words); err != nil {
		return result, err
	}
	result.Imported = len(words)
	return result, nil
}

// SeedIfEmpty imports the given file when the catalog has no words yet.
// Returns the import result, or nil when seeding was not needed.
func SeedIfEmpty(path string) (*Result, error) {
	repo := database.NewWordRepository()
	count, err := repo.Count()
	if err != nil {
		return nil, err
	}
	if count > 0 || path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("seed file %q: %w", path, err)
	}
	return ImportWords(DefaultConfig(path))
}
