package converter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/ratoolkit/internal/types"
)

// SpreadsheetToken must appear in an input file's extension (.xls, .xlsx,
// .xlsm, ...). The check is case-sensitive.
const SpreadsheetToken = "xls"

// Converter turns a spreadsheet into an HTML table file. It keeps the table
// and markup from the most recent conversion.
type Converter struct {
	log    *slog.Logger
	table  *types.Table
	markup string
	result *types.ConversionResult
}

func New(log *slog.Logger) *Converter {
	return &Converter{log: log}
}

// Extension returns the text after the last dot of the file's base name,
// including the dot, or "" when the name has no dot.
func Extension(filePath string) string {
	return filepath.Ext(filepath.Base(filePath))
}

// IsSpreadsheet reports whether filePath has an accepted spreadsheet extension.
func IsSpreadsheet(filePath string) bool {
	return strings.Contains(Extension(filePath), SpreadsheetToken)
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Convert renders the first sheet of inputFile as an HTML table and writes it
// to outputFile, replacing its contents. A missing input or a non-spreadsheet
// extension is logged as a warning and returns false with no side effects.
// Read and write failures are returned as errors.
func (c *Converter) Convert(inputFile, outputFile string) (bool, error) {
	if !FileExists(inputFile) {
		c.log.Warn(fmt.Sprintf("The file '%s' does not exist. Ignoring...", inputFile))
		return false, nil
	}
	if !IsSpreadsheet(inputFile) {
		c.log.Warn(fmt.Sprintf("This application only accepts files with Excel extensions. Received: '%s'. Ignoring...", inputFile))
		return false, nil
	}

	table, err := ReadTable(inputFile)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", inputFile, err)
	}
	c.table = table
	c.markup = RenderHTML(table)

	if err := os.WriteFile(outputFile, []byte(c.markup), 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", outputFile, err)
	}

	c.result = &types.ConversionResult{
		InputFile:     inputFile,
		OutputFile:    outputFile,
		Columns:       table.Columns,
		RowsProcessed: len(table.Rows),
	}
	return true, nil
}

// Table returns the table loaded by the last conversion, or nil.
func (c *Converter) Table() *types.Table {
	return c.table
}

// Markup returns the HTML rendered by the last conversion.
func (c *Converter) Markup() string {
	return c.markup
}

// Result describes the last successful conversion, or nil.
func (c *Converter) Result() *types.ConversionResult {
	return c.result
}
