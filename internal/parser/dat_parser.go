package parser

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadOptions controls which directory entries LoadDir reads.
type LoadOptions struct {
	// Extension is the case-sensitive name suffix; empty means DefaultExtension.
	Extension string
}

// missingTokens are field values read as a missing sample.
var missingTokens = map[string]bool{
	"nan":  true,
	"-nan": true,
	"na":   true,
	"n/a":  true,
	"null": true,
}

var utf8BOM = []byte("\xef\xbb\xbf")

// LoadDir reads every file in dir whose name ends with the configured extension.
// Files that cannot be read or parsed are logged, recorded in Collection.Skipped and left out.
// Only a failure to list dir itself is returned.
func LoadDir(dir string, opts LoadOptions) (*Collection, error) {
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	collection := NewCollection()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		table, err := ReadDatFile(filepath.Join(dir, name))
		if err != nil {
			log.Printf("Could not read file %s: %v", name, err)
			collection.Skipped = append(collection.Skipped, SkippedFile{Name: name, Err: err})
			continue
		}
		collection.Add(name, table)
	}
	return collection, nil
}

// ReadDatFile reads a whole file and parses it with ParseDat. The table is named after the file.
func ReadDatFile(path string) (*Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return ParseDat(filepath.Base(path), content)
}

// ParseDat parses whitespace-separated numeric records, one per line, without a header.
// Blank lines are ignored. Every record must have as many fields as the first one.
// Content without any record yields a table with zero rows and zero columns.
func ParseDat(name string, content []byte) (*Table, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	var columns [][]float64
	width := -1
	for lineIdx, line := range strings.Split(string(content), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if width < 0 {
			width = len(fields)
			columns = make([][]float64, width)
		} else if len(fields) != width {
			return nil, fmt.Errorf("line %d: expected %d fields, found %d", lineIdx+1, width, len(fields))
		}
		for i, field := range fields {
			v, err := parseValue(field)
			if err != nil {
				return nil, fmt.Errorf("line %d, field %d: %w", lineIdx+1, i+1, err)
			}
			columns[i] = append(columns[i], v)
		}
	}

	names := make([]string, len(columns))
	for i := range names {
		names[i] = ColumnName(i)
	}
	return NewTable(name, names, columns)
}

func parseValue(field string) (float64, error) {
	if missingTokens[strings.ToLower(field)] {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("could not convert value '%s' to float: %w", field, err)
	}
	return v, nil
}
