package vocab

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one glossary row: a German word and its English translation.
type Entry struct {
	DE string
	EN string
}

// ParseFile reads a glossary CSV from the given path.
func ParseFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a glossary CSV from an io.Reader. A header row naming the
// "de" and "en" columns is required; column order is free and extra columns
// are ignored. Rows missing either word are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("glossary is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading glossary header: %w", err)
	}

	deCol, enCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "de":
			deCol = i
		case "en":
			enCol = i
		}
	}
	if deCol < 0 || enCol < 0 {
		return nil, fmt.Errorf("glossary header must name 'de' and 'en' columns, got %v", header)
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading glossary row: %w", err)
		}
		if deCol >= len(record) || enCol >= len(record) {
			continue
		}
		de := strings.TrimSpace(record[deCol])
		en := strings.TrimSpace(record[enCol])
		if de == "" || en == "" {
			continue
		}
		entries = append(entries, Entry{DE: de, EN: en})
	}
	return entries, nil
}
