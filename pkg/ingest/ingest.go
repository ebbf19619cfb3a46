// Package ingest turns the inputs users hand in (pasted text, text, CSV,
// spreadsheet and PDF documents) into the ordered raw tokens consumed by the
// cleaner. Readers only locate candidate text; all repair happens downstream.
package ingest

import (
	"bufio"
	"bytes"
	"emailcleaner/pkg/serrors"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// lineBreaks separate the lines of pasted text.
	lineBreaks = regexp.MustCompile(`\r\n|\r|\n`) //nolint: gochecknoglobals
	// pastedSeparators split a single pasted line holding several entries.
	pastedSeparators = regexp.MustCompile(`[,\s;|]+`) //nolint: gochecknoglobals
	// fileSeparators split uploaded plain text documents.
	fileSeparators = regexp.MustCompile(`[\r\n,;]+`) //nolint: gochecknoglobals
	// obfuscatedAt spots addresses written as "bob [at] mail [dot] com" or "bob at mail dot com".
	obfuscatedAt = regexp.MustCompile(`(?i)[\[({<]\s*at\s*[\])}>]|\sat\s+\S+\s+dot\s`) //nolint: gochecknoglobals
)

// PastedText splits a chat message or pasted block into tokens: one token per
// non-empty line, or, when the text is a single line, one token per entry
// separated by commas, semicolons, pipes or whitespace.
func PastedText(text string) []string {
	lines := nonEmpty(lineBreaks.Split(text, -1))
	if len(lines) == 1 {
		return nonEmpty(pastedSeparators.Split(lines[0], -1))
	}

	return lines
}

// PlainText reads a text document and splits it on line breaks, commas and semicolons.
func PlainText(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read text document: %w", err)
	}

	return nonEmpty(fileSeparators.Split(string(data), -1)), nil
}

// CSV returns every cell holding an address, row by row. Rows may have varying widths.
func CSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var tokens []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not parse CSV document")
		}
		tokens = appendCandidates(tokens, record...)
	}

	return tokens, nil
}

// Kind is a supported document type.
type Kind string

const (
	KindText Kind = "txt"
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
	KindPDF  Kind = "pdf"
)

// KindOf maps a file name to its document kind by extension.
func KindOf(name string) (Kind, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".txt", ".text", ".lst", "":
		return KindText, nil
	case ".csv":
		return KindCSV, nil
	case ".xlsx":
		return KindXLSX, nil
	case ".pdf":
		return KindPDF, nil
	default:
		return "", serrors.With(serrors.ErrUnsupported, "unsupported document type %q", ext)
	}
}

// File reads a document of at most limit bytes and returns its tokens. The reader
// is chosen by the extension of name. limit <= 0 disables the size check.
func File(name string, r io.Reader, limit int64) ([]string, error) {
	kind, err := KindOf(name)
	if err != nil {
		return nil, err
	}

	data, err := readLimited(r, limit)
	if err != nil {
		return nil, err
	}

	return Bytes(kind, data)
}

// Bytes parses an in-memory document of the given kind.
func Bytes(kind Kind, data []byte) ([]string, error) {
	switch kind {
	case KindText:
		return PlainText(bytes.NewReader(data))
	case KindCSV:
		return CSV(bytes.NewReader(data))
	case KindXLSX:
		return XLSX(bytes.NewReader(data))
	case KindPDF:
		return PDF(bytes.NewReader(data), int64(len(data)))
	default:
		return nil, serrors.With(serrors.ErrUnsupported, "unsupported document type %q", kind)
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("could not read document: %w", err)
		}

		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("could not read document: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, serrors.With(serrors.ErrTooLarge, "document exceeds %d bytes", limit)
	}

	return data, nil
}

// appendCandidates keeps the values that hold an address, plain or obfuscated.
func appendCandidates(tokens []string, values ...string) []string {
	for _, v := range values {
		if v = strings.TrimSpace(v); strings.Contains(v, "@") || obfuscatedAt.MatchString(v) {
			tokens = append(tokens, v)
		}
	}

	return tokens
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
