// Package export renders cleaning results as downloadable documents.
package export

import (
	"bytes"
	"emailcleaner/pkg/domain"
	"emailcleaner/pkg/serrors"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Format is an output document format.
type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultBaseName is the file name (without extension) used for cleaned lists.
const DefaultBaseName = "cleaned_emails"

// ParseFormat resolves a user supplied format name. An empty name is FormatText.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", "text":
		return FormatText, nil
	case FormatText, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", serrors.With(serrors.ErrUnsupported, "unsupported export format %q", name)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename returns base with the extension of the format.
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Write renders res in format f to w.
func Write(w io.Writer, f Format, res *domain.Result) error {
	switch f {
	case FormatText:
		return Text(w, res)
	case FormatCSV:
		return CSV(w, res)
	case FormatXLSX:
		return XLSX(w, res)
	default:
		return serrors.With(serrors.ErrUnsupported, "unsupported export format %q", f)
	}
}

// Bytes renders res in format f into memory.
func Bytes(f Format, res *domain.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, res); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Text writes one cleaned address per line.
func Text(w io.Writer, res *domain.Result) error {
	if len(res.Cleaned) == 0 {
		return nil
	}

	if _, err := io.WriteString(w, strings.Join(res.Cleaned, "\n")+"\n"); err != nil {
		return fmt.Errorf("could not write text export: %w", err)
	}

	return nil
}

// CSV writes an email,local,domain table of the cleaned addresses.
func CSV(w io.Writer, res *domain.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "local", "domain"}); err != nil {
		return fmt.Errorf("could not write csv header: %w", err)
	}

	for _, email := range res.Cleaned {
		local, dom, _ := domain.SplitAddress(email)
		if err := cw.Write([]string{email, local, dom}); err != nil {
			return fmt.Errorf("could not write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("could not flush csv export: %w", err)
	}

	return nil
}

// Summary renders the counts of a run as a short human-readable text.
func Summary(s domain.Summary) string {
	return fmt.Sprintf("Kept: %d | Removed: %d | Duplicates: %d | Corrected: %d | Total: %d",
		s.Kept, s.Removed, s.Duplicates, s.Corrected, s.TotalInput)
}
