package ingest_test

import (
	"bytes"
	"emailcleaner/pkg/ingest"
	"emailcleaner/pkg/serrors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestPastedText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  []string
	}{
		{
			name: "one entry per line",
			in:   "john@gmail.com\r\n\n  peter @ protonmail . com \nbob[at]yahoo[dot]com",
			out:  []string{"john@gmail.com", "peter @ protonmail . com", "bob[at]yahoo[dot]com"},
		},
		{
			name: "single line split on separators",
			in:   "a@gmail.com, b@gmail.com;c@gmail.com | d@gmail.com e@gmail.com",
			out:  []string{"a@gmail.com", "b@gmail.com", "c@gmail.com", "d@gmail.com", "e@gmail.com"},
		},
		{
			name: "blank",
			in:   " \n\t\n",
			out:  []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.out, ingest.PastedText(tc.in))
		})
	}
}

func TestPlainText(t *testing.T) {
	tokens, err := ingest.PlainText(strings.NewReader("a@gmail.com,b@gmail.com\r\nc at gmail dot com;\n\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"a@gmail.com", "b@gmail.com", "c at gmail dot com"}, tokens)
}

func TestCSV(t *testing.T) {
	doc := "name,email,notes\n" +
		"John,john@gmail.com,\n" +
		"Bob,\"bob [at] yahoo [dot] com\",call later\n" +
		"Eve,eve@icloud.com,alt: eve@web.de,extra column\n"

	tokens, err := ingest.CSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, []string{"john@gmail.com", "bob [at] yahoo [dot] com", "eve@icloud.com", "alt: eve@web.de"}, tokens)
}

func TestXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"name", "email"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"John", "john@gmail.com"}))
	_, err := f.NewSheet("More")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("More", "C5", "eve (at) icloud (dot) com"))
	require.NoError(t, f.SetCellValue("More", "A6", 42))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	tokens, err := ingest.XLSX(&buf)
	require.NoError(t, err)
	require.Equal(t, []string{"john@gmail.com", "eve (at) icloud (dot) com"}, tokens)
}

func TestXLSXInvalid(t *testing.T) {
	_, err := ingest.XLSX(strings.NewReader("not a zip archive"))
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestPDFInvalid(t *testing.T) {
	data := []byte("not a pdf")
	_, err := ingest.PDF(bytes.NewReader(data), int64(len(data)))
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestKindOf(t *testing.T) {
	cases := map[string]ingest.Kind{
		"list.txt":    ingest.KindText,
		"LIST.CSV":    ingest.KindCSV,
		"export.xlsx": ingest.KindXLSX,
		"scan.pdf":    ingest.KindPDF,
		"noext":       ingest.KindText,
	}
	for name, want := range cases {
		got, err := ingest.KindOf(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	_, err := ingest.KindOf("contacts.docx")
	require.ErrorIs(t, err, serrors.ErrUnsupported)
}

func TestFile(t *testing.T) {
	tokens, err := ingest.File("emails.csv", strings.NewReader("x,a@gmail.com\n"), 1024)
	require.NoError(t, err)
	require.Equal(t, []string{"a@gmail.com"}, tokens)

	tokens, err = ingest.File("emails.txt", strings.NewReader("a@gmail.com\nb@gmail.com"), 0)
	require.NoError(t, err)
	require.Equal(t, []string{"a@gmail.com", "b@gmail.com"}, tokens)

	_, err = ingest.File("emails.txt", strings.NewReader(strings.Repeat("a", 11)), 10)
	require.ErrorIs(t, err, serrors.ErrTooLarge)

	_, err = ingest.File("emails.doc", strings.NewReader("a@gmail.com"), 0)
	require.ErrorIs(t, err, serrors.ErrUnsupported)
}
