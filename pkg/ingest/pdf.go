package ingest

import (
	"emailcleaner/pkg/serrors"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts the plain text of a document and returns every whitespace
// separated field that contains '@'. Obfuscated forms spanning several words
// cannot be recovered from extracted text reliably and are not looked for.
func PDF(r io.ReaderAt, size int64) ([]string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not open PDF document")
	}

	var tokens []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not extract text of page %d", i)
		}

		for _, field := range strings.Fields(text) {
			if strings.Contains(field, "@") {
				tokens = append(tokens, field)
			}
		}
	}

	return tokens, nil
}
