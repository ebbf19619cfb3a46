package v1handler

import (
	"context"
	"emailcleaner/pkg/domain"
	"emailcleaner/pkg/export"
	"emailcleaner/pkg/ingest"
	"emailcleaner/pkg/logger"
	"emailcleaner/pkg/metrics"
	"emailcleaner/pkg/serrors"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// NoResultsMessage accompanies a response without any cleaned address.
const NoResultsMessage = "no valid emails found"

// multipartMemory is the part of a multipart upload kept in memory; the rest spills to disk.
const multipartMemory = 1 << 20

// Clean handles POST /v1/clean. The body is either a JSON {"items": [...]}
// document, pasted text/plain or a multipart upload with a "file" field. The
// optional format query parameter (txt, csv, xlsx) turns the response into a
// download of the cleaned list.
func (h *Handler) Clean(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer().Start(r.Context(), "Clean", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	format, download, err := downloadFormat(r)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, err)

		return
	}

	tokens, err := readTokens(r)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, err)

		return
	}
	span.SetAttributes(attribute.Int("emailcleaner.tokens", len(tokens)))

	start := time.Now()
	res := h.deps.Cleaner.Clean(ctx, tokens)
	h.deps.Metrics.RecordResult(ctx, metrics.SourceAPI, res, time.Since(start))

	span.SetAttributes(
		attribute.Int("emailcleaner.kept", res.Summary.Kept),
		attribute.Int("emailcleaner.removed", res.Summary.Removed),
		attribute.Int("emailcleaner.corrected", res.Summary.Corrected),
	)
	if id := GetClientIDFromContext(ctx); id != (domain.ClientID{}) {
		logger.Debug(ctx, "cleaned batch for client", zap.Stringer("client_id", id))
	}

	if res.Empty() || !download {
		message := ""
		if res.Empty() {
			message = NoResultsMessage
		}

		var e jx.Encoder
		encodeResult(&e, res, message)
		writeJSON(w, http.StatusOK, e.Bytes())

		return
	}

	body, err := export.Bytes(format, res)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, err)

		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": format.Filename(export.DefaultBaseName)}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// CorrectDomain handles POST /v1/domains/correct.
func (h *Handler) CorrectDomain(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer().Start(r.Context(), "CorrectDomain", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	body, err := readBody(r)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, err)

		return
	}

	name, err := decodeDomain(body)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, err)

		return
	}

	corrected, changed := h.deps.Cleaner.CorrectDomain(name)
	span.SetAttributes(attribute.Bool("emailcleaner.corrected", changed))

	var e jx.Encoder
	encodeCorrection(&e, name, corrected, changed)
	writeJSON(w, http.StatusOK, e.Bytes())
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	h.writeError(w, r, err)
}

// downloadFormat reads the format query parameter. download is false when the
// caller asked for the JSON bundle.
func downloadFormat(r *http.Request) (export.Format, bool, error) {
	name := strings.TrimSpace(r.URL.Query().Get("format"))
	if name == "" || strings.EqualFold(name, "json") {
		return "", false, nil
	}

	f, err := export.ParseFormat(name)
	if err != nil {
		return "", false, serrors.With(serrors.ErrBadRequest, "unsupported format %q, use json, txt, csv or xlsx", name)
	}

	return f, true, nil
}

// readTokens extracts raw tokens from the request according to its content type.
func readTokens(r *http.Request) ([]string, error) {
	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid content type")
		}
		mediaType = mt
	}

	switch mediaType {
	case "application/json":
		body, err := readBody(r)
		if err != nil {
			return nil, err
		}

		return decodeItems(body)
	case "text/plain":
		body, err := readBody(r)
		if err != nil {
			return nil, err
		}

		return ingest.PastedText(string(body)), nil
	case "multipart/form-data":
		return readUpload(r)
	default:
		return nil, serrors.With(serrors.ErrUnsupported, "unsupported content type %q", mediaType)
	}
}

func readUpload(r *http.Request) ([]string, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, bodyError(err)
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "file field is required")
	}
	defer func() {
		_ = f.Close()
	}()

	// the body limit already bounds the upload
	tokens, err := ingest.File(hdr.Filename, f, 0)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", hdr.Filename, err)
	}

	return tokens, nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, bodyError(err)
	}

	return body, nil
}

// bodyError classifies a failure to read the request body.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return serrors.Wrap(serrors.ErrTooLarge, err, "request body exceeds %d bytes", tooLarge.Limit)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return serrors.Wrap(serrors.ErrTimeout, err, "request timed out")
	}

	return serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body")
}
