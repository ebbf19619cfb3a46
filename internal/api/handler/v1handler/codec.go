package v1handler

import (
	"emailcleaner/pkg/domain"
	"emailcleaner/pkg/serrors"

	"github.com/go-faster/jx"
)

// decodeItems reads a {"items": [...]} document. Items that are not strings are ignored.
func decodeItems(data []byte) ([]string, error) {
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return nil, serrors.With(serrors.ErrBadRequest, "request body must be a JSON object")
	}

	var items []string
	found := false
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "items" {
			return d.Skip()
		}
		found = true
		if d.Next() != jx.Array {
			return serrors.With(serrors.ErrBadRequest, "items must be an array")
		}

		return d.Arr(func(d *jx.Decoder) error {
			if d.Next() != jx.String {
				return d.Skip()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			items = append(items, s)

			return nil
		})
	})
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid JSON body")
	}
	if !found {
		return nil, serrors.With(serrors.ErrBadRequest, "items is required")
	}

	return items, nil
}

// decodeDomain reads a {"domain": "..."} document.
func decodeDomain(data []byte) (string, error) {
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return "", serrors.With(serrors.ErrBadRequest, "request body must be a JSON object")
	}

	var name string
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "domain" {
			return d.Skip()
		}
		if d.Next() != jx.String {
			return serrors.With(serrors.ErrBadRequest, "domain must be a string")
		}
		s, err := d.Str()
		name = s

		return err
	})
	if err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid JSON body")
	}
	if name == "" {
		return "", serrors.With(serrors.ErrBadRequest, "domain is required")
	}

	return name, nil
}

func encodeResult(e *jx.Encoder, res *domain.Result, message string) {
	e.ObjStart()

	e.FieldStart("cleaned")
	e.ArrStart()
	for _, email := range res.Cleaned {
		e.Str(email)
	}
	e.ArrEnd()

	e.FieldStart("removed")
	e.ArrStart()
	for _, r := range res.Removed {
		e.ObjStart()
		e.FieldStart("original")
		e.Str(r.Original)
		e.FieldStart("reason")
		e.Str(string(r.Reason))
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("corrections")
	e.ArrStart()
	for _, c := range res.Corrections {
		e.ObjStart()
		e.FieldStart("original")
		e.Str(c.Original)
		e.FieldStart("corrected")
		e.Str(c.Corrected)
		e.ObjEnd()
	}
	e.ArrEnd()

	s := res.Summary
	e.FieldStart("summary")
	e.ObjStart()
	e.FieldStart("totalInput")
	e.Int(s.TotalInput)
	e.FieldStart("kept")
	e.Int(s.Kept)
	e.FieldStart("removed")
	e.Int(s.Removed)
	e.FieldStart("duplicates")
	e.Int(s.Duplicates)
	e.FieldStart("corrected")
	e.Int(s.Corrected)
	e.ObjEnd()

	if message != "" {
		e.FieldStart("message")
		e.Str(message)
	}

	e.ObjEnd()
}

func encodeCorrection(e *jx.Encoder, original, corrected string, changed bool) {
	e.ObjStart()
	e.FieldStart("original")
	e.Str(original)
	e.FieldStart("domain")
	e.Str(corrected)
	e.FieldStart("corrected")
	e.Bool(changed)
	e.ObjEnd()
}

func encodeError(e *jx.Encoder, r ErrorResponse) {
	e.ObjStart()
	e.FieldStart("code")
	e.Str(r.Code)
	e.FieldStart("message")
	e.Str(r.Message)
	e.ObjEnd()
}
