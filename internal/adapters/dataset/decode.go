package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okian/levelboard/internal/domain/aggregate"
	"github.com/okian/levelboard/internal/domain/model"
)

const dateOnly = "2006-01-02"

// recordID accepts both string and numeric ids.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = recordID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("id must be a string or a number")
	}
	*id = recordID(n.String())
	return nil
}

type levelRecord struct {
	ID        recordID       `json:"id" warn:"required"`
	Name      string         `json:"name" warn:"required,max=200"`
	Creator   string         `json:"creator"`
	Ratings   map[string]any `json:"ratings"`
	Schema    string         `json:"schema"`
	Created   string         `json:"created"`
	Thumbnail string         `json:"thumbnail"`
	Link      string         `json:"link"`
}

type profileRecord struct {
	Name   string `json:"name" validate:"required"`
	Avatar string `json:"avatar"`
	Banner string `json:"banner"`
}

// splitArray parses a top-level JSON array without decoding its elements.
func splitArray(data []byte) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return raw, nil
}

func decodeStrict(raw json.RawMessage, into any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

// parseCreated accepts RFC 3339 timestamps and plain dates. An empty value
// is the zero time.
func parseCreated(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: created %q is not a date", ErrInvalidRecord, s)
	}
	return t, nil
}

// decodeLevels turns a feed into levels of one category. Records that cannot
// be decoded are dropped with an error diagnostic. Records failing only the
// soft rules are kept with a warning; an unreadable created date becomes the
// zero time. A feed that is not a JSON array fails as a whole.
func decodeLevels(data []byte, category model.Category, rv *recordValidator) ([]model.Level, []aggregate.Diagnostic, error) {
	raw, err := splitArray(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", category, err)
	}
	levels := make([]model.Level, 0, len(raw))
	var diags []aggregate.Diagnostic
	for i, r := range raw {
		var rec levelRecord
		err := decodeStrict(r, &rec)
		if err == nil {
			err = rv.Validate(rec)
		}
		if err != nil {
			bad := model.Level{ID: string(rec.ID), Creator: rec.Creator, Category: category}
			diags = append(diags, aggregate.NewDiagnostic(aggregate.SeverityError, bad, i, err))
			continue
		}

		lvl := model.Level{
			ID:        string(rec.ID),
			Name:      rec.Name,
			Creator:   rec.Creator,
			Category:  category,
			Ratings:   rec.Ratings,
			Schema:    strings.TrimSpace(rec.Schema),
			Thumbnail: rec.Thumbnail,
			Link:      rec.Link,
		}
		if err := rv.Warnings(rec); err != nil {
			diags = append(diags, aggregate.NewDiagnostic(aggregate.SeverityWarning, lvl, i, err))
		}
		created, err := parseCreated(rec.Created)
		if err != nil {
			diags = append(diags, aggregate.NewDiagnostic(aggregate.SeverityWarning, lvl, i, err))
		}
		lvl.Created = created
		levels = append(levels, lvl)
	}
	return levels, diags, nil
}

// decodeProfiles turns the profile feed into a lookup by creator name.
// Invalid entries are skipped and returned as errors; later duplicates win.
func decodeProfiles(data []byte, rv *recordValidator) (map[string]model.Profile, []error, error) {
	raw, err := splitArray(data)
	if err != nil {
		return nil, nil, fmt.Errorf("profiles: %w", err)
	}
	out := make(map[string]model.Profile, len(raw))
	var skipped []error
	for i, r := range raw {
		var rec profileRecord
		if err := decodeStrict(r, &rec); err != nil {
			skipped = append(skipped, fmt.Errorf("profiles[%d]: %w", i, err))
			continue
		}
		if err := rv.Validate(rec); err != nil {
			skipped = append(skipped, fmt.Errorf("profiles[%d]: %w", i, err))
			continue
		}
		out[rec.Name] = model.Profile(rec)
	}
	return out, skipped, nil
}
