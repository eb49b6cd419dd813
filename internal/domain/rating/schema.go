package rating

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/levelboard/internal/domain/model"
)

// Schema is a closed, versioned set of sub-score names. Only these fields
// contribute to a level's total; anything else in the record is ignored.
type Schema struct {
	Category model.Category
	Version  string
	Fields   []string
}

// CategorySchemas describes every known schema version for one category.
type CategorySchemas struct {
	Default  string
	Versions map[string][]string
}

// Evaluation bundles the derived values of one level.
type Evaluation struct {
	Schema Schema
	Total  float64
	Tier   Tier
	Points float64
}

// Registry resolves the rating schema of a level by category and version.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	categories map[model.Category]CategorySchemas
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithCategory replaces the schema set of one category.
func WithCategory(c model.Category, schemas CategorySchemas) Option {
	return func(r *Registry) {
		versions := make(map[string][]string, len(schemas.Versions))
		for v, fields := range schemas.Versions {
			versions[v] = append([]string(nil), fields...)
		}
		r.categories[c] = CategorySchemas{Default: schemas.Default, Versions: versions}
	}
}

// DefaultSchemas returns the built-in schema history. The last version of
// each category is the default.
func DefaultSchemas() map[model.Category]CategorySchemas {
	return map[model.Category]CategorySchemas{
		model.CategorySpeedrun: {
			Default: "v3",
			Versions: map[string][]string{
				"v1": {"gameplay", "design"},
				"v2": {"speedrun", "design", "difficulty"},
				"v3": {"gameplay", "design", "speedrunning"},
			},
		},
		model.CategoryHard: {
			Default: "v2",
			Versions: map[string][]string{
				"v1": {"speedrun", "design", "difficulty"},
				"v2": {"gameplay", "design", "balancing"},
			},
		},
	}
}

// NewRegistry builds a registry from the built-in schemas overridden by opts.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{categories: make(map[model.Category]CategorySchemas)}
	for c, s := range DefaultSchemas() {
		WithCategory(c, s)(r)
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRegistry is NewRegistry for static configurations; it panics on error.
func MustRegistry(opts ...Option) *Registry {
	r, err := NewRegistry(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) validate() error {
	for c, s := range r.categories {
		if _, err := model.ParseCategory(string(c)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
		}
		if _, ok := s.Versions[s.Default]; !ok {
			return fmt.Errorf("%w: %s default version %q is not defined", ErrInvalidSchema, c, s.Default)
		}
		for v, fields := range s.Versions {
			if len(fields) == 0 {
				return fmt.Errorf("%w: %s/%s has no fields", ErrInvalidSchema, c, v)
			}
			seen := make(map[string]struct{}, len(fields))
			for _, f := range fields {
				if strings.TrimSpace(f) == "" {
					return fmt.Errorf("%w: %s/%s has an empty field name", ErrInvalidSchema, c, v)
				}
				if _, dup := seen[f]; dup {
					return fmt.Errorf("%w: %s/%s repeats field %q", ErrInvalidSchema, c, v, f)
				}
				seen[f] = struct{}{}
			}
		}
	}
	return nil
}

// Versions lists the schema versions known for c in lexical order.
func (r *Registry) Versions(c model.Category) []string {
	s, ok := r.categories[c]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(s.Versions))
	for v := range s.Versions {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the schema for a level: its own version tag when set,
// otherwise the category default.
func (r *Registry) Resolve(level model.Level) (Schema, error) {
	s, ok := r.categories[level.Category]
	if !ok {
		return Schema{}, fmt.Errorf("%w: category %q", ErrUnknownSchema, level.Category)
	}
	version := level.Schema
	if version == "" {
		version = s.Default
	}
	fields, ok := s.Versions[version]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %s/%s", ErrUnknownSchema, level.Category, version)
	}
	return Schema{Category: level.Category, Version: version, Fields: fields}, nil
}

// TotalRating sums the level's sub-scores named by its schema, in schema
// order. A missing or non-numeric sub-score is an error, never zero.
func (r *Registry) TotalRating(level model.Level) (float64, error) {
	schema, err := r.Resolve(level)
	if err != nil {
		return 0, err
	}
	return schema.Total(level.Ratings)
}

// Evaluate computes total, tier and creator points for a level.
func (r *Registry) Evaluate(level model.Level) (Evaluation, error) {
	schema, err := r.Resolve(level)
	if err != nil {
		return Evaluation{}, err
	}
	total, err := schema.Total(level.Ratings)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		Schema: schema,
		Total:  total,
		Tier:   Rank(total),
		Points: CreatorPoints(total),
	}, nil
}

// Total sums the schema's fields from ratings.
func (s Schema) Total(ratings map[string]any) (float64, error) {
	var total float64
	for _, f := range s.Fields {
		raw, ok := ratings[f]
		if !ok {
			return 0, &RatingError{Field: f, Schema: s.name(), Err: ErrMissingRating}
		}
		v, ok := numeric(raw)
		if !ok {
			return 0, &RatingError{Field: f, Schema: s.name(), Err: ErrNonNumericRating}
		}
		total += v
	}
	return total, nil
}

// OutOfRange lists the schema fields whose numeric value falls outside
// [MinSubScore, MaxSubScore]. Non-numeric and missing fields are skipped.
func (s Schema) OutOfRange(ratings map[string]any) []string {
	var out []string
	for _, f := range s.Fields {
		v, ok := numeric(ratings[f])
		if !ok {
			continue
		}
		if v < MinSubScore || v > MaxSubScore {
			out = append(out, f)
		}
	}
	return out
}

func (s Schema) name() string {
	return string(s.Category) + "/" + s.Version
}
