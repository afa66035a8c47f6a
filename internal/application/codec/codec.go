// Package codec implements the deterministic bidirectional mapping
// between the in-memory Recipe record and its YAML text form (§4.1).
package codec

import (
	"io"
	"os"
	"regexp"

	goyaml "github.com/goccy/go-yaml"

	"github.com/alchemorsel/cookbook/internal/domain/recipe"
	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

// maxExcerpt bounds the source excerpt carried on a MalformedFormat
// error, per §4.1: "a bounded (≤500 chars) excerpt."
const maxExcerpt = 500

var positionPattern = regexp.MustCompile(`\[?(\d+)[:,](\d+)\]?`)

// Parse implements parse(text|reader) → Recipe (§4.1).
func Parse(r io.Reader) (*recipe.Recipe, *apperrors.AppError) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read recipe input").WithCause(err)
	}
	return ParseBytes(data)
}

// ParseFile implements parse(file) → Recipe (§4.1).
func ParseFile(path string) (*recipe.Recipe, *apperrors.AppError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read recipe file").WithCause(err)
	}
	return ParseBytes(data)
}

// ParseBytes is the shared implementation behind Parse and ParseFile.
func ParseBytes(data []byte) (*recipe.Recipe, *apperrors.AppError) {
	var w wireRecipe
	if err := goyaml.Unmarshal(data, &w); err != nil {
		return nil, malformedFormatError(err, data)
	}
	if verr := validateWire(w); verr != nil {
		return nil, verr
	}
	return fromWire(w)
}

// Serialize implements serialize(Recipe) → text (§4.1). Output carries no
// document-start marker and a stable, declaration-order key sequence —
// goccy/go-yaml preserves Go struct field order for non-map values.
func Serialize(r *recipe.Recipe) (string, *apperrors.AppError) {
	w := toWire(r)
	out, err := goyaml.Marshal(&w)
	if err != nil {
		return "", apperrors.NewAppError(apperrors.CodeSerializationError, "failed to serialize recipe", err.Error()).WithCause(err)
	}
	return string(out), nil
}

// Validate implements validate(Recipe) → ok | fails{SchemaViolation} (§4.1).
// NewRecipe already enforces these invariants at construction time; this
// entry point exists for recipes that were constructed indirectly (e.g.
// by the LLM orchestrator building Fields by hand) and need a second pass.
func Validate(r *recipe.Recipe) *apperrors.AppError {
	_, err := recipe.NewRecipe(r.ToFields())
	if err != nil {
		return apperrors.NewSchemaViolationError("", err.Error())
	}
	return nil
}

func malformedFormatError(err error, source []byte) *apperrors.AppError {
	line, col := extractPosition(err)
	excerpt := string(source)
	if len(excerpt) > maxExcerpt {
		excerpt = excerpt[:maxExcerpt]
	}
	return apperrors.NewAppError(
		apperrors.CodeMalformedFormat,
		"recipe document is not valid YAML",
		err.Error(),
	).WithCause(err).
		WithMetadata("line", line).
		WithMetadata("column", col).
		WithMetadata("excerpt", excerpt)
}

// extractPosition pulls a best-effort line/column pair out of a
// goccy/go-yaml error's formatted message (the library reports position
// inline rather than via a stable exported field).
func extractPosition(err error) (int, int) {
	m := positionPattern.FindStringSubmatch(goyaml.FormatError(err, false, true))
	if m == nil {
		return 0, 0
	}
	return atoiSafe(m[1]), atoiSafe(m[2])
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// SerializeDeterministic is a convenience used by tests asserting the
// byte-for-byte determinism law of §8: serialize(r) == serialize(r).
func SerializeDeterministic(r *recipe.Recipe) (string, string, *apperrors.AppError) {
	a, err := Serialize(r)
	if err != nil {
		return "", "", err
	}
	b, err := Serialize(r)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}
