package codec

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

// structValidator drives the declarative half of validate(): required
// fields and numeric bounds expressed as struct tags on the wire types
// (wire.go). Cross-field invariants (step contiguity, media dispatch)
// are hand-written in mapping.go / the recipe domain package, mirroring
// the teacher's split between validator-driven field checks and
// hand-rolled business-rule checks.
var structValidator = validator.New()

// validateWire runs the declarative pass before domain mapping so field
// paths in the resulting SchemaViolation match the YAML structure the
// caller submitted.
func validateWire(w wireRecipe) *apperrors.AppError {
	if err := structValidator.Struct(w); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.NewSchemaViolationError(fe.Namespace(), fmt.Sprintf("failed %s validation", fe.Tag()))
		}
		return apperrors.NewSchemaViolationError("", err.Error())
	}
	return nil
}
