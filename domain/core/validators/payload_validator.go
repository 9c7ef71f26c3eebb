package validators

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"relgraph/domain/core/entities"
	pkgerrors "relgraph/pkg/errors"
)

// PayloadValidator checks entity payloads decoded from the notification
// stream against each entity's schema before they are allowed anywhere near
// the store. The stream is loosely typed; nothing unvalidated passes.
type PayloadValidator struct {
	validate *validator.Validate
}

// NewPayloadValidator creates a validator using the struct tags on the
// entity types
func NewPayloadValidator() *PayloadValidator {
	return &PayloadValidator{validate: validator.New()}
}

// ValidatePerson checks a decoded person payload
func (v *PayloadValidator) ValidatePerson(p *entities.Person) error {
	return v.check("person", p)
}

// ValidateConnection checks a decoded connection payload
func (v *PayloadValidator) ValidateConnection(c *entities.Connection) error {
	return v.check("connection", c)
}

// ValidateTask checks a decoded task payload
func (v *PayloadValidator) ValidateTask(t *entities.Task) error {
	return v.check("task", t)
}

// ValidateComment checks a decoded task comment payload
func (v *PayloadValidator) ValidateComment(c *entities.TaskComment) error {
	return v.check("task comment", c)
}

func (v *PayloadValidator) check(kind string, payload interface{}) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.NewValidationError(fmt.Sprintf("invalid %s payload", kind)).WithCause(err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return pkgerrors.NewValidationError(
		fmt.Sprintf("invalid %s payload: %s", kind, strings.Join(fields, ", ")),
	)
}
