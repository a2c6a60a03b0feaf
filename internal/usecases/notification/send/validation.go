package send

import (
	"context"
	"strings"

	"notifyhub/internal/models"
	"notifyhub/internal/usecases"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate checks the raw input and returns a coerced copy: fields trimmed,
// email lowercased, language defaulted. Failures come back as one multi-field
// error with dotted paths for the recipient block.
func (s *Service) Validate(_ context.Context, in Input) (Input, error) {
	in.Context = strings.TrimSpace(in.Context)
	in.Channel = strings.TrimSpace(in.Channel)
	in.Language = strings.TrimSpace(in.Language)
	in.TenantID = strings.TrimSpace(in.TenantID)
	in.To.Name = strings.TrimSpace(in.To.Name)
	in.To.Email = strings.ToLower(strings.TrimSpace(in.To.Email))
	in.To.Phone = strings.TrimSpace(in.To.Phone)

	if in.Language == "" {
		in.Language = models.DefaultLanguage.String()
	}

	errs := validation.Errors{}
	collect(errs, "context", validation.Validate(in.Context, validation.Required, parsedBy(models.ParseContext)))
	collect(errs, "channel", validation.Validate(in.Channel, validation.Required, parsedBy(models.ParseChannel)))
	collect(errs, "language", validation.Validate(in.Language, parsedBy(models.ParseLanguage)))
	collect(errs, "tenantId", validation.Validate(in.TenantID, parsedBy(models.ParseTenantID)))

	toErrs := validation.Errors{}
	collect(toErrs, "name", validation.Validate(in.To.Name, validation.Required))
	switch in.Channel {
	case models.ChannelEmail.String():
		collect(toErrs, "email", validation.Validate(in.To.Email, validation.Required, is.EmailFormat))
	case models.ChannelMessaging.String():
		collect(toErrs, "phone", validation.Validate(in.To.Phone, validation.Required, parsedBy(models.ParsePhone)))
	}
	if len(toErrs) > 0 {
		errs["to"] = toErrs
	}

	if len(errs) > 0 {
		return Input{}, usecases.WrapValidation(errs)
	}
	return in, nil
}

// parsedBy lifts a model parse function into an ozzo rule so the field check
// and the value-object construction cannot drift apart.
func parsedBy[T any](parse func(string) (T, error)) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil // Required covers presence
		}
		_, err := parse(s)
		return err
	})
}

func collect(errs validation.Errors, field string, err error) {
	if err != nil {
		errs[field] = err
	}
}
