package submissions

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"alevatex/internal/domain"
)

// ValidationError lists the form fields that failed validation, keyed by
// field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// ParseInquiry checks the raw form fields. name, email and message are
// required; service is optional. Surrounding whitespace only matters to the
// checks: the returned Inquiry holds the values exactly as submitted.
func ParseInquiry(fields map[string]string) (domain.Inquiry, error) {
	in := domain.Inquiry{
		Name:    fields["name"],
		Email:   fields["email"],
		Service: fields["service"],
		Message: fields["message"],
	}

	problems := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		problems["name"] = "required"
	}
	if email := strings.TrimSpace(in.Email); email == "" {
		problems["email"] = "required"
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		problems["email"] = "not a valid address"
	}
	if strings.TrimSpace(in.Message) == "" {
		problems["message"] = "required"
	}
	if len(problems) > 0 {
		return domain.Inquiry{}, &ValidationError{Fields: problems}
	}
	return in, nil
}
