package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	userapp "github.com/oksasatya/secure-users-api/internal/application"
	repo "github.com/oksasatya/secure-users-api/internal/domain/repository"
	"github.com/oksasatya/secure-users-api/internal/interface/middleware"
	"github.com/oksasatya/secure-users-api/pkg/apperr"
	"github.com/oksasatya/secure-users-api/pkg/sanitize"
	"github.com/oksasatya/secure-users-api/pkg/validation"
)

// maxUserID is the largest id the users.id SERIAL column can hold.
const maxUserID = 1<<31 - 1

// userRequest is used for create and full update; every field is required.
type userRequest struct {
	Name    *string `json:"name" binding:"required,personname,min=2,max=100"`
	Email   *string `json:"email" binding:"required,email,max=254"`
	Phone   *string `json:"phone" binding:"required,uzphone,len=13"`
	Address *string `json:"address" binding:"required,addressline,min=5,max=255"`
	City    *string `json:"city" binding:"required,personname,min=2,max=100"`
	Country *string `json:"country" binding:"required,personname,min=2,max=100"`
}

// patchUserRequest applies the same rules to whichever fields are present.
type patchUserRequest struct {
	Name    *string `json:"name" binding:"omitempty,personname,min=2,max=100"`
	Email   *string `json:"email" binding:"omitempty,email,max=254"`
	Phone   *string `json:"phone" binding:"omitempty,uzphone,len=13"`
	Address *string `json:"address" binding:"omitempty,addressline,min=5,max=255"`
	City    *string `json:"city" binding:"omitempty,personname,min=2,max=100"`
	Country *string `json:"country" binding:"omitempty,personname,min=2,max=100"`
}

// userFields holds the extracted value of each writable field, indexed like fieldOrder.
type userFields struct {
	values [6]*string
}

var fieldOrder = [6]repo.Field{
	repo.FieldName, repo.FieldEmail, repo.FieldPhone, repo.FieldAddress, repo.FieldCity, repo.FieldCountry,
}

// extractFields reads the writable fields from a sanitized JSON object.
// Values are trimmed; phone also loses its separators. Nulls count as absent.
func extractFields(body map[string]any) (userFields, []validation.ValidationsError) {
	var f userFields
	var errs []validation.ValidationsError
	for i, name := range fieldOrder {
		raw, ok := body[string(name)]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			errs = append(errs, validation.ValidationsError{Field: string(name), Tag: "type", Message: "must be a string"})
			continue
		}
		if name == repo.FieldPhone {
			s = validation.NormalizePhone(s)
		} else {
			s = strings.TrimSpace(s)
		}
		f.values[i] = &s
	}
	return f, errs
}

func (f userFields) provided() int {
	n := 0
	for _, v := range f.values {
		if v != nil {
			n++
		}
	}
	return n
}

// finalize collapses whitespace and normalizes the email of every provided field.
func (f userFields) finalize() repo.Changes {
	out := repo.Changes{}
	for i, name := range fieldOrder {
		v := f.values[i]
		if v == nil {
			continue
		}
		s := validation.CollapseSpaces(*v)
		if name == repo.FieldEmail {
			s = validation.NormalizeEmail(s)
		}
		out[name] = s
	}
	return out
}

// crossCheck scans all provided values together for markup or script idioms
// that only appear once the fields are joined.
func (f userFields) crossCheck() error {
	var names, parts []string
	for i, v := range f.values {
		if v != nil {
			names = append(names, string(fieldOrder[i]))
			parts = append(parts, *v)
		}
	}
	for _, joined := range []string{strings.Join(parts, ""), strings.Join(parts, " ")} {
		if pattern, found := sanitize.Match(sanitize.MarkupPatterns, joined); found {
			return apperr.SuspiciousFields(names, pattern)
		}
	}
	return nil
}

func bodyObject(c *gin.Context) (map[string]any, error) {
	switch b := middleware.Data(c).Body.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return b, nil
	default:
		return nil, apperr.Validation("Request body must be a JSON object", nil)
	}
}

// bindUser validates a create or full-update body.
func bindUser(c *gin.Context) (userapp.UserInput, error) {
	body, err := bodyObject(c)
	if err != nil {
		return userapp.UserInput{}, err
	}
	f, details := extractFields(body)
	req := userRequest{
		Name: f.values[0], Email: f.values[1], Phone: f.values[2],
		Address: f.values[3], City: f.values[4], Country: f.values[5],
	}
	if err := validate(&req, details); err != nil {
		return userapp.UserInput{}, err
	}
	if err := f.crossCheck(); err != nil {
		return userapp.UserInput{}, err
	}
	ch := f.finalize()
	return userapp.UserInput{
		Name:    ch[repo.FieldName],
		Email:   ch[repo.FieldEmail],
		Phone:   ch[repo.FieldPhone],
		Address: ch[repo.FieldAddress],
		City:    ch[repo.FieldCity],
		Country: ch[repo.FieldCountry],
	}, nil
}

// bindPatch validates a partial update body. Unknown keys are ignored.
func bindPatch(c *gin.Context) (repo.Changes, error) {
	body, err := bodyObject(c)
	if err != nil {
		return nil, err
	}
	f, details := extractFields(body)
	if f.provided() == 0 && len(details) == 0 {
		return nil, apperr.Validation("No valid fields to update", nil)
	}
	req := patchUserRequest{
		Name: f.values[0], Email: f.values[1], Phone: f.values[2],
		Address: f.values[3], City: f.values[4], Country: f.values[5],
	}
	if err := validate(&req, details); err != nil {
		return nil, err
	}
	if err := f.crossCheck(); err != nil {
		return nil, err
	}
	return f.finalize(), nil
}

// validate runs the struct rules and merges their failures with the extraction
// failures, reporting each field once.
func validate(req any, details []validation.ValidationsError) error {
	if err := validation.Struct(req); err != nil {
		seen := make(map[string]bool, len(details))
		for _, d := range details {
			seen[d.Field] = true
		}
		for _, d := range validation.ToDetails(err) {
			if !seen[d.Field] {
				details = append(details, d)
			}
		}
	}
	if len(details) > 0 {
		return apperr.Validation("Validation failed", details)
	}
	return nil
}

// parseID accepts only a plain positive decimal that fits the id column.
func parseID(c *gin.Context) (int64, error) {
	raw, _ := middleware.Data(c).Params["id"].(string)
	if raw == "" {
		raw = c.Param("id")
	}
	invalid := apperr.Validation("Invalid user id", []validation.ValidationsError{{
		Field: "id", Tag: "id", Value: raw, Message: "must be a positive integer",
	}})
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, invalid
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 || id > maxUserID {
		return 0, invalid
	}
	return id, nil
}
