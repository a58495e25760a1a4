package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminconsole/internal/domain/auth"
	"adminconsole/internal/domain/corporate"
	"adminconsole/internal/domain/project"
	"adminconsole/internal/domain/validation"
)

func validCorporate() corporate.Payload {
	return corporate.Payload{
		Code:        "ACME",
		Name:        "Acme Works",
		Email:       "ops@acme.io",
		Phone:       "081234567890",
		Address:     "Main street 1",
		CompanySize: 10,
	}
}

func messageOf(t *testing.T, err error) string {
	t.Helper()
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	return verr.Message
}

func TestCorporatePayload(t *testing.T) {
	require.NoError(t, validCorporate().Validate())

	cases := map[string]struct {
		mutate func(*corporate.Payload)
		want   string
	}{
		"short code":    {func(p *corporate.Payload) { p.Code = "AB" }, "Minimum 3 characters"},
		"missing name":  {func(p *corporate.Payload) { p.Name = "" }, "Name is required"},
		"bad email":     {func(p *corporate.Payload) { p.Email = "nope" }, "Invalid email address"},
		"short phone":   {func(p *corporate.Payload) { p.Phone = "0812" }, "Invalid phone number format"},
		"zero size":     {func(p *corporate.Payload) { p.CompanySize = 0 }, "Must be a positive number"},
		"small company": {func(p *corporate.Payload) { p.CompanySize = 2 }, "Minimum 3 employees"},
		"bad industry":  {func(p *corporate.Payload) { p.IndustryType = "FARMING" }, "Industry type must be one of SOFTWARE, CONSTRUCTION"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			p := validCorporate()
			tc.mutate(&p)
			assert.Equal(t, tc.want, messageOf(t, p.Validate()))
		})
	}
}

func TestNormalizeUpperCasesCode(t *testing.T) {
	p := validCorporate()
	p.Code = "  acme "
	p.Normalize()
	assert.Equal(t, "ACME", p.Code)
}

func TestProjectAssignmentNeedsUsers(t *testing.T) {
	err := project.AssignmentPayload{AccessType: "EDITOR"}.Validate()
	assert.Equal(t, "Select at least one user to assign", messageOf(t, err))
}

func TestProjectDates(t *testing.T) {
	p := project.Payload{Name: "Tower", Description: "Office", StartDate: "2024-13-01"}
	assert.Equal(t, "Start date must be a date (YYYY-MM-DD)", messageOf(t, p.Validate()))

	p.StartDate = "2024-02-01"
	assert.NoError(t, p.Validate())
}

func TestLoginPassword(t *testing.T) {
	err := auth.LoginCredentials{Email: "a@b.co", Password: "short"}.Validate()
	assert.Equal(t, "Minimum 8 characters", messageOf(t, err))
}

func TestRegisterNested(t *testing.T) {
	creds := auth.RegisterCredentials{
		Corporate: corporate.RegisterPayload{Code: "ACME", Name: "Acme", Email: "a@acme.io", Phone: "0812345678"},
		User:      auth.RegisterUser{Email: "ann@acme.io", Password: "password1", Name: "Ann", Phone: "12"},
	}
	assert.Equal(t, "Invalid phone number format", messageOf(t, creds.Validate()))

	creds.User.Phone = "0812345678"
	assert.NoError(t, creds.Validate())
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Hello", validation.Capitalize("hello"))
	assert.Equal(t, "", validation.Capitalize(""))
}
