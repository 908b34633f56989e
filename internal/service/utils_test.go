package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tcp_snm/pulse/internal/pulse_errors"
)

type contactForm struct {
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required,phone"`
	Handle string `json:"handle" validate:"required,cf_handle"`
}

func TestValidateInput(t *testing.T) {
	InitializeServices()

	valid := contactForm{Email: "a@b.co", Phone: "+919876543210", Handle: "tourist"}
	assert.NoError(t, ValidateInput(valid))

	cases := map[string]struct {
		form contactForm
		msg  string
	}{
		"missing email": {contactForm{Phone: "1234567", Handle: "abc"}, "email is required"},
		"bad email":     {contactForm{Email: "nope", Phone: "1234567", Handle: "abc"}, "email must be a valid email address"},
		"bad phone":     {contactForm{Email: "a@b.co", Phone: "12-34", Handle: "abc"}, "phone must be a valid phone number"},
		"bad handle":    {contactForm{Email: "a@b.co", Phone: "1234567", Handle: "a b"}, "handle must be a valid codeforces handle"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateInput(c.form)
			assert.ErrorIs(t, err, pulse_errors.ErrInvalidInput)
			assert.Contains(t, err.Error(), c.msg)
		})
	}
}

func TestNormalizeSpaces(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", NormalizeSpaces("  Ada   Lovelace "))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 0.33, RoundTo(1.0/3.0, 2))
	assert.Equal(t, 1500.0, RoundTo(1499.6, 0))
}
