package rpc

import (
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/authgate/internal/common"
)

func validateEmail(email string) error {
	if email == "" {
		return common.NewValidationError("email should not be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !qualifiedDomain(email[strings.LastIndexByte(email, '@')+1:]) {
		return common.NewValidationError("email must be an email")
	}
	return nil
}

// qualifiedDomain reports whether domain is a dotted host name whose last
// label is alphabetic and at least two letters long. Single-label hosts
// such as "localhost" and address literals are rejected.
func qualifiedDomain(domain string) bool {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" || strings.HasPrefix(l, "-") || strings.HasSuffix(l, "-") {
			return false
		}
	}

	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return false
	}
	for _, r := range tld {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func validatePassword(password string) error {
	if password == "" {
		return common.NewValidationError("password should not be empty")
	}
	if len(password) > common.MaxPasswordBytes {
		return common.NewValidationError("password must be shorter than or equal to 72 bytes")
	}
	return nil
}

// ValidateRegister checks the shape of a register request.
func ValidateRegister(r *RegisterRequest) error {
	if r == nil {
		return common.NewValidationError("request body is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validatePassword(r.Password)
}

// ValidateLogin checks the shape of a login request.
func ValidateLogin(r *LoginRequest) error {
	if r == nil {
		return common.NewValidationError("request body is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validatePassword(r.Password)
}

// ValidateToken checks the shape of a validateToken request.
func ValidateToken(r *ValidateTokenRequest) error {
	if r == nil || r.Token == "" {
		return common.NewValidationError("token should not be empty")
	}
	return nil
}
