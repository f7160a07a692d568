package service

import (
	"fmt"
	"net/mail"

	"github.com/truemail-rb/truemail-go"
)

// NewMXVerifier checks that the domain of an address publishes mail exchangers.
// sender is the identity truemail presents to remote servers; a display name
// such as "Quizhub <no-reply@quizhub.local>" is reduced to the bare address.
func NewMXVerifier(sender string) (EmailVerifier, error) {
	addr, err := mail.ParseAddress(sender)
	if err != nil {
		return nil, fmt.Errorf("parse verifier email %q: %w", sender, err)
	}
	configuration, err := truemail.NewConfiguration(truemail.ConfigurationAttr{
		VerifierEmail:         addr.Address,
		ValidationTypeDefault: "mx",
		SmtpFailFast:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("configure email verifier: %w", err)
	}
	return func(email string) bool {
		return truemail.IsValid(email, configuration)
	}, nil
}
