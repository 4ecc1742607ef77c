package auth

import (
	"log/slog"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "FinanceLedger"

// TwoFactorAuthenticator generates and checks time-based one-time codes.
type TwoFactorAuthenticator interface {
	GenerateSecret(accountName string) (otpURI, secret string, err error)
	VerifyCode(secret, code string) bool
}

type Authenticator struct{}

// GenerateSecret uses SHA1 for authenticator app compatibility.
func (g *Authenticator) GenerateSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		slog.Error("error during totp secret generation", "error", err)
		return "", "", ErrInternalError
	}

	return key.URL(), key.Secret(), nil
}

func (g *Authenticator) VerifyCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
