package constant

import "errors"

var (
	// login submission
	ErrInvalidEmailSyntax = errors.New("invalid email syntax")
	ErrEmailNotAuthorized = errors.New("email not authorized")
	ErrMailDelivery       = errors.New("mail delivery failed")

	// token verification
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrWrongPurpose     = errors.New("token used for the wrong purpose")

	// access gate
	ErrUnauthorizedAccess = errors.New("unauthorized access")
)

// Messages shown to the end user. Raw errors never reach the page.
const (
	MsgInvalidEmail       = "Email invalide"
	MsgEmailNotAuthorized = "Votre email n'est pas autorisé"
	MsgMailDelivery       = "Erreur d'envoi de mail à ton adresse"
	MsgUnauthorized       = "Vous n'êtes pas identifié pour accéder à cette page (ou votre accès n'est plus valide)"
	MsgLoginMailSent      = "Email de connexion envoyé pour %s"
)

// UserMessage maps a login error to the message rendered on the login form.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEmailSyntax):
		return MsgInvalidEmail
	case errors.Is(err, ErrEmailNotAuthorized):
		return MsgEmailNotAuthorized
	case errors.Is(err, ErrMailDelivery):
		return MsgMailDelivery
	default:
		return MsgUnauthorized
	}
}
