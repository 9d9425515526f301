// Package i18n carries the French string catalog and the locale-aware
// formatting helpers. Backend responses speak in message codes; everything
// the user sees goes through here.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// GenericError is the catch-all shown when nothing more specific applies.
const GenericError = "Une erreur est survenue. Veuillez réessayer ou contacter le support si le problème persiste."

var messages = map[string]string{
	"customer_registered": "Compte créé avec succès. Vous pouvez maintenant vous connecter et commencer à réserver vos billets.",
}

var errs = map[string]string{
	"email_already_used":            "Cette adresse e-mail est déjà utilisée. Veuillez en choisir une autre.",
	"invalid_credentials":           "Identifiants invalides. Vérifiez vos informations et réessayez.",
	"unauthorized":                  "Vous devez être authentifié pour accéder à cette ressource.",
	"forbidden":                     "Vous n'avez pas les droits nécessaires pour effectuer cette action.",
	"not_found":                     "La ressource demandée est introuvable.",
	"server_error":                  "Une erreur interne est survenue. Veuillez réessayer plus tard.",
	"validation_failed":             "Certains champs contiennent des erreurs. Vérifiez vos informations et réessayez.",
	"is_required":                   "{{field}} est requis.",
	"must_be_valid_email":           "{{field}} doit contenir une adresse e-mail valide.",
	"min_length":                    "{{field}} doit contenir au moins {{min}} caractères.",
	"max_length":                    "{{field}} ne peut pas dépasser {{max}} caractères.",
	"password_mismatch":             "Les mots de passe ne correspondent pas.",
	"password_too_weak":             "Le mot de passe est trop faible. Utilisez au moins une majuscule, une minuscule, un chiffre et un caractère spécial.",
	"password_policy_not_respected": "Le mot de passe ne respecte pas la politique de sécurité attendue (minimum 8 caractères, incluant une majuscule, une minuscule et un chiffre).",
	"value_not_allowed":             "{{field}} n’autorise pas cette valeur.",
}

// Message translates a backend message code. Unknown codes come back as-is.
func Message(code string, params map[string]string) string {
	if text, ok := messages[code]; ok {
		return interpolate(text, params)
	}
	return code
}

// Error translates a backend error code. Unknown codes come back as-is so
// the raw code is still visible rather than hidden.
func Error(code string, params map[string]string) string {
	if text, ok := errs[code]; ok {
		return interpolate(text, params)
	}
	return code
}

// interpolate substitutes {{name}} placeholders.
func interpolate(text string, params map[string]string) string {
	for name, value := range params {
		text = strings.ReplaceAll(text, "{{"+name+"}}", value)
	}
	return text
}

// DescribeCode turns a scan/validation message code into operator-facing
// text. Codes outside the known set are rendered as title-cased words so a
// new backend code is readable without a release.
func DescribeCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	switch code {
	case "ticket_not_found":
		return "Billet introuvable. Vérifiez le QR code et réessayez."
	case "ticket_already_used":
		return "Ce billet a déjà été validé."
	case "ticket_validated_successfully":
		return "Billet validé avec succès."
	case "access_denied":
		return "Accès refusé. Vérifiez vos droits administrateur."
	}
	parts := strings.Split(code, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

var frPrinter = message.NewPrinter(language.French)

// FormatEUR renders an amount the French way, e.g. "25,50 €".
func FormatEUR(amount float64) string {
	return frPrinter.Sprintf("%.2f €", amount)
}
