// Package i18n holds the message catalog used for flash messages, JSON
// error messages and notification text.
package i18n

import (
	"context"
	"strings"
)

// Default is the language used when nothing else matches.
const Default = "pt"

type ctxKey struct{}

var catalog = map[string]map[string]string{
	"pt": {
		"required":            "Campo obrigatório",
		"invalid_email":       "Email inválido",
		"too_short":           "Muito curto",
		"too_long":            "Muito longo",
		"invalid_choice":      "Opção inválida",
		"invalid":             "Valor inválido",
		"nome.too_short":      "Nome deve ter pelo menos 3 caracteres",
		"email_taken":         "Email já cadastrado",
		"token_taken":         "Token da vaga já existe, tente novamente",
		"invalid_status":      "Status inválido",
		"invalid_role":        "Perfil inválido",
		"invalid_login":       "Email ou senha incorretos",
		"login_ok":            "Login realizado com sucesso",
		"logout_ok":           "Logout realizado com sucesso",
		"session_required":    "Faça login para continuar",
		"permission_denied":   "Acesso negado. Permissão insuficiente.",
		"account_created":     "Usuário cadastrado com sucesso!",
		"account_updated":     "Usuário atualizado com sucesso!",
		"account_deleted":     "Usuário excluído com sucesso!",
		"self_deletion":       "Você não pode excluir sua própria conta!",
		"posting_created":     "Vaga criada com sucesso!",
		"posting_updated":     "Vaga atualizada com sucesso!",
		"posting_deleted":     "Vaga excluída com sucesso!",
		"posting_unavailable": "Vaga não encontrada ou encerrada.",
		"application_sent":    "Inscrição realizada com sucesso! Você receberá um email de confirmação.",
		"status_updated":      "Status atualizado com sucesso!",
		"not_found":           "Registro não encontrado",
		"file_not_found":      "Arquivo não encontrado",
		"upload_too_large":    "Arquivo muito grande",
		"internal_error":      "Erro interno, tente novamente",
		"mail_subject":        "Inscrição recebida - {posting}",
		"mail_body":           "Olá {name},\n\nRecebemos sua inscrição para a vaga \"{posting}\". Nossa equipe de RH analisará seu perfil e entrará em contato em breve.\n\nAtenciosamente,\nEquipe de RH",
	},
	"en": {
		"required":            "Required",
		"invalid_email":       "Invalid email",
		"too_short":           "Too short",
		"too_long":            "Too long",
		"invalid_choice":      "Invalid choice",
		"invalid":             "Invalid value",
		"nome.too_short":      "Name must have at least 3 characters",
		"email_taken":         "Email already registered",
		"token_taken":         "Posting token already exists, try again",
		"invalid_status":      "Invalid status",
		"invalid_role":        "Invalid role",
		"invalid_login":       "Invalid email or password",
		"login_ok":            "Signed in",
		"logout_ok":           "Signed out",
		"session_required":    "Please sign in to continue",
		"permission_denied":   "Access denied. Insufficient permission.",
		"account_created":     "Account created",
		"account_updated":     "Account updated",
		"account_deleted":     "Account deleted",
		"self_deletion":       "You cannot delete your own account",
		"posting_created":     "Posting created",
		"posting_updated":     "Posting updated",
		"posting_deleted":     "Posting deleted",
		"posting_unavailable": "Posting not found or closed.",
		"application_sent":    "Application received! A confirmation email is on its way.",
		"status_updated":      "Status updated",
		"not_found":           "Record not found",
		"file_not_found":      "File not found",
		"upload_too_large":    "Upload too large",
		"internal_error":      "Internal error, please retry",
		"mail_subject":        "Application received - {posting}",
		"mail_body":           "Hello {name},\n\nWe received your application for \"{posting}\". Our HR team will review your profile and get back to you soon.\n\nBest regards,\nHR Team",
	},
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		primary, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if Supported(primary) {
			return primary
		}
	}
	return Default
}

// T translates code, falling back to the default language, then to code itself.
func T(lang, code string) string {
	if msgs, ok := catalog[lang]; ok {
		if m, ok := msgs[code]; ok {
			return m
		}
	}
	if m, ok := catalog[Default][code]; ok {
		return m
	}
	return code
}

// Field translates a validation code, preferring a "<field>.<code>" entry.
func Field(lang, field, code string) string {
	key := field + "." + code
	if msg := T(lang, key); msg != key {
		return msg
	}
	return T(lang, code)
}

// Format translates code and substitutes {key} placeholders.
func Format(lang, code string, args map[string]string) string {
	msg := T(lang, code)
	for k, v := range args {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

// WithLang stores the request language in context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFrom returns the language stored in ctx, or Default.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return Default
}
