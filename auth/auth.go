package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	accountIDCtxKey   = ctxKey("accountID")
	identityCtxKey    = ctxKey("identity")
)

// SessionTTL is how long a signed session stays valid.
const SessionTTL = 24 * time.Hour

// now is swapped in tests to exercise expiry.
var now = time.Now

// Secret returns SESSION_SECRET or default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// NewToken returns a signed session value "<id>.<expiry>.<sig>" for the account.
func NewToken(accountID uint) string {
	payload := strconv.FormatUint(uint64(accountID), 10) + "." +
		strconv.FormatInt(now().Add(SessionTTL).Unix(), 10)
	return payload + "." + sign(payload)
}

// ParseToken validates signature and expiry and returns the account id.
func ParseToken(value string) (uint, bool) {
	parts := strings.Split(value, ".")
	if len(parts) != 3 {
		return 0, false
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(sign(payload))) {
		return 0, false
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || !now().Before(time.Unix(exp, 0)) {
		return 0, false
	}
	id64, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}

// CreateSession sets a signed cookie with the account id.
func CreateSession(w http.ResponseWriter, accountID uint) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    NewToken(accountID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// SessionToken returns the raw session cookie value, if any.
func SessionToken(r *http.Request) string {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ParseSession validates cookie and returns account id.
func ParseSession(r *http.Request) (uint, bool) {
	v := SessionToken(r)
	if v == "" {
		return 0, false
	}
	return ParseToken(v)
}

// WithAccountID stores the session's account id in context.
func WithAccountID(ctx context.Context, accountID uint) context.Context {
	return context.WithValue(ctx, accountIDCtxKey, accountID)
}

// AccountIDFromContext extracts the session's account id.
func AccountIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(accountIDCtxKey).(uint)
	return id, ok && id != 0
}

// Middleware attaches the account id to the request context if the session is valid.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := ParseSession(r); ok {
			r = r.WithContext(WithAccountID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
