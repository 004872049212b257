package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/internal/session"
)

type contextKey string

const (
	sessionIDKey contextKey = "portal.session_id"
	patientKey   contextKey = "portal.patient"
)

// SessionCookie ensures every request carries a session id cookie and puts
// the id on the request context. The cookie is an opaque uuid; the session
// content lives server-side.
func SessionCookie(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				sid = cookie.Value
			} else {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the session id attached by SessionCookie, or "".
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}

// RequireAuth guards authenticated routes. A request without a stored
// patient is answered 401 with a login redirect hint before any handler
// runs; the patient snapshot is attached to the context otherwise.
func RequireAuth(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := SessionID(r.Context())
			patient := store.Current(r.Context(), sid)
			if sid == "" || patient == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":    "authentication required",
					"redirect": "/login",
				})
				return
			}

			ctx := context.WithValue(r.Context(), patientKey, patient)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PatientFrom returns the authenticated patient attached by RequireAuth,
// or nil outside a guarded route.
func PatientFrom(ctx context.Context) *gateway.Patient {
	patient, _ := ctx.Value(patientKey).(*gateway.Patient)
	return patient
}
