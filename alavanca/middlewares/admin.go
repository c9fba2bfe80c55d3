package middlewares

import (
	"net/http"

	"alavanca/alavanca/controllers"
)

// RequireAdmin gates the dashboard subtree behind the typed entitlement
// check. Runs after RequireAuth; a missing user id fails closed too.
func RequireAdmin(ctrl *controllers.AdminController) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ent := ctrl.CheckEntitlement(r.Context(), userID)
			if !ent.Authorized {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error": "Acesso negado"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
