package routes

import (
	"encoding/json"
	"net/http"

	"alavanca/alavanca/config"
	"alavanca/alavanca/controllers"
	"alavanca/alavanca/middlewares"
	"alavanca/alavanca/types"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.SignUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		user, err := ctrl.SignUp(r.Context(), req.Email, req.Password)
		if err != nil {
			// The platform message travels to the client unchanged.
			return nil, http.StatusBadRequest, err
		}
		return map[string]any{"user": user}, http.StatusOK, nil
	}))

	r.Post("/login", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		token, user, err := ctrl.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			return nil, http.StatusUnauthorized, err
		}
		return types.AuthResponse{AccessToken: token, User: user}, http.StatusOK, nil
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.RequireAuth(cfg))

		gr.Get("/me", handleJSON(func(r *http.Request) (any, int, error) {
			userID, ok := middlewares.UserIDFromContext(r.Context())
			if !ok {
				return nil, http.StatusUnauthorized, nil
			}
			user, err := ctrl.Me(r.Context(), userID)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			if user == nil {
				return nil, http.StatusUnauthorized, nil
			}
			return user, http.StatusOK, nil
		}))
	})

	return r
}
