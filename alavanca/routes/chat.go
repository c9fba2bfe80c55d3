package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"alavanca/alavanca/config"
	"alavanca/alavanca/controllers"
	"alavanca/alavanca/middlewares"
	"alavanca/alavanca/types"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	// The widget talks here both signed in and anonymous; only signed-in
	// exchanges are persisted.
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.OptionalAuth(cfg))

		gr.Post("/message", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.ChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			var userID *uuid.UUID
			if id, ok := middlewares.UserIDFromContext(r.Context()); ok {
				userID = &id
			}
			resp, err := ctrl.SendMessage(r.Context(), userID, req)
			if errors.Is(err, controllers.ErrEmptyMessage) {
				return nil, http.StatusBadRequest, err
			}
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return resp, http.StatusOK, nil
		}))
	})

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.RequireAuth(cfg))

		gr.Get("/history", handleJSON(func(r *http.Request) (any, int, error) {
			userID, ok := middlewares.UserIDFromContext(r.Context())
			if !ok {
				return nil, http.StatusUnauthorized, nil
			}
			resp, err := ctrl.History(r.Context(), userID)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return resp, http.StatusOK, nil
		}))
	})

	return r
}
