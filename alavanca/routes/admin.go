package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"alavanca/alavanca/config"
	"alavanca/alavanca/controllers"
	"alavanca/alavanca/middlewares"
	"alavanca/alavanca/realtime"
	"alavanca/alavanca/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

type AdminControllers struct {
	Admin  *controllers.AdminController
	Sync   *controllers.SyncController
	Export *controllers.ExportController
	Hub    *realtime.Hub
}

func AdminRoutes(ctrls AdminControllers, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.RequireAuth(cfg))
		gr.Use(middlewares.RequireAdmin(ctrls.Admin))

		gr.Get("/leads", handleJSON(func(r *http.Request) (any, int, error) {
			leads, err := ctrls.Admin.Leads(r.Context(),
				r.URL.Query().Get("search"), r.URL.Query().Get("service"))
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return leads, http.StatusOK, nil
		}))

		gr.Get("/leads/summary", handleJSON(func(r *http.Request) (any, int, error) {
			summary, err := ctrls.Admin.Summary(r.Context())
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return summary, http.StatusOK, nil
		}))

		gr.Get("/conversations", handleJSON(func(r *http.Request) (any, int, error) {
			groups, err := ctrls.Admin.Conversations(r.Context(), r.URL.Query().Get("search"))
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return groups, http.StatusOK, nil
		}))

		gr.Get("/leads/export", func(w http.ResponseWriter, r *http.Request) {
			data, name, err := ctrls.Export.ExportLeads(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type",
				"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
			w.Write(data)
		})

		gr.Post("/sync-leads", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			synced, err := ctrls.Sync.SyncLeads(r.Context())
			if err != nil {
				var syncErr *controllers.SyncError
				resp := types.SyncErrorResponse{Error: "Erro inesperado", Details: err.Error()}
				if errors.As(err, &syncErr) {
					resp = types.SyncErrorResponse{Error: syncErr.Label, Details: syncErr.Err.Error()}
				}
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(resp)
				return
			}
			msg := "Nenhum lead para sincronizar"
			if synced > 0 {
				msg = fmt.Sprintf("%d leads sincronizados com sucesso", synced)
			}
			json.NewEncoder(w).Encode(types.SyncResponse{Success: true, Message: msg, Synced: synced})
		})
	})

	// Websocket feed: browsers cannot set Authorization headers on ws
	// upgrades, so the token travels in the first message.
	r.HandleFunc("/leads/stream", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var hello struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(data, &hello); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}
		userID, err := middlewares.ParseBearerToken(cfg, hello.Token)
		if err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid token"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}
		if ent := ctrls.Admin.CheckEntitlement(ctx, userID); !ent.Authorized {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"forbidden"}`))
			conn.Close(websocket.StatusPolicyViolation, "forbidden")
			return
		}

		snapshot, events, cancel := ctrls.Hub.Subscribe()
		defer cancel()

		writeJSON := func(v any) error {
			payload, err := json.Marshal(v)
			if err != nil {
				return err
			}
			return conn.Write(ctx, websocket.MessageText, payload)
		}
		if err := writeJSON(map[string]any{"type": "snapshot", "leads": snapshot}); err != nil {
			return
		}

		// No further client messages are expected; CloseRead surfaces the
		// disconnect through ctx.
		ctx = conn.CloseRead(ctx)
		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case ev := <-events:
				if err := writeJSON(map[string]any{"type": "event", "event": ev}); err != nil {
					return
				}
			}
		}
	})

	return r
}
