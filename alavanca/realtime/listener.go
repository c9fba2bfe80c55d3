package realtime

import (
	"context"
	"encoding/json"
	"time"

	"alavanca/alavanca/utils/logging"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	notifyChannel  = "leads_changed"
	reconnectDelay = 5 * time.Second
)

// Listener holds the dedicated LISTEN connection feeding the hub. The
// leads table is written by the external automation pipeline, so the only
// reliable change source is the database itself.
type Listener struct {
	dsn string
	hub *Hub
}

func NewListener(dsn string, hub *Hub) *Listener {
	return &Listener{dsn: dsn, hub: hub}
}

// Run blocks until ctx is cancelled, reconnecting after any failure.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.listen(ctx); err != nil && ctx.Err() == nil {
			logging.ErrorLogger.Error("lead listener disconnected", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}
	logging.AppLogger.Info("listening for lead changes", zap.String("channel", notifyChannel))

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		var ev LeadEvent
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			logging.ErrorLogger.Error("bad lead change payload", zap.Error(err))
			continue
		}
		l.hub.Publish(ev)
	}
}
