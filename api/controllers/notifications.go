package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/internal/notifications"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

const defaultHeartbeat = 25 * time.Second

type subscriber interface {
	Subscribe(rooms ...string) *notifications.Subscription
}

// NotificationStream pushes hub events to the caller as Server-Sent Events.
// Shoppers always listen on their own room and admins also get the admin
// room. Admins may narrow or widen that with a comma separated rooms query.
func NotificationStream(hub subscriber, cfg config.NotificationsConfig, logg *logger.Logger) http.HandlerFunc {
	heartbeat := cfg.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := middleware.UserIDFromContext(ctx)
		role := middleware.RoleFromContext(ctx)

		rooms, err := streamRooms(r, userID, role.IsAdmin())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rc := http.NewResponseController(w)
		// Streams outlive the server write timeout.
		if err := rc.SetWriteDeadline(time.Time{}); err != nil {
			logg.Debug(logg.WithField(ctx, "error", err.Error()), "notifications.write_deadline_unsupported")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		if err := rc.Flush(); err != nil {
			logg.Warn(ctx, "notifications.stream_unflushable")
			return
		}

		sub := hub.Subscribe(rooms...)
		defer sub.Close()

		logg.Debug(logg.WithField(ctx, "rooms", strings.Join(rooms, ",")), "notifications.stream_opened")

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
			case evt, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := writeSSE(w, evt); err != nil {
					return
				}
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func streamRooms(r *http.Request, userID uuid.UUID, admin bool) ([]string, error) {
	own := notifications.UserRoom(userID)
	rooms := []string{own}
	if admin {
		rooms = append(rooms, notifications.AdminRoom)
	}

	raw := strings.TrimSpace(r.URL.Query().Get("rooms"))
	if raw == "" {
		return rooms, nil
	}
	if !admin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Only admins may choose notification rooms")
	}

	rooms = rooms[:0]
	seen := map[string]struct{}{}
	for _, room := range strings.Split(raw, ",") {
		room = strings.TrimSpace(room)
		if room == "" {
			continue
		}
		if room != notifications.AdminRoom && !notifications.IsUserRoom(room) {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Unknown notification room %s", room)
		}
		if _, dup := seen[room]; dup {
			continue
		}
		seen[room] = struct{}{}
		rooms = append(rooms, room)
	}
	if len(rooms) == 0 {
		rooms = append(rooms, own)
	}
	return rooms, nil
}

func writeSSE(w http.ResponseWriter, evt notifications.Event) error {
	data := evt.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Name, data)
	return err
}
