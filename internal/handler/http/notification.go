package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gigline/gigline-backend-go/internal/domain/notification"
	"github.com/gigline/gigline-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	feed notification.Feed
}

func NewNotificationHandler(feed notification.Feed) NotificationHandler {
	return &notificationHandlerImpl{feed: feed}
}

type notificationResponse struct {
	ID        string         `json:"id"`
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	CreatedAt string         `json:"created_at"`
}

// List implements NotificationHandler. Workers poll their own event feed;
// the worker identity always comes from the token, never from the request.
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}
	workerID, _ := claims["worker_id"].(string)
	if workerID == "" {
		response.Unauthorized(w, "Invalid token")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	items, total, err := h.feed.List(r.Context(), workerID, page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]notificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResponse{
			ID:        n.ID,
			Event:     n.Event,
			Payload:   n.Payload,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	response.SuccessWithMeta(w, out, &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: int(totalPages),
	})
}
