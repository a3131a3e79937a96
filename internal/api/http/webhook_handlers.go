package http

import (
	"net/http"

	"github.com/google/go-github/v57/github"

	"github.com/trackspace/github-sync-service/internal/domain"
)

type webhookResponse struct {
	Status           string         `json:"status"`
	EventType        string         `json:"event_type"`
	DeliveryID       string         `json:"delivery_id,omitempty"`
	ProcessingResult domain.Outcome `json:"processing_result"`
}

// HandleGitHubWebhook is the inbound boundary for GitHub deliveries. The
// signature over the raw body is checked before anything else; a missing or
// invalid signature is the one hard rejection, everything after it comes
// back as a processing outcome in a 200 response.
func (s *Server) HandleGitHubWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, s.webhookSecret)
	if err != nil {
		s.logger.Warn("rejected webhook with bad signature", "error", err)
		s.writeDomainError(w, http.StatusUnauthorized, domain.ErrorCodeUnauthorized, "invalid webhook signature")
		return
	}

	eventType := github.WebHookType(r)
	deliveryID := github.DeliveryID(r)

	s.logger.Info("github webhook received", "event_type", eventType, "delivery_id", deliveryID)

	result := s.app.Webhook.Process(r.Context(), eventType, payload)

	s.writeJSON(w, http.StatusOK, webhookResponse{
		Status:           "success",
		EventType:        eventType,
		DeliveryID:       deliveryID,
		ProcessingResult: result,
	})
}
