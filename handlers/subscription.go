package handlers

import (
	"net/http"

	"gymbook/middleware"
	"gymbook/services/subscription"
	"gymbook/utils"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	Subscriptions subscription.SubscriptionService
	Clock         utils.Clock
}

// Mine returns the caller's active subscription and this week's usage.
func (h *SubscriptionHandler) Mine(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	sub, err := h.Subscriptions.GetActive(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub, "usage": sub.Usage(h.Clock.Now())})
}
