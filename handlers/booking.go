package handlers

import (
	"net/http"

	"gymbook/middleware"
	"gymbook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Bookings booking.BookingService
}

// Book reserves a seat on a slot for the calling member.
func (h *BookingHandler) Book(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	var input struct {
		SlotID string `json:"slotId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Bookings.Book(c.Request.Context(), booking.BookRequest{
		SlotID:       input.SlotID,
		SubscriberID: actor.ID,
		Actor:        actor,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Cancel removes a booking. Members may only cancel their own; admins any.
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	id := c.Param("id")
	if err := h.Bookings.Cancel(c.Request.Context(), id, actor); err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Debug("booking cancelled via api", zap.String("bookingID", id), zap.String("actor", actor.ID))
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) Mine(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	list, err := h.Bookings.ListUpcoming(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}
