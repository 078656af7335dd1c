package handlers

import (
	"net/http"

	"gymbook/middleware"
	"gymbook/services/booking"
	"gymbook/services/subscription"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Bookings      booking.BookingService
	Subscriptions subscription.SubscriptionService
	Slots         *SlotHandler
}

// ListSlots is the schedule view with each slot's bookings attached.
func (h *AdminHandler) ListSlots(c *gin.Context) {
	from, days, ok := h.Slots.rangeParams(c)
	if !ok {
		return
	}
	slots, err := h.Bookings.ListSlotsWithBookings(c.Request.Context(), from, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// Book books a member onto a slot, optionally past capacity.
func (h *AdminHandler) Book(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)
	var input struct {
		SlotID       string `json:"slotId" binding:"required"`
		SubscriberID string `json:"subscriberId" binding:"required"`
		Override     bool   `json:"override"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Bookings.Book(c.Request.Context(), booking.BookRequest{
		SlotID:       input.SlotID,
		SubscriberID: input.SubscriberID,
		Override:     input.Override,
		Actor:        actor,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *AdminHandler) CheckIn(c *gin.Context) {
	res, err := h.Bookings.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SetLock opens or closes a slot. The id may be a template occurrence.
func (h *AdminHandler) SetLock(c *gin.Context) {
	var input struct {
		Locked *bool `json:"locked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	slot, err := h.Bookings.SetLocked(c.Request.Context(), c.Param("id"), *input.Locked)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": slot.SlotID(), "timestamp": slot.StartsAt(), "locked": slot.IsLocked(), "virtual": slot.IsVirtual()})
}

func (h *AdminHandler) AssignSubscription(c *gin.Context) {
	var req subscription.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	sub, err := h.Subscriptions.Assign(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}
