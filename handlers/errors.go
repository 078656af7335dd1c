package handlers

import (
	"errors"
	"net/http"

	"gymbook/services/booking"
	"gymbook/services/subscription"
	"gymbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses. Anything unrecognised
// is logged and reported as a 500 without details.
func respondError(c *gin.Context, err error) {
	if rej, ok := booking.AsRejection(err); ok {
		utils.JSONErrorCode(c, http.StatusConflict, string(rej.Code), rej.Message, "")
		return
	}

	switch {
	case errors.Is(err, booking.ErrInvalidInput), errors.Is(err, subscription.ErrInvalidInput):
		utils.JSONErrorCode(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid request", err.Error())
	case errors.Is(err, booking.ErrNotOwner), errors.Is(err, booking.ErrOverrideNotAllowed):
		utils.JSONErrorCode(c, http.StatusForbidden, "FORBIDDEN", "Not allowed", err.Error())
	case errors.Is(err, booking.ErrSlotNotFound):
		utils.JSONErrorCode(c, http.StatusNotFound, "SLOT_NOT_FOUND", "Slot not found", "")
	case errors.Is(err, booking.ErrBookingNotFound):
		utils.JSONErrorCode(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found", "")
	case errors.Is(err, booking.ErrSubscriberNotFound), errors.Is(err, subscription.ErrSubscriberNotFound):
		utils.JSONErrorCode(c, http.StatusNotFound, "SUBSCRIBER_NOT_FOUND", "Subscriber not found", "")
	case errors.Is(err, subscription.ErrNoActiveSubscription):
		utils.JSONErrorCode(c, http.StatusNotFound, "NO_ACTIVE_SUBSCRIPTION", "No active subscription", "")
	case errors.Is(err, booking.ErrAlreadyCheckedIn):
		utils.JSONErrorCode(c, http.StatusConflict, "ALREADY_CHECKED_IN", "Booking is already checked in", "")
	case errors.Is(err, booking.ErrConflict), errors.Is(err, subscription.ErrCheckInConflict):
		utils.JSONErrorCode(c, http.StatusConflict, "CONFLICT", "The slot changed, please retry", "")
	default:
		getLogger(c).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
