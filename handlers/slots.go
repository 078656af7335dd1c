package handlers

import (
	"net/http"
	"strconv"
	"time"

	"gymbook/config"
	"gymbook/services/booking"
	"gymbook/utils"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type SlotHandler struct {
	Bookings booking.BookingService
	Config   config.Scheduling
	Clock    utils.Clock
}

// rangeParams reads ?from=YYYY-MM-DD&days=N. from defaults to today in the
// gym's timezone, days to the booking window.
func (h *SlotHandler) rangeParams(c *gin.Context) (time.Time, int, bool) {
	from := h.Clock.Now().In(h.Config.Location)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, h.Config.Location)
		if err != nil {
			utils.JSONErrorCode(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid 'from' date", "expected YYYY-MM-DD")
			return time.Time{}, 0, false
		}
		from = parsed
	}

	days := h.Config.WindowDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > h.Config.WindowDays {
			utils.JSONErrorCode(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid 'days'",
				"expected 1.."+strconv.Itoa(h.Config.WindowDays))
			return time.Time{}, 0, false
		}
		days = n
	}
	return from, days, true
}

// ListSlots returns the member view of every visible slot in the range.
func (h *SlotHandler) ListSlots(c *gin.Context) {
	from, days, ok := h.rangeParams(c)
	if !ok {
		return
	}
	slots, err := h.Bookings.ListSlots(c.Request.Context(), from, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
