package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const virtualSlotPrefix = "v_"

// VisibleSlot is either a persisted Slot or a VirtualSlot expanded from a
// template. Callers switch on IsVirtual before writing anything.
type VisibleSlot interface {
	SlotID() string
	StartsAt() time.Time
	IsVirtual() bool
	IsLocked() bool
	CapacityOverride() *int
}

// Slot is a materialized slot. It exists once someone booked or locked it.
type Slot struct {
	ID          string    `bson:"id" json:"id"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
	Locked      bool      `bson:"locked" json:"locked"`
	Capacity    *int      `bson:"capacity,omitempty" json:"capacity,omitempty"`
	TemplateID  string    `bson:"templateId,omitempty" json:"templateId,omitempty"`
	BookedCount int       `bson:"bookedCount" json:"bookedCount"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

func (s Slot) SlotID() string         { return s.ID }
func (s Slot) StartsAt() time.Time    { return s.Timestamp }
func (s Slot) IsVirtual() bool        { return false }
func (s Slot) IsLocked() bool         { return s.Locked }
func (s Slot) CapacityOverride() *int { return s.Capacity }

// VirtualSlot is a template occurrence that has not been persisted.
type VirtualSlot struct {
	TemplateID string    `json:"templateId"`
	Timestamp  time.Time `json:"timestamp"`
	Capacity   *int      `json:"capacity,omitempty"`
}

func (v VirtualSlot) SlotID() string         { return VirtualSlotID(v.TemplateID, v.Timestamp) }
func (v VirtualSlot) StartsAt() time.Time    { return v.Timestamp }
func (v VirtualSlot) IsVirtual() bool        { return true }
func (v VirtualSlot) IsLocked() bool         { return false }
func (v VirtualSlot) CapacityOverride() *int { return v.Capacity }

// Materialize turns the occurrence into a Slot ready to be inserted.
func (v VirtualSlot) Materialize(id string, now time.Time) Slot {
	s := Slot{
		ID:         id,
		Timestamp:  v.Timestamp,
		TemplateID: v.TemplateID,
		CreatedAt:  now,
	}
	if v.Capacity != nil {
		c := *v.Capacity
		s.Capacity = &c
	}
	return s
}

// VirtualSlotID builds the deterministic id clients use to book a template occurrence.
func VirtualSlotID(templateID string, ts time.Time) string {
	return fmt.Sprintf("%s%s_%d", virtualSlotPrefix, templateID, ts.Unix())
}

// ParseVirtualSlotID splits an id produced by VirtualSlotID. ok is false for real slot ids.
func ParseVirtualSlotID(id string) (templateID string, ts time.Time, ok bool) {
	if !strings.HasPrefix(id, virtualSlotPrefix) {
		return "", time.Time{}, false
	}
	rest := strings.TrimPrefix(id, virtualSlotPrefix)
	sep := strings.LastIndex(rest, "_")
	if sep <= 0 || sep == len(rest)-1 {
		return "", time.Time{}, false
	}
	unix, err := strconv.ParseInt(rest[sep+1:], 10, 64)
	if err != nil {
		return "", time.Time{}, false
	}
	return rest[:sep], time.Unix(unix, 0).UTC(), true
}

// EffectiveCapacity resolves a per-slot override against the gym default.
func EffectiveCapacity(override *int, def int) int {
	if override != nil && *override >= 0 {
		return *override
	}
	return def
}

// SlotState is the booking state of a slot at a given instant.
type SlotState string

const (
	SlotOpen   SlotState = "OPEN"
	SlotClosed SlotState = "CLOSED"
	SlotFull   SlotState = "FULL"
	SlotLocked SlotState = "LOCKED"
)

// SlotView is the client-facing representation of a visible slot.
type SlotView struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Virtual   bool      `json:"virtual"`
	Locked    bool      `json:"locked"`
	Capacity  int       `json:"capacity"`
	Booked    int       `json:"booked"`
	Remaining int       `json:"remaining"`
	State     SlotState `json:"state"`
}

// AdminSlotView adds the slot's bookings for the scheduling screen.
type AdminSlotView struct {
	SlotView
	Bookings []Booking `json:"bookings"`
}
