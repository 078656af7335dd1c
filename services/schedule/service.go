package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymbook/config"
	"gymbook/database/repository"
	slotRepo "gymbook/database/repository/slot"
	templateRepo "gymbook/database/repository/template"
	"gymbook/models"

	"go.uber.org/zap"
)

var (
	ErrSlotNotFound = errors.New("schedule: slot not found")
)

// ScheduleService produces the slot set both the member app and the admin
// screen render, so the two always agree.
type ScheduleService interface {
	// Window clamps days to the rolling booking window.
	Window(from time.Time, days int) Window
	VisibleSlots(ctx context.Context, w Window) ([]models.VisibleSlot, error)
	// ResolveSlot maps a client supplied id to the slot it names right now:
	// the real slot if one exists at that instant, else the virtual one.
	ResolveSlot(ctx context.Context, slotID string, now time.Time) (models.VisibleSlot, error)
}

type DefaultScheduleService struct {
	Templates templateRepo.TemplateRepository
	Slots     slotRepo.SlotRepository
	Config    config.Scheduling
	Logger    *zap.Logger
}

func (s *DefaultScheduleService) Window(from time.Time, days int) Window {
	if days <= 0 || days > s.Config.WindowDays {
		days = s.Config.WindowDays
	}
	return NewWindow(from, days, s.Config.Location)
}

func (s *DefaultScheduleService) VisibleSlots(ctx context.Context, w Window) ([]models.VisibleSlot, error) {
	templates, err := s.Templates.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	for _, bad := range InvalidTemplates(templates) {
		s.Logger.Warn("skipping template with malformed time",
			zap.String("templateID", bad.ID), zap.String("time", bad.Time))
	}

	materialized, err := s.Slots.FindInRange(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}
	return Reconcile(Expand(templates, w), materialized), nil
}

func (s *DefaultScheduleService) ResolveSlot(ctx context.Context, slotID string, now time.Time) (models.VisibleSlot, error) {
	templateID, ts, ok := models.ParseVirtualSlotID(slotID)
	if !ok {
		slot, err := s.Slots.GetByID(ctx, slotID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		if err != nil {
			return nil, err
		}
		return *slot, nil
	}

	virtual, err := s.occurrence(ctx, templateID, ts, now)
	if err != nil {
		return nil, err
	}

	existing, err := s.Slots.GetByTimestamp(ctx, virtual.Timestamp)
	switch {
	case err == nil:
		return *existing, nil
	case errors.Is(err, repository.ErrNotFound):
		return virtual, nil
	default:
		return nil, err
	}
}

// occurrence checks that the template really emits ts inside the window
// that starts today.
func (s *DefaultScheduleService) occurrence(ctx context.Context, templateID string, ts, now time.Time) (models.VirtualSlot, error) {
	tpl, err := s.Templates.GetByID(ctx, templateID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.VirtualSlot{}, ErrSlotNotFound
	}
	if err != nil {
		return models.VirtualSlot{}, err
	}

	horizon := NewWindow(now, s.Config.WindowDays, s.Config.Location)
	if !horizon.Contains(ts) {
		return models.VirtualSlot{}, fmt.Errorf("%w: %s is outside the booking window", ErrSlotNotFound, ts.Format(time.RFC3339))
	}

	for _, v := range Expand([]models.SlotTemplate{*tpl}, NewWindow(ts, 1, s.Config.Location)) {
		if v.Timestamp.Equal(ts) {
			return v, nil
		}
	}
	return models.VirtualSlot{}, ErrSlotNotFound
}
