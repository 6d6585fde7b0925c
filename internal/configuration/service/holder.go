package service

import (
	"sync/atomic"

	"vcissuer/internal/configuration/models"
)

// Holder publishes the current configuration snapshot. Readers take one
// snapshot at the start of a call and use it throughout; writers swap the
// whole value.
type Holder struct {
	current atomic.Pointer[models.IssuerConfiguration]
}

// NewHolder creates a holder seeded with initial, which may be nil.
func NewHolder(initial *models.IssuerConfiguration) *Holder {
	h := &Holder{}
	if initial != nil {
		h.current.Store(initial.Clone())
	}
	return h
}

// Current returns the active snapshot, or nil before the first configuration.
// Callers must not mutate it.
func (h *Holder) Current() *models.IssuerConfiguration {
	return h.current.Load()
}

func (h *Holder) version() uint64 {
	if cur := h.current.Load(); cur != nil {
		return cur.Version
	}
	return 0
}

func (h *Holder) set(cfg *models.IssuerConfiguration) {
	h.current.Store(cfg.Clone())
}
