package specification

import "gorm.io/gorm"

// ByCallID correlates a booking with the external call identifier carried
// by the outcome webhook. Lookup is by call id only, never by status, so
// stale lifecycle state still resolves (see the relay's reconciliation
// role for the documented calling-update inconsistency window).
type ByCallID struct {
	CallID string
}

func (s ByCallID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("call_id = ?", s.CallID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
