// Package ledger owns the write path of the financial records: net-amount
// finalization, invoice total derivation, course-transaction
// materialization, transfers and registration paid-amount sync. Every
// operation that touches more than one row runs inside a single database
// transaction so derived values never commit partially.
package ledger

import (
	"errors"

	"gorm.io/gorm"
)

// ErrValidation marks a write rejected before any persistence happened.
// Handlers map it to a bad-request response.
var ErrValidation = errors.New("validation failed")

// SyncFunc recomputes and persists a registration's paid amount. It runs
// inside the same database transaction as the write that triggered it.
type SyncFunc func(tx *gorm.DB, registrationID uint) error

// Service is the ledger write-path service. Handlers and import jobs go
// through it instead of writing ledger rows directly.
type Service struct {
	db               *gorm.DB
	syncRegistration SyncFunc
}

type Option func(*Service)

// WithRegistrationSync overrides the registration paid-amount callback,
// mainly for tests and for callers that own Registration elsewhere.
func WithRegistrationSync(fn SyncFunc) Option {
	return func(s *Service) { s.syncRegistration = fn }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:               db,
		syncRegistration: RecomputeRegistrationPaid,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying handle for read-only queries.
func (s *Service) DB() *gorm.DB {
	return s.db
}
