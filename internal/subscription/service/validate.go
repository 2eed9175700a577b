package service

import (
	"context"

	"github.com/railzwaylabs/billingmock/internal/apierror"
	domain "github.com/railzwaylabs/billingmock/internal/subscription/domain"
)

// Five years in provider seconds (365.25-day years).
const fiveYears = 31557600 * 5

// ValidateTrialEnd accepts the "now" sentinel unconditionally; a concrete
// timestamp must lie between the current time and five years out. Runs
// before any mutation so a rejected change leaves the record untouched.
func (s *Service) ValidateTrialEnd(ctx context.Context, value *domain.Timestamp) error {
	if value == nil || value.Now {
		return nil
	}

	now := s.clock.Now(ctx).Unix()
	if value.Unix < now {
		return apierror.InvalidTimestamp("Invalid timestamp: must be an integer Unix timestamp in the future")
	}
	if value.Unix > now+fiveYears {
		return apierror.InvalidTimestamp("Invalid timestamp: can be no more than five years in the future")
	}
	return nil
}
