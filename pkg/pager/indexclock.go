package pager

// IndexClock decides whether an externally requested index must drive the
// page view to a new page. It is a pure predicate with no state of its own;
// the coordinator supplies the bookkeeping arguments on every signal.
type IndexClock struct {
	strict bool
}

// NewIndexClock creates an index clock. In strict mode ClampIndex rejects
// out-of-range input instead of clamping it (used by tests).
func NewIndexClock(strict bool) IndexClock {
	return IndexClock{strict: strict}
}

// ShouldSync reports whether the page view must be commanded to target.
//
// It returns false when the external signal carries no change, when the page
// view is not yet attached (the initial page is set via construction, never
// via a sync call), or when the view already sits on the target (the move was
// user-driven rather than external). Calling twice with identical arguments
// yields identical answers.
func (c IndexClock) ShouldSync(requested, lastKnownRequested int, hasClients bool, currentPage, target int) bool {
	if requested == lastKnownRequested {
		return false
	}
	if !hasClients {
		return false
	}
	if currentPage == target {
		return false
	}
	return true
}

// ClampIndex forces raw into [0, total-1]. With total <= 0 there is nothing
// to clamp to and 0 is returned. In strict mode an out-of-range raw index is
// an ErrOutOfRange instead; callers running normally clamp and log.
func (c IndexClock) ClampIndex(raw, total int) (int, error) {
	if total <= 0 {
		if c.strict && raw != 0 {
			return 0, ErrOutOfRange
		}
		return 0, nil
	}
	if raw < 0 || raw > total-1 {
		if c.strict {
			return clamp(raw, total), ErrOutOfRange
		}
		return clamp(raw, total), nil
	}
	return raw, nil
}
