package submissions

import (
	"context"
	"sync"

	"alevatex/internal/domain"
)

// Form tracks one contact form through idle -> sending -> success | error.
// While sending, further submits are refused. From success or error the
// caller must Reset before submitting again.
type Form struct {
	svc *Service

	mu    sync.Mutex
	state domain.FormState
}

func (f *Form) State() domain.FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Reset returns a finished form to idle. It does nothing while sending.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != domain.FormSending {
		f.state = domain.FormIdle
	}
}

// Submit stores the lead locally, then relays the raw fields. The returned
// lead is populated whenever the local record was written, including when the
// relay failed (state error, non-nil err).
func (f *Form) Submit(ctx context.Context, fields map[string]string) (domain.Lead, domain.FormState, error) {
	f.mu.Lock()
	switch f.state {
	case domain.FormSending:
		f.mu.Unlock()
		f.svc.count("busy")
		return domain.Lead{}, domain.FormSending, ErrBusy
	case domain.FormSuccess, domain.FormError:
		state := f.state
		f.mu.Unlock()
		return domain.Lead{}, state, ErrNotIdle
	}
	inquiry, err := ParseInquiry(fields)
	if err != nil {
		f.mu.Unlock()
		f.svc.count("invalid")
		return domain.Lead{}, domain.FormIdle, err
	}
	f.state = domain.FormSending
	f.mu.Unlock()

	lead := f.svc.store(ctx, inquiry)
	relayErr := f.svc.relay(ctx, lead, fields)

	f.mu.Lock()
	defer f.mu.Unlock()
	if relayErr != nil {
		f.state = domain.FormError
		return lead, f.state, relayErr
	}
	f.state = domain.FormSuccess
	return lead, f.state, nil
}
