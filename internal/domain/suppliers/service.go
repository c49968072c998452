package suppliers

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"backoffice/internal/platform/money"
)

type StoreAPI interface {
	Get(ctx context.Context, id string) (Transaction, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]Transaction, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Insert(ctx context.Context, t Transaction) (Transaction, error)
	UpdateStatus(ctx context.Context, t Transaction) (Transaction, error)
}

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

// NormalizeStatus accepts the stored values as well as the "Paid" and
// "Not Paid" spellings used by the bookkeeping screens.
func NormalizeStatus(raw string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	status = strings.NewReplacer(" ", "_", "-", "_").Replace(status)
	switch status {
	case "", StatusNotPaid:
		return StatusNotPaid, nil
	case StatusPaid:
		return StatusPaid, nil
	}
	return "", ErrInvalidStatus
}

func Validate(t Transaction) error {
	if t.Description == "" || utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrDescriptionRequired
	}
	if !money.Within(t.TotalAmount, MinAmount, MaxAmount) {
		return ErrInvalidAmount
	}
	if t.PaidStatus != StatusPaid && t.PaidStatus != StatusNotPaid {
		return ErrInvalidStatus
	}
	return nil
}

// settle keeps IsPayable and PaidDate in step with PaidStatus. A paid
// transaction keeps its first paid date.
func (s *Service) settle(t *Transaction) {
	if t.PaidStatus == StatusPaid {
		t.IsPayable = false
		if t.PaidDate == nil {
			paid := s.now().UTC()
			t.PaidDate = &paid
		}
		return
	}
	t.IsPayable = true
	t.PaidDate = nil
}

func (s *Service) Create(ctx context.Context, d Draft) (Transaction, error) {
	status, err := NormalizeStatus(d.PaidStatus)
	if err != nil {
		return Transaction{}, err
	}
	t := Transaction{
		Description: strings.TrimSpace(d.Description),
		TotalAmount: d.TotalAmount,
		PaidStatus:  status,
	}
	if err := Validate(t); err != nil {
		return Transaction{}, err
	}
	s.settle(&t)
	return s.store.Insert(ctx, t)
}

func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Transaction, int, error) {
	if filter.PaidStatus != "" {
		status, err := NormalizeStatus(filter.PaidStatus)
		if err != nil {
			return nil, 0, err
		}
		filter.PaidStatus = status
	}
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.store.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// MarkPaid settles the transaction. Paying an already paid transaction
// returns it unchanged.
func (s *Service) MarkPaid(ctx context.Context, id string) (Transaction, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if t.PaidStatus == StatusPaid {
		return t, nil
	}
	t.PaidStatus = StatusPaid
	s.settle(&t)
	return s.store.UpdateStatus(ctx, t)
}
