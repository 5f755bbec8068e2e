package service

import (
	"context"

	"github.com/trendlens/trendlens-go/internal/model"
)

// LedgerStore is the ledger persistence surface the service needs.
// Implemented by repository.OutlierRepo.
type LedgerStore interface {
	List(ctx context.Context, f model.OutlierFilter) ([]model.OutlierRecord, int, error)
	MarkVerification(ctx context.Context, videoID string, isVerified, isFalsePositive *bool) (*model.OutlierRecord, error)
}

// OutlierLedgerService fronts the outlier ledger for the API layer.
type OutlierLedgerService struct {
	store LedgerStore
}

func NewOutlierLedgerService(store LedgerStore) *OutlierLedgerService {
	return &OutlierLedgerService{store: store}
}

// List returns a page of ledger entries plus the total for the filter.
func (s *OutlierLedgerService) List(ctx context.Context, f model.OutlierFilter) (*model.OutlierListResponse, error) {
	records, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &model.OutlierListResponse{
		Outliers: records,
		Total:    total,
		Limit:    f.Limit,
		Offset:   f.Offset,
	}, nil
}

// Verify applies a human review decision to a ledger entry. At the row
// level the two flags are independent booleans, but this write path
// enforces the business rule that verifying an outlier clears its
// false-positive mark unless the request says otherwise.
func (s *OutlierLedgerService) Verify(ctx context.Context, req model.VerificationRequest) (*model.OutlierRecord, error) {
	isFalsePositive := req.IsFalsePositive
	if req.IsVerified != nil && *req.IsVerified && isFalsePositive == nil {
		cleared := false
		isFalsePositive = &cleared
	}
	return s.store.MarkVerification(ctx, req.VideoID, req.IsVerified, isFalsePositive)
}
