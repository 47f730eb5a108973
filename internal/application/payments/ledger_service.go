package payments

import (
	"context"
	"time"

	"github.com/charlykso/smart-s-sub004/internal/domain/identity"
	"github.com/charlykso/smart-s-sub004/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutstandingLine is the balance of one fee for one payer
type OutstandingLine struct {
	FeeID       uuid.UUID  `json:"fee_id"`
	FeeName     string     `json:"fee_name"`
	FeeType     string     `json:"fee_type"`
	TermID      uuid.UUID  `json:"term_id"`
	Amount      string     `json:"amount"`
	Paid        string     `json:"paid"`
	Outstanding string     `json:"outstanding"`
	Settled     bool       `json:"settled"`
	Overpaid    bool       `json:"overpaid,omitempty"`
	LastPaidAt  *time.Time `json:"last_paid_at,omitempty"`
}

// OutstandingResponse is the full ledger position of one payer
type OutstandingResponse struct {
	PayerID          uuid.UUID         `json:"payer_id"`
	SchoolID         uuid.UUID         `json:"school_id"`
	TermID           *uuid.UUID        `json:"term_id,omitempty"`
	Lines            []OutstandingLine `json:"lines"`
	TotalOutstanding string            `json:"total_outstanding"`
	SettledFees      []uuid.UUID       `json:"settled_fees"`
}

// OutstandingFor computes the payer's outstanding balance across the
// payable fees of their school, optionally restricted to one term.
//
// The computation reads the payable fee set, then all of the payer's
// successful payments against those fees in a single consistent snapshot.
// A payment confirmed concurrently is either counted in full or not at
// all. Per-fee balances clamp at zero so an over-payment on one fee never
// hides a debt on another.
func (s *Service) OutstandingFor(ctx context.Context, actor identity.Actor, payerID uuid.UUID, termID *uuid.UUID) (*OutstandingResponse, error) {
	payer, err := s.users.FindByID(ctx, payerID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeRead(ctx, actor, payer.SchoolID, payerID); err != nil {
		return nil, err
	}

	payable, err := s.fees.FindPayableBySchool(ctx, payer.SchoolID, termID)
	if err != nil {
		return nil, err
	}

	if len(payable) == 0 {
		return &OutstandingResponse{
			PayerID:          payerID,
			SchoolID:         payer.SchoolID,
			TermID:           termID,
			Lines:            []OutstandingLine{},
			TotalOutstanding: valueobject.ZeroNGN().Amount().StringFixed(2),
			SettledFees:      []uuid.UUID{},
		}, nil
	}

	feeIDs := make([]uuid.UUID, len(payable))
	for i := range payable {
		feeIDs[i] = payable[i].ID
	}

	settlements, err := s.payments.FindSuccessfulByPayerAndFees(ctx, payerID, feeIDs)
	if err != nil {
		return nil, err
	}

	paidByFee := make(map[uuid.UUID]valueobject.Money, len(payable))
	lastPaidByFee := make(map[uuid.UUID]time.Time, len(payable))
	for i := range settlements {
		p := &settlements[i]
		sum, ok := paidByFee[p.FeeID]
		if !ok {
			sum = valueobject.ZeroNGN()
		}
		paidByFee[p.FeeID] = sum.MustAdd(p.AmountMoney())
		if p.PaidAt != nil && p.PaidAt.After(lastPaidByFee[p.FeeID]) {
			lastPaidByFee[p.FeeID] = *p.PaidAt
		}
	}

	lines := make([]OutstandingLine, 0, len(payable))
	settled := make([]uuid.UUID, 0)
	total := valueobject.ZeroNGN()

	for i := range payable {
		f := &payable[i]
		paid, ok := paidByFee[f.ID]
		if !ok {
			paid = valueobject.ZeroNGN()
		}

		outstanding := f.AmountMoney().MustSubtract(paid).ClampZero()
		total = total.MustAdd(outstanding)

		line := OutstandingLine{
			FeeID:       f.ID,
			FeeName:     f.Name,
			FeeType:     f.Type.String(),
			TermID:      f.TermID,
			Amount:      f.Amount.StringFixed(2),
			Paid:        paid.Amount().StringFixed(2),
			Outstanding: outstanding.Amount().StringFixed(2),
			Settled:     outstanding.IsZero(),
			Overpaid:    paid.Amount().GreaterThan(f.Amount),
		}
		if ts, ok := lastPaidByFee[f.ID]; ok {
			t := ts
			line.LastPaidAt = &t
		}
		if line.Settled {
			settled = append(settled, f.ID)
		}

		lines = append(lines, line)
	}

	s.logger.Debug("outstanding balance computed",
		zap.String("payer_id", payerID.String()),
		zap.Int("payable_fees", len(payable)),
		zap.Int("settled_fees", len(settled)),
		zap.String("total_outstanding", total.Amount().StringFixed(2)))

	return &OutstandingResponse{
		PayerID:          payerID,
		SchoolID:         payer.SchoolID,
		TermID:           termID,
		Lines:            lines,
		TotalOutstanding: total.Amount().StringFixed(2),
		SettledFees:      settled,
	}, nil
}
