package payment

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/record"
)

type CreateRequest struct {
	PatientID string
	Amount    float64
	Method    string
	Note      string
}

type Service interface {
	Create(ctx context.Context, ws *partition.Workspace, req CreateRequest) (*record.Payment, error)
	List(ctx context.Context, ws *partition.Workspace) []record.Payment
	Total(ws *partition.Workspace) float64
}

type paymentService struct {
	repo *partition.Repository
	now  func() time.Time
}

func New(repo *partition.Repository) Service {
	return &paymentService{repo: repo, now: time.Now}
}

func (s *paymentService) Create(ctx context.Context, ws *partition.Workspace, req CreateRequest) (*record.Payment, error) {
	if strings.TrimSpace(req.PatientID) == "" {
		return nil, ErrPatientRequired
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = record.DefaultPaymentMethod
	}
	p := record.Payment{
		ID:        record.NewID(record.PrefixPayment),
		PatientID: req.PatientID,
		Amount:    req.Amount,
		Method:    method,
		Note:      strings.TrimSpace(req.Note),
		Datetime:  s.now(),
	}
	ws.Partition.Payments = append([]record.Payment{p}, ws.Partition.Payments...)
	s.repo.AppendLog(ctx, ws, fmt.Sprintf("Pembayaran: %s pasien:%s rp %s", p.ID, p.PatientID, formatAmount(p.Amount)))
	return &p, nil
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func (s *paymentService) List(_ context.Context, ws *partition.Workspace) []record.Payment {
	return append([]record.Payment{}, ws.Partition.Payments...)
}

func (s *paymentService) Total(ws *partition.Workspace) float64 {
	var sum float64
	for _, p := range ws.Partition.Payments {
		sum += p.Amount
	}
	return sum
}
