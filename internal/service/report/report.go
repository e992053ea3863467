// Package report builds the manager dashboard figures.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/record"
)

type Summary struct {
	Patients     int                `json:"patients"`
	Appointments int                `json:"appointments"`
	PaymentTotal float64            `json:"paymentTotal"`
	LowStock     []record.StockItem `json:"lowStock"`
}

type Service interface {
	// Summary counts global patients and the workspace's own appointments,
	// payments and low stock.
	Summary(ctx context.Context, ws *partition.Workspace) Summary
	CSV(ctx context.Context, ws *partition.Workspace) ([]byte, error)
	Activity(ctx context.Context, ws *partition.Workspace) []record.LogEntry
}

type reportService struct {
	repo *partition.Repository
}

func New(repo *partition.Repository) Service {
	return &reportService{repo: repo}
}

func (s *reportService) Summary(ctx context.Context, ws *partition.Workspace) Summary {
	out := Summary{
		Patients:     len(s.repo.LoadGlobalPatients(ctx)),
		Appointments: len(ws.Partition.Appointments),
		LowStock:     []record.StockItem{},
	}
	for _, p := range ws.Partition.Payments {
		out.PaymentTotal += p.Amount
	}
	for _, it := range ws.Partition.Stock {
		if it.Low() {
			out.LowStock = append(out.LowStock, it)
		}
	}
	return out
}

func (s *reportService) CSV(ctx context.Context, ws *partition.Workspace) ([]byte, error) {
	sum := s.Summary(ctx, ws)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{
		{"Key", "Value"},
		{"Patients", strconv.Itoa(sum.Patients)},
		{"Appointments", strconv.Itoa(sum.Appointments)},
		{"Payments", strconv.FormatFloat(sum.PaymentTotal, 'f', -1, 64)},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *reportService) Activity(_ context.Context, ws *partition.Workspace) []record.LogEntry {
	return append([]record.LogEntry{}, ws.Partition.Logs...)
}
