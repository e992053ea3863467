package stock

import (
	"context"
	"strings"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/internal/record"
)

// UpsertRequest updates the item with ID when set, otherwise adds a new one.
type UpsertRequest struct {
	ID           string
	Name         string
	Qty          int
	Unit         string
	MinThreshold int
}

type Service interface {
	Upsert(ctx context.Context, ws *partition.Workspace, req UpsertRequest) (*record.StockItem, error)
	Delete(ctx context.Context, ws *partition.Workspace, id string) error
	List(ctx context.Context, ws *partition.Workspace) []record.StockItem
	Low(ws *partition.Workspace) []record.StockItem
}

type stockService struct {
	repo *partition.Repository
}

func New(repo *partition.Repository) Service {
	return &stockService{repo: repo}
}

func (s *stockService) Upsert(ctx context.Context, ws *partition.Workspace, req UpsertRequest) (*record.StockItem, error) {
	item := record.StockItem{
		ID:           strings.TrimSpace(req.ID),
		Name:         strings.TrimSpace(req.Name),
		Qty:          req.Qty,
		Unit:         strings.TrimSpace(req.Unit),
		MinThreshold: req.MinThreshold,
	}
	if item.Name == "" {
		return nil, ErrNameRequired
	}
	if item.Qty < 0 || item.MinThreshold < 0 {
		return nil, ErrNegativeCount
	}

	if item.ID == "" {
		item.ID = record.NewID(record.PrefixStock)
		ws.Partition.Stock = append([]record.StockItem{item}, ws.Partition.Stock...)
		s.repo.AppendLog(ctx, ws, "Stok tambah: "+item.Name)
		return &item, nil
	}

	for i := range ws.Partition.Stock {
		if ws.Partition.Stock[i].ID == item.ID {
			ws.Partition.Stock[i] = item
			s.repo.AppendLog(ctx, ws, "Stok update: "+item.Name)
			return &item, nil
		}
	}
	return nil, ErrItemNotFound
}

func (s *stockService) Delete(ctx context.Context, ws *partition.Workspace, id string) error {
	list := ws.Partition.Stock
	for i := range list {
		if list[i].ID == id {
			name := list[i].Name
			ws.Partition.Stock = append(list[:i:i], list[i+1:]...)
			s.repo.AppendLog(ctx, ws, "Stok hapus: "+name)
			return nil
		}
	}
	return ErrItemNotFound
}

func (s *stockService) List(_ context.Context, ws *partition.Workspace) []record.StockItem {
	return append([]record.StockItem{}, ws.Partition.Stock...)
}

func (s *stockService) Low(ws *partition.Workspace) []record.StockItem {
	out := []record.StockItem{}
	for _, it := range ws.Partition.Stock {
		if it.Low() {
			out = append(out, it)
		}
	}
	return out
}
