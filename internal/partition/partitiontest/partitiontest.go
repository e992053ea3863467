// Package partitiontest builds repositories over a fresh in-memory space.
package partitiontest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/Alijeyrad/kliniksehat/internal/partition"
	"github.com/Alijeyrad/kliniksehat/pkg/kvstore"
)

type Env struct {
	Space   *kvstore.Space
	Backend *kvstore.Memory
	Store   *kvstore.Store
	Repo    *partition.Repository
	Roles   *partition.Registry
	Log     *slog.Logger
}

func New(t testing.TB) *Env {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	space := kvstore.NewSpace(0)
	mem := space.Open()
	store := kvstore.New(mem, log)
	return &Env{
		Space:   space,
		Backend: mem,
		Store:   store,
		Repo:    partition.NewRepository(store, log),
		Roles:   partition.MustRegistry(partition.DefaultRoles()...),
		Log:     log,
	}
}
