package partition

import (
	"errors"
	"fmt"
	"strings"
)

const (
	RoleAdminStaff = "Petugas Administrasi"
	RolePhysician  = "Dokter"
	RoleNurse      = "Perawat"
	RoleCashier    = "Kasir"
	RolePharmacist = "Apoteker"
	RoleManager    = "Manajer Klinik"
	RolePatient    = "Pasien"
)

var (
	ErrEmptyRegistry = errors.New("partition: no roles registered")
	ErrRoleCollision = errors.New("partition: roles share a partition key")
)

// DefaultRoles is the clinic's role catalog in scan order.
func DefaultRoles() []string {
	return []string{
		RoleAdminStaff,
		RolePhysician,
		RoleNurse,
		RoleCashier,
		RolePharmacist,
		RoleManager,
		RolePatient,
	}
}

// Registry is the ordered catalog of roles whose partitions are scanned by
// cross-partition reads and reconciliation.
type Registry struct {
	roles []string
	byKey map[string]string
}

func NewRegistry(roles ...string) (*Registry, error) {
	if len(roles) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &Registry{byKey: make(map[string]string, len(roles))}
	for _, role := range roles {
		role = strings.TrimSpace(role)
		k := RoleKey(role)
		if prev, ok := r.byKey[k]; ok {
			return nil, fmt.Errorf("%w: %q and %q", ErrRoleCollision, prev, role)
		}
		r.byKey[k] = role
		r.roles = append(r.roles, role)
	}
	return r, nil
}

func MustRegistry(roles ...string) *Registry {
	r, err := NewRegistry(roles...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Roles() []string {
	return append([]string(nil), r.roles...)
}

func (r *Registry) Contains(role string) bool {
	_, ok := r.byKey[RoleKey(role)]
	return ok
}

// Canonical returns the registered spelling of role.
func (r *Registry) Canonical(role string) (string, bool) {
	c, ok := r.byKey[RoleKey(role)]
	return c, ok
}
