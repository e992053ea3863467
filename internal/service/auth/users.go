package auth

import "github.com/Alijeyrad/kliniksehat/internal/partition"

type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

// DemoUsers is the static account list; any non-empty password is accepted.
func DemoUsers() []User {
	return []User{
		{Username: "petugas1", Role: partition.RoleAdminStaff, Name: "Petugas A"},
		{Username: "dokter1", Role: partition.RolePhysician, Name: "dr. Andi"},
		{Username: "perawat1", Role: partition.RoleNurse, Name: "Perawat A"},
		{Username: "apoteker1", Role: partition.RolePharmacist, Name: "Apoteker A"},
		{Username: "kasir1", Role: partition.RoleCashier, Name: "Kasir A"},
		{Username: "manajer1", Role: partition.RoleManager, Name: "Manajer"},
		{Username: "pasien1", Role: partition.RolePatient, Name: "Budi Santoso"},
	}
}
