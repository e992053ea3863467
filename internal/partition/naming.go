// Package partition maps roles onto keys of the shared key-value space and
// manages the per-role bundle of record collections stored there.
package partition

import (
	"strings"
	"unicode"
)

const (
	GlobalPatientsKey = "ks_global_patients"
	DataPrefix        = "ks_data_"
	SyncMarkerKey     = "ks_presc_last_sync"
	SessionPrefix     = "ks_user_"
)

// RoleKey lower-cases role and removes all whitespace.
// A role with no visible characters maps to "unknown".
func RoleKey(role string) string {
	k := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, role)
	if k == "" {
		return "unknown"
	}
	return k
}

func KeyForRole(role string) string {
	return DataPrefix + RoleKey(role)
}
