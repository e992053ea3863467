package authorize

import (
	"context"
	"fmt"
	"log/slog"
)

// Role subjects, as produced by partition.RoleKey.
const (
	SubjectAdminStaff Subject = "petugasadministrasi"
	SubjectPhysician  Subject = "dokter"
	SubjectNurse      Subject = "perawat"
	SubjectCashier    Subject = "kasir"
	SubjectPharmacist Subject = "apoteker"
	SubjectManager    Subject = "manajerklinik"
	SubjectPatient    Subject = "pasien"
)

func allow(s Subject, r Resource, a Action) PermissionPolicy {
	return PermissionPolicy{Subject: s, Object: r, Action: a, Effect: EffectAllow}
}

// DefaultPolicies is the clinic's feature matrix.
func DefaultPolicies() []PermissionPolicy {
	return []PermissionPolicy{
		// front desk: registration, scheduling, cashier backup, pharmacy backup
		allow(SubjectAdminStaff, ResourcePatient, WildcardAction),
		allow(SubjectAdminStaff, ResourceAppointment, WildcardAction),
		allow(SubjectAdminStaff, ResourcePayment, WildcardAction),
		allow(SubjectAdminStaff, ResourceStock, WildcardAction),
		allow(SubjectAdminStaff, ResourcePrescription, ActionRead),
		allow(SubjectAdminStaff, ResourceLog, ActionRead),
		allow(SubjectAdminStaff, ResourceSync, ActionExecute),

		allow(SubjectPhysician, ResourcePatient, ActionRead),
		allow(SubjectPhysician, ResourceAppointment, WildcardAction),
		allow(SubjectPhysician, ResourceMedicalRecord, ActionCreate),
		allow(SubjectPhysician, ResourceMedicalRecord, ActionRead),
		allow(SubjectPhysician, ResourcePrescription, ActionCreate),
		allow(SubjectPhysician, ResourcePrescription, ActionRead),
		allow(SubjectPhysician, ResourceLog, ActionRead),

		allow(SubjectNurse, ResourcePatient, ActionRead),
		allow(SubjectNurse, ResourceMedicalRecord, ActionCreate),
		allow(SubjectNurse, ResourceMedicalRecord, ActionRead),
		allow(SubjectNurse, ResourceLog, ActionRead),

		allow(SubjectCashier, ResourcePayment, WildcardAction),
		allow(SubjectCashier, ResourceReport, ActionRead),
		allow(SubjectCashier, ResourceLog, ActionRead),

		allow(SubjectPharmacist, ResourcePatient, ActionRead),
		allow(SubjectPharmacist, ResourceStock, WildcardAction),
		allow(SubjectPharmacist, ResourcePrescription, ActionRead),
		allow(SubjectPharmacist, ResourcePrescription, ActionExecute),
		allow(SubjectPharmacist, ResourceLog, ActionRead),
		allow(SubjectPharmacist, ResourceSync, ActionExecute),

		allow(SubjectManager, ResourceReport, ActionRead),
		allow(SubjectManager, ResourceLog, ActionRead),

		allow(SubjectPatient, ResourceSelfService, WildcardAction),
	}
}

// SeedDefaultPolicies loads DefaultPolicies into auth. Existing rows are kept.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	added := 0
	for _, p := range DefaultPolicies() {
		ok, err := auth.AddPermission(ctx, p)
		if err != nil {
			return fmt.Errorf("seed %s %s %s: %w", p.Subject, p.Object, p.Action, err)
		}
		if ok {
			added++
		}
	}
	slog.Debug("authorization policies seeded", "added", added)
	return nil
}

// NewClinicAuthorization returns an audited, seeded in-memory authorizer.
func NewClinicAuthorization(ctx context.Context, logger *slog.Logger) (IAuthorization, error) {
	e, err := NewEnforcer()
	if err != nil {
		return nil, err
	}
	base, err := NewAuthorization(e)
	if err != nil {
		return nil, err
	}
	auth := NewAuditedAuthorization(base, logger)
	if err := SeedDefaultPolicies(ctx, auth); err != nil {
		return nil, err
	}
	return auth, nil
}
