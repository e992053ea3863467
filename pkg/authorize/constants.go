package authorize

type Action string
type Resource string

// Subject is the normalized role key a request acts as.
type Subject string

type PolicyEffect string

// ----------------------------
// Actions
// ----------------------------

const (
	WildcardAction Action = "*"

	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionExecute Action = "execute" // reconcile, pick up, and similar triggers
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionExecute: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourcePatient       Resource = "patient"
	ResourceAppointment   Resource = "appointment"
	ResourcePayment       Resource = "payment"
	ResourceStock         Resource = "stock"
	ResourcePrescription  Resource = "prescription"
	ResourceMedicalRecord Resource = "medical_record"
	ResourceReport        Resource = "report"
	ResourceLog           Resource = "log"
	ResourceSync          Resource = "sync"
	ResourceSelfService   Resource = "self_service" // a patient's own appointments, history and queue
)

var KnownResources = map[Resource]struct{}{
	ResourcePatient: {}, ResourceAppointment: {}, ResourcePayment: {}, ResourceStock: {},
	ResourcePrescription: {}, ResourceMedicalRecord: {}, ResourceReport: {}, ResourceLog: {},
	ResourceSync: {}, ResourceSelfService: {},
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// Permission rows: p, role, resource, action, eft
type PermissionPolicy struct {
	Subject Subject
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
