package models

import "time"

// Audit action tags. The set is closed; new tags require a migration of
// downstream log consumers.
const (
	ActionRegisterSuccessful = "register_successful"
	ActionRegisterFailed     = "register_failed"
	ActionLoginSuccessful    = "login_successful"
	ActionLoginFailed        = "login_failed"
	ActionLogoutSuccessful   = "logout_successful"

	// ActionTokenRejected replaces the legacy reuse of "register_failed"
	// for bearer-token rejections at the gate.
	ActionTokenRejected = "token_rejected"

	ActionAuditExported = "audit_exported"
)

// CRUD audit tags follow the fixed register/updated/deleted pattern per
// entity. Deletes have no failed variant: a missing id is a plain 404.
const (
	ActionRegisterRegionsSuccessful = "register_regions_successful"
	ActionRegisterRegionsFailed     = "register_regions_failed"
	ActionUpdatedRegionsSuccessful  = "updated_regions_successful"
	ActionUpdatedRegionsFailed      = "updated_regions_failed"
	ActionDeletedRegionsSuccessful  = "deleted_regions_successful"

	ActionRegisterCommunesSuccessful = "register_communes_successful"
	ActionRegisterCommunesFailed     = "register_communes_failed"
	ActionUpdatedCommunesSuccessful  = "updated_communes_successful"
	ActionUpdatedCommunesFailed      = "updated_communes_failed"
	ActionDeletedCommunesSuccessful  = "deleted_communes_successful"

	ActionRegisterCustomersSuccessful = "register_customers_successful"
	ActionRegisterCustomersFailed     = "register_customers_failed"
	ActionUpdatedCustomersSuccessful  = "updated_customers_successful"
	ActionUpdatedCustomersFailed      = "updated_customers_failed"
	ActionDeletedCustomersSuccessful  = "deleted_customers_successful"
)

// AuditEntry is an immutable record of a security- or business-relevant
// event. UserID is nil when the actor is unauthenticated (e.g. a failed
// login with unknown credentials). Entries are append-only and never
// mutated or deleted by the service.
type AuditEntry struct {
	ID        int64
	UserID    *int64
	Action    string
	Details   string
	IPAddress string
	CreatedAt time.Time
}
