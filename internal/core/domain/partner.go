package domain

// Partner is a tenant principal. It is created by an admin and owns customers,
// partner-level units and reports.
type Partner struct {
	PartnerID     string  `json:"partnerID"` // Primary Key (UUID)
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	PasswordHash  string  `json:"-"`
	PersonName    *string `json:"personName,omitempty"`
	PersonContact *string `json:"personContact,omitempty"`
	AdminID       string  `json:"adminID"` // FK -> admins.admin_id, required
	AuditFields
}
