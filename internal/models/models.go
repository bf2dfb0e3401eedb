package models

import "time"

// AuditFields holds the audit columns shared by every table.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// Admin is the database representation of an admin principal.
type Admin struct {
	AdminID      string `db:"admin_id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	AuditFields
}

// Partner is the database representation of a partner.
type Partner struct {
	PartnerID     string  `db:"partner_id"`
	Name          string  `db:"name"`
	Email         string  `db:"email"`
	PasswordHash  string  `db:"password_hash"`
	PersonName    *string `db:"person_name"`
	PersonContact *string `db:"person_contact"`
	AdminID       string  `db:"admin_id"`
	AuditFields
}

// Customer is the database representation of a customer.
type Customer struct {
	CustomerID string `db:"customer_id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	PartnerID  string `db:"partner_id"`
	AuditFields
}

// Unit is the database representation of a unit. A CHECK constraint mirrors
// the exactly-one-association invariant enforced by the service layer.
type Unit struct {
	UnitID     string  `db:"unit_id"`
	UnitName   string  `db:"unit_name"`
	CustomerID *string `db:"customer_id"`
	PartnerID  *string `db:"partner_id"`
	AuditFields
}

// Report is the database representation of a report.
type Report struct {
	ReportID     string  `db:"report_id"`
	ReportNumber string  `db:"report_number"`
	VNNumber     string  `db:"vn_number"`
	Status       string  `db:"status"`
	IsNew        bool    `db:"is_new"`
	AdminNote    *string `db:"admin_note"`
	PartnerNote  *string `db:"partner_note"`
	PartnerID    string  `db:"partner_id"`
	CustomerID   *string `db:"customer_id"`
	UnitID       *string `db:"unit_id"`
	AuditFields
}

// ReportFile is the database representation of one report attachment.
type ReportFile struct {
	FileID       string    `db:"file_id"`
	ReportID     string    `db:"report_id"`
	OriginalName string    `db:"original_name"`
	StoragePath  string    `db:"storage_path"`
	MimeType     string    `db:"mime_type"`
	Size         int64     `db:"size_bytes"`
	UploadedAt   time.Time `db:"uploaded_at"`
}
