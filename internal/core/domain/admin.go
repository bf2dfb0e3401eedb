package domain

// Admin is the root principal of an ownership chain. Every partner belongs to
// exactly one admin.
type Admin struct {
	AdminID      string `json:"adminID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Email        string `json:"email"` // unique, stored lowercase
	PasswordHash string `json:"-"`
	AuditFields
}
