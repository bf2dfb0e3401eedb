package domain

// Customer is an end customer under exactly one partner. Reports are delivered
// to the customer's email address.
type Customer struct {
	CustomerID string `json:"customerID"` // Primary Key (UUID)
	Name       string `json:"name"`
	Email      string `json:"email"`
	PartnerID  string `json:"partnerID"` // FK -> partners.partner_id, required
	AuditFields
}
