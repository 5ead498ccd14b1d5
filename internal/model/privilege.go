package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "order:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Order"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Order lifecycle
	{Code: "order:view", Name: "View Order"},
	{Code: "order:create", Name: "Create Order"},
	{Code: "order:update", Name: "Update Order"},
	{Code: "order:delete", Name: "Delete Order"},
	// Inventory buckets
	{Code: "inventory:view", Name: "View Inventory"},
	// Production requests
	{Code: "production:view", Name: "View Production Request"},
	{Code: "production:create", Name: "Create Production Request"},
	{Code: "production:update", Name: "Update Production Request"},
	{Code: "production:delete", Name: "Delete Production Request"},
	// Order templates
	{Code: "template:view", Name: "View Order Template"},
	{Code: "template:create", Name: "Create Order Template"},
	{Code: "template:delete", Name: "Delete Order Template"},
	// Reference data
	{Code: "refdata:view", Name: "View Reference Data"},
}
