package model

import "time"

// Supplier is a ticketing channel. IsOutsourcedChannel marks suppliers
// whose bookings bypass the in-house ticketing flow: assigning one forces
// the booking into the Unticketed status, and moving away from one forces
// Ticked. The flag is set when the supplier is created, so the state
// machine never depends on what the supplier happens to be named.
type Supplier struct {
	ID                  string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name                string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	IsActive            bool      `json:"isActive" bson:"isActive"`
	IsOutsourcedChannel bool      `json:"isOutsourcedChannel" bson:"isOutsourcedChannel"`
	CreatedAt           time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt           time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// SupplierUpdate carries the fields an admin may change on a supplier.
type SupplierUpdate struct {
	Name                *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	IsActive            *bool   `json:"isActive,omitempty"`
	IsOutsourcedChannel *bool   `json:"isOutsourcedChannel,omitempty"`
}
