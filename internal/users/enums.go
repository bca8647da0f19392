package users

type Role string

const (
	// RoleVendor is a book seller reserving stalls at the fair
	RoleVendor Role = "VENDOR"
	// RoleStaff is a fair employee managing the catalog and reservations
	RoleStaff Role = "STAFF"
)
