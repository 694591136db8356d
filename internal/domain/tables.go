package domain

var Tables = []interface{}{
	// Catalog
	&Product{},
	&Category{},
	&ProductImage{},
	// Accounts
	&User{},
	// Orders
	&Order{},
	&OrderItem{},
	&Payment{},
	// System
	&AuditLog{},
}
