package models

import "github.com/google/uuid"

// ensureID assigns a random UUID when the primary key is unset.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&Catalog{},
		&InventoryItem{},
		&Sale{},
		&SaleItem{},
		&Invoice{},
	}
}
