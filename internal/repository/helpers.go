package repository

import (
	"database/sql"
)

// nullableFloat converts a *float64 to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// floatPtr is the inverse of nullableFloat for scanned columns.
func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
