// Package store executes serialized queries against SQLite.
//
// Each entity becomes one table with a column per scalar property. Nested
// entities, collections and maps have no columns; queries that navigate
// them are rejected by the SQLite dialect before reaching the database.
//
// # Storage Classes
//
// Values are stored the way the SQLite dialect renders literals:
//   - bool: INTEGER 0/1
//   - datetime: TEXT in querysql.TimeLayout, UTC
//   - decimal: REAL
//   - integers: INTEGER; floats: REAL; strings: TEXT
//
// Result columns are decoded back to the declared type of the projection,
// so store rows compare equal to in-memory evaluation rows.
//
// # Database Configuration
//
//   - case_sensitive_like=ON: LIKE matches case-sensitively, as in memory
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - single connection: ":memory:" databases stay shared
package store
