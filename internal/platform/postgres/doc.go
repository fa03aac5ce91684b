// Package postgres implements the store interfaces on PostgreSQL, accessed
// through database/sql with the pgx stdlib driver. All errors are mapped to
// the sentinel errors defined in the store package.
package postgres
