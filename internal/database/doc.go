// Package database provides PostgreSQL connection pool management for the
// optional transaction archive.
package database
