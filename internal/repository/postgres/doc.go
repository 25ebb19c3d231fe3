// Package postgres contains the PostgreSQL implementations of the service
// repository interfaces. Each repo translates sql.ErrNoRows into the owning
// service's sentinel error so handlers never see driver errors.
package postgres
