// Package postgres manages the GORM-backed PostgreSQL connection used by the
// materials repository.
//
// It owns connection construction, pool sizing, health checking and graceful
// shutdown. Repositories receive the *gorm.DB handle through Fx and stay
// unaware of connection management.
package postgres
