// Package arango implements the store interfaces against ArangoDB using the
// collections bootstrapped by the database package.
package arango

import (
	"github.com/thegr8lewis/health-backend/database"
	"github.com/thegr8lewis/health-backend/internal/store"
)

// New wires all store interfaces over a database connection.
func New(db database.DBConnection) store.Store {
	return store.Store{
		Users:       &userStore{db: db},
		Clients:     &clientStore{db: db},
		Programs:    &programStore{db: db},
		ResetTokens: &resetTokenStore{db: db},
		Audit:       &auditStore{db: db},
	}
}
