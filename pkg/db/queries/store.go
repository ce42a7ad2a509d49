package queries

import (
	"github.com/jmoiron/sqlx"
)

// Store bundles all SQL access behind one injectable value. The quota
// tracker and batch processor consume it through narrower interfaces.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}
