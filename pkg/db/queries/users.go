package queries

import (
	"database/sql"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/luminalabs/lumina-video-api/pkg/db"
)

// CreateUser inserts a new user into the database.
// It takes a User struct (without ID, CreatedAt, UpdatedAt) and returns the created User with generated fields.
func (s *Store) CreateUser(user *db.User) (*db.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES (:username, :email, :password_hash)
		RETURNING id, created_at, updated_at`

	rows, err := s.db.NamedQuery(query, user)
	if err != nil {
		log.Errorf("Error creating user: %v", err)
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.StructScan(user); err != nil {
			log.Errorf("Error scanning user data after creation: %v", err)
			return nil, err
		}
	} else {
		log.Error("No rows returned after user creation.")
		return nil, sql.ErrNoRows
	}

	log.Infof("User %s created with ID: %s", user.Email, user.ID.String())
	return user, nil
}

// FindUserByEmail retrieves a user from the database by their email address.
// Returns nil, nil when no user exists with that email.
func (s *Store) FindUserByEmail(email string) (*db.User, error) {
	user := &db.User{}
	query := `SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE email = $1`
	err := s.db.Get(user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("User with email '%s' not found.", email)
			return nil, nil
		}
		log.Errorf("Error finding user by email '%s': %v", email, err)
		return nil, err
	}
	return user, nil
}

// FindUserByID retrieves a user from the database by their ID.
func (s *Store) FindUserByID(id uuid.UUID) (*db.User, error) {
	user := &db.User{}
	query := `SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE id = $1`
	err := s.db.Get(user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debugf("User with ID '%s' not found.", id.String())
			return nil, nil
		}
		log.Errorf("Error finding user by ID '%s': %v", id.String(), err)
		return nil, err
	}
	return user, nil
}

// DeleteUser deletes a user from the database by their ID.
func (s *Store) DeleteUser(id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := s.db.Exec(query, id)
	if err != nil {
		log.Errorf("Error deleting user with ID '%s': %v", id.String(), err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warnf("No user found with ID '%s' for deletion.", id.String())
		return nil
	}

	log.Infof("User with ID '%s' deleted.", id.String())
	return nil
}
