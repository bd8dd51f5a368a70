package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
)

type UserRepository struct{}

type UserRepositoryInterface interface {
	Create(ctx context.Context, tx *sql.Tx, user *User) error
	GetByID(ctx context.Context, db *sql.DB, id string) (*User, error)
	GetByEmail(ctx context.Context, db *sql.DB, email string) (*User, error)
	List(ctx context.Context, db *sql.DB) ([]*User, error)
	Update(ctx context.Context, tx *sql.Tx, id, name, email, hashedPassword string) (int64, error)
	DeleteByID(ctx context.Context, db *sql.DB, id string) (int64, error)
}

func NewUserRepository() UserRepositoryInterface {
	return &UserRepository{}
}

// Create inserts a new user row.
func (r *UserRepository) Create(
	ctx context.Context,
	tx *sql.Tx,
	user *User,
) error {
	query := `
		INSERT INTO users (
			id, name, email, password, created_at
		)
		VALUES ($1, $2, $3, $4, NOW())
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
	)

	if err != nil {
		logrus.WithError(err).Error("Failed to create user")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User created successfully")

	return nil
}

// GetByID retrieves a user by id. An absent user is (nil, nil), not an error.
func (r *UserRepository) GetByID(ctx context.Context, db *sql.DB, id string) (*User, error) {
	query := `
		SELECT id, name, email, password, created_at
		FROM users
		WHERE id = $1
	`

	user := &User{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logrus.WithError(err).Error("Failed to get user by ID")
		return nil, err
	}

	return user, nil
}

// GetByEmail retrieves a user by exact email match. Absent is (nil, nil).
func (r *UserRepository) GetByEmail(ctx context.Context, db *sql.DB, email string) (*User, error) {
	query := `
		SELECT id, name, email, password, created_at
		FROM users
		WHERE email = $1
	`

	user := &User{}
	err := db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logrus.WithError(err).Error("Failed to get user by email")
		return nil, err
	}

	return user, nil
}

// List returns every user row.
func (r *UserRepository) List(ctx context.Context, db *sql.DB) ([]*User, error) {
	query := `
		SELECT id, name, email, password, created_at
		FROM users
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.Password,
			&u.CreatedAt,
		)
		if err != nil {
			logrus.Error("Error scanning user row: ", err)
			continue
		}
		users = append(users, &u)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// Update overwrites name, email and password for the given user id and
// returns the number of rows affected.
func (r *UserRepository) Update(
	ctx context.Context,
	tx *sql.Tx,
	id, name, email, hashedPassword string,
) (int64, error) {
	query := `
		UPDATE users
		SET name = $1, email = $2, password = $3
		WHERE id = $4
	`

	result, err := tx.ExecContext(ctx, query, name, email, hashedPassword, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to update user")
		return 0, err
	}

	return result.RowsAffected()
}

// DeleteByID removes all users matching id (0 or 1 rows) and returns the
// affected count.
func (r *UserRepository) DeleteByID(ctx context.Context, db *sql.DB, id string) (int64, error) {
	query := `
		DELETE FROM users
		WHERE id = $1
	`

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete user")
		return 0, err
	}

	return result.RowsAffected()
}
