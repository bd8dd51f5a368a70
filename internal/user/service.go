package user

import (
	"blog_api/internal/auth"
	"blog_api/internal/utils"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingFields    = errors.New("please fill in all fields.")
	ErrEmailInUse       = errors.New("this email is already in use")
	ErrNotRegistered    = errors.New("you are not registered.")
	ErrPasswordMismatch = errors.New("passwords do not match.")
)

type UserService struct {
	repo      UserRepositoryInterface
	db        *sql.DB
	tokens    *auth.TokenService
	signupTTL time.Duration
	signinTTL time.Duration
}

type UserServiceInterface interface {
	Signup(ctx context.Context, name, email, password string) (*User, string, error)
	Signin(ctx context.Context, email, password string) (*User, string, error)
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id string) (*Projection, error)
	UpdateSelf(ctx context.Context, callerID, name, email, password string) (*User, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

func NewUserService(repo UserRepositoryInterface, db *sql.DB, tokens *auth.TokenService, signupTTL, signinTTL time.Duration) UserServiceInterface {
	return &UserService{
		repo:      repo,
		db:        db,
		tokens:    tokens,
		signupTTL: signupTTL,
		signinTTL: signinTTL,
	}
}

// Signup registers a new user and issues a session token.
//
// The field check rejects only when name, email AND password are all empty.
// That is the behavior the API has always had: a request with, say, only a
// password passes validation. Kept as-is so existing clients see no change.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*User, string, error) {
	if name == "" && email == "" && password == "" {
		return nil, "", ErrMissingFields
	}

	// Exact email match, no normalization.
	existing, err := s.repo.GetByEmail(ctx, s.db, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailInUse
	}

	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return nil, "", err
	}

	newUser := &User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hashedPassword,
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Create(ctx, tx, newUser)
	}); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(newUser.ID, s.signupTTL)
	if err != nil {
		return nil, "", err
	}

	return newUser, token, nil
}

// Signin checks credentials and issues a session token.
func (s *UserService) Signin(ctx context.Context, email, password string) (*User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	account, err := s.repo.GetByEmail(ctx, s.db, email)
	if err != nil {
		return nil, "", err
	}
	if account == nil {
		return nil, "", ErrNotRegistered
	}

	if !auth.ComparePasswordHash([]byte(account.Password), password) {
		return nil, "", ErrPasswordMismatch
	}

	token, err := s.tokens.Issue(account.ID, s.signinTTL)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

func (s *UserService) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx, s.db)
}

// GetByID returns the name projection for a user, or nil when absent.
// An unknown id is a normal empty result, not an error.
func (s *UserService) GetByID(ctx context.Context, id string) (*Projection, error) {
	account, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	return &Projection{Name: account.Name}, nil
}

// UpdateSelf overwrites the caller's name, email and password. All three
// fields are required on this path.
//
// The password is re-hashed before storage. Earlier versions of this API
// wrote the raw value here, bypassing the hash step used at signup; that was
// a defect, not a contract.
func (s *UserService) UpdateSelf(ctx context.Context, callerID, name, email, password string) (*User, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return nil, err
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		_, err := s.repo.Update(ctx, tx, callerID, name, email, hashedPassword)
		return err
	}); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, s.db, callerID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		logrus.WithField("user_id", callerID).Warn("Authenticated user no longer exists")
		return nil, sql.ErrNoRows
	}

	return updated, nil
}

// DeleteByID deletes the user with the given id. Returns false when no row
// matched.
func (s *UserService) DeleteByID(ctx context.Context, id string) (bool, error) {
	count, err := s.repo.DeleteByID(ctx, s.db, id)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
