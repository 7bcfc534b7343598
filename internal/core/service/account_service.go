package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/port"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 80
	passwordMinLen = 6
)

type RegisterInput struct {
	Username        string
	Email           string
	FullName        string
	Phone           string
	Password        string
	ConfirmPassword string
}

type ProfileInput struct {
	Username string
	Email    string
	FullName string
	Phone    string
	Address  string
}

// AccountService covers registration, both login surfaces, and profile
// maintenance. Passwords are bcrypt hashed; credential failures are always
// the same generic error.
type AccountService struct {
	accounts   port.AccountRepository
	bcryptCost int
	now        func() time.Time
}

func NewAccountService(accounts port.AccountRepository, bcryptCost int) *AccountService {
	return &AccountService{
		accounts:   accounts,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates a customer account. Admin accounts are never created
// here; they come from the seed command.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	fields := fieldErrors{}
	if n := len(in.Username); n < usernameMinLen || n > usernameMaxLen {
		fields.add("username", fmt.Sprintf("must be between %d and %d characters", usernameMinLen, usernameMaxLen))
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		fields.add("email", "must be a valid email address")
	}
	if len(in.Password) < passwordMinLen {
		fields.add("password", fmt.Sprintf("must be at least %d characters", passwordMinLen))
	}
	if in.Password != in.ConfirmPassword {
		fields.add("confirm_password", "passwords must match")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if existing, err := s.accounts.GetAccountByEmail(ctx, in.Email); err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.accounts.GetAccountByUsername(ctx, in.Username); err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	account := &domain.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		// A concurrent registration can win the UNIQUE index after the
		// lookups above said the fields were free.
		return nil, mapAccountConflict(err, "create account")
	}
	return account, nil
}

func mapAccountConflict(err error, op string) error {
	switch {
	case errors.Is(err, port.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, port.ErrDuplicateUsername):
		return ErrUsernameTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Login validates credentials for the regular surface.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// AdminLogin is the separate admin surface: same credential check plus the
// role gate. A valid customer login here still fails with the generic
// credentials error.
func (s *AccountService) AdminLogin(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !account.Role.IsAdmin() {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// GetAccount fetches an account by id.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accounts.GetAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch account: %w", err)
	}
	if account == nil {
		return nil, ErrNotFound
	}
	return account, nil
}

// UpdateProfile edits identity and contact fields, keeping username and
// email unique.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID int64, in ProfileInput) (*domain.Account, error) {
	fields := fieldErrors{}
	if n := len(in.Username); n < usernameMinLen || n > usernameMaxLen {
		fields.add("username", fmt.Sprintf("must be between %d and %d characters", usernameMinLen, usernameMaxLen))
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		fields.add("email", "must be a valid email address")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if in.Email != account.Email {
		if existing, err := s.accounts.GetAccountByEmail(ctx, in.Email); err != nil {
			return nil, fmt.Errorf("lookup email: %w", err)
		} else if existing != nil {
			return nil, ErrEmailTaken
		}
	}
	if in.Username != account.Username {
		if existing, err := s.accounts.GetAccountByUsername(ctx, in.Username); err != nil {
			return nil, fmt.Errorf("lookup username: %w", err)
		} else if existing != nil {
			return nil, ErrUsernameTaken
		}
	}

	account.Username = in.Username
	account.Email = in.Email
	account.FullName = in.FullName
	account.Phone = in.Phone
	account.Address = in.Address
	account.UpdatedAt = s.now()

	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return nil, mapAccountConflict(err, "update account")
	}
	return account, nil
}
