package services

import (
	"chat-presence/auth"
	"chat-presence/domain"
	"chat-presence/errors"
	"chat-presence/repositories"
	"fmt"

	"github.com/samber/lo"
)

type IUserService interface {
	Register(username, password, fullName string) (domain.User, error)
	Login(username, password string) (domain.User, error)
	Lookup(username string) (domain.User, error)
	ListAll() ([]domain.User, error)
	ListOnline() ([]domain.User, error)
}

type UserService struct {
	userRepository repositories.IUserRepository
	verifier       auth.CredentialVerifier
	locks          *UserLocks
}

func NewUserService(repo repositories.IUserRepository, verifier auth.CredentialVerifier, locks *UserLocks) IUserService {
	return &UserService{userRepository: repo, verifier: verifier, locks: locks}
}

// Register creates a new directory record with status OFFLINE.
// Duplicate usernames propagate ErrUsernameTaken from the repository,
// which performs the existence check and the insert atomically.
func (s *UserService) Register(username, password, fullName string) (domain.User, error) {
	valReq := auth.RegisterRequest{
		Username: username,
		Password: password,
		FullName: fullName,
	}
	if err := auth.ValidateRegister(valReq); err != nil {
		return domain.User{}, fmt.Errorf("invalid registration: %w", err)
	}

	// The stored form depends on the configured scheme; the repository
	// never sees which one is active.
	stored, err := s.verifier.Prepare(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("credential preparation failed: %w", err)
	}

	user := domain.User{
		Username: username,
		Password: stored,
		FullName: fullName,
		Status:   domain.StatusOffline,
	}
	if err := s.userRepository.CreateUser(user); err != nil {
		return domain.User{}, err
	}
	return user.Sanitized(), nil
}

// Login authenticates a user and transitions it to ONLINE.
// A missing record and a credential mismatch are indistinguishable to the
// caller, preventing user enumeration.
func (s *UserService) Login(username, password string) (domain.User, error) {
	unlock := s.locks.Lock(username)
	defer unlock()

	user, err := s.userRepository.GetUser(username)
	if err != nil {
		return domain.User{}, errors.ErrInvalidCredentials
	}

	match, err := s.verifier.Verify(password, user.Password)
	if err != nil || !match {
		return domain.User{}, errors.ErrInvalidCredentials
	}

	user.Status = domain.StatusOnline
	if err := s.saveUser(user); err != nil {
		return domain.User{}, err
	}
	return user.Sanitized(), nil
}

func (s *UserService) Lookup(username string) (domain.User, error) {
	user, err := s.userRepository.GetUser(username)
	if err != nil {
		return domain.User{}, err
	}
	return user.Sanitized(), nil
}

func (s *UserService) ListAll() ([]domain.User, error) {
	users, err := s.userRepository.ListUsers()
	if err != nil {
		return nil, err
	}
	return sanitizeAll(users), nil
}

func (s *UserService) ListOnline() ([]domain.User, error) {
	users, err := s.userRepository.ListUsersByStatus(domain.StatusOnline)
	if err != nil {
		return nil, err
	}
	return sanitizeAll(users), nil
}

// saveUser is the single generic save path. It applies the historical
// default-fill rule before writing.
func (s *UserService) saveUser(user domain.User) error {
	fillMissingStatus(&user)
	return s.userRepository.SaveUser(user)
}

// fillMissingStatus defaults a blank status to ONLINE at save time.
// Registration explicitly sets OFFLINE, so the two defaults disagree; this
// inconsistency is inherited behavior, deliberately kept and deliberately
// confined to this one function.
func fillMissingStatus(user *domain.User) {
	if user.Status == "" {
		user.Status = domain.StatusOnline
	}
}

func sanitizeAll(users []domain.User) []domain.User {
	return lo.Map(users, func(user domain.User, _ int) domain.User {
		return user.Sanitized()
	})
}
