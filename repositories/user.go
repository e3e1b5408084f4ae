//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"chat-presence/domain"
	"chat-presence/errors"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const userKeyPrefix = "user:"

type IUserRepository interface {
	CreateUser(user domain.User) error
	GetUser(username string) (domain.User, error)
	SaveUser(user domain.User) error
	ListUsers() ([]domain.User, error)
	ListUsersByStatus(status domain.Status) ([]domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

func userKey(username string) []byte {
	return []byte(userKeyPrefix + username)
}

// CreateUser persists a new user record in BadgerDB.
// The duplicate check and the insert run inside a single read-write
// transaction so two concurrent registrations of the same username
// cannot both succeed.
func (u UserRepository) CreateUser(user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return u.db.Update(func(txn *badger.Txn) error {
		key := userKey(user.Username)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUsernameTaken
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(key, data)
	})
}

// GetUser retrieves a user by username.
// A missing key is reported as ErrUserNotFound.
func (u UserRepository) GetUser(username string) (domain.User, error) {
	var user domain.User

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})

	if err == badger.ErrKeyNotFound {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// SaveUser upserts an existing record. The record is written atomically:
// concurrent readers see either the previous or the new version, never a
// partial write.
func (u UserRepository) SaveUser(user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return u.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.Username), data)
	})
}

// ListUsers returns every user record via a prefix scan.
func (u UserRepository) ListUsers() ([]domain.User, error) {
	var users []domain.User

	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte(userKeyPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var user domain.User
				if err := json.Unmarshal(val, &user); err != nil {
					return err
				}
				users = append(users, user)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return users, err
}

// ListUsersByStatus filters the full scan on the status field.
// The user set is small enough that a secondary index is not worth its
// write amplification.
func (u UserRepository) ListUsersByStatus(status domain.Status) ([]domain.User, error) {
	users, err := u.ListUsers()
	if err != nil {
		return nil, err
	}

	filtered := users[:0]
	for _, user := range users {
		if user.Status == status {
			filtered = append(filtered, user)
		}
	}
	return filtered, nil
}
