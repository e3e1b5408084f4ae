package services

import (
	"chat-presence/auth"
	"chat-presence/domain"
	"chat-presence/errors"
	"chat-presence/mocks"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newUserService(t *testing.T) (*mocks.MockIUserRepository, IUserService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewUserService(mockRepo, auth.PlaintextVerifier{}, NewUserLocks())
	return mockRepo, svc
}

func TestUserService_Register(t *testing.T) {
	t.Run("should register with status OFFLINE and return a sanitized user", func(t *testing.T) {
		req := require.New(t)
		mockRepo, svc := newUserService(t)

		var created domain.User
		mockRepo.EXPECT().
			CreateUser(gomock.Any()).
			DoAndReturn(func(user domain.User) error {
				created = user
				return nil
			}).
			Times(1)

		user, err := svc.Register("alice", "pw1", "Alice A")

		req.NoError(err)
		req.Equal(domain.StatusOffline, created.Status)
		req.Equal("pw1", created.Password)
		req.Empty(user.Password)
		req.Equal("alice", user.Username)
	})

	t.Run("should reject an empty username before touching the repository", func(t *testing.T) {
		req := require.New(t)
		mockRepo, svc := newUserService(t)

		mockRepo.EXPECT().CreateUser(gomock.Any()).Times(0)

		_, err := svc.Register("", "pw1", "")
		req.Error(err)
	})

	t.Run("should propagate a duplicate username", func(t *testing.T) {
		req := require.New(t)
		mockRepo, svc := newUserService(t)

		mockRepo.EXPECT().
			CreateUser(gomock.Any()).
			Return(errors.ErrUsernameTaken).
			Times(1)

		_, err := svc.Register("alice", "pw1", "")
		req.ErrorIs(err, errors.ErrUsernameTaken)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Run("should transition to ONLINE and scrub the password", func(t *testing.T) {
		req := require.New(t)
		mockRepo, svc := newUserService(t)

		stored := domain.User{Username: "alice", Password: "pw1", Status: domain.StatusOffline}
		mockRepo.EXPECT().GetUser("alice").Return(stored, nil).Times(1)

		var saved domain.User
		mockRepo.EXPECT().
			SaveUser(gomock.Any()).
			DoAndReturn(func(user domain.User) error {
				saved = user
				return nil
			}).
			Times(1)

		user, err := svc.Login("alice", "pw1")

		req.NoError(err)
		req.Equal(domain.StatusOnline, saved.Status)
		req.Equal(domain.StatusOnline, user.Status)
		req.Empty(user.Password)
	})

	t.Run("should fail with a wrong password and leave the record alone", func(t *testing.T) {
		req := require.New(t)
		mockRepo, svc := newUserService(t)

		stored := domain.User{Username: "alice", Password: "pw1", Status: domain.StatusOffline}
		mockRepo.EXPECT().GetUser("alice").Return(stored, nil).Times(1)
		mockRepo.EXPECT().SaveUser(gomock.Any()).Times(0)

		_, err := svc.Login("alice", "wrong")
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should report a missing user as invalid credentials", func(t *testing.T) {
		req := require.New(t)
		mockRepo, svc := newUserService(t)

		mockRepo.EXPECT().GetUser("ghost").Return(domain.User{}, errors.ErrUserNotFound).Times(1)

		_, err := svc.Login("ghost", "pw1")
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}

func TestUserService_ListOnline_Sanitizes(t *testing.T) {
	req := require.New(t)
	mockRepo, svc := newUserService(t)

	mockRepo.EXPECT().
		ListUsersByStatus(domain.StatusOnline).
		Return([]domain.User{
			{Username: "alice", Password: "pw1", Status: domain.StatusOnline},
			{Username: "bob", Password: "pw2", Status: domain.StatusOnline},
		}, nil).
		Times(1)

	users, err := svc.ListOnline()

	req.NoError(err)
	req.Len(users, 2)
	for _, user := range users {
		req.Empty(user.Password)
	}
}

func TestFillMissingStatus(t *testing.T) {
	req := require.New(t)

	// The save-path default disagrees with the registration default on
	// purpose; this pins the inherited behavior down.
	user := domain.User{Username: "alice"}
	fillMissingStatus(&user)
	req.Equal(domain.StatusOnline, user.Status)

	offline := domain.User{Username: "bob", Status: domain.StatusOffline}
	fillMissingStatus(&offline)
	req.Equal(domain.StatusOffline, offline.Status)
}
