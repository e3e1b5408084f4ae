package services

import (
	"chat-presence/domain"
	"chat-presence/errors"
	"chat-presence/repositories"
	stderrors "errors"
	"log/slog"
)

// IPresenceService is the single authority for status transitions.
// Login, explicit join, explicit leave, and transport disconnects all
// funnel through these two operations.
type IPresenceService interface {
	MarkOnline(username string) error
	MarkOffline(username, nickname string) error
}

type PresenceService struct {
	userRepository repositories.IUserRepository
	locks          *UserLocks
	log            *slog.Logger
}

func NewPresenceService(repo repositories.IUserRepository, locks *UserLocks, log *slog.Logger) IPresenceService {
	return &PresenceService{userRepository: repo, locks: locks, log: log}
}

// MarkOnline transitions a user to ONLINE. An unknown username is a no-op:
// join events may arrive for unauthenticated senders and must never create
// phantom records. Repeated calls converge on the same persisted status.
func (s *PresenceService) MarkOnline(username string) error {
	return s.setStatus(username, domain.StatusOnline)
}

// MarkOffline transitions a user to OFFLINE using two-step resolution:
// lookup by canonical username first, then by the legacy display-name
// alias that some clients supply on disconnect. A miss on both keys is a
// no-op.
func (s *PresenceService) MarkOffline(username, nickname string) error {
	resolved, err := s.resolve(username, nickname)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			s.log.Debug("Ignoring offline transition for unknown user",
				"username", username, "nickname", nickname)
			return nil
		}
		return err
	}
	return s.setStatus(resolved, domain.StatusOffline)
}

// resolve returns the canonical username behind a disconnect event.
func (s *PresenceService) resolve(username, nickname string) (string, error) {
	_, err := s.userRepository.GetUser(username)
	if err == nil {
		return username, nil
	}
	if !stderrors.Is(err, errors.ErrUserNotFound) {
		return "", err
	}
	if nickname == "" {
		return "", err
	}
	if _, err := s.userRepository.GetUser(nickname); err != nil {
		return "", err
	}
	return nickname, nil
}

// setStatus performs the lookup-set-save sequence under the per-username
// lock so it cannot interleave with a concurrent login or disconnect on
// the same record.
func (s *PresenceService) setStatus(username string, status domain.Status) error {
	unlock := s.locks.Lock(username)
	defer unlock()

	user, err := s.userRepository.GetUser(username)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	user.Status = status
	return s.userRepository.SaveUser(user)
}
