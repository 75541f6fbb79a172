package messaging

import (
	"context"
	"errors"
	"strings"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/pkg/utils"

	"go.uber.org/zap"
)

const previewLength = 80

// SendRequest names the receiver either as a user id or as a doctor profile id.
type SendRequest struct {
	ReceiverID uint64
	DoctorID   uint64
	Content    string
}

// Conversation is one counterpart with the newest message exchanged with them.
type Conversation struct {
	Counterpart     models.User
	CounterpartName string
	DoctorID        uint64 // 0 when the counterpart has no doctor profile
	LastMessage     models.Message
	UnreadCount     int
}

type Service struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	notifier utils.Notifier
	log      *zap.Logger
}

func New(repos *repository.Repositories, notifier utils.Notifier, log *zap.Logger) *Service {
	return &Service{
		messages: repos.Messages,
		users:    repos.Users,
		doctors:  repos.Doctors,
		patients: repos.Patients,
		notifier: notifier,
		log:      log,
	}
}

func (s *Service) Send(ctx context.Context, sender *models.User, req SendRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	receiver, err := s.resolveReceiver(ctx, req)
	if err != nil {
		return nil, err
	}
	if receiver.ID == sender.ID {
		return nil, ErrSelfMessage
	}

	msg := &models.Message{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	msg.Sender = *sender
	msg.Receiver = *receiver

	if receiver.FCMToken != "" {
		title, err := s.displayName(ctx, sender)
		if err != nil {
			title = sender.Email
		}
		data := map[string]string{
			"type":       "message",
			"message_id": utils.FormatID(msg.ID),
			"sender_id":  utils.FormatID(sender.ID),
		}
		if err := s.notifier.Notify(ctx, receiver.FCMToken, title, preview(content), data); err != nil {
			s.log.Warn("message notification failed", zap.Uint64("message_id", msg.ID), zap.Error(err))
		}
	}

	return msg, nil
}

func (s *Service) resolveReceiver(ctx context.Context, req SendRequest) (*models.User, error) {
	var userID uint64
	switch {
	case req.ReceiverID != 0:
		userID = req.ReceiverID
	case req.DoctorID != 0:
		doctor, err := s.doctors.FindByID(ctx, req.DoctorID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReceiverNotFound
		}
		if err != nil {
			return nil, err
		}
		userID = doctor.UserID
	default:
		return nil, ErrReceiverRequired
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReceiverNotFound
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrReceiverNotFound
	}
	return user, nil
}

// List returns every message the user sent or received, newest first.
func (s *Service) List(ctx context.Context, user *models.User) ([]models.Message, error) {
	return s.messages.ListForUser(ctx, user.ID)
}

// Conversations groups the user's messages by counterpart, most recent conversation first.
func (s *Service) Conversations(ctx context.Context, user *models.User) ([]Conversation, error) {
	msgs, err := s.messages.ListForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	index := make(map[uint64]int)
	var out []Conversation
	for _, m := range msgs {
		other := m.Sender
		if m.SenderID == user.ID {
			other = m.Receiver
		}

		i, seen := index[other.ID]
		if !seen {
			i = len(out)
			index[other.ID] = i
			out = append(out, Conversation{Counterpart: other, LastMessage: m})
		}
		if m.ReceiverID == user.ID && !m.IsRead {
			out[i].UnreadCount++
		}
	}

	for i := range out {
		c := &out[i]
		name, err := s.displayName(ctx, &c.Counterpart)
		if err != nil {
			return nil, err
		}
		c.CounterpartName = name
		if c.Counterpart.IsDoctor() {
			doctor, err := s.doctors.FindByUserID(ctx, c.Counterpart.ID)
			if err == nil {
				c.DoctorID = doctor.ID
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		}
	}
	return out, nil
}

// MarkRead flags a message as read. Only its receiver may do so.
func (s *Service) MarkRead(ctx context.Context, user *models.User, id uint64) (*models.Message, error) {
	msg, err := s.messages.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != user.ID {
		return nil, ErrForbidden
	}
	if msg.IsRead {
		return msg, nil
	}

	if err := s.messages.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	msg.IsRead = true
	return msg, nil
}

func (s *Service) UnreadCount(ctx context.Context, user *models.User) (int64, error) {
	return s.messages.CountUnread(ctx, user.ID)
}

func (s *Service) displayName(ctx context.Context, u *models.User) (string, error) {
	var (
		name string
		err  error
	)
	switch {
	case u.IsDoctor():
		var d *models.Doctor
		if d, err = s.doctors.FindByUserID(ctx, u.ID); err == nil {
			name = d.Name
		}
	case u.IsPatient():
		var p *models.Patient
		if p, err = s.patients.FindByUserID(ctx, u.ID); err == nil {
			name = p.Name
		}
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}
	if name == "" {
		return u.Email, nil
	}
	return name, nil
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
