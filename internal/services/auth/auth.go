package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/pkg/utils"

	"go.uber.org/zap"
)

// Session is what a successful register or login hands back to the client.
type Session struct {
	User  *models.User
	Name  string
	Token string
}

type Service struct {
	users    repository.UserRepository
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	tokens   *utils.TokenManager
	log      *zap.Logger
	now      func() time.Time
}

func New(repos *repository.Repositories, tokens *utils.TokenManager, log *zap.Logger) *Service {
	return &Service{
		users:    repos.Users,
		patients: repos.Patients,
		doctors:  repos.Doctors,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
}

// Register creates an account. An empty role means patient.
func (s *Service) Register(ctx context.Context, input models.RegisterInput) (*Session, error) {
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = models.RolePatient
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	email := strings.TrimSpace(input.Email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.log.Info("user registered", zap.Uint64("user_id", user.ID), zap.String("role", role))
	return s.issue(user, user.Email)
}

// Login accepts the role's proxy credential first and the stored hash second.
func (s *Service) Login(ctx context.Context, input models.LoginInput) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactive
	}

	name, ok, err := s.checkCredential(ctx, user, input.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.RecordLogin(ctx, user.ID, now, input.FCMToken); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	if input.FCMToken != "" {
		user.FCMToken = input.FCMToken
	}

	return s.issue(user, name)
}

func (s *Service) checkCredential(ctx context.Context, user *models.User, password string) (string, bool, error) {
	name, hasProfile, err := s.profileName(ctx, user)
	if err != nil {
		return "", false, err
	}

	// doctors log in with their profile name; patients with their profile
	// name, or their email while they have no profile yet
	proxy := name
	if !hasProfile && !user.IsPatient() {
		proxy = ""
	}
	if proxy != "" && password == proxy {
		return name, true, nil
	}
	// accounts registered without a password have no hash credential
	if password == "" {
		return name, false, nil
	}
	return name, utils.CheckPassword(password, user.PasswordHash), nil
}

// profileName returns the doctor or patient profile name, falling back to the email.
func (s *Service) profileName(ctx context.Context, user *models.User) (string, bool, error) {
	var (
		name string
		err  error
	)
	switch {
	case user.IsDoctor():
		var doctor *models.Doctor
		if doctor, err = s.doctors.FindByUserID(ctx, user.ID); err == nil {
			name = doctor.Name
		}
	case user.IsPatient():
		var patient *models.Patient
		if patient, err = s.patients.FindByUserID(ctx, user.ID); err == nil {
			name = patient.Name
		}
	default:
		err = repository.ErrNotFound
	}

	if errors.Is(err, repository.ErrNotFound) {
		return user.Email, false, nil
	}
	if err != nil {
		return "", false, err
	}
	if name == "" {
		return user.Email, true, nil
	}
	return name, true, nil
}

// Refresh issues a new token for an already authenticated user.
func (s *Service) Refresh(ctx context.Context, user *models.User) (*Session, error) {
	name, _, err := s.profileName(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issue(user, name)
}

// DisplayName is the name shown for an account.
func (s *Service) DisplayName(ctx context.Context, user *models.User) (string, error) {
	name, _, err := s.profileName(ctx, user)
	return name, err
}

func (s *Service) issue(user *models.User, name string) (*Session, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Name: name, Token: token}, nil
}
