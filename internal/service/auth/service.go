package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/repository"
	"github.com/medicore/portal-api/internal/session"
	"github.com/medicore/portal-api/pkg/auth"
	apperrors "github.com/medicore/portal-api/pkg/errors"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
	bcryptCost       = 12
)

// Service owns the session lifecycle: login writes a session entry, logout
// deletes it. Nothing else writes to the session store.
type Service struct {
	userRepo    repository.UserRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	jwtSvc      auth.JWTService
	sessions    *session.Store
	tokenTTL    time.Duration
}

func NewService(userRepo repository.UserRepository, patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository, jwtSvc auth.JWTService, sessions *session.Store,
	tokenTTL time.Duration) *Service {
	return &Service{
		userRepo:    userRepo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		jwtSvc:      jwtSvc,
		sessions:    sessions,
		tokenTTL:    tokenTTL,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if existing, _ := s.userRepo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, apperrors.Conflict("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       model.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Patients get a profile immediately so the booking flow can resolve a
	// patient id from the logged-in user.
	if req.Role == model.RolePatient {
		patient := &model.Patient{
			UserID:   user.ID,
			FullName: req.Name,
		}
		if err := s.patientRepo.Create(ctx, patient); err != nil {
			return nil, fmt.Errorf("failed to create patient profile: %w", err)
		}
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	if user.Status == model.UserStatusLocked {
		if time.Since(user.LastLoginAttempt) < lockoutDuration {
			return nil, apperrors.Unauthorized("account is locked, please try again later")
		}
		user.Status = model.UserStatusActive
		user.LoginAttempts = 0
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		user.LoginAttempts++
		user.LastLoginAttempt = time.Now()

		if user.LoginAttempts >= maxLoginAttempts {
			user.Status = model.UserStatusLocked
		}

		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update login attempts: %w", err)
		}
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	user.LoginAttempts = 0
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update login timestamp: %w", err)
	}

	token, tokenID, err := s.jwtSvc.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	sess := &model.Session{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		IssuedAt: now,
	}

	resp := &model.TokenResponse{
		Token:     token,
		ExpiresAt: now.Add(s.tokenTTL),
		User:      user,
		Role:      user.Role,
	}

	if user.Role == model.RoleDoctor {
		doctor, err := s.doctorRepo.GetByUserID(ctx, user.ID)
		if err == nil {
			sess.DoctorType = string(doctor.Type)
			resp.DoctorType = string(doctor.Type)
		}
	}

	if err := s.sessions.Put(ctx, tokenID, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return resp, nil
}

func (s *Service) Logout(ctx context.Context, tokenID string) error {
	if err := s.sessions.Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID string, req *model.ChangePasswordRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ValidateToken verifies the JWT and checks the session still exists. A
// logged-out or expired session invalidates an otherwise valid token.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.Session, string, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, "", apperrors.Unauthorized("invalid token")
	}

	sess, err := s.sessions.Get(ctx, claims.TokenID)
	if err != nil {
		return nil, "", apperrors.Unauthorized("session expired")
	}
	return sess, claims.TokenID, nil
}

func (s *Service) getUser(ctx context.Context, userID string) (*model.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid user id")
	}
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("user")
	}
	return user, nil
}
