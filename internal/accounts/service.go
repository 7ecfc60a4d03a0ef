// Package accounts handles registration, e-mail verification, sign-in,
// password resets and admin user management.
package accounts

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sportsgear/internal/models"
	"sportsgear/internal/notify"
	"sportsgear/internal/repository"
)

var (
	ErrValidation         = errors.New("invalid user data")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("please verify your email first")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrCannotDeleteAdmin  = errors.New("cannot delete admin user")
	ErrDelivery           = errors.New("email could not be sent")
)

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error)
	Insert(ctx context.Context, user *models.User) error
	Replace(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.User, error)
}

type Config struct {
	OTPTTL time.Duration
}

type Service struct {
	store  UserStore
	sender notify.Sender
	tokens *Tokens
	otpTTL time.Duration
	logger *zap.Logger
	now    func() time.Time
	newOTP func() (string, error)
}

func NewService(store UserStore, sender notify.Sender, tokens *Tokens, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	return &Service{
		store:  store,
		sender: sender,
		tokens: tokens,
		otpTTL: cfg.OTPTTL,
		logger: logger,
		now:    time.Now,
		newOTP: generateOTP,
	}
}

// Session is a signed-in user and the token to set as cookie.
type Session struct {
	User  models.User
	Token string
}

// Register creates an unverified account and mails a verification code.
// Re-registering an unverified address refreshes its details and code.
// The returned bool is true when a new account was created.
func (s *Service) Register(ctx context.Context, name, email, password string) (bool, error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if err := validateSignup(name, email, password); err != nil {
		return false, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	otp, err := s.newOTP()
	if err != nil {
		return false, err
	}
	now := s.now().UTC()
	expires := now.Add(s.otpTTL)

	existing, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsVerified:
		return false, ErrUserExists
	case err == nil:
		existing.Name = name
		existing.PasswordHash = hash
		existing.OTP = otp
		existing.OTPExpires = &expires
		existing.UpdatedAt = now
		if err := s.store.Replace(ctx, existing); err != nil {
			return false, err
		}
		return false, s.sendOTP(ctx, existing, otp)
	case !errors.Is(err, repository.ErrNotFound):
		return false, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		OTP:          otp,
		OTPExpires:   &expires,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, ErrUserExists
		}
		return false, err
	}
	s.logger.Info("user registered", zap.String("userId", user.ID.Hex()))
	return true, s.sendOTP(ctx, user, otp)
}

func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (Session, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidOTP
	}
	if err != nil {
		return Session{}, err
	}

	now := s.now().UTC()
	if user.OTP == "" || user.OTPExpires == nil || !user.OTPExpires.After(now) ||
		subtle.ConstantTimeCompare([]byte(user.OTP), []byte(strings.TrimSpace(otp))) != 1 {
		return Session{}, ErrInvalidOTP
	}

	user.IsVerified = true
	user.OTP = ""
	user.OTPExpires = nil
	user.UpdatedAt = now
	if err := s.store.Replace(ctx, user); err != nil {
		return Session{}, err
	}
	return s.session(user)
}

// Login checks the password. Admin accounts are marked verified on sign-in.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	if user.IsAdmin && !user.IsVerified {
		user.IsVerified = true
		user.UpdatedAt = s.now().UTC()
		if err := s.store.Replace(ctx, user); err != nil {
			return Session{}, err
		}
	}
	if !user.IsVerified {
		return Session{}, ErrNotVerified
	}
	return s.session(user)
}

// ForgotPassword stores a reset code and mails it. The code is cleared again
// when the mail cannot be sent.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	otp, err := s.newOTP()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	expires := now.Add(s.otpTTL)
	user.ResetPasswordToken = hashCode(otp)
	user.ResetPasswordExpire = &expires
	user.UpdatedAt = now
	if err := s.store.Replace(ctx, user); err != nil {
		return err
	}

	msg := notify.NewMessage(notify.KindPasswordReset, user.Email, user.Name, "Password Reset Request",
		map[string]any{"otp": otp, "expiresInMinutes": int(s.otpTTL.Minutes())})
	if err := s.send(ctx, msg); err != nil {
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if rbErr := s.store.Replace(ctx, user); rbErr != nil {
			s.logger.Error("failed to clear reset token", zap.String("userId", user.ID.Hex()), zap.Error(rbErr))
		}
		return err
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, code, password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	user, err := s.store.FindByResetToken(ctx, hashCode(strings.TrimSpace(code)), s.now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil
	user.UpdatedAt = s.now().UTC()
	return s.store.Replace(ctx, user)
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// ProfileUpdate holds the self-service edits. Blank fields are kept.
type ProfileUpdate struct {
	Name     string
	Email    string
	Password string
}

func (s *Service) UpdateProfile(ctx context.Context, id primitive.ObjectID, in ProfileUpdate) (models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return models.User{}, fmt.Errorf("%w: email is invalid", ErrValidation)
		}
		user.Email = email
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return models.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
		}
		hash, err := hashPassword(in.Password)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = hash
	}
	return s.save(ctx, user)
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.store.List(ctx)
}

// AdminUpdate is an admin edit of another account. IsAdmin is always
// written.
type AdminUpdate struct {
	Name    string
	Email   string
	IsAdmin bool
}

func (s *Service) UpdateUser(ctx context.Context, id primitive.ObjectID, in AdminUpdate) (models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" {
		user.Email = email
	}
	user.IsAdmin = in.IsAdmin
	return s.save(ctx, user)
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return ErrCannotDeleteAdmin
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *Service) save(ctx context.Context, user models.User) (models.User, error) {
	user.UpdatedAt = s.now().UTC()
	err := s.store.Replace(ctx, user)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return models.User{}, ErrUserExists
	case errors.Is(err, repository.ErrNotFound):
		return models.User{}, ErrUserNotFound
	case err != nil:
		return models.User{}, err
	}
	return user, nil
}

func (s *Service) session(user models.User) (Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token}, nil
}

func (s *Service) sendOTP(ctx context.Context, user models.User, otp string) error {
	msg := notify.NewMessage(notify.KindOTP, user.Email, user.Name, "SportsGear Email Verification",
		map[string]any{"otp": otp, "expiresInMinutes": int(s.otpTTL.Minutes())})
	return s.send(ctx, msg)
}

func (s *Service) send(ctx context.Context, msg notify.Message) error {
	if s.sender == nil {
		return nil
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Warn("notification failed", zap.String("kind", string(msg.Kind)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

const minPasswordLength = 6

func validateSignup(name, email, password string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// generateOTP returns a uniformly random six digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
