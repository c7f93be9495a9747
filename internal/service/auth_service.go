package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"movekind/member-api/internal/domain"
	"movekind/member-api/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrMemberAlreadyExists  = errors.New("member with this email or username already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid credentials")
	ErrPasswordMismatch     = errors.New("current password is incorrect")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// defaultReminderTime is written onto a freshly registered member record.
const defaultReminderTime = "08:00"

// AuthService handles member registration and authentication.
type AuthService interface {
	// Register creates a member and signs them in; the returned token is
	// immediately usable.
	Register(ctx context.Context, name, email, username, password string) (token string, member *domain.Member, err error)
	// Login accepts the member's email or username.
	Login(ctx context.Context, usernameOrEmail, password string) (token string, member *domain.Member, err error)
	ChangePassword(ctx context.Context, memberID primitive.ObjectID, currentPassword, newPassword string) error
	GetJWTSecret() string
}

// --- Service Implementation ---

type authService struct {
	memberRepo    repository.MemberRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(memberRepo repository.MemberRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 24
	}
	return &authService{
		memberRepo:    memberRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new member registration. The username defaults to the
// email address when not supplied.
func (s *authService) Register(ctx context.Context, name, email, username, password string) (string, *domain.Member, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}
	if username == "" {
		username = email
	}

	_, err := s.memberRepo.GetByEmail(ctx, email)
	if err == nil {
		return "", nil, ErrMemberAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, ErrHashingFailed
	}

	member := &domain.Member{
		Name:                strings.TrimSpace(name),
		Email:               email,
		Username:            username,
		PasswordHash:        string(hashedPassword),
		DefaultReminderTime: defaultReminderTime,
	}

	memberID, err := s.memberRepo.Create(ctx, member)
	if err != nil {
		return "", nil, err
	}
	member.ID = memberID

	// Auto sign-in after registration.
	token, err := s.generateJWT(member)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	member.PasswordHash = ""
	return token, member, nil
}

// Login authenticates a member by email or username and issues a JWT.
func (s *authService) Login(ctx context.Context, usernameOrEmail, password string) (string, *domain.Member, error) {
	if usernameOrEmail == "" || password == "" {
		return "", nil, errors.New("credentials cannot be empty")
	}

	member, err := s.memberRepo.GetByEmail(ctx, usernameOrEmail)
	if errors.Is(err, repository.ErrNotFound) {
		member, err = s.memberRepo.GetByUsername(ctx, usernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password))
	if err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(member)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	member.PasswordHash = ""
	return token, member, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *authService) ChangePassword(ctx context.Context, memberID primitive.ObjectID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return errors.New("new password cannot be empty")
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}

	member.PasswordHash = string(hashedPassword)
	return s.memberRepo.Update(ctx, member)
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	MemberID string `json:"mid"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given member.
func (s *authService) generateJWT(member *domain.Member) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		MemberID: member.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "member-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
