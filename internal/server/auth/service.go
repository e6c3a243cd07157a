package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/gmtc-io/crm/internal/server/shared"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email    string
	FullName string
	Password string
	IsActive bool
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates a new staff account. It never issues a token; a freshly
// registered user still has to log in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.Create(ctx, User{
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: string(hash),
		IsActive:     in.IsActive,
	})
}

// Login validates credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Token{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return Token{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Token{}, shared.ErrInvalidCredentials
	}
	access, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return Token{}, fmt.Errorf("auth: issue token: %w", err)
	}
	return Token{AccessToken: access, TokenType: "bearer"}, nil
}

// CurrentUser resolves the user behind a verified token subject.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (User, error) {
	id, err := claimsSubject(claims)
	if err != nil {
		return User{}, err
	}
	return s.repo.FindByID(ctx, id)
}
