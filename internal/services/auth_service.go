package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/utils"
)

// AuthService registers accounts and issues HS256 tokens whose subject is the
// account id.
type AuthService struct {
	accounts *repositories.AccountRepository
	sessions *SessionService
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(accounts *repositories.AccountRepository, sessions *SessionService, secret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates an account. An existing (role, email) pair is never
// overwritten and yields repositories.ErrAccountExists.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account := &models.UserAccount{
		ID:           uuid.New().String(),
		Role:         req.Role,
		Email:        utils.NormalizeEmail(req.Email),
		Name:         req.Name,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("account registered", zap.String("user_id", account.ID), zap.String("role", account.Role))
	return s.issue(ctx, account)
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	account, err := s.accounts.Find(ctx, req.Role, req.Email)
	if errors.Is(err, repositories.ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, account)
}

// Logout clears the caller's UI session. Tokens are stateless and simply expire.
func (s *AuthService) Logout(ctx context.Context, identity *models.Identity) error {
	if identity == nil {
		return nil
	}
	return s.sessions.Logout(ctx, store.UserScope(identity.UserID))
}

func (s *AuthService) Me(ctx context.Context, identity *models.Identity) (*models.PublicUser, error) {
	account, err := s.accounts.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	user := account.Public()
	return &user, nil
}

func (s *AuthService) issue(ctx context.Context, account *models.UserAccount) (*models.AuthResponse, error) {
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"role":  account.Role,
		"email": account.Email,
		"name":  account.Name,
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if err := s.sessions.Login(ctx, store.UserScope(account.ID), account.ID); err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: signed, User: account.Public()}, nil
}

// VerifyToken validates an HS256 token and returns the identity it carries.
func (s *AuthService) VerifyToken(tokenStr string) (*models.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, ErrInvalidCredentials
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return &models.Identity{UserID: sub, Role: role, Email: email, Name: name}, nil
}
