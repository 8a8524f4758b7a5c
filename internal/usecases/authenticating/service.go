package authenticating

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/insect-control-api/infrastructure/repository"
	"github.com/vfg2006/insect-control-api/internal/config"
	"github.com/vfg2006/insect-control-api/internal/domain"
	errorcodes "github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"github.com/vfg2006/insect-control-api/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin      = 1
	RoleSupervisor = 2
	RoleClient     = 3

	tokenType = "bearer"
)

// FirebaseVerifier valida ID tokens emitidos pelo Firebase Authentication
type FirebaseVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Authenticator interface {
	BootstrapStatus(ctx context.Context) (*domain.BootstrapStatus, error)
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.UpdateUserRequest) error
	ListUser(ctx context.Context) ([]*domain.User, error)
	LoginUser(ctx context.Context, email, password string) (*domain.TokenResponse, error)
	LoginWithFirebase(ctx context.Context, idToken string) (*domain.TokenResponse, error)
	GetUserProfile(ctx context.Context, userID int) (*domain.User, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error
	ValidatePasswordStrength(password string) error
}

type Service struct {
	userRepo repository.UserRepository
	verifier FirebaseVerifier
	cfg      *config.Config
	now      func() time.Time
}

// NewService cria o serviço de autenticação. verifier pode ser nil quando o Firebase está desabilitado.
func NewService(userRepo repository.UserRepository, verifier FirebaseVerifier, cfg *config.Config) Authenticator {
	return &Service{
		userRepo: userRepo,
		verifier: verifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Service) BootstrapStatus(ctx context.Context) (*domain.BootstrapStatus, error) {
	total, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao consultar usuários")
	}

	return &domain.BootstrapStatus{HasUsers: total > 0}, nil
}

// Register cria um usuário com senha. O primeiro usuário do sistema vira administrador.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = handleEmail(email)

	if email == "" || name == "" || password == "" {
		return nil, NewAuthError(ErrMissingRequiredData, errorcodes.ErrMissingRequiredData, "Nome, email e senha são obrigatórios")
	}

	total, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao consultar usuários")
	}

	if total > 0 && !s.cfg.Auth.AllowSelfRegistration {
		return nil, NewAuthError(ErrRegistrationDisabled, errorcodes.ErrRegistrationDisabled, "Cadastro desabilitado")
	}

	if err := s.ValidatePasswordStrength(password); err != nil {
		return nil, NewAuthError(ErrWeakPassword, errorcodes.ErrInvalidFormat, err.Error())
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
	}
	if existing != nil {
		return nil, NewAuthError(ErrUserAlreadyExists, errorcodes.ErrUserAlreadyExists, "Email já cadastrado")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Active:       true,
		RoleID:       RoleClient,
		AuthProvider: domain.AuthProviderPassword,
	}
	if total == 0 {
		user.RoleID = RoleAdmin
	}

	user, err = s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao criar usuário")
	}

	log.ForContext(ctx).WithField("user_id", user.ID).Info("authenticating: usuário cadastrado")

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, user *domain.UpdateUserRequest) error {
	if user.ID == 0 {
		return NewAuthError(ErrMissingRequiredData, errorcodes.ErrMissingRequiredData, "ID é obrigatório")
	}

	userDatabase, err := s.userRepo.GetUserByID(ctx, user.ID)
	if err != nil {
		return NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao consultar usuário")
	}
	if userDatabase == nil {
		return NewUserAuthError(ErrUserNotFound, errorcodes.ErrUserNotFound, user.ID, fmt.Sprintf("usuário %d não encontrado", user.ID))
	}

	if user.Name != nil {
		userDatabase.Name = strings.TrimSpace(*user.Name)
	}

	if user.Email != nil {
		email := handleEmail(*user.Email)
		if email != userDatabase.Email {
			other, err := s.userRepo.GetUserByEmail(ctx, email)
			if err != nil {
				return NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao consultar usuário")
			}
			if other != nil {
				return NewUserAuthError(ErrUserAlreadyExists, errorcodes.ErrUserAlreadyExists, user.ID, "Email já cadastrado")
			}
		}
		userDatabase.Email = email
	}

	if user.Active != nil {
		userDatabase.Active = *user.Active
	}

	if user.RoleID != nil {
		userDatabase.RoleID = *user.RoleID
	}

	if err := s.userRepo.UpdateUser(ctx, userDatabase); err != nil {
		return NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao atualizar usuário")
	}

	return nil
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) ListUser(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.ListUser(ctx)
	if err != nil {
		return nil, NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao listar usuários")
	}

	return users, nil
}

func (s *Service) LoginUser(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	if email == "" || password == "" {
		return nil, NewAuthError(ErrMissingRequiredData, errorcodes.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	email = handleEmail(email)

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
	}

	if user == nil {
		return nil, NewAuthError(ErrUserNotFound, errorcodes.ErrUserNotFound, "Usuário não encontrado")
	}

	if !user.Active {
		return nil, NewUserAuthError(ErrUserDisabled, errorcodes.ErrUserDisabled, user.ID, "Conta desativada")
	}

	// contas criadas pelo Firebase não possuem senha local
	if user.PasswordHash == "" {
		return nil, NewUserAuthError(ErrInvalidCredentials, errorcodes.ErrInvalidCredentials, user.ID, "Conta vinculada ao login Google")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, NewUserAuthError(ErrInvalidCredentials, errorcodes.ErrInvalidCredentials, user.ID, "Senha incorreta")
	}

	return s.issueToken(user)
}

// LoginWithFirebase troca um ID token do Firebase pelo token da API, criando o usuário no primeiro acesso
func (s *Service) LoginWithFirebase(ctx context.Context, idToken string) (*domain.TokenResponse, error) {
	if s.verifier == nil {
		return nil, NewAuthError(ErrProviderDisabled, errorcodes.ErrExternalService, "Login pelo Firebase não está habilitado")
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, NewAuthError(ErrMissingRequiredData, errorcodes.ErrMissingRequiredData, "Token é obrigatório")
	}

	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, NewAuthError(ErrInvalidToken, errorcodes.ErrInvalidToken, err.Error())
	}

	email, _ := token.Claims["email"].(string)
	email = handleEmail(email)
	if email == "" {
		return nil, NewAuthError(ErrInvalidToken, errorcodes.ErrInvalidToken, "Token sem email")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
	}

	if user == nil {
		user, err = s.provisionFirebaseUser(ctx, token, email)
		if err != nil {
			return nil, err
		}
	}

	if !user.Active {
		return nil, NewUserAuthError(ErrUserDisabled, errorcodes.ErrUserDisabled, user.ID, "Conta desativada")
	}

	return s.issueToken(user)
}

func (s *Service) provisionFirebaseUser(ctx context.Context, token *auth.Token, email string) (*domain.User, error) {
	total, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao consultar usuários")
	}

	if total > 0 && !s.cfg.Auth.AllowSelfRegistration {
		return nil, NewAuthError(ErrRegistrationDisabled, errorcodes.ErrRegistrationDisabled, "Cadastro desabilitado")
	}

	name, _ := token.Claims["name"].(string)
	if strings.TrimSpace(name) == "" {
		name = strings.Split(email, "@")[0]
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		Active:       true,
		RoleID:       RoleClient,
		AuthProvider: domain.AuthProviderFirebase,
	}
	if total == 0 {
		user.RoleID = RoleAdmin
	}

	user, err = s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao criar usuário")
	}

	log.ForContext(ctx).WithField("user_id", user.ID).Info("authenticating: usuário criado pelo Firebase")

	return user, nil
}

func (s *Service) GetUserProfile(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("authenticating: erro ao consultar perfil")
		return nil, NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao consultar usuário")
	}
	if user == nil {
		return nil, NewUserAuthError(ErrUserNotFound, errorcodes.ErrUserNotFound, userID, "Usuário não encontrado")
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) issueToken(user *domain.User) (*domain.TokenResponse, error) {
	token, err := generateJWT(user, s.cfg.SecretKey, s.now().Add(s.cfg.Auth.TokenTTL))
	if err != nil {
		return nil, NewAuthError(err, errorcodes.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return &domain.TokenResponse{AccessToken: token, TokenType: tokenType}, nil
}

func generateJWT(user *domain.User, secretKey string, expiresAt time.Time) (string, error) {
	claims := domain.Claims{
		UserID:     user.ID,
		UserName:   user.Name,
		UserEmail:  user.Email,
		UserActive: user.Active,
		UserRoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, NewAuthError(ErrExpiredToken, errorcodes.ErrExpiredToken, "Token expirado")
	}
	if err != nil {
		return nil, NewAuthError(ErrInvalidToken, errorcodes.ErrInvalidToken, err.Error())
	}

	if claims, ok := token.Claims.(*domain.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, NewAuthError(ErrInvalidToken, errorcodes.ErrInvalidToken, "Token inválido")
}

// ValidatePasswordStrength verifica se a senha atende aos requisitos de segurança
// Senha deve conter pelo menos 8 caracteres, incluindo maiúsculas, minúsculas e números
func (s *Service) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("a senha deve conter pelo menos 8 caracteres")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case char >= 'a' && char <= 'z':
			hasLower = true
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= '0' && char <= '9':
			hasNumber = true
		}
	}

	if !hasUpper {
		return errors.New("a senha deve conter pelo menos uma letra maiúscula")
	}
	if !hasLower {
		return errors.New("a senha deve conter pelo menos uma letra minúscula")
	}
	if !hasNumber {
		return errors.New("a senha deve conter pelo menos um número")
	}

	return nil
}

// ChangePassword permite que um usuário altere sua própria senha
func (s *Service) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao consultar usuário")
	}

	if user == nil {
		return NewUserAuthError(ErrUserNotFound, errorcodes.ErrUserNotFound, userID, "Usuário não encontrado")
	}

	if user.PasswordHash == "" {
		return NewUserAuthError(ErrInvalidCredentials, errorcodes.ErrInvalidCredentials, userID, "Conta vinculada ao login Google")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return NewUserAuthError(ErrInvalidCredentials, errorcodes.ErrInvalidCredentials, userID, "Senha atual incorreta")
	}

	if currentPassword == newPassword {
		return NewUserAuthError(ErrSamePassword, errorcodes.ErrInvalidRequest, userID, "A nova senha deve ser diferente da atual")
	}

	if err := s.ValidatePasswordStrength(newPassword); err != nil {
		return NewUserAuthError(ErrWeakPassword, errorcodes.ErrInvalidFormat, userID, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return NewAuthError(err, errorcodes.ErrDatabaseOperation, "Erro ao atualizar senha")
	}

	return nil
}
