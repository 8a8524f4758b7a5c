package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/internal/usecases/authenticating"
	authmocks "github.com/vfg2006/insect-control-api/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"github.com/vfg2006/insect-control-api/pkg/middleware"
	"go.uber.org/mock/gomock"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "sucesso",
			wantStatus: http.StatusOK,
		},
		{
			name:       "usuário inexistente responde como credencial inválida",
			err:        authenticating.NewAuthError(authenticating.ErrUserNotFound, apiErrors.ErrUserNotFound, "Usuário não encontrado"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidCredentials,
		},
		{
			name:       "senha incorreta",
			err:        authenticating.NewAuthError(authenticating.ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Senha incorreta"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidCredentials,
		},
		{
			name:       "usuário desativado",
			err:        authenticating.NewUserAuthError(authenticating.ErrUserDisabled, apiErrors.ErrUserDisabled, 4, "Usuário desativado"),
			wantStatus: http.StatusForbidden,
			wantCode:   apiErrors.ErrUserDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			auth := authmocks.NewMockAuthenticator(ctrl)

			var token *domain.TokenResponse
			if tt.err == nil {
				token = &domain.TokenResponse{AccessToken: "abc", TokenType: "bearer"}
			}
			auth.EXPECT().LoginUser(gomock.Any(), "ana@exemplo.com", "Segura123").Return(token, tt.err)

			routes := Authentication(auth, middleware.NewRateLimiter(100, 100))
			rec := serve(t, routes, nil, http.MethodPost, "/api/auth/login", `{"email":"ana@exemplo.com","password":"Segura123"}`)
			if tt.wantCode != "" {
				assertAPIError(t, rec, tt.wantStatus, tt.wantCode)
				return
			}

			require.Equal(t, tt.wantStatus, rec.Code)
			var got domain.TokenResponse
			decodeBody(t, rec, &got)
			assert.Equal(t, "abc", got.AccessToken)
		})
	}
}

func TestLogin_LimiteDeTentativas(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := authmocks.NewMockAuthenticator(ctrl)

	auth.EXPECT().
		LoginUser(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, authenticating.NewAuthError(authenticating.ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Senha incorreta")).
		Times(2)

	routes := Authentication(auth, middleware.NewRateLimiter(1, 2))
	body := `{"email":"ana@exemplo.com","password":"errada"}`

	for range 2 {
		rec := serve(t, routes, nil, http.MethodPost, "/api/auth/login", body)
		assertAPIError(t, rec, http.StatusUnauthorized, apiErrors.ErrInvalidCredentials)
	}

	rec := serve(t, routes, nil, http.MethodPost, "/api/auth/login", body)
	assertAPIError(t, rec, http.StatusTooManyRequests, apiErrors.ErrTooManyAttempts)
}

func TestFirebaseLogin(t *testing.T) {
	t.Run("token aceito", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)

		auth.EXPECT().LoginWithFirebase(gomock.Any(), "id-token").Return(&domain.TokenResponse{AccessToken: "jwt", TokenType: "bearer"}, nil)

		rec := serve(t, Authentication(auth, middleware.NewRateLimiter(100, 100)), nil, http.MethodPost, "/api/auth/firebase", `{"id_token":"id-token"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("token rejeitado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)

		auth.EXPECT().
			LoginWithFirebase(gomock.Any(), "id-token").
			Return(nil, authenticating.NewAuthError(authenticating.ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Token do Firebase inválido"))

		rec := serve(t, Authentication(auth, middleware.NewRateLimiter(100, 100)), nil, http.MethodPost, "/api/auth/firebase", `{"id_token":"id-token"}`)
		assertAPIError(t, rec, http.StatusUnauthorized, apiErrors.ErrInvalidCredentials)
	})
}

func TestRegister(t *testing.T) {
	t.Run("cadastro", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)

		auth.EXPECT().
			Register(gomock.Any(), "Ana", "ana@exemplo.com", "Segura123").
			Return(&domain.User{ID: 2, Name: "Ana", Email: "ana@exemplo.com", Active: true, RoleID: authenticating.RoleClient}, nil)

		rec := serve(t, Authentication(auth, middleware.NewRateLimiter(100, 100)), nil, http.MethodPost, "/api/auth/register", `{"name":"Ana","email":"ana@exemplo.com","password":"Segura123"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var user domain.User
		decodeBody(t, rec, &user)
		assert.Equal(t, 2, user.ID)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("cadastro público desabilitado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		auth := authmocks.NewMockAuthenticator(ctrl)

		auth.EXPECT().
			Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, authenticating.NewAuthError(authenticating.ErrRegistrationDisabled, apiErrors.ErrRegistrationDisabled, "Cadastro desabilitado"))

		rec := serve(t, Authentication(auth, middleware.NewRateLimiter(100, 100)), nil, http.MethodPost, "/api/auth/register", `{"name":"Ana","email":"ana@exemplo.com","password":"Segura123"}`)
		assertAPIError(t, rec, http.StatusForbidden, apiErrors.ErrRegistrationDisabled)
	})
}

func TestBootstrapStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := authmocks.NewMockAuthenticator(ctrl)

	auth.EXPECT().BootstrapStatus(gomock.Any()).Return(&domain.BootstrapStatus{HasUsers: false}, nil)

	rec := serve(t, Authentication(auth, middleware.NewRateLimiter(100, 100)), nil, http.MethodGet, "/api/auth/bootstrap/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"has_users":false}`, rec.Body.String())
}

func TestGetMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := authmocks.NewMockAuthenticator(ctrl)

	auth.EXPECT().GetUserProfile(gomock.Any(), userClaims.UserID).Return(&domain.User{ID: userClaims.UserID, Email: testOwner}, nil)

	rec := serve(t, Authentication(auth, middleware.NewRateLimiter(100, 100)), userClaims, http.MethodGet, "/api/auth/me", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var user domain.User
	decodeBody(t, rec, &user)
	assert.Equal(t, testOwner, user.Email)
}

func TestChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := authmocks.NewMockAuthenticator(ctrl)

	auth.EXPECT().
		ChangePassword(gomock.Any(), userClaims.UserID, "Antiga123", "Nova12345").
		Return(nil)

	rec := serve(t, Authentication(auth, middleware.NewRateLimiter(100, 100)), userClaims, http.MethodPost, "/api/auth/change-password", `{"current_password":"Antiga123","new_password":"Nova12345"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
