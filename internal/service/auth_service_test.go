package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quizhub/internal/auth"
	"quizhub/internal/errors"
	"quizhub/internal/logging"
	"quizhub/internal/model"
	"quizhub/internal/notify"
)

type authFixture struct {
	users      *MockUserRepository
	dispatcher *MockDispatcher
	recorder   *countingLoginRecorder
	hasher     *auth.BcryptHasher
	tokens     auth.TokenService
	svc        AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:      new(MockUserRepository),
		dispatcher: new(MockDispatcher),
		recorder:   &countingLoginRecorder{},
		hasher:     auth.NewBcryptHasher(),
		tokens:     auth.NewTokenService(auth.NewJWTSigner("test-secret", time.Hour), logging.Discard(), nil),
	}
	f.svc = NewAuthService(f.users, f.hasher, f.tokens, f.dispatcher, logging.Discard(), f.recorder)
	return f
}

func (f *authFixture) user(t *testing.T, email, password string) *model.User {
	t.Helper()
	digest, err := f.hasher.Hash(password)
	require.NoError(t, err)
	return &model.User{ID: uuid.New(), Name: "Ada", Email: email, PasswordHash: digest}
}

func TestAuthService_Login(t *testing.T) {
	storeErr := stderrors.New("connection refused")

	tests := []struct {
		name            string
		password        string
		setupMock       func(f *authFixture, t *testing.T)
		expectedKind    error
		expectedMessage string
		expectedOutcome string
	}{
		{
			name:     "successful login",
			password: "password123",
			setupMock: func(f *authFixture, t *testing.T) {
				f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(f.user(t, "ada@example.com", "password123"), nil)
			},
			expectedOutcome: loginSuccess,
		},
		{
			name:     "unknown email",
			password: "password123",
			setupMock: func(f *authFixture, t *testing.T) {
				f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedKind:    errors.ErrNotFound,
			expectedMessage: "User with e-mail address ada@example.com not found",
			expectedOutcome: loginNotFound,
		},
		{
			name:     "wrong password",
			password: "password124",
			setupMock: func(f *authFixture, t *testing.T) {
				f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(f.user(t, "ada@example.com", "password123"), nil)
			},
			expectedKind:    errors.ErrUnauthorized,
			expectedMessage: "Invalid credentials",
			expectedOutcome: loginBadPassword,
		},
		{
			name:     "corrupt digest",
			password: "password123",
			setupMock: func(f *authFixture, t *testing.T) {
				f.users.On("FindByEmail", mock.Anything, "ada@example.com").
					Return(&model.User{ID: uuid.New(), Email: "ada@example.com", PasswordHash: "garbage"}, nil)
			},
			expectedKind:    errors.ErrUnauthorized,
			expectedMessage: "Invalid credentials",
			expectedOutcome: loginBadPassword,
		},
		{
			name:     "store failure",
			password: "password123",
			setupMock: func(f *authFixture, t *testing.T) {
				f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, storeErr)
			},
			expectedKind:    storeErr,
			expectedOutcome: loginError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			tt.setupMock(f, t)

			result, err := f.svc.Login(context.Background(), "ada@example.com", tt.password)

			if tt.expectedKind == nil {
				require.NoError(t, err)
				assert.Equal(t, "ada@example.com", result.User.Email)
				claims, err := f.tokens.VerifySessionToken(result.Token)
				require.NoError(t, err)
				assert.Equal(t, result.User.ID.String(), claims.UserID)
				assert.Equal(t, "ada@example.com", claims.Email)
			} else {
				assert.Nil(t, result)
				assert.ErrorIs(t, err, tt.expectedKind)
				if tt.expectedMessage != "" {
					assert.EqualError(t, err, tt.expectedMessage)
				}
			}
			assert.Equal(t, 1, f.recorder.outcomes[tt.expectedOutcome])
			f.users.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateBearerRequest(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()
	token, err := f.tokens.IssueSessionToken(userID, "ada@example.com")
	require.NoError(t, err)
	reset, err := f.tokens.IssueResetToken("ada@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		valid  bool
	}{
		{name: "bearer", header: "Bearer " + token, valid: true},
		{name: "lowercase scheme", header: "bearer " + token, valid: true},
		{name: "extra whitespace", header: "  Bearer " + token + " ", valid: true},
		{name: "missing header", header: "", valid: false},
		{name: "scheme only", header: "Bearer", valid: false},
		{name: "no scheme", header: token, valid: false},
		{name: "basic scheme", header: "Basic " + token, valid: false},
		{name: "garbage token", header: "Bearer abc.def.ghi", valid: false},
		{name: "reset token", header: "Bearer " + reset, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := f.svc.ValidateBearerRequest(context.Background(), tt.header)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, userID.String(), claims.UserID)
				return
			}
			assert.Nil(t, claims)
			assert.Equal(t, auth.ErrInvalidToken, err)
		})
	}
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	t.Run("does not look the email up", func(t *testing.T) {
		f := newAuthFixture(t)
		delivery := &notify.Delivery{ID: "msg-1", PreviewURL: "file:///tmp/msg-1.eml"}
		f.dispatcher.On("SendResetEmail", mock.Anything, "nobody@example.com").Return(delivery, nil)

		got, err := f.svc.RequestPasswordReset(context.Background(), "nobody@example.com")
		require.NoError(t, err)
		assert.Equal(t, delivery, got)
		f.users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
		f.dispatcher.AssertExpectations(t)
	})

	t.Run("transport failure propagates", func(t *testing.T) {
		f := newAuthFixture(t)
		sendErr := stderrors.New("mailgun: 503")
		f.dispatcher.On("SendResetEmail", mock.Anything, "ada@example.com").Return(nil, sendErr)

		got, err := f.svc.RequestPasswordReset(context.Background(), "ada@example.com")
		assert.Nil(t, got)
		assert.Equal(t, sendErr, err)
	})
}

func TestAuthService_ConfirmPasswordReset(t *testing.T) {
	f := newAuthFixture(t)
	user := f.user(t, "ada@example.com", "old-password")
	token, err := f.tokens.IssueResetToken("ada@example.com")
	require.NoError(t, err)

	var digests []string
	f.users.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
	f.users.On("UpdatePasswordHash", mock.Anything, user.ID, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { digests = append(digests, args.String(2)) }).
		Return(nil)

	public, err := f.svc.ConfirmPasswordReset(context.Background(), "ada@example.com", token, "new-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, public.ID)
	require.Len(t, digests, 1)
	assert.True(t, f.hasher.Verify("new-password", digests[0]))
	assert.False(t, f.hasher.Verify("old-password", digests[0]))

	// Tokens are not consumed, so the same token works again until it expires.
	_, err = f.svc.ConfirmPasswordReset(context.Background(), "ada@example.com", token, "newer-password")
	require.NoError(t, err)
	require.Len(t, digests, 2)
	assert.True(t, f.hasher.Verify("newer-password", digests[1]))
}

func TestAuthService_ConfirmPasswordReset_Failures(t *testing.T) {
	storeErr := stderrors.New("lock wait timeout")

	tests := []struct {
		name         string
		tokenEmail   string
		password     string
		setupMock    func(m *MockUserRepository, user *model.User)
		expectedKind error
	}{
		{
			name:         "token for another email",
			tokenEmail:   "eve@example.com",
			password:     "new-password",
			setupMock:    func(m *MockUserRepository, user *model.User) {},
			expectedKind: errors.ErrUnauthorized,
		},
		{
			name:       "user no longer exists",
			tokenEmail: "ada@example.com",
			password:   "new-password",
			setupMock: func(m *MockUserRepository, user *model.User) {
				m.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedKind: errors.ErrNotFound,
		},
		{
			name:       "empty password",
			tokenEmail: "ada@example.com",
			password:   "",
			setupMock: func(m *MockUserRepository, user *model.User) {
				m.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
			},
			expectedKind: errors.ErrInvalidArgument,
		},
		{
			name:       "user deleted between lookup and update",
			tokenEmail: "ada@example.com",
			password:   "new-password",
			setupMock: func(m *MockUserRepository, user *model.User) {
				m.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
				m.On("UpdatePasswordHash", mock.Anything, user.ID, mock.Anything).Return(gorm.ErrRecordNotFound)
			},
			expectedKind: errors.ErrNotFound,
		},
		{
			name:       "store failure",
			tokenEmail: "ada@example.com",
			password:   "new-password",
			setupMock: func(m *MockUserRepository, user *model.User) {
				m.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
				m.On("UpdatePasswordHash", mock.Anything, user.ID, mock.Anything).Return(storeErr)
			},
			expectedKind: storeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			user := &model.User{ID: uuid.New(), Email: "ada@example.com", PasswordHash: "digest"}
			tt.setupMock(f.users, user)

			token, err := f.tokens.IssueResetToken(tt.tokenEmail)
			require.NoError(t, err)

			public, err := f.svc.ConfirmPasswordReset(context.Background(), "ada@example.com", token, tt.password)
			assert.Nil(t, public)
			assert.ErrorIs(t, err, tt.expectedKind)
			f.users.AssertExpectations(t)
		})
	}
}
