package usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/infrastructure/auth"
	"gatehouse/internal/infrastructure/cache"
	"gatehouse/internal/infrastructure/repository"
	"gatehouse/internal/shared/clock"
	"gatehouse/internal/shared/errors"
)

// memStateStore mirrors the single-use semantics of the Redis state store.
type memStateStore struct {
	mu     sync.Mutex
	states map[string]*cache.StateInfo
}

func newMemStateStore() *memStateStore {
	return &memStateStore{states: make(map[string]*cache.StateInfo)}
}

func (s *memStateStore) Set(ctx context.Context, state, provider, codeVerifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = &cache.StateInfo{
		CodeVerifier: codeVerifier,
		Provider:     provider,
		CreatedAt:    clock.NowUTC(),
	}
	return nil
}

func (s *memStateStore) VerifyAndGet(ctx context.Context, state string) (*cache.StateInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.states[state]
	if !ok {
		return nil, fmt.Errorf("state not found")
	}
	delete(s.states, state)
	return info, nil
}

// fakeProviderClient stands in for a provider integration. It records the
// verifier presented on the exchange leg.
type fakeProviderClient struct {
	name             string
	userInfo         *auth.OAuthUserInfo
	exchangeErr      error
	userInfoErr      error
	receivedVerifier string
}

func (c *fakeProviderClient) Provider() string { return c.name }

func (c *fakeProviderClient) GetAuthURL(state string) (string, string, error) {
	return "https://provider.example/authorize?state=" + state, "verifier-" + state, nil
}

func (c *fakeProviderClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (string, error) {
	c.receivedVerifier = codeVerifier
	if c.exchangeErr != nil {
		return "", c.exchangeErr
	}
	return "access-token", nil
}

func (c *fakeProviderClient) GetUserInfo(ctx context.Context, accessToken string) (*auth.OAuthUserInfo, error) {
	if c.userInfoErr != nil {
		return nil, c.userInfoErr
	}
	return c.userInfo, nil
}

type oauthFixture struct {
	client    *fakeProviderClient
	initiator *InitiateOAuthLoginUseCase
	callback  *HandleOAuthCallbackUseCase
}

func newOAuthFixture(t *testing.T) *oauthFixture {
	t.Helper()
	gdb := setupTestDB(t)
	log := testLogger()

	client := &fakeProviderClient{
		name: "google",
		userInfo: &auth.OAuthUserInfo{
			Email:         "ada@example.com",
			Name:          "Ada Lovelace",
			Picture:       "https://example.com/ada.png",
			EmailVerified: true,
			Provider:      "google",
			ProviderID:    "sub-123",
		},
	}
	clients := map[string]ProviderClient{"google": client}

	initiator := NewInitiateOAuthLoginUseCase(clients, newMemStateStore(), log)
	issuer := NewIssueSessionUseCase(
		repository.NewUserRepository(gdb),
		repository.NewAccountRepository(gdb),
		repository.NewSessionRepository(gdb),
		newTestTxManager(gdb),
		24*time.Hour, false, log,
	)
	callback := NewHandleOAuthCallbackUseCase(clients, initiator, issuer, log)

	return &oauthFixture{client: client, initiator: initiator, callback: callback}
}

func TestOAuthFlow_InitiateAndCallback(t *testing.T) {
	fx := newOAuthFixture(t)
	ctx := context.Background()

	initiated, err := fx.initiator.Execute(ctx, InitiateOAuthLoginCommand{Provider: "google"})
	require.NoError(t, err)
	assert.Contains(t, initiated.AuthURL, "state="+initiated.State)
	assert.NotEmpty(t, initiated.State)

	result, err := fx.callback.Execute(ctx, HandleOAuthCallbackCommand{
		Provider: "google",
		Code:     "auth-code",
		State:    initiated.State,
	})
	require.NoError(t, err)
	assert.True(t, result.IsNewUser)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.NotEmpty(t, result.Token)

	// The verifier parked at initiation came back on the exchange leg.
	assert.Equal(t, "verifier-"+initiated.State, fx.client.receivedVerifier)
}

func TestOAuthFlow_StateIsSingleUse(t *testing.T) {
	fx := newOAuthFixture(t)
	ctx := context.Background()

	initiated, err := fx.initiator.Execute(ctx, InitiateOAuthLoginCommand{Provider: "google"})
	require.NoError(t, err)

	cmd := HandleOAuthCallbackCommand{Provider: "google", Code: "auth-code", State: initiated.State}
	_, err = fx.callback.Execute(ctx, cmd)
	require.NoError(t, err)

	// Replaying the same state fails.
	_, err = fx.callback.Execute(ctx, cmd)
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeBadRequest, appErr.Type)
}

func TestOAuthFlow_UnknownStateRejected(t *testing.T) {
	fx := newOAuthFixture(t)

	_, err := fx.callback.Execute(context.Background(), HandleOAuthCallbackCommand{
		Provider: "google", Code: "auth-code", State: "forged-state",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeBadRequest, errors.GetAppError(err).Type)
}

func TestOAuthFlow_ProviderMismatchRejected(t *testing.T) {
	fx := newOAuthFixture(t)
	ctx := context.Background()

	initiated, err := fx.initiator.Execute(ctx, InitiateOAuthLoginCommand{Provider: "google"})
	require.NoError(t, err)

	// The state was parked for google but presented on a github callback.
	_, err = fx.callback.Execute(ctx, HandleOAuthCallbackCommand{
		Provider: "github", Code: "auth-code", State: initiated.State,
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeBadRequest, errors.GetAppError(err).Type)
}

func TestOAuthFlow_ExchangeFailureIsOAuthError(t *testing.T) {
	fx := newOAuthFixture(t)
	ctx := context.Background()

	initiated, err := fx.initiator.Execute(ctx, InitiateOAuthLoginCommand{Provider: "google"})
	require.NoError(t, err)

	fx.client.exchangeErr = fmt.Errorf("provider unreachable")
	_, err = fx.callback.Execute(ctx, HandleOAuthCallbackCommand{
		Provider: "google", Code: "auth-code", State: initiated.State,
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeOAuthError, errors.GetAppError(err).Type)
}

func TestInitiateOAuth_UnknownProvider(t *testing.T) {
	fx := newOAuthFixture(t)

	_, err := fx.initiator.Execute(context.Background(), InitiateOAuthLoginCommand{Provider: "myspace"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeBadRequest, errors.GetAppError(err).Type)
}
