package ssoclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/jrsteele09/go-sso-client/internal/utils"
	"github.com/jrsteele09/go-sso-client/ssoclient"
	"github.com/stretchr/testify/require"
)

const (
	testState    = "1f1e1d1c1b1a191817161514131211100f0e0d0c0b0a09080706050403020100"
	testVerifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
)

func callbackParams(code, state string) url.Values {
	params := url.Values{}
	if code != "" {
		params.Set("code", code)
	}
	if state != "" {
		params.Set("state", state)
	}
	return params
}

func TestClient_HandleCallback_Success(t *testing.T) {
	f := setupTestFixture(t, ssoclient.Config{})
	f.seed(t, testState, testVerifier)

	result, err := f.client.HandleCallback(context.Background(), f.store, callbackParams(testCode, testState))
	require.NoError(t, err)
	require.Equal(t, &ssoclient.TokenExchangeResult{
		Success: true,
		JWT:     "xyz",
		User:    ssoclient.SSOUser{ID: "1", Username: "u", Email: "e@x.com"},
	}, result)

	require.Equal(t, 0, f.store.Len())

	calls := f.server.exchangeCalls()
	require.Len(t, calls, 1)
	require.Equal(t, "application/json", calls[0].ContentType)
	require.Equal(t, map[string]string{"code": testCode, "code_verifier": testVerifier}, calls[0].Body)
}

func TestClient_HandleCallback_ReplayFailsAfterSuccess(t *testing.T) {
	f := setupTestFixture(t, ssoclient.Config{})
	f.seed(t, testState, testVerifier)
	params := callbackParams(testCode, testState)

	_, err := f.client.HandleCallback(context.Background(), f.store, params)
	require.NoError(t, err)

	_, err = f.client.HandleCallback(context.Background(), f.store, params)
	require.ErrorIs(t, err, ssoclient.ErrStateMismatch)
	require.Len(t, f.server.exchangeCalls(), 1)
}

func TestClient_HandleCallback_WithoutPKCE(t *testing.T) {
	f := setupTestFixture(t, ssoclient.Config{UsePKCE: utils.Ptr(false)})
	f.seed(t, testState, "")

	_, err := f.client.HandleCallback(context.Background(), f.store, callbackParams(testCode, testState))
	require.NoError(t, err)

	calls := f.server.exchangeCalls()
	require.Len(t, calls, 1)
	require.Equal(t, map[string]string{"code": testCode}, calls[0].Body)
}

func TestClient_HandleCallback_Gates(t *testing.T) {
	tests := []struct {
		name      string
		seedState string
		seedVerif string
		params    url.Values
		wantErr   error
	}{
		{
			name:      "missing code",
			seedState: testState,
			seedVerif: testVerifier,
			params:    callbackParams("", testState),
			wantErr:   ssoclient.ErrMissingAuthorizationCode,
		},
		{
			name:      "missing state parameter",
			seedState: testState,
			seedVerif: testVerifier,
			params:    callbackParams(testCode, ""),
			wantErr:   ssoclient.ErrStateMismatch,
		},
		{
			name:      "different state",
			seedState: testState,
			seedVerif: testVerifier,
			params:    callbackParams(testCode, "not-the-state"),
			wantErr:   ssoclient.ErrStateMismatch,
		},
		{
			name:      "prefix of stored state",
			seedState: testState,
			seedVerif: testVerifier,
			params:    callbackParams(testCode, testState[:32]),
			wantErr:   ssoclient.ErrStateMismatch,
		},
		{
			name:    "nothing stored",
			params:  callbackParams(testCode, testState),
			wantErr: ssoclient.ErrStateMismatch,
		},
		{
			name:      "verifier missing",
			seedState: testState,
			params:    callbackParams(testCode, testState),
			wantErr:   ssoclient.ErrMissingPKCEVerifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, ssoclient.Config{})
			if tt.seedState != "" {
				f.seed(t, tt.seedState, tt.seedVerif)
			}
			before := f.store.Len()

			result, err := f.client.HandleCallback(context.Background(), f.store, tt.params)
			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, result)
			require.Empty(t, f.server.exchangeCalls())
			require.Equal(t, before, f.store.Len())
		})
	}
}

func TestClient_HandleCallback_MissingCodeMessage(t *testing.T) {
	f := setupTestFixture(t, ssoclient.Config{})

	_, err := f.client.HandleCallback(context.Background(), f.store, url.Values{"state": {"anything"}})
	require.EqualError(t, err, "missing authorization code in callback URL")
	require.Empty(t, f.server.exchangeCalls())
}

func TestClient_HandleCallback_ExchangeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		wantMsg string
	}{
		{name: "server error field", status: http.StatusBadRequest, reply: `{"error":"invalid_grant"}`, wantMsg: "invalid_grant"},
		{name: "body is not JSON", status: http.StatusBadGateway, reply: `<html>bad gateway</html>`, wantMsg: "token exchange failed"},
		{name: "empty body", status: http.StatusInternalServerError, reply: ``, wantMsg: "token exchange failed"},
		{name: "JSON without error field", status: http.StatusUnauthorized, reply: `{"message":"nope"}`, wantMsg: "HTTP 401"},
		{name: "non-string error field", status: http.StatusForbidden, reply: `{"error":{"code":7}}`, wantMsg: "HTTP 403"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, ssoclient.Config{})
			f.seed(t, testState, testVerifier)
			f.server.respond(tt.status, tt.reply)

			result, err := f.client.HandleCallback(context.Background(), f.store, callbackParams(testCode, testState))
			require.Nil(t, result)
			require.EqualError(t, err, tt.wantMsg)
			require.ErrorIs(t, err, ssoclient.ErrTokenExchangeFailed)

			var exchangeErr *ssoclient.ExchangeError
			require.True(t, errors.As(err, &exchangeErr))
			require.Equal(t, tt.status, exchangeErr.StatusCode)

			// Failed exchanges keep the slots so the callback can be retried.
			require.Equal(t, testState, f.slot(ssoclient.StateKey))
			require.Equal(t, testVerifier, f.slot(ssoclient.VerifierKey))
		})
	}
}

func TestClient_HandleCallback_RetryAfterFailedExchange(t *testing.T) {
	f := setupTestFixture(t, ssoclient.Config{})
	f.seed(t, testState, testVerifier)
	params := callbackParams(testCode, testState)

	f.server.respond(http.StatusServiceUnavailable, `{"error":"temporarily_unavailable"}`)
	_, err := f.client.HandleCallback(context.Background(), f.store, params)
	require.EqualError(t, err, "temporarily_unavailable")

	f.server.respond(http.StatusOK, successReply)
	result, err := f.client.HandleCallback(context.Background(), f.store, params)
	require.NoError(t, err)
	require.Equal(t, "xyz", result.JWT)
	require.Equal(t, 0, f.store.Len())
}

func TestClient_HandleCallback_MalformedSuccessBody(t *testing.T) {
	f := setupTestFixture(t, ssoclient.Config{})
	f.seed(t, testState, testVerifier)
	f.server.respond(http.StatusOK, `{"success":`)

	_, err := f.client.HandleCallback(context.Background(), f.store, callbackParams(testCode, testState))
	require.Error(t, err)
	require.NotErrorIs(t, err, ssoclient.ErrTokenExchangeFailed)
	// The exchange itself succeeded, so the slots are already cleared.
	require.Equal(t, 0, f.store.Len())
}

func TestClient_HandleCallback_NetworkError(t *testing.T) {
	f := setupTestFixture(t, ssoclient.Config{})
	f.seed(t, testState, testVerifier)
	f.server.Close()

	_, err := f.client.HandleCallback(context.Background(), f.store, callbackParams(testCode, testState))
	require.Error(t, err)
	require.NotErrorIs(t, err, ssoclient.ErrTokenExchangeFailed)
	require.Equal(t, 2, f.store.Len())
}

func TestClient_HandleCallback_CancelledContext(t *testing.T) {
	f := setupTestFixture(t, ssoclient.Config{})
	f.seed(t, testState, testVerifier)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.client.HandleCallback(ctx, f.store, callbackParams(testCode, testState))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, f.store.Len())
}

func TestClient_HandleCallback_StorageReadFailure(t *testing.T) {
	f := setupTestFixture(t, ssoclient.Config{})
	boom := errors.New("storage disabled")

	_, err := f.client.HandleCallback(context.Background(), failingRepo{err: boom}, callbackParams(testCode, testState))
	require.ErrorIs(t, err, boom)
	require.Empty(t, f.server.exchangeCalls())
}

func TestClient_LoginThenCallback(t *testing.T) {
	f := setupTestFixture(t, ssoclient.Config{})
	require.NoError(t, f.client.Login(context.Background(), f.store, f.nav))

	authURL, err := url.Parse(f.nav.urls[0])
	require.NoError(t, err)
	state := authURL.Query().Get("state")
	challenge := authURL.Query().Get("code_challenge")

	result, err := f.client.HandleCallback(context.Background(), f.store, callbackParams(testCode, state))
	require.NoError(t, err)
	require.True(t, result.Success)

	// The verifier sent at exchange time must hash to the challenge sent at login.
	calls := f.server.exchangeCalls()
	require.Len(t, calls, 1)
	require.Equal(t, challenge, ssoclient.GenerateCodeChallenge(calls[0].Body["code_verifier"], nil))
}
