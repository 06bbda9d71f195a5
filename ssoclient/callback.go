package ssoclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-sso-client/flowstore"
	"github.com/tidwall/gjson"
)

// maxResponseBytes caps how much of an exchange response is read.
const maxResponseBytes = 1 << 20

type exchangeRequest struct {
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier,omitempty"`
}

// HandleCallback completes the flow from the query parameters of the redirect
// back from the authorization server. Each check is a hard gate: a failure
// returns before any later step runs, and the stored state and verifier are
// only cleared once the exchange has succeeded so a failed attempt can be
// retried with the same parameters.
func (c *Client) HandleCallback(ctx context.Context, store flowstore.Repo, params url.Values) (*TokenExchangeResult, error) {
	ctx, span := c.tracer.Start(ctx, "ssoclient.HandleCallback")
	result, err := c.handleCallback(ctx, store, params)
	endSpan(span, err)
	return result, err
}

func (c *Client) handleCallback(ctx context.Context, store flowstore.Repo, params url.Values) (*TokenExchangeResult, error) {
	code := params.Get("code")
	returnedState := params.Get("state")

	if code == "" {
		return nil, ErrMissingAuthorizationCode
	}

	savedState, err := readSlot(store, StateKey)
	if err != nil {
		return nil, fmt.Errorf("[Client HandleCallback] failed to read state: %w", err)
	}
	if returnedState == "" || returnedState != savedState {
		c.logger.Debug().Bool("stored", savedState != "").Msg("Callback state rejected")
		return nil, ErrStateMismatch
	}

	body := exchangeRequest{Code: code}
	if c.usePKCE {
		verifier, err := readSlot(store, VerifierKey)
		if err != nil {
			return nil, fmt.Errorf("[Client HandleCallback] failed to read code verifier: %w", err)
		}
		if verifier == "" {
			return nil, ErrMissingPKCEVerifier
		}
		body.CodeVerifier = verifier
	}

	resp, err := c.postExchange(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		exchangeErr := newExchangeError(resp.StatusCode, raw)
		c.logger.Debug().Int("status", resp.StatusCode).Str("error", exchangeErr.Message).Msg("Token exchange rejected")
		return nil, exchangeErr
	}

	if err := store.Delete(StateKey); err != nil {
		return nil, fmt.Errorf("[Client HandleCallback] failed to clear state: %w", err)
	}
	if err := store.Delete(VerifierKey); err != nil {
		return nil, fmt.Errorf("[Client HandleCallback] failed to clear code verifier: %w", err)
	}

	var result TokenExchangeResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		return nil, fmt.Errorf("[Client HandleCallback] failed to decode exchange response: %w", err)
	}

	if c.verifier != nil {
		if err := c.verifier.Verify(ctx, result.JWT); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
		}
	}

	c.logger.Debug().Str("user_id", result.User.ID).Msg("Token exchange complete")
	return &result, nil
}

func (c *Client) postExchange(ctx context.Context, body exchangeRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("[Client HandleCallback] failed to encode exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ExchangeURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("[Client HandleCallback] failed to build exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[Client HandleCallback] exchange request failed: %w", err)
	}
	return resp, nil
}

// readSlot maps an empty slot to "" so callers can treat absence as a value.
func readSlot(store flowstore.Repo, key string) (string, error) {
	value, err := store.Get(key)
	if errors.Is(err, flowstore.ErrNotFound) {
		return "", nil
	}
	return value, err
}

// newExchangeError derives the message from a failed exchange body: the
// server's "error" string when present, a generic message when the body is
// not JSON, otherwise the HTTP status.
func newExchangeError(status int, body []byte) *ExchangeError {
	if !gjson.ValidBytes(body) {
		return &ExchangeError{StatusCode: status, Message: ErrTokenExchangeFailed.Error()}
	}
	if field := gjson.GetBytes(body, "error"); field.Type == gjson.String && field.Str != "" {
		return &ExchangeError{StatusCode: status, Message: field.Str}
	}
	return &ExchangeError{StatusCode: status, Message: fmt.Sprintf("HTTP %d", status)}
}
