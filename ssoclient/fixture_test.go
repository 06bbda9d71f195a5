package ssoclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/go-sso-client/flowstore"
	"github.com/jrsteele09/go-sso-client/ssoclient"
	"github.com/stretchr/testify/require"
)

const (
	testOrigin   = "https://app.example.com"
	testCode     = "abc123"
	successReply = `{"success":true,"jwt":"xyz","user":{"id":"1","username":"u","email":"e@x.com"}}`
)

// exchangeCall is one request seen by the fake token exchange endpoint.
type exchangeCall struct {
	ContentType string
	Body        map[string]string
}

// fakeAuthServer stands in for the authorization server's exchange endpoint.
type fakeAuthServer struct {
	*httptest.Server

	mu     sync.Mutex
	calls  []exchangeCall
	status int
	reply  string
}

func newFakeAuthServer(t *testing.T) *fakeAuthServer {
	t.Helper()

	f := &fakeAuthServer{status: http.StatusOK, reply: successReply}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/sso/token/exchange" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		f.calls = append(f.calls, exchangeCall{ContentType: r.Header.Get("Content-Type"), Body: body})
		status, reply := f.status, f.reply
		f.mu.Unlock()

		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAuthServer) respond(status int, reply string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.reply = reply
}

func (f *fakeAuthServer) exchangeCalls() []exchangeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]exchangeCall(nil), f.calls...)
}

// testFixture holds a client wired to a fake server and an in-memory store
type testFixture struct {
	server *fakeAuthServer
	store  *flowstore.InMemoryRepo
	client *ssoclient.Client
	nav    *recordingNavigator
}

func setupTestFixture(t *testing.T, cfg ssoclient.Config, opts ...ssoclient.Option) *testFixture {
	t.Helper()

	server := newFakeAuthServer(t)
	cfg.AuthBaseURL = server.URL + "/"
	if cfg.Origin == "" && cfg.RedirectURI == "" {
		cfg.Origin = testOrigin
	}
	opts = append([]ssoclient.Option{ssoclient.WithHTTPClient(server.Client())}, opts...)

	client, err := ssoclient.New(cfg, opts...)
	require.NoError(t, err)

	return &testFixture{
		server: server,
		store:  flowstore.NewInMemoryRepo(),
		client: client,
		nav:    &recordingNavigator{},
	}
}

// seed stores state and verifier as a completed Login would
func (f *testFixture) seed(t *testing.T, state, verifier string) {
	t.Helper()
	require.NoError(t, f.store.Set(ssoclient.StateKey, state))
	if verifier != "" {
		require.NoError(t, f.store.Set(ssoclient.VerifierKey, verifier))
	}
}

func (f *testFixture) slot(key string) string {
	v, _ := f.store.Get(key)
	return v
}

type recordingNavigator struct {
	urls []string
	err  error
}

func (n *recordingNavigator) Navigate(_ context.Context, url string) error {
	n.urls = append(n.urls, url)
	return n.err
}
