package editor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/credential"
	"codeberg.org/archviz/studio/internal/imageops"
	"codeberg.org/archviz/studio/internal/llm"
	"codeberg.org/archviz/studio/internal/quota"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// decodable w x h png
func pngImage(t *testing.T, w, h int) *imageops.Image {
	t.Helper()

	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	m.SetNRGBA(0, 0, color.NRGBA{R: 200, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))

	out, err := imageops.Decode(buf.Bytes())
	require.NoError(t, err)

	return out
}

type mockGenerator struct {
	mu      sync.Mutex
	result  *llm.ImageResult
	err     error
	calls   int
	lastReq llm.ImageRequest
	block   chan struct{}
	started chan struct{}
}

func (m *mockGenerator) GenerateImage(_ context.Context, req llm.ImageRequest) (*llm.ImageResult, error) {
	m.mu.Lock()
	m.calls++
	m.lastReq = req
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
	}

	if m.block != nil {
		<-m.block
	}

	return m.result, m.err
}

type mockCredentials struct {
	cred        credential.Credential
	err         error
	invalidated []string
}

func (m *mockCredentials) Resolve(_ context.Context, _, _ string) (credential.Credential, error) {
	return m.cred, m.err
}

func (m *mockCredentials) MarkInvalid(identity string, _ credential.Credential) {
	m.invalidated = append(m.invalidated, identity)
}

type mockAdmission struct {
	allowed  bool
	err      error
	released int
}

func (m *mockAdmission) Admit(_ context.Context, _ string, isAdmin bool, _ string) (quota.Decision, error) {
	if m.err != nil {
		return quota.Decision{}, m.err
	}

	return quota.Decision{Allowed: m.allowed || isAdmin}, nil
}

func (m *mockAdmission) Release(_ context.Context, _ string, _ bool, _ string) error {
	m.released++
	return nil
}

type mockUsage struct {
	err     error
	updated *users.User
	calls   []string
}

func (m *mockUsage) RecordUsage(_ context.Context, userID, today string) (*users.User, error) {
	m.calls = append(m.calls, userID+"@"+today)
	return m.updated, m.err
}

type mockAccounts struct {
	users map[string]users.User
	gets  int
}

func (m *mockAccounts) Get(_ context.Context, id string) (*users.User, error) {
	m.gets++

	u, ok := m.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}

	return &u, nil
}

type mockObserver struct {
	mu       sync.Mutex
	sessions int
}

func (m *mockObserver) GenerationFinished(string, time.Duration) {}

func (m *mockObserver) AdmissionDenied() {}

func (m *mockObserver) SessionsActive(n int) {
	m.mu.Lock()
	m.sessions = n
	m.mu.Unlock()
}

type fixture struct {
	gen     *mockGenerator
	creds   *mockCredentials
	admit   *mockAdmission
	usage   *mockUsage
	session *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		gen:   &mockGenerator{result: &llm.ImageResult{Image: pngImage(t, 4, 2)}},
		creds: &mockCredentials{cred: credential.Credential{Key: "k", Source: credential.SourceClient}},
		admit: &mockAdmission{allowed: true},
		usage: &mockUsage{},
	}

	deps := &Deps{
		Generator:   f.gen,
		Credentials: f.creds,
		Admission:   f.admit,
		Usage:       f.usage,
		Now:         func() time.Time { return fixedNow },
	}

	f.session = newSession(Identity{UserID: "u1"}, deps)

	return f
}
