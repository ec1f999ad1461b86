package editor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"codeberg.org/archviz/studio/archviz/settings"
	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/auth"
	"codeberg.org/archviz/studio/internal/credential"
	"codeberg.org/archviz/studio/internal/editor"
	apierrors "codeberg.org/archviz/studio/internal/errors"
	"codeberg.org/archviz/studio/internal/imageops"
	"codeberg.org/archviz/studio/internal/llm"
	"codeberg.org/archviz/studio/internal/quota"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))

	return buf.Bytes()
}

type mockGenerator struct {
	mu    sync.Mutex
	err   error
	img   *imageops.Image
	calls int
}

func (m *mockGenerator) GenerateImage(_ context.Context, _ llm.ImageRequest) (*llm.ImageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	return &llm.ImageResult{Image: m.img}, nil
}

type mockKeyListener struct {
	saved []string
}

func (m *mockKeyListener) KeySaved(identity string) {
	m.saved = append(m.saved, identity)
}

type fixture struct {
	router    *gin.Engine
	users     *users.Service
	generator *mockGenerator
	keys      *mockKeyListener
	user      *users.User
	token     string
}

func newFixture(t *testing.T, injectedKey string, dailyQuota int) *fixture {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	userSvc := users.NewService(users.NewMemoryStore(), nil)

	user, err := userSvc.Create(context.Background(), users.CreateRequest{
		Username:   "alice",
		Password:   "secret1",
		DailyQuota: dailyQuota,
	})
	require.NoError(t, err)

	result, err := imageops.Decode(pngBytes(t, 4, 2))
	require.NoError(t, err)

	gen := &mockGenerator{img: result}
	resolver := credential.NewResolver(func() string { return injectedKey }, settings.NewMemoryStore())

	manager := editor.NewManager(editor.Deps{
		Generator:   gen,
		Credentials: resolver,
		Admission:   quota.NewGate(userSvc, nil),
		Usage:       quota.NewService(userSvc),
		Accounts:    userSvc,
	})
	t.Cleanup(manager.Stop)

	listener := &mockKeyListener{}

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), Deps{
		Sessions:    manager,
		Keys:        credential.NewCookieKeys("cookie-secret", false),
		Credentials: listener,
		Accounts:    userSvc,
	}, nil)

	token, err := auth.GenerateJWT(user.ID, user.Username, false)
	require.NoError(t, err)

	return &fixture{
		router:    r,
		users:     userSvc,
		generator: gen,
		keys:      listener,
		user:      user,
		token:     token,
	}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body) //nolint:errcheck // test input
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	return w
}

func (f *fixture) uploadMain(t *testing.T) editor.View {
	t.Helper()

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 6, 3))

	w := f.do(http.MethodPut, "/api/v1/editor/images/main", UploadRequest{DataURL: dataURL})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view editor.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	return view
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) apierrors.ErrorResponse {
	t.Helper()

	var body apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func TestCatalog_Localized(t *testing.T) {
	f := newFixture(t, "key", 5)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/editor/catalog?lang=th", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"language":"TH"`)
}

func TestEditor_RequiresAuth(t *testing.T) {
	f := newFixture(t, "key", 5)
	f.token = "garbage"

	w := f.do(http.MethodGet, "/api/v1/editor/session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEditor_BannedAccountRefused(t *testing.T) {
	f := newFixture(t, "key", 5)

	_, err := f.users.SetActive(context.Background(), f.user.ID, false)
	require.NoError(t, err)

	w := f.do(http.MethodGet, "/api/v1/editor/session", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGenerate_EmptyRequest(t *testing.T) {
	f := newFixture(t, "key", 5)

	w := f.do(http.MethodPost, "/api/v1/editor/generate", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := errorCode(t, w)
	assert.Equal(t, apierrors.CodeValidationError, body.Error)
	assert.Equal(t, editor.ErrEmptyRequest.Error(), body.Message)
	assert.Zero(t, f.generator.calls)
}

func TestGenerate_SuccessCountsUsage(t *testing.T) {
	f := newFixture(t, "key", 5)

	view := f.uploadMain(t)
	assert.Equal(t, editor.StateLoaded, view.State)
	require.NotNil(t, view.Main)
	assert.Equal(t, 6, view.Main.Width)

	w := f.do(http.MethodPost, "/api/v1/editor/generate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, editor.StateResult, resp.Session.State)
	assert.Equal(t, resultPath, resp.ResultURL)

	u, err := f.users.Get(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.UsageCount)

	w = f.do(http.MethodGet, "/api/v1/editor/images/result", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = f.do(http.MethodGet, "/api/v1/editor/download", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "generated-ai-")

	w = f.do(http.MethodGet, "/api/v1/editor/session", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var session editor.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.NotNil(t, session.Quota)
	assert.Equal(t, 1, session.Quota.Usage)
	assert.Equal(t, 5, session.Quota.DailyQuota)
	require.NotNil(t, session.Allowance)
	assert.Equal(t, 4, session.Allowance.Remaining)
}

func TestUpload_RejectsOversizedDimensions(t *testing.T) {
	f := newFixture(t, "key", 5)

	ihdr := []byte{0, 0, 0xea, 0x60, 0, 0, 0xea, 0x60, 8, 6, 0, 0, 0} // 60000x60000 rgba
	chunk := append([]byte("IHDR"), ihdr...)

	data := []byte("\x89PNG\r\n\x1a\n")
	data = binary.BigEndian.AppendUint32(data, uint32(len(ihdr)))
	data = append(data, chunk...)
	data = binary.BigEndian.AppendUint32(data, crc32.ChecksumIEEE(chunk))

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	w := f.do(http.MethodPut, "/api/v1/editor/images/main", UploadRequest{DataURL: dataURL})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, errorCode(t, w).Message, "megapixel")
}

func TestGenerate_QuotaReached(t *testing.T) {
	f := newFixture(t, "key", 1)
	f.uploadMain(t)

	w := f.do(http.MethodPost, "/api/v1/editor/generate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPost, "/api/v1/editor/generate", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierrors.CodeQuotaReached, errorCode(t, w).Error)
	assert.Equal(t, 1, f.generator.calls)
}

func TestGenerate_MissingCredential(t *testing.T) {
	f := newFixture(t, "", 5)
	f.uploadMain(t)

	w := f.do(http.MethodPost, "/api/v1/editor/generate", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.CodeCredentialRequired, errorCode(t, w).Error)
}

func TestGenerate_GeneratorFailures(t *testing.T) {
	cases := []struct {
		kind   llm.Kind
		status int
		code   string
	}{
		{llm.KindInvalidCredential, http.StatusUnauthorized, apierrors.CodeCredentialInvalid},
		{llm.KindRateLimited, http.StatusTooManyRequests, apierrors.CodeTooManyRequests},
		{llm.KindNoImage, http.StatusBadGateway, apierrors.CodeGenerationFailed},
		{llm.KindGeneral, http.StatusBadGateway, apierrors.CodeGenerationFailed},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			f := newFixture(t, "key", 5)
			f.uploadMain(t)
			f.generator.err = &llm.GenerationError{Kind: tc.kind, Message: "upstream said no"}

			w := f.do(http.MethodPost, "/api/v1/editor/generate", nil)
			require.Equal(t, tc.status, w.Code)

			body := errorCode(t, w)
			assert.Equal(t, tc.code, body.Error)
			assert.Equal(t, "upstream said no", body.Message)

			u, err := f.users.Get(context.Background(), f.user.ID)
			require.NoError(t, err)
			assert.Zero(t, u.UsageCount, "failed generations are not counted")
		})
	}
}

func TestTransformAndHistory(t *testing.T) {
	f := newFixture(t, "key", 5)
	f.uploadMain(t)

	w := f.do(http.MethodPost, "/api/v1/editor/transform", TransformRequest{Kind: "skew"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/v1/editor/transform", TransformRequest{Kind: imageops.Rotate90})
	require.Equal(t, http.StatusOK, w.Code)

	var view editor.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.Main)
	assert.Equal(t, 3, view.Main.Width)
	assert.Equal(t, 6, view.Main.Height)
	assert.True(t, view.CanUndo)

	w = f.do(http.MethodPost, "/api/v1/editor/undo", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var hist HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	assert.True(t, hist.Changed)
	assert.Equal(t, 6, hist.Session.Main.Width)

	w = f.do(http.MethodPost, "/api/v1/editor/undo", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	assert.False(t, hist.Changed)
}

func TestSelectionsAndPrompt(t *testing.T) {
	f := newFixture(t, "key", 5)

	w := f.do(http.MethodPut, "/api/v1/editor/selections", editor.Selections{Room: "no-such-room"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPut, "/api/v1/editor/selections", editor.Selections{Prompt: "a glass pavilion"})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/v1/editor/prompt", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PromptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Prompt, "a glass pavilion")
}

func TestUpload_Multipart(t *testing.T) {
	f := newFixture(t, "key", 5)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "ref.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes(t, 5, 5))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/editor/images/reference", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.token)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view editor.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.Reference)
	assert.Equal(t, 5, view.Reference.Width)
}

func TestUpload_RejectsNonImage(t *testing.T) {
	f := newFixture(t, "key", 5)

	dataURL := "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello"))

	w := f.do(http.MethodPut, "/api/v1/editor/images/main", UploadRequest{DataURL: dataURL})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/v1/editor/images/main", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIKey_SaveAndClear(t *testing.T) {
	f := newFixture(t, "", 5)

	w := f.do(http.MethodPut, "/api/v1/editor/api-key", APIKeyRequest{APIKey: "  client-key  "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{f.user.ID}, f.keys.saved)
	assert.NotEmpty(t, w.Result().Cookies())

	w = f.do(http.MethodDelete, "/api/v1/editor/api-key", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
