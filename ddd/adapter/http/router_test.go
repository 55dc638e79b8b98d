package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipx-service/ddd/application/app"
	"snipx-service/ddd/application/cqe"
	"snipx-service/ddd/application/dto"
	"snipx-service/pkg/auth"
	"snipx-service/pkg/config"
	"snipx-service/pkg/errno"
)

// stubVideoApp embeds the interface so unimplemented calls fail loudly.
type stubVideoApp struct {
	app.VideoApp
	uploaded   []byte
	uploadName string
	uploadUser string
	processErr error
}

func (s *stubVideoApp) Upload(_ context.Context, req *cqe.UploadVideoCqe) (*dto.UploadResultDTO, error) {
	s.uploadName = req.Filename
	s.uploadUser = req.UserID
	s.uploaded, _ = io.ReadAll(req.Content)
	return &dto.UploadResultDTO{VideoID: "v1", Message: "Video uploaded successfully"}, nil
}

func (s *stubVideoApp) Process(_ context.Context, req *cqe.ProcessVideoCqe) (*dto.VideoDTO, error) {
	if s.processErr != nil {
		return nil, s.processErr
	}
	return &dto.VideoDTO{ID: req.VideoID, Status: "completed", ProcessingOptions: req.Options}, nil
}

func (s *stubVideoApp) ListVideos(context.Context, string) ([]*dto.VideoDTO, error) {
	return []*dto.VideoDTO{}, nil
}

func (s *stubVideoApp) DownloadSubtitles(_ context.Context, _, videoID string, format cqe.SubtitleFormat) (*dto.FileDTO, error) {
	return &dto.FileDTO{Name: videoID + "_subtitles." + string(format), ContentType: "application/x-subrip", Content: []byte("1\n")}, nil
}

type stubAuthApp struct {
	app.AuthApp
}

func (stubAuthApp) OAuthLoginURL(provider, state string) (string, error) {
	if provider != "google" {
		return "", errno.ErrOAuthProvider
	}
	return "https://accounts.example/auth?state=" + state, nil
}

func (stubAuthApp) OAuthCallback(_ context.Context, _, code string) (*dto.AuthTokenDTO, error) {
	return &dto.AuthTokenDTO{Token: "tok-" + code}, nil
}

type stubTicketApp struct {
	app.TicketApp
}

func (stubTicketApp) Stats(context.Context) (*dto.TicketStatsDTO, error) {
	return &dto.TicketStatsDTO{Open: 1, Total: 1}, nil
}

type testServer struct {
	engine *gin.Engine
	videos *stubVideoApp
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokenManager(config.JWTConfig{Secret: "router-test", ExpireTime: time.Hour})
	require.NoError(t, err)

	videos := &stubVideoApp{}
	engine := gin.New()
	r := NewRouter(videos, stubAuthApp{}, stubTicketApp{}, tokens, "https://app.example/oauth/done")
	r.SetupMiddleware(engine)
	r.SetupRoutes(engine)
	return &testServer{engine: engine, videos: videos, tokens: tokens}
}

func (s *testServer) token(t *testing.T, role string) string {
	t.Helper()
	tok, _, err := s.tokens.Issue("u1", "u1@example.com", role)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestHealthAndAuthGate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), serviceName)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil), s.token(t, "user"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadMultipart(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(uploadField, "holiday.mp4")
	require.NoError(t, err)
	_, _ = part.Write([]byte("fake-video-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req, s.token(t, "user"))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "holiday.mp4", s.videos.uploadName)
	assert.Equal(t, "u1", s.videos.uploadUser)
	assert.Equal(t, []byte("fake-video-bytes"), s.videos.uploaded)

	buf.Reset()
	mw = multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "no file attached"))
	require.NoError(t, mw.Close())
	req = httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = s.do(req, s.token(t, "user"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errno.ErrMissingParam.Code, decodeCode(t, w))
}

func TestProcessEndpoint(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "user")

	body := bytes.NewBufferString(`{"options":{"generate_thumbnail":true}}`)
	w := s.do(httptest.NewRequest(http.MethodPost, "/api/v1/videos/v9/process", body), tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"generate_thumbnail":true`)

	w = s.do(httptest.NewRequest(http.MethodPost, "/api/v1/videos/v9/process", bytes.NewBufferString(`{"options":`)), tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errno.ErrInvalidOptions.Code, decodeCode(t, w))

	s.videos.processErr = errno.ErrVideoBusy
	w = s.do(httptest.NewRequest(http.MethodPost, "/api/v1/videos/v9/process", nil), tok)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDownloadSubtitles(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, "user")

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos/v3/subtitles/download", nil), tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="v3_subtitles.srt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/x-subrip", w.Header().Get("Content-Type"))

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/videos/v3/subtitles/download?format=vtt", nil), tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errno.ErrUnsupportedFormat.Code, decodeCode(t, w))
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/tickets/stats", nil), s.token(t, "user"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/admin/tickets/stats", nil), s.token(t, "admin"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestOAuthStateRoundTrip(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/login", nil), "")
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == oauthStateCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, state, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=forged&code=abc", nil)
	req.AddCookie(cookie)
	w = s.do(req, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errno.ErrOAuthState.Code, decodeCode(t, w))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state="+state+"&code=abc", nil)
	req.AddCookie(cookie)
	w = s.do(req, "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app.example/oauth/done?token=tok-abc", w.Header().Get("Location"))

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/facebook/login", nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
