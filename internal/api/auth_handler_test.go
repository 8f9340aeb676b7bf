package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubAuth struct {
	user *domain.User
	err  error
}

func (a stubAuth) Register(context.Context, string, string, string) (*domain.User, error) {
	return a.user, a.err
}

func (a stubAuth) Login(context.Context, string, string) (string, *domain.User, error) {
	if a.err != nil {
		return "", nil, a.err
	}
	return "token-1", a.user, nil
}

func (stubAuth) GetJWTSecret() string { return routerSecret }

type recordingSync struct {
	service.NopNotifier
	pullErr error
	pulled  []string
}

func (s *recordingSync) Pull(_ context.Context, userID string) (domain.SyncStatus, error) {
	s.pulled = append(s.pulled, userID)
	if s.pullErr != nil {
		return domain.SyncError, s.pullErr
	}
	return domain.SyncReady, nil
}

func (s *recordingSync) Push(context.Context, string) (bool, error) { return false, nil }
func (s *recordingSync) Status(string) domain.SyncStatus { return domain.SyncReady }
func (s *recordingSync) Close() {}

func postLogin(t *testing.T, h *AuthHandler) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.POST("/login", h.Login)
	req := httptest.NewRequest(http.MethodPost, "/login",
		bytes.NewBufferString(`{"email":"ana@example.com","password":"s3cret-pass"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_LoginPullsRemoteState(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID(), Email: "ana@example.com", Role: domain.RoleMember}
	sync := &recordingSync{}

	rec := postLogin(t, NewAuthHandler(stubAuth{user: user}, sync))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{user.ID.Hex()}, sync.pulled)
}

func TestAuthHandler_LoginSurvivesPullFailure(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID(), Email: "ana@example.com", Role: domain.RoleMember}
	sync := &recordingSync{pullErr: errors.New("HTTP 502")}

	rec := postLogin(t, NewAuthHandler(stubAuth{user: user}, sync))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token-1")
	assert.Len(t, sync.pulled, 1)
}

func TestAuthHandler_FailedLoginDoesNotPull(t *testing.T) {
	sync := &recordingSync{}

	rec := postLogin(t, NewAuthHandler(stubAuth{err: service.ErrAuthenticationFailed}, sync))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, sync.pulled)

	rec = postLogin(t, NewAuthHandler(stubAuth{user: &domain.User{ID: primitive.NewObjectID()}}, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
