package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/szu-oia/campus-checkin-api/pkg/config"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
)

const casSuccessBody = `<cas:serviceResponse xmlns:cas="http://www.yale.edu/tp/cas">
  <cas:authenticationSuccess>
    <cas:user>2021150233</cas:user>
    <cas:attributes>
      <cas:name>Zhang San</cas:name>
      <cas:alias>zhangsan</cas:alias>
      <cas:organization>ou=CS,ou=Departments</cas:organization>
      <cas:containerId>ou=bks,ou=People</cas:containerId>
    </cas:attributes>
  </cas:authenticationSuccess>
</cas:serviceResponse>`

const casFailureBody = `<cas:serviceResponse xmlns:cas="http://www.yale.edu/tp/cas">
  <cas:authenticationFailure code="INVALID_TICKET">Ticket ST-XX not recognized</cas:authenticationFailure>
</cas:serviceResponse>`

func newTestAuthService(serverURL string) *AuthService {
	cas := config.CASConfig{
		ServerURL:  serverURL,
		ServiceURL: "http://localhost:8080/api/v1/auth/cas",
		Timeout:    2 * time.Second,
	}
	jwtCfg := config.JWTConfig{
		Secret:     "test_secret",
		Issuer:     "campus-checkin-api",
		Expiration: time.Hour,
	}
	return NewAuthService(cas, jwtCfg, nil, zap.NewNop())
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/serviceValidate", r.URL.Path)
		assert.Equal(t, "ST-123", r.URL.Query().Get("ticket"))
		assert.NotEmpty(t, r.URL.Query().Get("service"))
		fmt.Fprint(w, casSuccessBody)
	}))
	defer server.Close()

	svc := newTestAuthService(server.URL)
	result, err := svc.Login(context.Background(), "ST-123")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "2021150233", result.User.Username)
	assert.Equal(t, "Zhang San", result.User.Name)
	assert.Equal(t, "undergraduate", result.UserType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, time.Minute)
}

func TestAuthServiceLoginTicketRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, casFailureBody)
	}))
	defer server.Close()

	svc := newTestAuthService(server.URL)
	_, err := svc.Login(context.Background(), "ST-stale")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTicket.Code, appErr.Code)
}

func TestAuthServiceLoginBlankTicket(t *testing.T) {
	svc := newTestAuthService("http://cas.invalid")
	_, err := svc.Login(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, casSuccessBody)
	}))
	defer server.Close()

	svc := newTestAuthService(server.URL)
	result, err := svc.Login(context.Background(), "ST-123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "2021150233", claims.StudentID)
	assert.Equal(t, "Zhang San", claims.FullName)
	assert.Equal(t, "undergraduate", claims.UserType)
	assert.Equal(t, "campus-checkin-api", claims.Issuer)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService("http://cas.invalid")

	_, err := svc.ValidateToken("not.a.jwt")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestUserTypeFromContainer(t *testing.T) {
	tests := []struct {
		containerID string
		want        string
	}{
		{"ou=bks,ou=People", "undergraduate"},
		{"ou=yjs,ou=People", "postgraduate"},
		{"ou=jzg,ou=People", "staff"},
		{"ou=qtxs,ou=People", "other_student"},
		{"ou=visitor,ou=People", "visitor"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, userTypeFromContainer(tt.containerID), tt.containerID)
	}
}
