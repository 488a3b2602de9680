package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/szu-oia/campus-checkin-api/internal/models"
	"github.com/szu-oia/campus-checkin-api/pkg/config"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
)

// userTypeByContainer maps CAS user container codes to display labels.
var userTypeByContainer = map[string]string{
	"jzg":  "staff",
	"bks":  "undergraduate",
	"yjs":  "postgraduate",
	"qtxs": "other_student",
}

// AuthService validates CAS service tickets and issues access tokens.
// The CAS exchange is plain pass-through HTTP; protocol correctness beyond
// the serviceValidate call is the CAS server's business.
type AuthService struct {
	cas     config.CASConfig
	jwtCfg  config.JWTConfig
	client  *http.Client
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(cas config.CASConfig, jwtCfg config.JWTConfig, metrics *MetricsService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		cas:     cas,
		jwtCfg:  jwtCfg,
		client:  &http.Client{Timeout: cas.Timeout},
		metrics: metrics,
		logger:  logger,
	}
}

// LoginResult carries the issued token and the CAS identity behind it.
type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      *models.CASUser `json:"user"`
	UserType  string          `json:"user_type,omitempty"`
}

// Login validates a CAS service ticket and issues an access token.
func (s *AuthService) Login(ctx context.Context, ticket string) (*LoginResult, error) {
	if strings.TrimSpace(ticket) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ticket is required")
	}

	user, err := s.validateTicket(ctx, ticket)
	if err != nil {
		return nil, err
	}

	userType := userTypeFromContainer(user.ContainerID)
	token, expiresAt, err := s.issueToken(user, userType)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("cas login", zap.String("student_id", user.Username))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user, UserType: userType}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

type casServiceResponse struct {
	XMLName xml.Name        `xml:"serviceResponse"`
	Success *casAuthSuccess `xml:"authenticationSuccess"`
	Failure *casAuthFailure `xml:"authenticationFailure"`
}

type casAuthSuccess struct {
	User       string        `xml:"user"`
	Attributes casAttributes `xml:"attributes"`
}

type casAttributes struct {
	Name        string `xml:"name"`
	Alias       string `xml:"alias"`
	OrgDN       string `xml:"organization"`
	ContainerID string `xml:"containerId"`
}

type casAuthFailure struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

func (s *AuthService) validateTicket(ctx context.Context, ticket string) (*models.CASUser, error) {
	endpoint := fmt.Sprintf("%s/serviceValidate?ticket=%s&service=%s",
		strings.TrimRight(s.cas.ServerURL, "/"),
		url.QueryEscape(ticket),
		url.QueryEscape(s.cas.ServiceURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build cas request: %w", err)
	}

	started := time.Now()
	resp, err := s.client.Do(req)
	s.metrics.ObserveCASValidate(time.Since(started))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCASUnavailable.Code, appErrors.ErrCASUnavailable.Status, appErrors.ErrCASUnavailable.Message)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read cas response: %w", err)
	}

	var parsed casServiceResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCASUnavailable.Code, appErrors.ErrCASUnavailable.Status, "malformed CAS response")
	}

	if parsed.Success == nil || parsed.Success.User == "" {
		if parsed.Failure != nil {
			s.logger.Warn("cas ticket rejected",
				zap.String("code", parsed.Failure.Code),
				zap.String("message", strings.TrimSpace(parsed.Failure.Message)))
		}
		return nil, appErrors.ErrInvalidTicket
	}

	return &models.CASUser{
		Username:    parsed.Success.User,
		Name:        parsed.Success.Attributes.Name,
		Alias:       parsed.Success.Attributes.Alias,
		OrgDN:       parsed.Success.Attributes.OrgDN,
		ContainerID: parsed.Success.Attributes.ContainerID,
	}, nil
}

func (s *AuthService) issueToken(user *models.CASUser, userType string) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.jwtCfg.Expiration)
	claims := &models.JWTClaims{
		StudentID: user.Username,
		FullName:  user.Name,
		UserType:  userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// userTypeFromContainer extracts the container code from a DN such as
// "ou=bks,ou=People" and maps it to a label. Unknown codes pass through.
func userTypeFromContainer(containerID string) string {
	if containerID == "" {
		return ""
	}
	first := strings.SplitN(containerID, ",", 2)[0]
	code := strings.TrimPrefix(strings.TrimSpace(first), "ou=")
	if label, ok := userTypeByContainer[code]; ok {
		return label
	}
	return code
}
