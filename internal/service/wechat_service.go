package service

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/szu-oia/campus-checkin-api/pkg/config"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
)

const (
	wechatAccessTokenKey = "wechat:access_token"
	wechatJSAPITicketKey = "wechat:jsapi_ticket"
)

type tokenCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// WeChatService talks to the WeChat Work API. Access tokens and jsapi
// tickets are cached in Redis and refreshed ahead of upstream expiry by the
// configured safety margin, so concurrent requests never race on a shared
// in-process token.
type WeChatService struct {
	cfg     config.WeChatConfig
	cache   tokenCache
	client  *http.Client
	metrics *MetricsService
	logger  *zap.Logger
}

// NewWeChatService constructs the WeChat Work integration service.
func NewWeChatService(cfg config.WeChatConfig, cache tokenCache, metrics *MetricsService, logger *zap.Logger) *WeChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeChatService{
		cfg:     cfg,
		cache:   cache,
		client:  &http.Client{Timeout: cfg.Timeout},
		metrics: metrics,
		logger:  logger,
	}
}

type wechatTokenResponse struct {
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
	AccessToken string `json:"access_token"`
	Ticket      string `json:"ticket"`
	ExpiresIn   int    `json:"expires_in"`
	UserID      string `json:"userid"`
}

// JSConfig is the parameter set a page passes to wx.config.
type JSConfig struct {
	AppID     string `json:"app_id"`
	AgentID   string `json:"agent_id"`
	Timestamp int64  `json:"timestamp"`
	NonceStr  string `json:"nonce_str"`
	Signature string `json:"signature"`
}

// AccessToken returns a valid corp access token, refreshing it when the
// cached copy is missing or evicted.
func (s *WeChatService) AccessToken(ctx context.Context) (string, error) {
	return s.getOrRefresh(ctx, wechatAccessTokenKey, func(ctx context.Context) (string, int, error) {
		query := url.Values{}
		query.Set("corpid", s.cfg.CorpID)
		query.Set("corpsecret", s.cfg.CorpSecret)

		resp, err := s.call(ctx, "/gettoken", query)
		if err != nil {
			return "", 0, err
		}
		return resp.AccessToken, resp.ExpiresIn, nil
	})
}

// JSAPITicket returns a valid jsapi ticket for JS-SDK signatures.
func (s *WeChatService) JSAPITicket(ctx context.Context) (string, error) {
	return s.getOrRefresh(ctx, wechatJSAPITicketKey, func(ctx context.Context) (string, int, error) {
		token, err := s.AccessToken(ctx)
		if err != nil {
			return "", 0, err
		}

		query := url.Values{}
		query.Set("access_token", token)

		resp, err := s.call(ctx, "/get_jsapi_ticket", query)
		if err != nil {
			return "", 0, err
		}
		return resp.Ticket, resp.ExpiresIn, nil
	})
}

// UserIDFromCode resolves an OAuth code from the embedded browser into the
// corp member id.
func (s *WeChatService) UserIDFromCode(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "code is required")
	}

	token, err := s.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("access_token", token)
	query.Set("code", code)

	resp, err := s.call(ctx, "/auth/getuserinfo", query)
	if err != nil {
		return "", err
	}
	if resp.UserID == "" {
		return "", appErrors.Clone(appErrors.ErrWeChatUpstream, "oauth code resolved to no member")
	}
	return resp.UserID, nil
}

// SignJSConfig produces the wx.config parameters for the given page URL.
// The URL fragment does not participate in the signature.
func (s *WeChatService) SignJSConfig(ctx context.Context, pageURL string) (*JSConfig, error) {
	if strings.TrimSpace(pageURL) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "url is required")
	}
	if i := strings.IndexByte(pageURL, '#'); i >= 0 {
		pageURL = pageURL[:i]
	}

	ticket, err := s.JSAPITicket(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Unix()
	nonce, err := randomNonce(16)
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	raw := fmt.Sprintf("jsapi_ticket=%s&noncestr=%s&timestamp=%d&url=%s", ticket, nonce, timestamp, pageURL)
	sum := sha1.Sum([]byte(raw))

	return &JSConfig{
		AppID:     s.cfg.CorpID,
		AgentID:   s.cfg.AgentID,
		Timestamp: timestamp,
		NonceStr:  nonce,
		Signature: hex.EncodeToString(sum[:]),
	}, nil
}

// getOrRefresh returns the cached credential for key, calling refresh and
// re-populating the cache on a miss. The cache TTL is the upstream expires_in
// less the safety margin so the entry dies before WeChat invalidates it.
func (s *WeChatService) getOrRefresh(ctx context.Context, key string, refresh func(ctx context.Context) (string, int, error)) (string, error) {
	var cached string
	err := s.cache.Get(ctx, key, &cached)
	if err == nil && cached != "" {
		return cached, nil
	}
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("wechat credential cache read failed", zap.String("key", key), zap.Error(err))
	}

	value, expiresIn, err := refresh(ctx)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", appErrors.Clone(appErrors.ErrWeChatUpstream, "upstream returned an empty credential")
	}

	ttl := time.Duration(expiresIn)*time.Second - s.cfg.TokenSafetyMargin
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("wechat credential cache write failed", zap.String("key", key), zap.Error(err))
	}

	s.logger.Info("wechat credential refreshed", zap.String("key", key), zap.Duration("ttl", ttl))
	return value, nil
}

func (s *WeChatService) call(ctx context.Context, path string, query url.Values) (*wechatTokenResponse, error) {
	endpoint := strings.TrimRight(s.cfg.APIBaseURL, "/") + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build wechat request: %w", err)
	}

	started := time.Now()
	resp, err := s.client.Do(req)
	s.metrics.ObserveWeChatCall(time.Since(started))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrWeChatUpstream.Code, appErrors.ErrWeChatUpstream.Status, appErrors.ErrWeChatUpstream.Message)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read wechat response: %w", err)
	}

	var parsed wechatTokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrWeChatUpstream.Code, appErrors.ErrWeChatUpstream.Status, "malformed WeChat response")
	}
	if parsed.ErrCode != 0 {
		return nil, appErrors.Clone(appErrors.ErrWeChatUpstream,
			fmt.Sprintf("WeChat API error %d: %s", parsed.ErrCode, parsed.ErrMsg))
	}

	return &parsed, nil
}

func randomNonce(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf)[:n], nil
}
