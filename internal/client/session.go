package client

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session 保存登录后的令牌。访问令牌由服务端签发的 JWT 承载，
// 过期时间直接读取 claims，不在本地另行记账。
type Session struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	userID       uint64
}

// NewSession creates a session from a pair of issued tokens.
func NewSession(accessToken, refreshToken string, userID uint64) *Session {
	return &Session{
		accessToken:  accessToken,
		refreshToken: refreshToken,
		userID:       userID,
	}
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// UserID returns the authenticated user's id.
func (s *Session) UserID() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) update(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	if refreshToken != "" {
		s.refreshToken = refreshToken
	}
}

// Expired 解析访问令牌的 exp 声明判断是否已过期。
// 不验证签名：客户端没有签名密钥，过期判断只用于决定是否先刷新。
func (s *Session) Expired() bool {
	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()

	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Now().After(time.Unix(int64(exp), 0))
}
