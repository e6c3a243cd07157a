// Package session provides cookie sessions for the admin app, backed by
// Redis. The session is where the backend API token lives between requests.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// FlashMessage is a one-time notification shown on the next rendered page.
type FlashMessage struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Manager orchestrates cookie based sessions backed by Redis.
type Manager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
	secret     []byte
}

// Session holds per-request session data.
type Session struct {
	ID        string
	values    map[string]string
	token     string
	userEmail string
	flashes   []FlashMessage
	isNew     bool
	dirty     bool
	destroyed bool
}

type payload struct {
	Values    map[string]string `json:"values"`
	Token     string            `json:"token"`
	UserEmail string            `json:"user_email"`
	Flashes   []FlashMessage    `json:"flashes"`
}

// NewManager constructs a Manager. secret feeds the fallback session ID
// generator when the system random source is unavailable.
func NewManager(client *redis.Client, cookieName string, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{client: client, cookieName: cookieName, ttl: ttl, secure: secure, secret: []byte(secret)}
}

// Load loads the session identified by the request cookie, or creates a
// fresh one when no valid cookie is present.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return m.newSession(), nil
		}
		return nil, err
	}

	raw, err := m.client.Get(ctx, m.redisKey(cookie.Value)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			sess := m.newSession()
			sess.ID = cookie.Value
			return sess, nil
		}
		return nil, err
	}

	var stored payload
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}

	sess := m.newSession()
	sess.ID = cookie.Value
	sess.values = stored.Values
	sess.token = stored.Token
	sess.userEmail = stored.UserEmail
	sess.flashes = stored.Flashes
	sess.isNew = false
	sess.dirty = false
	return sess, nil
}

// Commit persists the session and writes cookie headers as needed.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}

	if sess.destroyed {
		if err := m.client.Del(ctx, m.redisKey(sess.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteStrictMode,
		})
		return nil
	}

	if sess.ID == "" {
		sess.ID = m.generateSessionID()
	}

	if sess.dirty || sess.isNew {
		data, err := json.Marshal(payload{
			Values:    sess.values,
			Token:     sess.token,
			UserEmail: sess.userEmail,
			Flashes:   sess.flashes,
		})
		if err != nil {
			return err
		}
		if err := m.client.Set(ctx, m.redisKey(sess.ID), data, m.ttl).Err(); err != nil {
			return err
		}
		sess.dirty = false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(m.ttl),
	})
	return nil
}

// Destroy marks the session for deletion at commit time.
func (m *Manager) Destroy(sess *Session) {
	if sess == nil {
		return
	}
	sess.destroyed = true
}

// TTL exposes the configured session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// CookieName returns the cookie identifier used for sessions.
func (m *Manager) CookieName() string { return m.cookieName }

func (m *Manager) redisKey(id string) string { return "adminsession:" + id }

func (m *Manager) newSession() *Session {
	return &Session{
		ID:     m.generateSessionID(),
		values: make(map[string]string),
		isNew:  true,
		dirty:  true,
	}
}

func (m *Manager) generateSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	if len(m.secret) > 0 {
		for i := range b {
			b[i] ^= m.secret[i%len(m.secret)]
		}
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// Session helpers

// Set stores a key-value pair.
func (s *Session) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.dirty = true
}

// Get retrieves a value.
func (s *Session) Get(key string) string {
	if s.values == nil {
		return ""
	}
	return s.values[key]
}

// Delete removes a value.
func (s *Session) Delete(key string) {
	if s.values == nil {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// SetToken stores the backend API bearer token.
func (s *Session) SetToken(token string) {
	s.token = token
	s.dirty = true
}

// Token returns the stored API token, or "" when not logged in.
func (s *Session) Token() string { return s.token }

// Authenticated reports whether the session holds an API token.
func (s *Session) Authenticated() bool { return s.token != "" }

// SetUserEmail records the email of the logged-in account for display.
func (s *Session) SetUserEmail(email string) {
	s.userEmail = email
	s.dirty = true
}

// UserEmail returns the logged-in account's email.
func (s *Session) UserEmail() string { return s.userEmail }

// AddFlash queues a flash message.
func (s *Session) AddFlash(msg FlashMessage) {
	s.flashes = append(s.flashes, msg)
	s.dirty = true
}

// PopFlash retrieves and clears the oldest flash message.
func (s *Session) PopFlash() *FlashMessage {
	if len(s.flashes) == 0 {
		return nil
	}
	msg := s.flashes[0]
	s.flashes = s.flashes[1:]
	s.dirty = true
	return &msg
}
