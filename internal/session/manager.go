package session

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/services"
)

// Minimum credential lengths accepted by Register.
const (
	MinUsernameLength = 3
	MinPasswordLength = 4
)

// Credentials is the part of services.CredentialStore the Manager uses.
type Credentials interface {
	UserExists(ctx context.Context, username string) services.Result[bool]
	Login(ctx context.Context, username, password string) services.Result[*models.User]
	Register(ctx context.Context, username, password string) (bool, error)
	GetUserByUsername(ctx context.Context, username string) services.Result[*models.User]
	VerifyPassword(ctx context.Context, userID int64, password string) services.Result[bool]
	ChangePassword(ctx context.Context, userID int64, current, next string) (bool, error)
	DeleteAccount(ctx context.Context, userID int64, password string) (bool, error)
}

// Observer receives the current user after a transition; nil means
// anonymous.
type Observer func(user *models.User)

type subscription struct {
	id int
	fn Observer
}

// Manager holds the session state. It is safe for concurrent use.
type Manager struct {
	creds Credentials
	log   logging.Logger

	mu        sync.Mutex
	user      *models.User
	tokens    map[string]string
	observers []subscription
	nextID    int
}

func NewManager(creds Credentials, log logging.Logger) *Manager {
	return &Manager{
		creds:  creds,
		log:    logging.ForComponent(log, "session"),
		tokens: make(map[string]string),
	}
}

// Subscribe registers fn and returns a function that removes it.
func (m *Manager) Subscribe(fn Observer) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.observers = append(m.observers, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.observers {
				if s.id == id {
					m.observers = append(m.observers[:i], m.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Login authenticates username with password. Empty input is rejected
// without touching storage.
func (m *Manager) Login(ctx context.Context, username, password string) bool {
	if username == "" || password == "" {
		return false
	}

	exists := m.creds.UserExists(ctx, username)
	if exists.Err != nil {
		m.log.Error(ctx, "login failed", "op", "Login", "username", username, "error", exists.Err)
		return false
	}
	if !exists.Value {
		m.log.Info(ctx, "unknown user", "op", "Login", "username", username)
		return false
	}

	res := m.creds.Login(ctx, username, password)
	if res.Err != nil {
		m.log.Error(ctx, "login failed", "op", "Login", "username", username, "error", res.Err)
		return false
	}
	if res.Value == nil {
		m.log.Info(ctx, "invalid credentials", "op", "Login", "username", username)
		return false
	}

	m.authenticate(ctx, res.Value)
	return true
}

// Register creates an account and logs into it. Usernames shorter than
// MinUsernameLength and passwords shorter than MinPasswordLength are
// rejected without touching storage.
func (m *Manager) Register(ctx context.Context, username, password string) bool {
	if utf8.RuneCountInString(username) < MinUsernameLength || utf8.RuneCountInString(password) < MinPasswordLength {
		m.log.Info(ctx, "credentials too short", "op", "Register", "username", username)
		return false
	}

	ok, err := m.creds.Register(ctx, username, password)
	if err != nil {
		m.log.Error(ctx, "register failed", "op", "Register", "username", username, "error", err)
		return false
	}
	if !ok {
		return false
	}

	return m.Login(ctx, username, password)
}

// GenerateToken issues a remember-me token for username.
func (m *Manager) GenerateToken(username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("token username: %w", common.ErrorValidation)
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	m.mu.Lock()
	m.tokens[token] = username
	m.mu.Unlock()
	return token, nil
}

// LoginWithToken authenticates the owner of token without a password.
// An empty or unknown token leaves the state unchanged.
func (m *Manager) LoginWithToken(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	m.mu.Lock()
	username, ok := m.tokens[token]
	m.mu.Unlock()
	if !ok {
		m.log.Info(ctx, "token rejected", "op", "LoginWithToken", "error", common.ErrInvalidToken)
		return false
	}

	res := m.creds.GetUserByUsername(ctx, username)
	if res.Err != nil {
		m.log.Error(ctx, "token login failed", "op", "LoginWithToken", "username", username, "error", res.Err)
		return false
	}
	if res.Value == nil {
		m.log.Info(ctx, "token owner not found", "op", "LoginWithToken", "username", username)
		return false
	}

	m.authenticate(ctx, res.Value)
	return true
}

// Logout returns to the anonymous state. Tokens stay valid.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return
	}
	username := m.user.Username
	m.user = nil
	observers := m.snapshot()
	m.mu.Unlock()

	m.log.Info(ctx, "logged out", "op", "Logout", "username", username)
	m.notify(ctx, observers, nil)
}

// VerifyPassword checks password against the current user.
func (m *Manager) VerifyPassword(ctx context.Context, password string) bool {
	u := m.current()
	if u == nil {
		return false
	}
	return m.creds.VerifyPassword(ctx, u.ID, password).Value
}

// ChangePassword replaces the current user's password.
func (m *Manager) ChangePassword(ctx context.Context, current, next string) (bool, error) {
	u := m.current()
	if u == nil {
		return false, common.ErrorNoSession
	}
	return m.creds.ChangePassword(ctx, u.ID, current, next)
}

// DeleteAccount deletes the current user after re-verifying password, then
// forgets its tokens and returns to the anonymous state.
func (m *Manager) DeleteAccount(ctx context.Context, password string) (bool, error) {
	u := m.current()
	if u == nil {
		return false, common.ErrorNoSession
	}

	ok, err := m.creds.DeleteAccount(ctx, u.ID, password)
	if err != nil || !ok {
		return false, err
	}

	m.mu.Lock()
	for token, username := range m.tokens {
		if username == u.Username {
			delete(m.tokens, token)
		}
	}
	m.user = nil
	observers := m.snapshot()
	m.mu.Unlock()

	m.log.Info(ctx, "account deleted, session closed", "op", "DeleteAccount", "user_id", u.ID)
	m.notify(ctx, observers, nil)
	return true, nil
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (m *Manager) CurrentUser() *models.User {
	return m.current()
}

// UserID returns the authenticated user's identifier.
func (m *Manager) UserID() (int64, bool) {
	u := m.current()
	if u == nil {
		return 0, false
	}
	return u.ID, true
}

func (m *Manager) IsAuthenticated() bool {
	return m.current() != nil
}

func (m *Manager) current() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.user)
}

func (m *Manager) authenticate(ctx context.Context, u *models.User) {
	m.mu.Lock()
	m.user = clone(u)
	observers := m.snapshot()
	m.mu.Unlock()

	m.log.Info(ctx, "authenticated", "op", "Login", "username", u.Username, "user_id", u.ID)
	m.notify(ctx, observers, u)
}

// snapshot must be called with mu held.
func (m *Manager) snapshot() []Observer {
	out := make([]Observer, 0, len(m.observers))
	for _, s := range m.observers {
		out = append(out, s.fn)
	}
	return out
}

func (m *Manager) notify(ctx context.Context, observers []Observer, u *models.User) {
	for _, fn := range observers {
		m.call(ctx, fn, clone(u))
	}
}

func (m *Manager) call(ctx context.Context, fn Observer, u *models.User) {
	defer func() {
		if p := recover(); p != nil {
			m.log.Error(ctx, "session observer panicked", "op", "notify", "panic", p)
		}
	}()
	fn(u)
}

func clone(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}
