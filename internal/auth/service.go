package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/qualifica/professor-rating-api/internal/repository"
	"github.com/qualifica/professor-rating-api/internal/utils"
)

// Lifetimes of the two invalidation mechanisms. A magic link is valid
// for 15 minutes; rows expired for longer than sweepAge are deleted by
// the opportunistic sweep. A token presented at logout without an exp
// claim is blacklisted for revokeFallback from now.
const (
	linkTTL        = 15 * time.Minute
	sweepAge       = 24 * time.Hour
	revokeFallback = 24 * time.Hour
)

// CredentialStore persists user records. Create must reject duplicate
// emails with repository.ErrEmailExists.
type CredentialStore interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (*repository.User, error)
	FindByEmail(ctx context.Context, email string) (*repository.User, error)
	FindByID(ctx context.Context, id uint64) (*repository.User, error)
	SetEmailVerified(ctx context.Context, id uint64, verified bool) error
}

// MagicLinkStore persists single-use, time-limited verification links.
// Upsert must rotate the existing row for an email rather than insert a
// second one; MarkUsed must be conditional and return
// repository.ErrLinkUsed when the link was already consumed.
type MagicLinkStore interface {
	FindByEmail(ctx context.Context, email string) (*repository.MagicLink, error)
	FindByToken(ctx context.Context, token string) (*repository.MagicLink, error)
	Upsert(ctx context.Context, email, token string, expiresAt time.Time) error
	MarkUsed(ctx context.Context, id uint64) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) error
}

// RevocationLedger stores revoked token identifiers until their natural
// expiry.
type RevocationLedger interface {
	Insert(ctx context.Context, jti string, expiresAt time.Time) error
	Exists(ctx context.Context, jti string) (bool, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) error
}

// Notifier sends transactional email. SendVerificationEmail failures
// propagate to the caller; SendWelcomeEmail failures are logged and
// swallowed by the implementation.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, verificationURL string) error
	SendWelcomeEmail(ctx context.Context, email, name string) error
}

// Config carries the auth settings, passed explicitly to New rather than
// read from ambient globals. Zero values fall back to safe defaults.
type Config struct {
	Secret        string
	TokenTTL      time.Duration
	VerifyBaseURL string
	BcryptCost    int
}

func (c Config) withDefaults() Config {
	if c.Secret == "" {
		c.Secret = "defaultSecret"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.VerifyBaseURL == "" {
		c.VerifyBaseURL = "http://localhost:3001"
	}
	if c.BcryptCost <= 0 {
		c.BcryptCost = 10
	}
	return c
}

// Service orchestrates registration, login, logout, email verification
// and token validation over the four store contracts and the notifier.
type Service struct {
	users   CredentialStore
	links   MagicLinkStore
	revoked RevocationLedger
	mailer  Notifier
	codec   *TokenCodec
	baseURL string
	cost    int
	now     func() time.Time
}

// New wires a Service. All dependencies are required.
func New(cfg Config, users CredentialStore, links MagicLinkStore, revoked RevocationLedger, mailer Notifier) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		users:   users,
		links:   links,
		revoked: revoked,
		mailer:  mailer,
		codec:   NewTokenCodec(cfg.Secret, cfg.TokenTTL),
		baseURL: strings.TrimRight(cfg.VerifyBaseURL, "/"),
		cost:    cfg.BcryptCost,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput is the self-service signup payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// RegisterResult is returned on successful registration. User still
// carries the password hash; stripping it is the HTTP gateway's job.
type RegisterResult struct {
	Message string
	User    *repository.User
}

// Register creates a user and kicks off the verification-email flow.
// Requesting the ADMIN role requires an authenticated admin principal;
// self-service signup can never grant elevated privileges.
func (s *Service) Register(ctx context.Context, in RegisterInput, principal Principal) (*RegisterResult, error) {
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role != repository.RoleAdmin {
		role = repository.RoleStudent
	}
	if role == repository.RoleAdmin && !principal.IsAdmin() {
		return nil, ErrAdminRequired
	}

	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, strings.TrimSpace(in.Name), in.Email, hash, role)
	if err != nil {
		return nil, err
	}

	// The send is awaited so a broken notifier surfaces here; the user
	// row already exists and a later unverified login re-triggers it.
	if err := s.SendVerificationEmail(ctx, user.Email); err != nil {
		return nil, err
	}

	return &RegisterResult{
		Message: "Account created successfully. Please check your email to verify your account.",
		User:    user,
	}, nil
}

// LoginResult is a two-outcome split: an unverified account is a valid,
// non-exceptional result carrying no token.
type LoginResult struct {
	User          *repository.User
	EmailVerified bool
	AccessToken   string
	ExpiresAt     time.Time
}

// Login verifies credentials and issues a token for verified accounts.
// An unverified account gets its magic link refreshed instead.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		if err := s.SendVerificationEmail(ctx, user.Email); err != nil {
			return nil, err
		}
		return &LoginResult{User: user, EmailVerified: false}, nil
	}

	token, exp, err := s.codec.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, EmailVerified: true, AccessToken: token, ExpiresAt: exp}, nil
}

// SendVerificationEmail rotates (or creates) the magic link for an
// unverified account and asks the notifier to deliver it. Existing rows
// are overwritten in place so at most one active link exists per email.
func (s *Service) SendVerificationEmail(ctx context.Context, email string) (err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return ErrEmailAlreadyVerified
	}

	s.sweep(ctx)

	token := utils.NewTokenID()
	if err := s.links.Upsert(ctx, email, token, s.now().Add(linkTTL)); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/auth/verify?token=%s", s.baseURL, token)
	return s.mailer.SendVerificationEmail(ctx, email, url)
}

// sweep is the opportunistic maintenance pass run before issuing a new
// link: magic links and ledger rows expired for longer than sweepAge are
// dropped. Best effort, never fatal to the caller.
func (s *Service) sweep(ctx context.Context) {
	cutoff := s.now().Add(-sweepAge)
	if err := s.links.DeleteExpiredBefore(ctx, cutoff); err != nil {
		log.Printf("auth: magic link sweep failed: %v", err)
	}
	if err := s.revoked.DeleteExpiredBefore(ctx, cutoff); err != nil {
		log.Printf("auth: revoked token sweep failed: %v", err)
	}
}

// VerifyResult is returned on successful email verification.
type VerifyResult struct {
	Message string
	User    *repository.User
}

// VerifyEmail consumes a magic link and marks the account verified. The
// four failure checks run in order and short-circuit: unknown token,
// already used, expired, owner deleted. The conditional MarkUsed is the
// arbiter between concurrent calls with the same token; the loser is
// reported "already used".
func (s *Service) VerifyEmail(ctx context.Context, token string) (*VerifyResult, error) {
	link, err := s.links.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, ErrInvalidLink
		}
		return nil, err
	}
	if link.IsUsed {
		return nil, ErrLinkUsed
	}
	if s.now().After(link.ExpiresAt) {
		return nil, ErrLinkExpired
	}

	user, err := s.users.FindByEmail(ctx, link.Email)
	if err != nil {
		return nil, err
	}

	if err := s.links.MarkUsed(ctx, link.ID); err != nil {
		if errors.Is(err, repository.ErrLinkUsed) {
			return nil, ErrLinkUsed
		}
		return nil, err
	}
	if err := s.users.SetEmailVerified(ctx, user.ID, true); err != nil {
		return nil, err
	}

	// Welcome email is best effort; the notifier logs and swallows its
	// own delivery failures.
	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		log.Printf("auth: welcome email for %s failed: %v", user.Email, err)
	}

	updated, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Message: "Email verified successfully. You can now login.",
		User:    updated,
	}, nil
}

// LogoutResult always reports success; see Logout.
type LogoutResult struct {
	Message   string
	Timestamp time.Time
}

// Logout blacklists the presented token's jti. A token that fails to
// decode (malformed, expired, bad signature) needs no further action --
// it is already unusable -- so logout still succeeds. A decodable token
// without a jti cannot be matched later and is silently skipped.
func (s *Service) Logout(ctx context.Context, token string) (*LogoutResult, error) {
	claims, err := s.codec.Decode(token)
	if err == nil && claims.ID != "" {
		expiresAt := s.now().Add(revokeFallback)
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		if err := s.revoked.Insert(ctx, claims.ID, expiresAt); err != nil {
			return nil, err
		}
	}
	return &LogoutResult{Message: "Logout successful", Timestamp: s.now()}, nil
}

// ValidateToken verifies signature and expiry first (fatal on failure),
// then consults the revocation ledger. The ordering matters: an expired
// token fails on expiry without wasting a ledger lookup.
func (s *Service) ValidateToken(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.codec.Decode(raw)
	if err != nil {
		return nil, err
	}
	if claims.ID != "" {
		revoked, err := s.revoked.Exists(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// GetProfile returns the user for an id; repository.ErrUserNotFound
// propagates untouched.
func (s *Service) GetProfile(ctx context.Context, id uint64) (*repository.User, error) {
	return s.users.FindByID(ctx, id)
}
