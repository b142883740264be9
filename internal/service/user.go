package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homehunt-server/internal/domain"
)

type UserService struct {
	store domain.Store
	log   *zap.Logger
}

type SignUp struct {
	Email    string
	Name     string
	PhotoURL string
	UID      string
	Role     domain.Role
}

type SignUpResult struct {
	Inserted   bool   `json:"inserted"`
	InsertedID string `json:"insertedId,omitempty"`
}

// HTTPStatus: 201 for a new user, 200 when the email already existed.
func (r SignUpResult) HTTPStatus() int {
	if r.Inserted {
		return 201
	}
	return 200
}

func (s *UserService) Create(ctx context.Context, in SignUp) (SignUpResult, error) {
	email := strings.TrimSpace(in.Email)
	uid := strings.TrimSpace(in.UID)
	if email == "" || uid == "" {
		return SignUpResult{}, fmt.Errorf("%w: email and uid are required", domain.ErrInvalid)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAgent {
		return SignUpResult{}, fmt.Errorf("%w: role must be user or agent", domain.ErrInvalid)
	}

	users := s.store.Users()
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return SignUpResult{}, err
	}
	if existing != nil {
		return SignUpResult{Inserted: false}, nil
	}

	u := &domain.User{
		ID:       uuid.NewString(),
		Email:    email,
		Name:     strings.TrimSpace(in.Name),
		PhotoURL: in.PhotoURL,
		UID:      uid,
		Role:     role,
	}
	if err := users.Create(ctx, u); err != nil {
		// 并发注册：唯一索引冲突后再查一次
		if again, e := users.FindByEmail(ctx, email); e == nil && again != nil {
			return SignUpResult{Inserted: false}, nil
		}
		return SignUpResult{}, err
	}
	return SignUpResult{Inserted: true, InsertedID: u.ID}, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.store.Users().List(ctx)
}

// RoleOf falls back to user for unknown emails.
func (s *UserService) RoleOf(ctx context.Context, email string) (domain.Role, error) {
	u, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil || u.Role == "" {
		return domain.RoleUser, nil
	}
	return u.Role, nil
}

// CurrentRole reports the stored role; ok is false once the account is gone.
func (s *UserService) CurrentRole(ctx context.Context, email string) (domain.Role, bool, error) {
	u, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil || u == nil {
		return "", false, err
	}
	if u.Role == "" {
		return domain.RoleUser, true, nil
	}
	return u.Role, true, nil
}

func (s *UserService) MakeAdmin(ctx context.Context, email string) (Modified, error) {
	return s.grant(ctx, email, domain.RoleAdmin)
}

func (s *UserService) MakeAgent(ctx context.Context, email string) (Modified, error) {
	return s.grant(ctx, email, domain.RoleAgent)
}

// Grant sets any valid role; used by the admin CLI.
func (s *UserService) Grant(ctx context.Context, email string, role domain.Role) (Modified, error) {
	if !role.Valid() {
		return Modified{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalid, role)
	}
	return s.grant(ctx, email, role)
}

func (s *UserService) grant(ctx context.Context, email string, role domain.Role) (Modified, error) {
	var out Modified
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
		}
		if u.Role == role {
			return nil
		}
		n, err := tx.Users().SetRole(ctx, email, role)
		out.ModifiedCount = n
		return err
	})
	if err == nil && out.ModifiedCount > 0 {
		transitions.WithLabelValues("user", string(role)).Inc()
		s.log.Info("role granted", zap.String("email", email), zap.String("role", string(role)))
	}
	return out, err
}

// MarkFraud demotes an agent. Missing user and non-agent are reported separately.
func (s *UserService) MarkFraud(ctx context.Context, email string) (Modified, error) {
	var out Modified
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
		}
		if u.Role != domain.RoleAgent {
			return fmt.Errorf("%w: user %s is %s, not agent", domain.ErrConflict, email, u.Role)
		}
		n, err := tx.Users().SetRole(ctx, email, domain.RoleFraud, domain.RoleAgent)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: user %s is no longer an agent", domain.ErrConflict, email)
		}
		out.ModifiedCount = n
		return nil
	})
	if err == nil {
		transitions.WithLabelValues("user", string(domain.RoleFraud)).Inc()
		s.log.Info("agent marked fraud", zap.String("email", email))
	}
	return out, err
}

func (s *UserService) Delete(ctx context.Context, email string) (Deleted, error) {
	n, err := s.store.Users().DeleteByEmail(ctx, email)
	if err != nil {
		return Deleted{}, err
	}
	if n == 0 {
		return Deleted{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
	}
	return Deleted{DeletedCount: n}, nil
}

type AuthService struct {
	users  *UserService
	signer Signer
}

type Token struct {
	Token string `json:"token"`
}

// Issue signs a token for a registered user. uid is the identity provider's id stored at
// sign-up; unknown emails and mismatched uids get no token.
func (s *AuthService) Issue(ctx context.Context, email, uid string) (Token, error) {
	email = strings.TrimSpace(email)
	uid = strings.TrimSpace(uid)
	if email == "" || uid == "" {
		return Token{}, fmt.Errorf("%w: email and uid are required", domain.ErrInvalid)
	}
	u, err := s.users.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return Token{}, err
	}
	if u == nil || u.UID != uid {
		return Token{}, fmt.Errorf("%w: unknown account or uid mismatch", domain.ErrForbidden)
	}
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	tok, err := s.signer.Issue(email, string(role))
	if err != nil {
		return Token{}, fmt.Errorf("issue token: %w", err)
	}
	return Token{Token: tok}, nil
}
