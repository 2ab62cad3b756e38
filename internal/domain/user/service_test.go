package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

type memUsers struct {
	byID map[uint]*User
}

func (m *memUsers) Create(_ context.Context, u *User) error {
	for _, it := range m.byID {
		if it.Email == u.Email {
			return apperrors.ErrEmailDuplicate
		}
	}
	u.ID = uint(len(m.byID) + 1)
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uint) (*User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) Update(_ context.Context, u *User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uint) error {
	delete(m.byID, id)
	return nil
}

type memProfiles struct {
	byUser map[uint]*Profile
}

func (m *memProfiles) Create(_ context.Context, p *Profile) error {
	p.ID = uint(len(m.byUser) + 1)
	m.byUser[p.UserID] = p
	return nil
}

func (m *memProfiles) FindByUserID(_ context.Context, userID uint) (*Profile, error) {
	if p, ok := m.byUser[userID]; ok {
		return p, nil
	}
	return nil, ErrProfileNotFound
}

func (m *memProfiles) Update(_ context.Context, p *Profile) error {
	m.byUser[p.UserID] = p
	return nil
}

func (m *memProfiles) DeleteByUserID(_ context.Context, userID uint) error {
	delete(m.byUser, userID)
	return nil
}

func newTestService(t *testing.T) (Service, *memUsers, *memProfiles) {
	t.Helper()

	old := hashCost
	hashCost = bcrypt.MinCost
	t.Cleanup(func() { hashCost = old })

	users := &memUsers{byID: map[uint]*User{}}
	profiles := &memProfiles{byUser: map[uint]*Profile{}}
	return NewService(users, profiles), users, profiles
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc, _, profiles := newTestService(t)

	u, p, err := svc.Register(ctx, " Alice@Example.com ", "secret123", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "secret123", u.Password)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, DefaultProfileImageRef, p.ImageRef)
	assert.Contains(t, profiles.byUser, u.ID)

	_, _, err = svc.Register(ctx, "alice@example.com", "secret123", "alice2")
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
}

func TestService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name     string
		email    string
		password string
		nickname string
		code     int
	}{
		{"bad email", "not-an-email", "secret123", "bob", apperrors.ErrCodeInvalidParams},
		{"short password", "bob@example.com", "abc1", "bob", apperrors.ErrCodeWeakPassword},
		{"no digit", "bob@example.com", "abcdefghij", "bob", apperrors.ErrCodeWeakPassword},
		{"short nickname", "bob@example.com", "secret123", "b", apperrors.ErrCodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.email, tt.password, tt.nickname)
			requireCode(t, err, tt.code, "got %v", err)
		})
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, _, err := svc.Register(ctx, "carol@example.com", "secret123", "carol")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "CAROL@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Nickname)

	_, err = svc.Login(ctx, "carol@example.com", "wrong1234")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}

func TestService_UpdateProfileAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, users, profiles := newTestService(t)

	u, _, err := svc.Register(ctx, "dave@example.com", "secret123", "dave")
	require.NoError(t, err)

	nick, img := "David", "avatars/dave.png"
	u2, p2, err := svc.UpdateProfile(ctx, u.ID, &nick, &img)
	require.NoError(t, err)
	assert.Equal(t, "David", u2.Nickname)
	assert.Equal(t, "avatars/dave.png", p2.ImageRef)

	empty := ""
	_, p3, err := svc.UpdateProfile(ctx, u.ID, nil, &empty)
	require.NoError(t, err)
	assert.Equal(t, DefaultProfileImageRef, p3.ImageRef)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.Empty(t, users.byID)
	assert.Empty(t, profiles.byUser)

	_, _, err = svc.GetProfile(ctx, u.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

// requireCode 错误链中的AppError带有指定错误码
func requireCode(t *testing.T, err error, code int, msgAndArgs ...interface{}) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr, msgAndArgs...)
	assert.Equal(t, code, appErr.Code, msgAndArgs...)
}
