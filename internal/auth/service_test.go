package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/UBelaid/SAgency4U/internal/auth/entity"
	userrepo "github.com/UBelaid/SAgency4U/internal/auth/repo"
)

// fakeUserRepo implements UserRepository in memory.
type fakeUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*entity.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, username, email, passwordHash string) (int64, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return 0, userrepo.ErrDuplicate
		}
	}
	id := f.nextID
	f.nextID++
	f.users[id] = &entity.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return id, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, userrepo.ErrNotFound
}

func (f *fakeUserRepo) Exists(_ context.Context, username, email string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(repo UserRepository) *Service {
	codec := NewTokenCodec([]byte("test-secret"), time.Hour)
	// low cost keeps the test fast
	return NewService(repo, BcryptHasher{Cost: 4}, codec)
}

func TestService_RegisterThenLogin(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)
	require.Positive(t, id)

	token, user, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, id, user.ID)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "a@x.com", user.Email)

	// the minted token asserts the registered identity
	gotID, err := svc.codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, id, gotID)
}

func TestService_RegisterValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	for _, tc := range []struct{ username, email, password string }{
		{"", "a@x.com", "pw"},
		{"alice", "", "pw"},
		{"alice", "a@x.com", ""},
		{"  ", "a@x.com", "pw"},
	} {
		_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
		require.ErrorIs(t, err, ErrValidation)
	}
}

func TestService_RegisterDuplicate(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	// same email, different username
	_, err = svc.Register(ctx, "alice2", "a@x.com", "pw2")
	require.ErrorIs(t, err, ErrUserExists)

	// same username, different email
	_, err = svc.Register(ctx, "alice", "other@x.com", "pw2")
	require.ErrorIs(t, err, ErrUserExists)
}

func TestService_RegisterNormalizesEmail(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "  A@X.com ", "pw1")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
}

func TestService_LoginFailuresAreUniform(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	// unknown email and wrong password are the same error, so callers
	// cannot tell which accounts exist
	_, _, errUnknown := svc.Login(ctx, "nobody@x.com", "pw1")
	_, _, errWrongPw := svc.Login(ctx, "a@x.com", "bad")
	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	require.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestService_LoginNeverReturnsHash(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	hash := repo.users[id].PasswordHash
	require.NotEmpty(t, hash)
	require.NotContains(t, token, hash)
	require.False(t, strings.Contains(user.Username+user.Email, hash))
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := BcryptHasher{Cost: 4}
	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)
	require.True(t, h.Verify(hash, "s3cret"))
	require.False(t, h.Verify(hash, "other"))
}
