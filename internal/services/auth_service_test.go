package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/pkg/metrics"
)

// fakeOtpStore keeps at most one code per user in memory, matching the
// replace-on-issue contract of the real store.
type fakeOtpStore struct {
	codes map[primitive.ObjectID]*models.OtpCode
}

func newFakeOtpStore() *fakeOtpStore {
	return &fakeOtpStore{codes: make(map[primitive.ObjectID]*models.OtpCode)}
}

func (f *fakeOtpStore) Replace(_ context.Context, userID primitive.ObjectID, codeHash string, expiresAt time.Time) error {
	f.codes[userID] = &models.OtpCode{UserID: userID, CodeHash: codeHash, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeOtpStore) Find(_ context.Context, userID primitive.ObjectID) (*models.OtpCode, error) {
	return f.codes[userID], nil
}

func (f *fakeOtpStore) Delete(_ context.Context, userID primitive.ObjectID) error {
	delete(f.codes, userID)
	return nil
}

func testAuthService(otps OtpStore) *AuthService {
	return &AuthService{
		otps:       otps,
		logger:     zap.NewNop(),
		metrics:    metrics.NewCollector(),
		secret:     []byte("test-secret"),
		tokenTTL:   time.Hour,
		otpTTL:     10 * time.Minute,
		bcryptCost: bcrypt.MinCost,
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	svc := testAuthService(newFakeOtpStore())

	hash, err := svc.HashPassword("s3cret")
	require.NoError(t, err)

	user := &models.User{PasswordHash: hash}
	assert.True(t, svc.CheckPassword(user, "s3cret"))
	assert.False(t, svc.CheckPassword(user, "wrong"))
}

func TestGenerateOtpFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := GenerateOtp()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.COM "))
	assert.Equal(t, "a@b.com", NormalizeEmail("a@b.com"))
}

func TestOtpLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeOtpStore()
	svc := testAuthService(store)
	userID := primitive.NewObjectID()

	code, err := svc.IssueOtp(ctx, userID)
	require.NoError(t, err)
	require.Len(t, code, 6)

	t.Run("wrong code rejected, stored code survives", func(t *testing.T) {
		ok, err := svc.VerifyOtp(ctx, userID, "000000")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NotNil(t, store.codes[userID])
	})

	t.Run("correct code accepted once", func(t *testing.T) {
		ok, err := svc.VerifyOtp(ctx, userID, code)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = svc.VerifyOtp(ctx, userID, code)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestOtpReplacedOnReissue(t *testing.T) {
	ctx := context.Background()
	store := newFakeOtpStore()
	svc := testAuthService(store)
	userID := primitive.NewObjectID()

	first, err := svc.IssueOtp(ctx, userID)
	require.NoError(t, err)
	second, err := svc.IssueOtp(ctx, userID)
	require.NoError(t, err)

	if first != second {
		ok, err := svc.VerifyOtp(ctx, userID, first)
		require.NoError(t, err)
		assert.False(t, ok, "replaced code must not verify")
	}
	ok, err := svc.VerifyOtp(ctx, userID, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOtpExpiry(t *testing.T) {
	ctx := context.Background()
	store := newFakeOtpStore()
	svc := testAuthService(store)
	userID := primitive.NewObjectID()

	code, err := svc.IssueOtp(ctx, userID)
	require.NoError(t, err)
	store.codes[userID].ExpiresAt = time.Now().Add(-time.Second)

	ok, err := svc.VerifyOtp(ctx, userID, code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOtpMissingCode(t *testing.T) {
	svc := testAuthService(newFakeOtpStore())
	ok, err := svc.VerifyOtp(context.Background(), primitive.NewObjectID(), "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testAuthService(newFakeOtpStore())
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Asha Rao",
		Email: "asha@example.com",
		Role:  models.RoleLawyer,
	}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	actor, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.ID)
	assert.Equal(t, models.RoleLawyer, actor.Role)
	assert.Equal(t, user.Name, actor.Name)
	assert.Equal(t, user.Email, actor.Email)
}

func TestParseTokenRejectsGarbageAndWrongKey(t *testing.T) {
	svc := testAuthService(newFakeOtpStore())

	_, err := svc.ParseToken("not-a-token")
	assert.Error(t, err)

	other := testAuthService(newFakeOtpStore())
	other.secret = []byte("different-secret")
	token, err := other.IssueToken(&models.User{ID: primitive.NewObjectID(), Role: models.RoleClient})
	require.NoError(t, err)
	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := testAuthService(newFakeOtpStore())
	svc.tokenTTL = -time.Minute

	token, err := svc.IssueToken(&models.User{ID: primitive.NewObjectID(), Role: models.RoleClient})
	require.NoError(t, err)
	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}
