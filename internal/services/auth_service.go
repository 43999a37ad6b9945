package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/attorneycare/server/internal/apperr"
	"github.com/attorneycare/server/internal/config"
	"github.com/attorneycare/server/internal/db"
	"github.com/attorneycare/server/internal/db/models"
	"github.com/attorneycare/server/internal/utils"
	"github.com/attorneycare/server/pkg/metrics"
)

// OtpStore persists the single outstanding one-time code per user. It is an
// interface so the state machine can be exercised without a live store.
type OtpStore interface {
	Replace(ctx context.Context, userID primitive.ObjectID, codeHash string, expiresAt time.Time) error
	Find(ctx context.Context, userID primitive.ObjectID) (*models.OtpCode, error)
	Delete(ctx context.Context, userID primitive.ObjectID) error
}

type mongoOtpStore struct {
	store *db.EntityStore
}

func (m *mongoOtpStore) Replace(ctx context.Context, userID primitive.ObjectID, codeHash string, expiresAt time.Time) error {
	if _, err := m.store.OtpCodes().DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return err
	}
	_, err := m.store.OtpCodes().InsertOne(ctx, models.OtpCode{
		UserID:    userID,
		CodeHash:  codeHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	})
	return err
}

func (m *mongoOtpStore) Find(ctx context.Context, userID primitive.ObjectID) (*models.OtpCode, error) {
	var code models.OtpCode
	err := m.store.OtpCodes().FindOne(ctx, bson.M{"userId": userID}).Decode(&code)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (m *mongoOtpStore) Delete(ctx context.Context, userID primitive.ObjectID) error {
	_, err := m.store.OtpCodes().DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

type AuthService struct {
	store      *db.EntityStore
	otps       OtpStore
	logger     *zap.Logger
	metrics    *metrics.Collector
	secret     []byte
	tokenTTL   time.Duration
	otpTTL     time.Duration
	bcryptCost int
}

func NewAuthService(store *db.EntityStore, logger *zap.Logger, collector *metrics.Collector, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		store:      store,
		otps:       &mongoOtpStore{store: store},
		logger:     logger.With(zap.String("service", "auth")),
		metrics:    collector,
		secret:     []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		otpTTL:     cfg.OtpTTL,
		bcryptCost: cfg.BcryptCost,
	}
}

// NormalizeEmail is applied to every email before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.store.Users().FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.store.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user, mapping a duplicate email to Conflict. The
// unique index backs up the pre-insert existence check against races.
func (s *AuthService) CreateUser(ctx context.Context, user *models.User) error {
	existing, err := s.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Conflict("User already exists")
	}

	now := time.Now()
	user.Email = NormalizeEmail(user.Email)
	user.Bookmarks = []primitive.ObjectID{}
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := s.store.Users().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("User already exists")
		}
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	s.metrics.IncrementCounter("auth.signups", map[string]string{"role": string(user.Role)})
	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	return utils.HashPassword(password, s.bcryptCost)
}

func (s *AuthService) CheckPassword(user *models.User, password string) bool {
	return utils.VerifyPassword(user.PasswordHash, password)
}

type sessionClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken mints the bearer session token carrying the identity claims
// the access predicates trust.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: user.ID.Hex(),
		Role:   string(user.Role),
		Name:   user.Name,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a bearer token and returns the actor it names.
func (s *AuthService) ParseToken(token string) (Actor, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Actor{}, apperr.Auth("Invalid or expired token")
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Actor{}, apperr.Auth("Invalid or expired token")
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return Actor{}, apperr.Auth("Invalid or expired token")
	}

	return Actor{ID: id, Role: role, Name: claims.Name, Email: claims.Email}, nil
}

// GenerateOtp produces a six digit code from a CSPRNG.
func GenerateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// IssueOtp replaces any outstanding code for the user with a fresh hashed
// one and returns the plaintext for delivery.
func (s *AuthService) IssueOtp(ctx context.Context, userID primitive.ObjectID) (string, error) {
	code, err := GenerateOtp()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if err := s.otps.Replace(ctx, userID, string(hash), time.Now().Add(s.otpTTL)); err != nil {
		return "", err
	}
	s.metrics.IncrementCounter("auth.otp_issued", nil)
	return code, nil
}

// VerifyOtp checks the supplied code against the stored hash. A match
// consumes the code; a mismatch leaves it in place for a retry. Expired or
// absent codes verify false.
func (s *AuthService) VerifyOtp(ctx context.Context, userID primitive.ObjectID, code string) (bool, error) {
	record, err := s.otps.Find(ctx, userID)
	if err != nil {
		return false, err
	}
	if record == nil || time.Now().After(record.ExpiresAt) {
		return false, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		s.metrics.IncrementCounter("auth.otp_rejected", nil)
		return false, nil
	}
	if err := s.otps.Delete(ctx, userID); err != nil {
		return false, err
	}
	s.metrics.IncrementCounter("auth.otp_verified", nil)
	return true, nil
}

// ToggleBookmark adds or removes a library article from the user's
// bookmark set. Both directions are idempotent.
func (s *AuthService) ToggleBookmark(ctx context.Context, userID, articleID primitive.ObjectID, on bool) error {
	op := "$pull"
	if on {
		op = "$addToSet"
	}
	res, err := s.store.Users().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		op:     bson.M{"bookmarks": articleID},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}
