package services

import (
	"context"
	"testing"
	"time"

	"roadmap-review/config"
	"roadmap-review/logger"
	"roadmap-review/models"
	"roadmap-review/repositories"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repositories.Migrate(db))

	return NewAuthService(repositories.NewUserRepository(db), config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	}, logger.NewNop())
}

func TestRegisterLoginAndParseToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	res, err := svc.Register(ctx, models.RegisterRequest{
		Email:         " Ada@Example.com ",
		Password:      "correct-horse",
		DisplayName:   "Ada",
		DiscordHandle: "ada#1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.False(t, res.User.IsAdmin)
	assert.NotEmpty(t, res.Token)

	claims, err := svc.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "wrong-horse"})
	var unauthorized models.ErrorUnauthorized
	assert.ErrorAs(t, err, &unauthorized)

	_, err = svc.Register(ctx, models.RegisterRequest{Email: "ada@example.com", Password: "another-one", DisplayName: "Ada"})
	var conflict models.ErrorConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestAuthService(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("someone-else"))
	require.NoError(t, err)

	_, err = svc.ParseToken(signed)
	var unauthorized models.ErrorUnauthorized
	assert.ErrorAs(t, err, &unauthorized)
}

func TestSetAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, models.RegisterRequest{Email: "mod@example.com", Password: "password1", DisplayName: "Mod"})
	require.NoError(t, err)

	user, err := svc.SetAdmin(ctx, "MOD@example.com", true)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, models.RoleAdmin, user.Role)

	user, err = svc.SetAdmin(ctx, "mod@example.com", false)
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, models.RoleMember, user.Role)

	_, err = svc.SetAdmin(ctx, "ghost@example.com", true)
	var notFound models.ErrorNotFound
	assert.ErrorAs(t, err, &notFound)
}
