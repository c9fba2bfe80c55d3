package controllers

import (
	"context"
	"testing"

	"alavanca/alavanca/config"
	"alavanca/alavanca/sources/psql/dao"
	"alavanca/alavanca/sources/psql/models"
	"alavanca/alavanca/utils/logging"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestEnv(t *testing.T) *AuthController {
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewAuthController(dao.NewUserDAO(db), config.Config{JWTSecret: "segredo"})
}

func TestSignUpAndSignIn(t *testing.T) {
	ctrl := setupAuthTestEnv(t)
	ctx := context.Background()

	user, err := ctrl.SignUp(ctx, "Maria@Empresa.com", "senha123")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if user.Email != "maria@empresa.com" {
		t.Errorf("email must be normalized, got %q", user.Email)
	}
	if user.PasswordHash == "senha123" {
		t.Error("password must not be stored in the clear")
	}

	token, signedIn, err := ctrl.SignIn(ctx, "maria@empresa.com", "senha123")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if signedIn.ID != user.ID {
		t.Errorf("expected the same user back")
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("segredo"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token must validate: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["user_id"] != user.ID.String() {
		t.Errorf("token must carry the user id claim")
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	ctrl := setupAuthTestEnv(t)
	ctx := context.Background()

	if _, err := ctrl.SignUp(ctx, "x@x.com", "senha"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if _, err := ctrl.SignUp(ctx, "x@x.com", "outra"); err != ErrUserExists {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestSignInBadCredentials(t *testing.T) {
	ctrl := setupAuthTestEnv(t)
	ctx := context.Background()

	if _, _, err := ctrl.SignIn(ctx, "ghost@x.com", "senha"); err != ErrInvalidCredentials {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := ctrl.SignUp(ctx, "x@x.com", "senha"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if _, _, err := ctrl.SignIn(ctx, "x@x.com", "errada"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignUpMissingFields(t *testing.T) {
	ctrl := setupAuthTestEnv(t)
	if _, err := ctrl.SignUp(context.Background(), "", "senha"); err != ErrMissingCredentials {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
	if _, err := ctrl.SignUp(context.Background(), "x@x.com", ""); err != ErrMissingCredentials {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}
