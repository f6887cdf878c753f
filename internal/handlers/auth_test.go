package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxe-backend/internal/models"
)

func TestHashTokenDeterministic(t *testing.T) {
	a := hashToken("some-refresh-token")
	b := hashToken("some-refresh-token")
	if a != b {
		t.Error("same token hashed to different values")
	}
	if a == hashToken("other-token") {
		t.Error("different tokens hashed to the same value")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestGenerateRefreshString(t *testing.T) {
	a, err := generateRefreshString()
	if err != nil {
		t.Fatal(err)
	}
	b, err := generateRefreshString()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("consecutive refresh tokens are identical")
	}
	if len(a) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(a))
	}
}

func TestIssueAccessToken(t *testing.T) {
	const secret = "test-secret"
	userID := primitive.NewObjectID()

	signed, err := issueAccessToken(userID, models.RoleAdmin, secret, 15*time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatal(err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		t.Fatal("token did not parse into valid map claims")
	}
	if claims["userId"] != userID.Hex() {
		t.Errorf("userId claim = %v, want %s", claims["userId"], userID.Hex())
	}
	if claims["role"] != models.RoleAdmin {
		t.Errorf("role claim = %v, want %s", claims["role"], models.RoleAdmin)
	}
}

func TestIssueAccessTokenRejectedWithWrongSecret(t *testing.T) {
	userID := primitive.NewObjectID()

	signed, err := issueAccessToken(userID, models.RoleUser, "right-secret", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err == nil {
		t.Error("token signed with a different secret verified")
	}
}
