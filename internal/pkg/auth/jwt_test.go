package auth

import (
	"testing"
	"time"

	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/staff"
)

func testConfig(secret string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "test"},
		JWT: config.JWTConfig{
			Secret:            secret,
			AccessTokenExpiry: time.Hour,
		},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager(testConfig("0123456789abcdef0123456789abcdef"))

	member := &staff.Staff{
		ID:       7,
		StoreID:  1,
		Email:    "manager@example.com",
		RoleTier: staff.TierManager,
	}

	token, err := mgr.GenerateToken(member)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}

	if claims.StaffID != 7 {
		t.Errorf("staff id = %d, want 7", claims.StaffID)
	}
	if claims.RoleTier != staff.TierManager {
		t.Errorf("role tier = %s, want manager", claims.RoleTier)
	}
	if claims.StoreID != 1 {
		t.Errorf("store id = %d, want 1", claims.StoreID)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager(testConfig("0123456789abcdef0123456789abcdef"))
	verifier := NewJWTManager(testConfig("ffffffffffffffffffffffffffffffff"))

	token, err := issuer.GenerateToken(&staff.Staff{ID: 1, RoleTier: staff.TierServer})
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret should be rejected")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", ""},
		{"abc.def.ghi", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := ExtractTokenFromHeader(tc.header); got != tc.want {
			t.Errorf("ExtractTokenFromHeader(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
