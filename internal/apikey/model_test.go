package apikey

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAPIKey_IsExpired(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"never expires", nil, false},
		{"lapsed", &past, true},
		{"valid for a day", &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := &APIKey{Name: "uploader", ExpiresAt: tt.expiresAt}
			if got := key.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIKey_JSONHidesSecretMaterial(t *testing.T) {
	key := APIKey{
		ID:         "key_123",
		Name:       "uploader",
		Prefix:     SecretPrefix + "abcdefghi",
		SecretHash: "deadbeef",
	}

	data, err := json.Marshal(key)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(data)
	if strings.Contains(out, "deadbeef") || strings.Contains(out, SecretPrefix) {
		t.Errorf("secret material leaked: %s", out)
	}
	if !strings.Contains(out, `"name":"uploader"`) {
		t.Errorf("expected name in %s", out)
	}
	if (APIKey{}).TableName() != "api_keys" {
		t.Errorf("unexpected table name %q", (APIKey{}).TableName())
	}
}
