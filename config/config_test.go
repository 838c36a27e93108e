package config

import (
	"testing"
	"time"
)

func TestRedactedHidesSecrets(t *testing.T) {
	cfg := Config{
		Database:     Database{Password: "pw"},
		JWTSecret:    "jwt",
		GeminiApiKey: "key",
	}
	r := cfg.Redacted()
	if r.Database.Password != "***" || r.JWTSecret != "***" || r.GeminiApiKey != "***" {
		t.Fatalf("secrets leaked: %+v", r)
	}
	if cfg.JWTSecret != "jwt" {
		t.Fatalf("Redacted modified the original")
	}
	if empty := (Config{}).Redacted(); empty.JWTSecret != "" {
		t.Fatalf("unset secret became %q", empty.JWTSecret)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" http://a.cl , ,http://b.cl,")
	if len(got) != 2 || got[0] != "http://a.cl" || got[1] != "http://b.cl" {
		t.Fatalf("splitCSV = %q", got)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	tests := []struct {
		zone string
		want *time.Location
	}{
		{"", time.UTC},
		{"Not/AZone", time.UTC},
		{"UTC", time.UTC},
	}
	for _, tt := range tests {
		cfg := &Config{Exam: Exam{Timezone: tt.zone}}
		if got := cfg.Location(); got.String() != tt.want.String() {
			t.Fatalf("Location(%q) = %s, want %s", tt.zone, got, tt.want)
		}
	}
}

func TestParseIDsSkipsInvalidEntries(t *testing.T) {
	got := parseIDs("3, x,0, 12")
	if len(got) != 2 || got[0] != 3 || got[1] != 12 {
		t.Fatalf("parseIDs = %v, want [3 12]", got)
	}
	if ids := parseIDs(""); len(ids) != 0 {
		t.Fatalf("parseIDs(\"\") = %v, want none", ids)
	}
}
