package config

import (
	"testing"
	"time"
)

func TestFlattenUnflattenConfig(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	cfg.Chatwoot.BaseURL = "https://app.chatwoot.com"
	cfg.Chatwoot.Timeout = 10 * time.Second
	cfg.Mongo.Port = 27017

	flat, err := ListValues(cfg, false)
	if err != nil {
		t.Fatalf("ListValues failed: %v", err)
	}
	if flat["chatwoot.base_url"] != "https://app.chatwoot.com" || flat["mongo.port"] != float64(27017) {
		t.Errorf("unexpected flat values %v", flat)
	}

	nested := Unflatten(flat)
	chatwoot, ok := nested["chatwoot"].(map[string]any)
	if !ok {
		t.Fatalf("expected chatwoot section, got %T", nested["chatwoot"])
	}
	// the timeout is listed as a duration string and must survive the round trip
	if chatwoot["timeout"] != "10s" {
		t.Errorf("expected timeout 10s, got %v", chatwoot["timeout"])
	}
	if nested["log_level"] != "debug" {
		t.Errorf("expected log_level=debug, got %v", nested["log_level"])
	}
	if len(Flatten(nested)) != len(flat) {
		t.Errorf("expected %d keys after round trip, got %d", len(flat), len(Flatten(nested)))
	}
}

func TestMaskSecrets(t *testing.T) {
	got := MaskSecrets(map[string]any{
		"chatwoot.api_token": "cw-test123456",
		"mongo.uri":          "mongodb://app:pw@db/x",
		"mongo.password":     "",
		"chatwoot.inbox_id":  "7",
		"mongo.port":         27017.0,
	})

	want := map[string]any{
		"chatwoot.api_token": "***3456",
		"mongo.uri":          "***db/x",
		"mongo.password":     "",
		"chatwoot.inbox_id":  "7",
		"mongo.port":         27017.0,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, got[k])
		}
	}
	if short := MaskSecrets(map[string]any{"mongo.password": "ab"}); short["mongo.password"] != "***ab" {
		t.Errorf("expected short secret kept whole behind mask, got %v", short["mongo.password"])
	}
}

func TestIsSecretKey(t *testing.T) {
	if !IsSecretKey("chatwoot.api_token") || !IsSecretKey("mongo.uri") {
		t.Error("expected token and uri to be secret")
	}
	if IsSecretKey("chatwoot.inbox_id") {
		t.Error("expected inbox id not to be secret")
	}
}
