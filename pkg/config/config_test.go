package config

import (
	"testing"
	"time"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte("environment: dev\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.View.ListCapacity != 20 || c.View.ChartCapacity != 20 || !c.View.Dedup {
		t.Fatalf("view defaults = %+v", c.View)
	}
	if c.Pull.Interval != 60*time.Second || c.Pull.Variant != "api" {
		t.Fatalf("pull defaults = %+v", c.Pull)
	}
	if c.Addr() != ":8090" {
		t.Fatalf("addr = %s", c.Addr())
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
environment: prod
view:
  list_capacity: 50
  dedup: false
pull:
  variant: legacy
  base_url: http://feed:5000
  interval: 30s
push:
  transport: none
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.View.ListCapacity != 50 || c.View.Dedup {
		t.Fatalf("view = %+v", c.View)
	}
	if c.Pull.Variant != "legacy" || c.Pull.Interval != 30*time.Second {
		t.Fatalf("pull = %+v", c.Pull)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]string{
		"bad variant":       "pull: {variant: grpc}",
		"kafka no brokers":  "push: {transport: kafka}",
		"bad capacity":      "view: {list_capacity: 0}",
		"telegram no token": "render: {telegram: {enabled: true}}",
		"bad environment":   "environment: qa",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse([]byte("environment: dev"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	env := map[string]string{
		"KAFKA_BROKERS":    "a:9092,b:9092",
		"TELEGRAM_CHAT_ID": "-100123",
		"PUSH_TRANSPORT":   "kafka",
	}
	if err := c.applyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if len(c.Push.Kafka.Brokers) != 2 || c.Render.Telegram.ChatID != -100123 || c.Push.Transport != "kafka" {
		t.Fatalf("env not applied: %+v", c.Push)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	env["TELEGRAM_CHAT_ID"] = "abc"
	if err := c.applyEnv(func(k string) string { return env[k] }); err == nil {
		t.Fatalf("expected chat id error")
	}
}
