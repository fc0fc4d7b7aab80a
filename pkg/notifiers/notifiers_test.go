package notifiers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeNotifiersFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleYAML = `
notifiers:
  - id: tg-main
    type: telegram
    telegram:
      bot_token: "123:abc"
      chat_id: "-100"
  - id: hook
    type: http
    enabled: false
    http:
      url: https://hooks.example.com/news
      headers:
        Authorization: "Bearer tok"
        Empty: "   "
`

func TestLoadRegistryYAML(t *testing.T) {
	reg, err := LoadRegistry(writeNotifiersFile(t, "notifiers.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	if got := len(reg.All()); got != 2 {
		t.Fatalf("All = %d entries", got)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "tg-main" {
		t.Errorf("Enabled = %#v", enabled)
	}

	hook, ok := reg.ByID("hook")
	if !ok {
		t.Fatal("ByID(hook) missing")
	}
	// Sanitizer defaults and cleanup.
	if hook.HTTP.Method != "POST" {
		t.Errorf("default method = %q", hook.HTTP.Method)
	}
	if hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Errorf("default timeout = %d", hook.HTTP.TimeoutSeconds)
	}
	if _, present := hook.HTTP.Headers["Empty"]; present {
		t.Error("blank header survived sanitization")
	}

	tg, _ := reg.ByID("tg-main")
	if tg.Telegram.TimeoutSeconds != telegramDefaultTimeoutSeconds {
		t.Errorf("telegram default timeout = %d", tg.Telegram.TimeoutSeconds)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	content := `{"notifiers": [{"id": "tg", "type": "telegram", "telegram": {"bot_token": "1:a", "chat_id": "2"}}]}`
	reg, err := LoadRegistry(writeNotifiersFile(t, "notifiers.json", content))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("tg"); !ok {
		t.Error("json entry missing")
	}
}

func TestLoadRegistryTelegramEnvFallback(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env:token")
	t.Setenv("TELEGRAM_CHAT_ID", "env-chat")

	content := "notifiers:\n  - id: tg\n    type: telegram\n    telegram: {}\n"
	reg, err := LoadRegistry(writeNotifiersFile(t, "notifiers.yaml", content))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	tg, _ := reg.ByID("tg")
	if tg.Telegram.BotToken != "env:token" || tg.Telegram.ChatID != "env-chat" {
		t.Errorf("env fallback = %#v", tg.Telegram)
	}
}

func TestLoadRegistryRejectsInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"missing-id":     "notifiers:\n  - type: log\n",
		"missing-type":   "notifiers:\n  - id: x\n",
		"duplicate-id":   "notifiers:\n  - id: x\n    type: log\n  - id: x\n    type: log\n",
		"no-entries":     "notifiers: []\n",
		"tg-no-token":    "notifiers:\n  - id: tg\n    type: telegram\n    telegram: {}\n",
		"sqs-no-region":  "notifiers:\n  - id: q\n    type: sqs\n    sqs:\n      uri: https://sqs.example.com/q\n",
		"sns-no-topic":   "notifiers:\n  - id: s\n    type: sns\n    sns:\n      region: us-east-1\n",
		"pubsub-partial": "notifiers:\n  - id: p\n    type: gcppubsub\n    gcppubsub:\n      project_id: proj\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "")
			t.Setenv("TELEGRAM_CHAT_ID", "")
			if _, err := LoadRegistry(writeNotifiersFile(t, "notifiers.yaml", content)); err == nil {
				t.Errorf("%s accepted", name)
			}
		})
	}
}

func TestLoadRegistryMissingFile(t *testing.T) {
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadRegistry("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
