package notifiers

import (
	"strings"
	"testing"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
)

func TestFormatText(t *testing.T) {
	a := domain.Article{
		Title:       "大新闻",
		URL:         "https://www.chinapress.com.my/20240501/story/",
		PublishedAt: "2024-05-01 08:30",
	}
	got := FormatText(a)
	want := "<b>大新闻</b>\n🕒 2024-05-01 08:30\nhttps://www.chinapress.com.my/20240501/story/"
	if got != want {
		t.Errorf("FormatText = %q, want %q", got, want)
	}
}

func TestFormatTextWithoutPublished(t *testing.T) {
	a := domain.Article{Title: "t", URL: "https://example.com/x"}
	got := FormatText(a)
	if strings.Contains(got, "🕒") {
		t.Errorf("clock line present without timestamp: %q", got)
	}
	if got != "<b>t</b>\nhttps://example.com/x" {
		t.Errorf("FormatText = %q", got)
	}
}

func TestNewMessage(t *testing.T) {
	a := domain.Article{Title: "t", URL: "https://example.com/x"}
	msg := NewMessage(a)
	if msg.Article.URL != a.URL {
		t.Errorf("Article = %#v", msg.Article)
	}
	if msg.Text != FormatText(a) {
		t.Errorf("Text = %q", msg.Text)
	}
	if msg.CollectedAt.IsZero() {
		t.Error("CollectedAt not set")
	}
}
