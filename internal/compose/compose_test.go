package compose

import (
	"strings"
	"testing"
	"unicode/utf8"

	"brandnet/internal/models"
)

func TestFill(t *testing.T) {
	f := Fields{
		Title:   "Big Drop",
		Excerpt: "A new album",
		URL:     "https://saucewire.com/news/big-drop",
		Brand:   "SauceWire",
		Author:  "Jay",
	}

	tests := []struct {
		name string
		tmpl string
		f    Fields
		want string
	}{
		{name: "all placeholders", tmpl: "{title} - {excerpt} {url} via {brand} by {author}", f: f,
			want: "Big Drop - A new album https://saucewire.com/news/big-drop via SauceWire by Jay"},
		{name: "default template", tmpl: DefaultPostTemplate, f: f, want: "Big Drop https://saucewire.com/news/big-drop"},
		{name: "missing excerpt and author", tmpl: "{title}|{excerpt}|{author}", f: Fields{Title: "T"}, want: "T||"},
		{name: "repeated placeholder", tmpl: "{title} {title}", f: f, want: "Big Drop Big Drop"},
		{name: "no placeholders", tmpl: "static", f: f, want: "static"},
		{name: "value containing placeholder is not re-expanded", tmpl: "{title} {url}",
			f: Fields{Title: "About {url}", URL: "u"}, want: "About {url} u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fill(tt.tmpl, tt.f); got != tt.want {
				t.Errorf("Fill: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 300)

	tests := []struct {
		name    string
		text    string
		limit   int
		wantLen int
		suffix  bool
	}{
		{name: "over limit", text: long, limit: 280, wantLen: 280, suffix: true},
		{name: "one over", text: strings.Repeat("b", 281), limit: 280, wantLen: 280, suffix: true},
		{name: "exactly limit", text: strings.Repeat("c", 280), limit: 280, wantLen: 280, suffix: false},
		{name: "under limit", text: "short", limit: 280, wantLen: 5, suffix: false},
		{name: "multibyte", text: strings.Repeat("é", 300), limit: 280, wantLen: 280, suffix: true},
		{name: "tiny limit", text: "abcdef", limit: 2, wantLen: 2, suffix: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.text, tt.limit)
			if n := utf8.RuneCountInString(got); n != tt.wantLen {
				t.Errorf("length: got %d, want %d", n, tt.wantLen)
			}
			if strings.HasSuffix(got, Ellipsis) != tt.suffix {
				t.Errorf("ellipsis suffix: got %v, want %v (%q)", !tt.suffix, tt.suffix, got)
			}
		})
	}
}

func TestWithHashtags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{name: "none", tags: nil, want: "post"},
		{name: "adds hash", tags: []string{"hiphop", "#news"}, want: "post\n\n#hiphop #news"},
		{name: "dedupes and skips blanks", tags: []string{"News", " ", "#news", "rap music"}, want: "post\n\n#News #rapmusic"},
		{name: "only blanks", tags: []string{"", "#"}, want: "post"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithHashtags("post", tt.tags); got != tt.want {
				t.Errorf("WithHashtags: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlatformLimit(t *testing.T) {
	if n, ok := PlatformLimit(models.PlatformTwitter); !ok || n != 280 {
		t.Errorf("twitter limit: got %d, %v", n, ok)
	}
	for _, p := range []models.Platform{models.PlatformFacebook, models.PlatformLinkedIn, models.PlatformInstagram, models.PlatformThreads} {
		if _, ok := PlatformLimit(p); ok {
			t.Errorf("%s should not be length constrained", p)
		}
	}
}

func TestPost(t *testing.T) {
	f := Fields{Title: strings.Repeat("word ", 80), URL: "https://trapglow.com/features/x"}

	twitter := Post(models.PlatformTwitter, "", f, []string{"music"})
	if n := utf8.RuneCountInString(twitter); n != 280 {
		t.Errorf("twitter post length: got %d, want 280", n)
	}
	if !strings.HasSuffix(twitter, Ellipsis) {
		t.Error("twitter post should end with ellipsis")
	}

	fb := Post(models.PlatformFacebook, "", f, []string{"music"})
	if !strings.HasSuffix(fb, "#music") {
		t.Errorf("facebook post should keep hashtags untruncated: %q", fb[len(fb)-20:])
	}
}
