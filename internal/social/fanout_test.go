package social

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"brandnet/internal/brand"
	"brandnet/internal/memstore"
	"brandnet/internal/models"
)

type stubPoster struct {
	mu     sync.Mutex
	posts  []Post
	result PostResult
	panic  bool
}

func (p *stubPoster) Post(_ context.Context, post Post, _ map[string]string) PostResult {
	if p.panic {
		panic("boom")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts = append(p.posts, post)
	return p.result
}

type fixture struct {
	store   *memstore.Store
	article *models.ContentItem
	fanout  *Fanout
	posters map[models.Platform]*stubPoster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	brands, err := brand.Load("")
	if err != nil {
		t.Fatalf("brand.Load: %v", err)
	}
	s := memstore.New()
	article, err := s.Insert(context.Background(), &models.ContentItem{
		Brand:      models.BrandSauceWire,
		Status:     models.ContentStatusPublished,
		Title:      "Big Drop",
		Slug:       "big-drop",
		AuthorName: "Jay",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	stubs := map[models.Platform]*stubPoster{}
	posters := map[models.Platform]Poster{}
	for _, p := range models.Platforms {
		stubs[p] = &stubPoster{result: PostResult{Success: true, PostURL: "https://" + string(p) + ".example/post/1"}}
		posters[p] = stubs[p]
	}
	return &fixture{
		store:   s,
		article: article,
		fanout:  NewFanout(s.Social(), s, brands, posters),
		posters: stubs,
	}
}

func TestPlatforms(t *testing.T) {
	got := Platforms(
		[]models.Platform{"twitter", "myspace", "facebook"},
		[]models.Platform{"facebook", "threads"},
	)
	want := []models.Platform{models.PlatformTwitter, models.PlatformFacebook, models.PlatformThreads}
	if !slices.Equal(got, want) {
		t.Errorf("Platforms: got %v, want %v", got, want)
	}
}

func TestShareDefaultTemplateWithoutSettings(t *testing.T) {
	f := newFixture(t)

	res, err := f.fanout.Share(context.Background(), Request{
		ArticleID: f.article.ID,
		Platforms: []models.Platform{models.PlatformTwitter},
		Brand:     models.BrandSauceWire,
	})
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if len(res.Results) != 1 {
		t.Fatalf("results: got %d, want 1", len(res.Results))
	}
	want := "Big Drop https://saucewire.com/news/big-drop"
	if got := res.Results[0].Text; got != want {
		t.Errorf("text: got %q, want %q", got, want)
	}
	if strings.Contains(res.Results[0].Text, "#") {
		t.Error("no hashtags expected without settings")
	}
}

func TestShareMergesAutoPlatformsAndLogsEveryAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	social := f.store.Social()

	social.UpsertSettings(ctx, &models.SocialMediaSettings{
		Brand: models.BrandSauceWire, Platform: models.PlatformFacebook,
		Enabled: true, AutoShareOnPublish: true,
		DefaultTemplate: "{title} by {author} on {brand}: {url}",
		DefaultHashtags: []string{"music", "newmusic"},
	})
	social.UpsertSettings(ctx, &models.SocialMediaSettings{
		Brand: models.BrandSauceWire, Platform: models.PlatformThreads,
		Enabled: true, AutoShareOnPublish: true,
	})
	f.posters[models.PlatformThreads].result = PostResult{Error: "relay down"}

	res, err := f.fanout.Share(ctx, Request{
		ArticleID: f.article.ID,
		Platforms: []models.Platform{models.PlatformTwitter, models.PlatformFacebook},
	})
	if err != nil {
		t.Fatalf("Share: %v", err)
	}

	var order []models.Platform
	for _, r := range res.Results {
		order = append(order, r.Platform)
	}
	want := []models.Platform{models.PlatformTwitter, models.PlatformFacebook, models.PlatformThreads}
	if !slices.Equal(order, want) {
		t.Errorf("order: got %v, want %v", order, want)
	}
	if res.Succeeded() != 2 {
		t.Errorf("succeeded: got %d, want 2", res.Succeeded())
	}

	fb := res.Results[1].Text
	if !strings.HasPrefix(fb, "Big Drop by Jay on SauceWire: https://saucewire.com/news/big-drop") {
		t.Errorf("facebook text: %q", fb)
	}
	if !strings.HasSuffix(fb, "#music #newmusic") {
		t.Errorf("facebook hashtags: %q", fb)
	}

	log, _ := social.ShareLog(ctx, f.article.ID)
	if len(log) != 3 {
		t.Fatalf("share log rows: got %d, want 3", len(log))
	}
	if log[2].Status != models.ShareStatusFailed || models.Deref(log[2].ErrorMessage) != "relay down" {
		t.Errorf("failed row: %+v", log[2])
	}
	if log[0].Status != models.ShareStatusSuccess || log[0].PostURL == nil {
		t.Errorf("success row: %+v", log[0])
	}
}

func TestShareDisabledPlatform(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Social().UpsertSettings(ctx, &models.SocialMediaSettings{
		Brand: models.BrandSauceWire, Platform: models.PlatformTwitter, Enabled: false,
	})

	res, err := f.fanout.Share(ctx, Request{ArticleID: f.article.ID, Platforms: []models.Platform{models.PlatformTwitter}})
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if r := res.Results[0]; r.Success || r.Error != "disabled" {
		t.Errorf("result: %+v", r)
	}
	if len(f.posters[models.PlatformTwitter].posts) != 0 {
		t.Error("disabled platform should not be posted to")
	}
}

func TestShareTruncatesTwitter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Social().UpsertSettings(ctx, &models.SocialMediaSettings{
		Brand: models.BrandSauceWire, Platform: models.PlatformTwitter, Enabled: true,
		DefaultTemplate: strings.Repeat("x", 300) + " {url}",
	})

	res, err := f.fanout.Share(ctx, Request{ArticleID: f.article.ID, Platforms: []models.Platform{models.PlatformTwitter}})
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	text := res.Results[0].Text
	if n := len([]rune(text)); n != 280 {
		t.Errorf("length: got %d, want 280", n)
	}
	if !strings.HasSuffix(text, "...") {
		t.Errorf("expected ellipsis suffix: %q", text[len(text)-5:])
	}
}

func TestShareRecoversAdapterPanic(t *testing.T) {
	f := newFixture(t)
	f.posters[models.PlatformTwitter].panic = true

	res, err := f.fanout.Share(context.Background(), Request{
		ArticleID: f.article.ID,
		Platforms: []models.Platform{models.PlatformTwitter, models.PlatformFacebook},
	})
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if res.Results[0].Success || !strings.Contains(res.Results[0].Error, "panicked") {
		t.Errorf("twitter: %+v", res.Results[0])
	}
	if !res.Results[1].Success {
		t.Errorf("facebook should still be attempted: %+v", res.Results[1])
	}
}

func TestShareUnknownArticle(t *testing.T) {
	f := newFixture(t)
	_, err := f.fanout.Share(context.Background(), Request{ArticleID: uuid.New()})
	if !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("got %v, want ErrArticleNotFound", err)
	}
}
