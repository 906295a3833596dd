package posts_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/inkwell-cms/inkwell/internal/posts"
	_ "github.com/inkwell-cms/inkwell/testing"
)

func newTestCache(t *testing.T) *posts.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return posts.NewCache(client, time.Minute)
}

func TestCacheListRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	if _, ok := cache.GetList(ctx); ok {
		t.Fatal("expected cold cache miss")
	}

	cache.SetList(ctx, []posts.Post{{ID: "p1", Title: "One", OwnerID: "u1"}})

	listing, ok := cache.GetList(ctx)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if len(listing) != 1 || listing[0].ID != "p1" {
		t.Fatalf("unexpected listing %+v", listing)
	}
}

func TestCachePostRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.SetPost(ctx, &posts.Post{ID: "p1", Title: "One", OwnerID: "u1"})

	post, ok := cache.GetPost(ctx, "p1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if post.OwnerID != "u1" {
		t.Fatalf("unexpected owner %q", post.OwnerID)
	}

	if _, ok := cache.GetPost(ctx, "p2"); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestCacheInvalidateDropsListAndPost(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.SetList(ctx, []posts.Post{{ID: "p1"}})
	cache.SetPost(ctx, &posts.Post{ID: "p1"})

	cache.Invalidate(ctx, "p1")

	if _, ok := cache.GetList(ctx); ok {
		t.Fatal("listing survived invalidation")
	}
	if _, ok := cache.GetPost(ctx, "p1"); ok {
		t.Fatal("post entry survived invalidation")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var cache *posts.Cache
	ctx := context.Background()

	cache.SetList(ctx, nil)
	cache.SetPost(ctx, &posts.Post{ID: "p1"})
	cache.Invalidate(ctx, "p1")
	if _, ok := cache.GetList(ctx); ok {
		t.Fatal("nil cache reported a hit")
	}
	if _, ok := cache.GetPost(ctx, "p1"); ok {
		t.Fatal("nil cache reported a hit")
	}
}
