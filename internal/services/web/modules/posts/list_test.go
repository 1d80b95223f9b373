package posts

import (
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/razzo/internal/services/web/blogapi"
	"github.com/louisbranch/razzo/internal/services/web/principal"
)

func ids(posts []blogapi.Post) []string {
	out := make([]string, 0, len(posts))
	for _, post := range posts {
		out = append(out, post.ID)
	}
	return out
}

func equalIDs(got []blogapi.Post, want ...string) bool {
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		return false
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			return false
		}
	}
	return true
}

func TestPostListLocalUpdates(t *testing.T) {
	t.Parallel()

	var list postList
	list.replace([]blogapi.Post{{ID: "b"}, {ID: "a"}})
	list.prepend(blogapi.Post{ID: "c"})
	if got := list.snapshot(); !equalIDs(got, "c", "b", "a") {
		t.Fatalf("after prepend = %v", ids(got))
	}

	list.update(blogapi.Post{ID: "b", Title: "edited"})
	list.update(blogapi.Post{ID: "zzz", Title: "ignored"})
	got := list.snapshot()
	if !equalIDs(got, "c", "b", "a") || got[1].Title != "edited" {
		t.Fatalf("after update = %+v", got)
	}

	list.remove("b")
	list.remove("missing")
	if got := list.snapshot(); !equalIDs(got, "c", "a") {
		t.Fatalf("after remove = %v", ids(got))
	}
}

func TestPostListSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	var list postList
	list.replace([]blogapi.Post{{ID: "a", Title: "one"}})
	snap := list.snapshot()
	snap[0].Title = "mutated"
	if list.snapshot()[0].Title != "one" {
		t.Fatal("snapshot aliases holder storage")
	}
}

func TestListsScopeBySession(t *testing.T) {
	t.Parallel()

	ls := newLists()
	anonA := ls.forViewer(principal.Viewer{})
	anonB := ls.forViewer(principal.Viewer{SessionID: "ignored-without-token"})
	if anonA != anonB {
		t.Fatal("anonymous viewers must share one list")
	}
	ana := ls.forViewer(principal.Viewer{SessionID: "s1", Token: "tok"})
	if ana == anonA || ana != ls.forViewer(principal.Viewer{SessionID: "s1", Token: "tok"}) {
		t.Fatal("session list not stable")
	}
	if ls.len() != 2 {
		t.Fatalf("lists = %d, want 2", ls.len())
	}
	ls.release("s1")
	ls.release("")
	if ls.len() != 1 {
		t.Fatalf("lists after release = %d, want 1", ls.len())
	}
}

func TestPostListConcurrentWrites(t *testing.T) {
	t.Parallel()

	var list postList
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list.prepend(blogapi.Post{ID: "p"})
			_ = list.snapshot()
		}()
	}
	wg.Wait()
	if got := len(list.snapshot()); got != 50 {
		t.Fatalf("len = %d, want 50", got)
	}
}

func TestPostListLoadedOnlyAfterReplace(t *testing.T) {
	t.Parallel()

	var list postList
	list.prepend(blogapi.Post{ID: "local"})
	if list.isLoaded() {
		t.Fatal("local writes must not mark the list loaded")
	}
	list.replace(nil)
	if !list.isLoaded() {
		t.Fatal("replace must mark the list loaded")
	}
}

func TestListsEvictIdleSessions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	ls := newLists()
	ls.idleTTL = time.Minute
	ls.now = func() time.Time { return now }

	stale := ls.forViewer(principal.Viewer{SessionID: "stale", Token: "t1"})
	stale.replace([]blogapi.Post{{ID: "a"}})
	now = now.Add(30 * time.Second)
	ls.forViewer(principal.Viewer{SessionID: "active", Token: "t2"})

	now = now.Add(45 * time.Second)
	active := ls.forViewer(principal.Viewer{SessionID: "active", Token: "t2"})
	if ls.len() != 1 {
		t.Fatalf("lists = %d, want only the active session", ls.len())
	}
	if active != ls.forViewer(principal.Viewer{SessionID: "active", Token: "t2"}) {
		t.Fatal("active list must survive pruning")
	}
	if fresh := ls.forViewer(principal.Viewer{SessionID: "stale", Token: "t1"}); fresh == stale || fresh.isLoaded() {
		t.Fatal("evicted session must start from an unloaded list")
	}
}
