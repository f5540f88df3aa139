package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/confessit/backend/internal/models"
)

func TestMemoryRepo_VoteDedup(t *testing.T) {
	repo := NewMemoryConfessionRepository()
	ctx := context.Background()

	id, err := repo.CreateConfession(ctx, &models.Confession{Text: "hi", Author: "a", DisplayName: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.ApplyVote(ctx, id, VoteLike, "1.2.3.4"); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if err := repo.ApplyVote(ctx, id, VoteLike, "1.2.3.4"); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
}

func TestMemoryRepo_ConcurrentDistinctVotes(t *testing.T) {
	repo := NewMemoryConfessionRepository()
	ctx := context.Background()

	id, _ := repo.CreateConfession(ctx, &models.Confession{Text: "hi", Author: "a", DisplayName: "b"})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ip := fmt.Sprintf("10.0.%d.%d", i/256, i%256)
			if err := repo.ApplyVote(ctx, id, VoteLike, ip); err != nil {
				t.Errorf("vote from %s: %v", ip, err)
			}
		}(i)
	}
	wg.Wait()

	state, err := repo.GetVoteState(ctx, id)
	if err != nil {
		t.Fatalf("vote state: %v", err)
	}
	if state.Likes != 100 {
		t.Fatalf("lost updates: likes = %d, want 100", state.Likes)
	}
	if len(state.LikedIPs) != 100 {
		t.Fatalf("liked IP set has %d entries, want 100", len(state.LikedIPs))
	}
}

func TestMemoryRepo_ListStableOrder(t *testing.T) {
	repo := NewMemoryConfessionRepository()
	ctx := context.Background()

	a, _ := repo.CreateConfession(ctx, &models.Confession{Text: "a", Author: "x", DisplayName: "y"})
	b, _ := repo.CreateConfession(ctx, &models.Confession{Text: "b", Author: "x", DisplayName: "y"})
	c, _ := repo.CreateConfession(ctx, &models.Confession{Text: "c", Author: "x", DisplayName: "y"})

	repo.ApplyVote(ctx, c, VoteLike, "1.1.1.1")

	// Fixed data set must list deterministically: likes desc, then
	// creation order for the tie between a and b.
	for i := 0; i < 5; i++ {
		summaries, err := repo.ListConfessions(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if summaries[0].ID != c || summaries[1].ID != a || summaries[2].ID != b {
			t.Fatalf("unstable order on run %d: %s, %s, %s", i, summaries[0].ID, summaries[1].ID, summaries[2].ID)
		}
	}
}
