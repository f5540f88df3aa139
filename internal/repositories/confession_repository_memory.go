package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/confessit/backend/internal/models"
	"github.com/google/uuid"
)

// memoryConfession is the stored shape; copies go in and out so callers
// never alias the map contents.
type memoryConfession struct {
	id          string
	text        string
	author      string
	displayName string
	likes       int
	dislikes    int
	likedIPs    map[string]struct{}
	dislikedIPs map[string]struct{}
	comments    []models.Comment
	createdAt   int64 // insertion sequence, used as the stable tie-break
}

// MemoryConfessionRepository implements ConfessionRepository in process
// memory. It backs the tests and the STORE_DRIVER=memory mode; a single
// mutex makes every operation atomic, which is what the vote dedup
// contract requires.
type MemoryConfessionRepository struct {
	mu          sync.Mutex
	confessions map[string]*memoryConfession
	seq         int64
}

// NewMemoryConfessionRepository creates an empty in-memory repository.
func NewMemoryConfessionRepository() *MemoryConfessionRepository {
	return &MemoryConfessionRepository{confessions: make(map[string]*memoryConfession)}
}

// IsValidID reports whether id is a well-formed UUID.
func (r *MemoryConfessionRepository) IsValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// CreateConfession stores a new confession and returns its assigned id.
func (r *MemoryConfessionRepository) CreateConfession(ctx context.Context, confession *models.Confession) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.seq++
	r.confessions[id] = &memoryConfession{
		id:          id,
		text:        confession.Text,
		author:      confession.Author,
		displayName: confession.DisplayName,
		likedIPs:    make(map[string]struct{}),
		dislikedIPs: make(map[string]struct{}),
		comments:    []models.Comment{},
		createdAt:   r.seq,
	}
	return id, nil
}

// ListConfessions returns all confessions sorted by likes descending, ties
// broken by insertion order.
func (r *MemoryConfessionRepository) ListConfessions(ctx context.Context) ([]models.ConfessionSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*memoryConfession, 0, len(r.confessions))
	for _, c := range r.confessions {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].likes != all[j].likes {
			return all[i].likes > all[j].likes
		}
		return all[i].createdAt < all[j].createdAt
	})

	summaries := make([]models.ConfessionSummary, 0, len(all))
	for _, c := range all {
		summaries = append(summaries, models.ConfessionSummary{
			ID:           c.id,
			Text:         c.text,
			DisplayName:  c.displayName,
			Likes:        c.likes,
			Dislikes:     c.dislikes,
			CommentCount: len(c.comments),
		})
	}
	return summaries, nil
}

// GetVoteState retrieves the counters and voter IP sets of a confession.
func (r *MemoryConfessionRepository) GetVoteState(ctx context.Context, id string) (*models.VoteState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.confessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	state := models.VoteState{
		Likes:       c.likes,
		Dislikes:    c.dislikes,
		LikedIPs:    make([]string, 0, len(c.likedIPs)),
		DislikedIPs: make([]string, 0, len(c.dislikedIPs)),
	}
	for ip := range c.likedIPs {
		state.LikedIPs = append(state.LikedIPs, ip)
	}
	for ip := range c.dislikedIPs {
		state.DislikedIPs = append(state.DislikedIPs, ip)
	}
	return &state, nil
}

// ApplyVote records a vote; the membership check and the increment happen
// under the same lock.
func (r *MemoryConfessionRepository) ApplyVote(ctx context.Context, id string, kind VoteKind, ip string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.confessions[id]
	if !ok {
		return ErrNotFound
	}

	ips := c.likedIPs
	if kind == VoteDislike {
		ips = c.dislikedIPs
	}
	if _, voted := ips[ip]; voted {
		return ErrAlreadyVoted
	}
	ips[ip] = struct{}{}
	if kind == VoteDislike {
		c.dislikes++
	} else {
		c.likes++
	}
	return nil
}

// DeleteConfession removes a confession and its comments. Deleting an
// absent confession is not an error.
func (r *MemoryConfessionRepository) DeleteConfession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.confessions, id)
	return nil
}

// AppendComment appends a comment to a confession.
func (r *MemoryConfessionRepository) AppendComment(ctx context.Context, id string, comment models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.confessions[id]
	if !ok {
		return ErrNotFound
	}
	c.comments = append(c.comments, comment)
	return nil
}

// ListComments retrieves the comments of a confession in insertion order.
// A missing confession yields an empty list.
func (r *MemoryConfessionRepository) ListComments(ctx context.Context, id string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.confessions[id]
	if !ok {
		return []models.Comment{}, nil
	}
	comments := make([]models.Comment, len(c.comments))
	copy(comments, c.comments)
	return comments, nil
}

var _ ConfessionRepository = (*MemoryConfessionRepository)(nil)
