package repositories

import (
	"context"
	"errors"

	"github.com/confessit/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SQLConfessionRepository implements ConfessionRepository on GORM. It is
// used with the Postgres driver in production and the in-memory SQLite
// driver in tests. IDs are UUID strings.
type SQLConfessionRepository struct {
	db *gorm.DB
}

// NewSQLConfessionRepository creates a new SQLConfessionRepository
func NewSQLConfessionRepository(db *gorm.DB) *SQLConfessionRepository {
	return &SQLConfessionRepository{db: db}
}

// IsValidID reports whether id is a well-formed UUID.
func (r *SQLConfessionRepository) IsValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// CreateConfession inserts a new confession and returns its assigned id.
func (r *SQLConfessionRepository) CreateConfession(ctx context.Context, confession *models.Confession) (string, error) {
	record := models.ConfessionRecord{
		ID:          uuid.NewString(),
		Text:        confession.Text,
		Author:      confession.Author,
		DisplayName: confession.DisplayName,
		CreatedAt:   confession.CreatedAt,
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = nowUTC()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", err
	}
	return record.ID, nil
}

// ListConfessions returns all confessions sorted by likes descending, ties
// broken by creation time ascending.
func (r *SQLConfessionRepository) ListConfessions(ctx context.Context) ([]models.ConfessionSummary, error) {
	var records []models.ConfessionRecord
	err := r.db.WithContext(ctx).
		Order("likes desc").
		Order("created_at asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	counts, err := r.commentCounts(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConfessionSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, models.ConfessionSummary{
			ID:           rec.ID,
			Text:         rec.Text,
			DisplayName:  rec.DisplayName,
			Likes:        rec.Likes,
			Dislikes:     rec.Dislikes,
			CommentCount: counts[rec.ID],
		})
	}
	return summaries, nil
}

func (r *SQLConfessionRepository) commentCounts(ctx context.Context) (map[string]int, error) {
	type row struct {
		ConfessionID string
		N            int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.CommentRecord{}).
		Select("confession_id, count(*) as n").
		Group("confession_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, rw := range rows {
		counts[rw.ConfessionID] = rw.N
	}
	return counts, nil
}

// GetVoteState retrieves the counters and voter IP sets of a confession.
func (r *SQLConfessionRepository) GetVoteState(ctx context.Context, id string) (*models.VoteState, error) {
	var record models.ConfessionRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var votes []models.VoteRecord
	if err := r.db.WithContext(ctx).Where("confession_id = ?", id).Find(&votes).Error; err != nil {
		return nil, err
	}

	state := models.VoteState{
		Likes:       record.Likes,
		Dislikes:    record.Dislikes,
		LikedIPs:    []string{},
		DislikedIPs: []string{},
	}
	for _, v := range votes {
		if v.Kind == string(VoteLike) {
			state.LikedIPs = append(state.LikedIPs, v.IP)
		} else {
			state.DislikedIPs = append(state.DislikedIPs, v.IP)
		}
	}
	return &state, nil
}

// ApplyVote records a vote row and increments the matching counter in one
// transaction. The unique index on (confession_id, kind, ip) rejects a
// concurrent duplicate, so the check-and-update cannot race.
func (r *SQLConfessionRepository) ApplyVote(ctx context.Context, id string, kind VoteKind, ip string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.ConfessionRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		vote := models.VoteRecord{
			ConfessionID: id,
			Kind:         string(kind),
			IP:           ip,
			CreatedAt:    nowUTC(),
		}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return err
		}

		column := "likes"
		if kind == VoteDislike {
			column = "dislikes"
		}
		return tx.Model(&models.ConfessionRecord{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + 1")).Error
	})
}

// DeleteConfession removes a confession and cascades to its votes and
// comments. Deleting an absent confession is not an error.
func (r *SQLConfessionRepository) DeleteConfession(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("confession_id = ?", id).Delete(&models.VoteRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("confession_id = ?", id).Delete(&models.CommentRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.ConfessionRecord{}).Error
	})
}

// AppendComment appends a comment to a confession.
func (r *SQLConfessionRepository) AppendComment(ctx context.Context, id string, comment models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.ConfessionRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Create(&models.CommentRecord{
			ConfessionID: id,
			Text:         comment.Text,
			CreatedAt:    comment.CreatedAt,
		}).Error
	})
}

// ListComments retrieves the comments of a confession ordered by creation
// time ascending. A missing confession yields an empty list.
func (r *SQLConfessionRepository) ListComments(ctx context.Context, id string) ([]models.Comment, error) {
	var records []models.CommentRecord
	err := r.db.WithContext(ctx).
		Where("confession_id = ?", id).
		Order("created_at asc").
		Order("id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	comments := make([]models.Comment, 0, len(records))
	for _, rec := range records {
		comments = append(comments, models.Comment{Text: rec.Text, CreatedAt: rec.CreatedAt})
	}
	return comments, nil
}

var _ ConfessionRepository = (*SQLConfessionRepository)(nil)
