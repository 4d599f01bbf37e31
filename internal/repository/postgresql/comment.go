package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/comment"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/database"
)

type commentRepositoryImpl struct {
	db *database.DB
}

func NewCommentRepository(db *database.DB) comment.CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create implements comment.CommentRepository.
func (r *commentRepositoryImpl) Create(ctx context.Context, c comment.Comment) (comment.Comment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO comments (reference_type, reference_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := q.QueryRow(ctx, query, string(c.ReferenceType), c.ReferenceID, c.Content).Scan(&c.ID, &c.CreatedAt); err != nil {
		return comment.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}

	return c, nil
}

// ListByReference implements comment.CommentRepository.
func (r *commentRepositoryImpl) ListByReference(ctx context.Context, referenceType comment.ReferenceType, referenceID string) ([]comment.Comment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, reference_type, reference_id, content, created_at
		FROM comments
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, string(referenceType), referenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []comment.Comment
	for rows.Next() {
		var c comment.Comment
		var refType string
		if err := rows.Scan(&c.ID, &refType, &c.ReferenceID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.ReferenceType = comment.ReferenceType(refType)
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
