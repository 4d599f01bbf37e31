package comment

import "context"

type CommentRepository interface {
	Create(ctx context.Context, c Comment) (Comment, error)
	ListByReference(ctx context.Context, referenceType ReferenceType, referenceID string) ([]Comment, error)
}
