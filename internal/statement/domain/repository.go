package statement

import "context"

// Repository persists monthly statements, one per (company, period).
type Repository interface {
	Save(ctx context.Context, stmt *MonthlyStatement) error
	Find(ctx context.Context, agencyCompanyID, period string) (*MonthlyStatement, error)
	ListByCompany(ctx context.Context, agencyCompanyID string) ([]MonthlyStatement, error)
}
