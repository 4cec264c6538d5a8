package ground

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroundBooking/pkg/psqlbuilder"
)

// pgUniqueViolation нарушение уникального индекса
const pgUniqueViolation = "23505"

// Repository репозиторий для работы с площадками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория площадок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую площадку
func (r *Repository) Create(ctx context.Context, ground *domain.Ground) (*domain.Ground, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("grounds").
		Columns("name", "category", "active").
		Values(ground.Name, ground.Category, ground.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&ground.ID, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	ground.CreatedAt = createdAt.Time
	ground.UpdatedAt = updatedAt.Time

	return ground, nil
}

// GetByID получает площадку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Ground, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"category",
		"active",
		"created_at",
		"updated_at",
	).
		From("grounds").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var ground domain.Ground
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&ground.ID,
		&ground.Name,
		&ground.Category,
		&ground.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrGroundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan ground: %v", ErrScanRow, err)
	}

	ground.CreatedAt = createdAt.Time
	ground.UpdatedAt = updatedAt.Time

	return &ground, nil
}

// List получает площадки, отсортированные по имени.
// onlyActive - только площадки, принимающие бронирования.
func (r *Repository) List(ctx context.Context, onlyActive bool) ([]*domain.Ground, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"name",
		"category",
		"active",
		"created_at",
		"updated_at",
	).
		From("grounds").
		OrderBy("name ASC")

	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	grounds := make([]*domain.Ground, 0)

	for rows.Next() {
		var ground domain.Ground
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&ground.ID,
			&ground.Name,
			&ground.Category,
			&ground.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}

		ground.CreatedAt = createdAt.Time
		ground.UpdatedAt = updatedAt.Time

		grounds = append(grounds, &ground)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return grounds, nil
}

// Update обновляет имя, категорию и активность площадки
func (r *Repository) Update(ctx context.Context, id int64, ground *domain.Ground) (*domain.Ground, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("grounds").
		Set("name", ground.Name).
		Set("category", ground.Category).
		Set("active", ground.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrGroundNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	ground.ID = id
	ground.CreatedAt = createdAt.Time
	ground.UpdatedAt = updatedAt.Time

	return ground, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
