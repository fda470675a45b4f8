package template

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/TMS-SchedulingService/pkg/psqlbuilder"
)

// templateColumns колонки таблицы availability_templates в порядке сканирования
var templateColumns = []string{
	"id",
	"therapist_id",
	"day_of_week",
	"start_time",
	"end_time",
	"session_duration_minutes",
	"break_minutes",
	"state",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с шаблонами доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый шаблон доступности
func (r *Repository) Create(ctx context.Context, tpl *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_templates").
		Columns(
			"therapist_id",
			"day_of_week",
			"start_time",
			"end_time",
			"session_duration_minutes",
			"break_minutes",
			"state",
		).
		Values(
			tpl.TherapistID,
			tpl.DayOfWeek,
			tpl.StartTime,
			tpl.EndTime,
			tpl.SessionDurationMinutes,
			tpl.BreakMinutes,
			domain.StateActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tpl.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	tpl.State = domain.StateActive
	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	return tpl, nil
}

// GetByID получает шаблон по ID (включая мягко удалённые)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("availability_templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanTemplate(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByTherapistID получает активные шаблоны терапевта,
// отсортированные по дню недели (понедельник..воскресенье)
func (r *Repository) GetByTherapistID(ctx context.Context, therapistID int64) ([]*domain.AvailabilityTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Сортировка по дню недели через порядковый номер:
	// текстовые значения дней не упорядочены лексикографически
	query, args, err := psqlbuilder.Select(templateColumns...).
		From("availability_templates").
		Where(squirrel.Eq{"therapist_id": therapistID, "state": domain.StateActive}).
		OrderBy(dayOrderExpr+" ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanTemplates(rows)
}

// dayOrderExpr SQL-выражение порядкового номера дня недели
const dayOrderExpr = `array_position(ARRAY['monday','tuesday','wednesday','thursday','friday','saturday','sunday'], day_of_week)`

// Update обновляет изменяемые поля шаблона
// Обновление шаблона не затрагивает уже сгенерированные слоты
func (r *Repository) Update(ctx context.Context, tpl *domain.AvailabilityTemplate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_templates").
		Set("day_of_week", tpl.DayOfWeek).
		Set("start_time", tpl.StartTime).
		Set("end_time", tpl.EndTime).
		Set("session_duration_minutes", tpl.SessionDurationMinutes).
		Set("break_minutes", tpl.BreakMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tpl.ID, "state": domain.StateActive}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// SoftDelete переводит шаблон в состояние deleted
// Физическое удаление не выполняется, история генераций сохраняется
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_templates").
		Set("state", domain.StateDeleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "state": domain.StateActive}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// scanTemplate сканирует одну строку результата в шаблон
func (r *Repository) scanTemplate(row *sql.Row, op string) (*domain.AvailabilityTemplate, error) {
	var tpl domain.AvailabilityTemplate
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&tpl.ID,
		&tpl.TherapistID,
		&tpl.DayOfWeek,
		&tpl.StartTime,
		&tpl.EndTime,
		&tpl.SessionDurationMinutes,
		&tpl.BreakMinutes,
		&tpl.State,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan template: %v", ErrScanRow, op, err)
	}

	tpl.CreatedAt = createdAt.Time
	tpl.UpdatedAt = updatedAt.Time

	return &tpl, nil
}

// scanTemplates сканирует результаты запроса в слайс шаблонов
func (r *Repository) scanTemplates(rows *sql.Rows) ([]*domain.AvailabilityTemplate, error) {
	templates := make([]*domain.AvailabilityTemplate, 0)

	for rows.Next() {
		var tpl domain.AvailabilityTemplate
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&tpl.ID,
			&tpl.TherapistID,
			&tpl.DayOfWeek,
			&tpl.StartTime,
			&tpl.EndTime,
			&tpl.SessionDurationMinutes,
			&tpl.BreakMinutes,
			&tpl.State,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanTemplates - scan row: %v", ErrScanRow, err)
		}

		tpl.CreatedAt = createdAt.Time
		tpl.UpdatedAt = updatedAt.Time

		templates = append(templates, &tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTemplates - rows error: %v", ErrScanRow, err)
	}

	return templates, nil
}
