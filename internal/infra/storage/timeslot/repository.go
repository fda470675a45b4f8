package timeslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/TMS-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// pgUniqueViolation код ошибки PostgreSQL unique_violation
const pgUniqueViolation = "23505"

// slotColumns колонки таблицы time_slots в порядке сканирования
var slotColumns = []string{
	"id",
	"therapist_id",
	"template_id",
	"slot_date",
	"start_time",
	"end_time",
	"is_booked",
	"booked_by",
	"state",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertIfAbsent вставляет слот, если слот с таким же
// (therapist_id, slot_date, start_time) ещё не существует среди активных.
// При дубликате возвращает ErrDuplicateSlot, не изменяя данные.
//
// Гарантию уникальности обеспечивает частичный уникальный индекс в БД:
// предварительная проверка существования на стороне вызывающего кода —
// только оптимизация, а не защита от гонки
func (r *Repository) InsertIfAbsent(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns(
			"therapist_id",
			"template_id",
			"slot_date",
			"start_time",
			"end_time",
			"is_booked",
			"state",
		).
		Values(
			slot.TherapistID,
			slot.TemplateID,
			slot.SlotDate,
			slot.StartTime,
			slot.EndTime,
			false,
			domain.StateActive,
		).
		Suffix(`ON CONFLICT (therapist_id, slot_date, start_time) WHERE state = 'active' DO NOTHING
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: InsertIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&createdAt,
		&updatedAt,
	)

	// DO NOTHING не возвращает строку при конфликте
	if err == sql.ErrNoRows {
		return nil, ErrDuplicateSlot
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrDuplicateSlot
		}
		return nil, fmt.Errorf("%w: InsertIfAbsent - execute insert: %v", ErrExecQuery, err)
	}

	slot.IsBooked = false
	slot.BookedBy = nil
	slot.State = domain.StateActive
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID (включая мягко удалённые)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.TimeSlot
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.TherapistID,
		&slot.TemplateID,
		&slot.SlotDate,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsBooked,
		&slot.BookedBy,
		&slot.State,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// MarkBooked условно помечает слот забронированным (compare-and-set):
// запись проходит только при is_booked = false и активном состоянии слота.
// Если условие не выполнено, возвращает ErrAlreadyBooked либо ErrSlotNotFound —
// различение выполняется повторным чтением.
//
// Именно этот условный UPDATE, а не предварительное чтение, защищает
// от двойного бронирования при конкурентных запросах
func (r *Repository) MarkBooked(ctx context.Context, slotID, patientID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_booked", true).
		Set("booked_by", patientID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":        slotID,
			"is_booked": false,
			"state":     domain.StateActive,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkBooked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Условие не сработало: слот занят, удалён или не существует
		slot, getErr := r.GetByID(ctx, slotID)
		if getErr != nil {
			return ErrSlotNotFound
		}
		if slot.IsDeleted() {
			return ErrSlotNotFound
		}
		return ErrAlreadyBooked
	}

	return nil
}

// MarkAvailable освобождает слот: сбрасывает пометку брони и идентификатор пациента
func (r *Repository) MarkAvailable(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_booked", false).
		Set("booked_by", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkAvailable - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkAvailable - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkAvailable - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// GetByTherapistWithFilter получает активные слоты терапевта с фильтрацией
// по периоду, занятости и нижней границе даты.
// Результат отсортирован по дате и времени начала (ASC)
func (r *Repository) GetByTherapistWithFilter(ctx context.Context, filter domain.SlotFilter) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{
			"therapist_id": filter.TherapistID,
			"state":        domain.StateActive,
		})

	// Нижняя граница даты: слоты в прошлом не предлагаются
	if filter.FromDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_date": *filter.FromDate})
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"slot_date": *filter.EndDate})
	}

	// Фильтрация по занятости
	if filter.IsBooked != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_booked": *filter.IsBooked})
	}

	query, args, err := selectBuilder.
		OrderBy("slot_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// Update обновляет времена слота (точечное административное редактирование)
// Забронированные и удалённые слоты редактировать нельзя
func (r *Repository) Update(ctx context.Context, slot *domain.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("slot_date", slot.SlotDate).
		Set("start_time", slot.StartTime).
		Set("end_time", slot.EndTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":        slot.ID,
			"is_booked": false,
			"state":     domain.StateActive,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// SoftDelete переводит слот в состояние deleted
// Забронированные слоты не удаляются этим методом: занятость проверяет сервис
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
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
		return ErrSlotNotFound
	}

	return nil
}

// Exists проверяет существование активного слота с указанным ключом
// Быстрая предварительная проверка перед InsertIfAbsent
func (r *Repository) Exists(ctx context.Context, therapistID int64, slotDate time.Time, startTime types.TimeString) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("time_slots").
		Where(squirrel.Eq{
			"therapist_id": therapistID,
			"slot_date":    slotDate,
			"start_time":   startTime,
			"state":        domain.StateActive,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.TimeSlot, error) {
	slots := make([]*domain.TimeSlot, 0)

	for rows.Next() {
		var slot domain.TimeSlot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.TherapistID,
			&slot.TemplateID,
			&slot.SlotDate,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsBooked,
			&slot.BookedBy,
			&slot.State,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slot.UpdatedAt = updatedAt.Time

		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
