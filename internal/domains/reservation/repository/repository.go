package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"motorpool/infras/otel"
	"motorpool/infras/postgres"
	"motorpool/internal/domains/reservation/model"
	"motorpool/shared/constant"
	gDto "motorpool/shared/dto"
	"motorpool/shared/logger"
	gRepo "motorpool/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrTimeSlotTaken signals that the requested window collides with an
// existing reservation for the same car.
var ErrTimeSlotTaken = errors.New("time slot already reserved")

const overlapQuery = `
	SELECT id, car_id, user_id, user_name, user_department, start_time, end_time,
	       destination, passengers, is_maintenance, notes,
	       created_at, modified_at, created_by, modified_by
	FROM reservations
	WHERE car_id = :car_id
	  AND start_time < :end_time
	  AND end_time > :start_time
	  AND id != :exclude_id
	ORDER BY start_time`

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindOverlapping(ctx context.Context, carID string, start, end time.Time, excludeID string) ([]model.Reservation, error)
	InsertIfAvailable(ctx context.Context, res model.Reservation) (model.Reservation, error)
	UpdateIfAvailable(ctx context.Context, fields map[string]any, id, carID string, start, end time.Time) (model.Reservation, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// FindOverlapping returns the reservations for carID that intersect the
// half-open window [start, end), excluding the given reservation id.
func (repo *repositoryImpl) FindOverlapping(ctx context.Context, carID string, start, end time.Time, excludeID string) (res []model.Reservation, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.FindOverlapping")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, overlapQuery)

	args := map[string]any{
		"car_id":     carID,
		"start_time": start,
		"end_time":   end,
		"exclude_id": excludeID,
	}

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, overlapQuery)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to prepare statement (reservation): %w", err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &res, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}

	return res, nil
}

// InsertIfAvailable inserts the reservation inside a serializable transaction
// after re-checking the window. The reservations table also carries an
// exclusion constraint on (car_id, tstzrange(start_time, end_time)) so a
// conflicting insert that races past the re-check fails at commit.
// On conflict, the blocking reservation is returned with ErrTimeSlotTaken.
func (repo *repositoryImpl) InsertIfAvailable(ctx context.Context, res model.Reservation) (conflict model.Reservation, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.InsertIfAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		logger.ErrorWithStack(err)

		return conflict, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	conflict, err = repo.firstOverlappingTx(ctx, tx, res.CarID, res.StartTime, res.EndTime, res.ID)
	if err != nil {
		return conflict, err
	}

	if conflict.ID != constant.Empty {
		err = ErrTimeSlotTaken

		return conflict, err
	}

	if err = repo.InsertTx(ctx, tx, res); err != nil {
		return conflict, translateExclusionError(err)
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return conflict, translateExclusionError(err)
	}

	return conflict, nil
}

// UpdateIfAvailable applies the field updates inside a serializable
// transaction after re-checking that the new window is free.
func (repo *repositoryImpl) UpdateIfAvailable(ctx context.Context, fields map[string]any, id, carID string, start, end time.Time) (conflict model.Reservation, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.UpdateIfAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		logger.ErrorWithStack(err)

		return conflict, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	conflict, err = repo.firstOverlappingTx(ctx, tx, carID, start, end, id)
	if err != nil {
		return conflict, err
	}

	if conflict.ID != constant.Empty {
		err = ErrTimeSlotTaken

		return conflict, err
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	if err = repo.UpdateTx(ctx, tx, fields, filter); err != nil {
		return conflict, translateExclusionError(err)
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return conflict, translateExclusionError(err)
	}

	return conflict, nil
}

func (repo *repositoryImpl) firstOverlappingTx(ctx context.Context, tx *sqlx.Tx, carID string, start, end time.Time, excludeID string) (model.Reservation, error) {
	var overlap model.Reservation

	args := map[string]any{
		"car_id":     carID,
		"start_time": start,
		"end_time":   end,
		"exclude_id": excludeID,
	}

	prepare, err := tx.PrepareNamedContext(ctx, overlapQuery+" LIMIT 1")
	if err != nil {
		logger.ErrorWithStack(err)

		return overlap, fmt.Errorf("failed to prepare statement (reservation): %w", err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &overlap, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return overlap, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}

	return overlap, nil
}

func translateExclusionError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeExclusionViolation {
		return ErrTimeSlotTaken
	}

	return err
}
