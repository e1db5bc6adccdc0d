package postgres

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/Christian-Regnante/second-smartq/internal/models"
	"github.com/Christian-Regnante/second-smartq/internal/store"

	"github.com/jackc/pgx/v5"
)

func (s *Store) JoinQueue(ctx context.Context, input store.JoinQueueInput) (store.Ticket, error) {
	joinedAt := input.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = time.Now().UTC()
	}

	if !s.serialize {
		return s.joinQueue(ctx, s.pool, input, joinedAt, false)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return store.Ticket{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	ticket, err := s.joinQueue(ctx, tx, input, joinedAt, true)
	if err != nil {
		return store.Ticket{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return store.Ticket{}, err
	}
	return ticket, nil
}

func (s *Store) joinQueue(ctx context.Context, q querier, input store.JoinQueueInput, joinedAt time.Time, lock bool) (store.Ticket, error) {
	query := `
		SELECT id, name, counter_number, avg_service_time
		FROM services
		WHERE id = $1
	`
	if lock {
		query += " FOR UPDATE"
	}

	var serviceName string
	var counterNull sql.NullString
	var avgServiceTime int
	var serviceID int64
	row := q.QueryRow(ctx, query, input.ServiceID)
	if err := row.Scan(&serviceID, &serviceName, &counterNull, &avgServiceTime); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Ticket{}, store.ErrServiceNotFound
		}
		return store.Ticket{}, err
	}

	dayStart, dayEnd := dayBounds(joinedAt)
	var todayCount int
	row = q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM queue_items
		WHERE service_id = $1 AND created_at >= $2 AND created_at < $3
	`, input.ServiceID, dayStart, dayEnd)
	if err := row.Scan(&todayCount); err != nil {
		return store.Ticket{}, err
	}

	var waitingCount int
	row = q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM queue_items
		WHERE service_id = $1 AND status = $2
	`, input.ServiceID, models.StatusWaiting)
	if err := row.Scan(&waitingCount); err != nil {
		return store.Ticket{}, err
	}

	item := models.QueueItem{
		QueueNumber: store.FormatQueueNumber(serviceName, todayCount+1),
		ServiceID:   input.ServiceID,
		PhoneNumber: input.PhoneNumber,
		Status:      models.StatusWaiting,
		CreatedAt:   joinedAt,
	}
	row = q.QueryRow(ctx, `
		INSERT INTO queue_items (queue_number, service_id, phone_number, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, item.QueueNumber, item.ServiceID, item.PhoneNumber, item.Status, item.CreatedAt)
	if err := row.Scan(&item.ID); err != nil {
		return store.Ticket{}, err
	}

	counter := ""
	if counterNull.Valid {
		counter = counterNull.String
	}
	return store.Ticket{
		Item:          item,
		ServiceName:   serviceName,
		Counter:       counter,
		Position:      waitingCount + 1,
		EstimatedWait: waitingCount * avgServiceTime,
	}, nil
}

func (s *Store) DisplayStatus(ctx context.Context, organizationID int64) ([]store.ServiceStatus, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.name, COALESCE(s.counter_number, ''),
			(SELECT q.queue_number FROM queue_items q
				WHERE q.service_id = s.id AND q.status = 'serving'
				ORDER BY q.called_at DESC LIMIT 1),
			(SELECT q.queue_number FROM queue_items q
				WHERE q.service_id = s.id AND q.status = 'waiting'
				ORDER BY q.created_at ASC, q.id ASC LIMIT 1),
			(SELECT COUNT(*) FROM queue_items q
				WHERE q.service_id = s.id AND q.status = 'waiting')
		FROM services s
		WHERE s.organization_id = $1 AND s.is_active = TRUE
		ORDER BY s.id ASC
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []store.ServiceStatus
	for rows.Next() {
		var status store.ServiceStatus
		var servingNull sql.NullString
		var nextNull sql.NullString
		if err := rows.Scan(&status.ServiceName, &status.Counter, &servingNull, &nextNull, &status.Waiting); err != nil {
			return nil, err
		}
		status.NowServing = nullStringPtr(servingNull)
		status.Next = nullStringPtr(nextNull)
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *Store) ListDayQueue(ctx context.Context, serviceID int64, day time.Time) ([]models.QueueItem, error) {
	dayStart, dayEnd := dayBounds(day)
	rows, err := s.pool.Query(ctx, `
		SELECT id, queue_number, service_id, phone_number, status, created_at, called_at, completed_at
		FROM queue_items
		WHERE service_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC, id ASC
	`, serviceID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.QueueItem
	for rows.Next() {
		var item models.QueueItem
		var calledAtNull sql.NullTime
		var completedAtNull sql.NullTime
		if err := rows.Scan(&item.ID, &item.QueueNumber, &item.ServiceID, &item.PhoneNumber, &item.Status, &item.CreatedAt, &calledAtNull, &completedAtNull); err != nil {
			return nil, err
		}
		item.CalledAt = nullTimePtr(calledAtNull)
		item.CompletedAt = nullTimePtr(completedAtNull)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CallNext closes any serving item for the service (stamping completed_at),
// then promotes the oldest waiting item to serving. The bool result is false
// when nobody is waiting, which is a normal outcome and not an error.
func (s *Store) CallNext(ctx context.Context, serviceID int64, now time.Time) (models.QueueItem, bool, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	if !s.serialize {
		return s.callNextLegacy(ctx, serviceID, now)
	}
	return s.callNextSerialized(ctx, serviceID, now)
}

// callNextLegacy runs the find-then-update sequences as independent
// statements against the pool. Two concurrent calls can promote two items
// at once; this mirrors the historical behavior.
func (s *Store) callNextLegacy(ctx context.Context, serviceID int64, now time.Time) (models.QueueItem, bool, error) {
	if _, err := s.pool.Exec(ctx, `
		UPDATE queue_items
		SET status = 'done', completed_at = $2
		WHERE service_id = $1 AND status = 'serving'
	`, serviceID, now); err != nil {
		return models.QueueItem{}, false, err
	}

	var nextID int64
	row := s.pool.QueryRow(ctx, `
		SELECT id
		FROM queue_items
		WHERE service_id = $1 AND status = 'waiting'
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`, serviceID)
	if err := row.Scan(&nextID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.QueueItem{}, false, nil
		}
		return models.QueueItem{}, false, err
	}

	item, err := promoteItem(ctx, s.pool, nextID, now)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.QueueItem{}, false, nil
		}
		return models.QueueItem{}, false, err
	}
	return item, true, nil
}

// callNextSerialized holds the service row lock for the whole
// close-then-promote sequence, so at most one item per service can be
// serving at any time even under concurrent calls.
func (s *Store) callNextSerialized(ctx context.Context, serviceID int64, now time.Time) (models.QueueItem, bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.QueueItem{}, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var lockedID int64
	row := tx.QueryRow(ctx, `
		SELECT id FROM services WHERE id = $1 FOR UPDATE
	`, serviceID)
	if err = row.Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.QueueItem{}, false, store.ErrServiceNotFound
		}
		return models.QueueItem{}, false, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE queue_items
		SET status = 'done', completed_at = $2
		WHERE service_id = $1 AND status = 'serving'
	`, serviceID, now); err != nil {
		return models.QueueItem{}, false, err
	}

	var item models.QueueItem
	item, err = promoteNext(ctx, tx, serviceID, now)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return models.QueueItem{}, false, err
		}
		if err = tx.Commit(ctx); err != nil {
			return models.QueueItem{}, false, err
		}
		return models.QueueItem{}, false, nil
	}

	if err = tx.Commit(ctx); err != nil {
		return models.QueueItem{}, false, err
	}
	return item, true, nil
}

func promoteItem(ctx context.Context, q querier, itemID int64, now time.Time) (models.QueueItem, error) {
	var item models.QueueItem
	var calledAtNull sql.NullTime
	var completedAtNull sql.NullTime
	row := q.QueryRow(ctx, `
		UPDATE queue_items
		SET status = 'serving', called_at = $2
		WHERE id = $1 AND status = 'waiting'
		RETURNING id, queue_number, service_id, phone_number, status, created_at, called_at, completed_at
	`, itemID, now)
	if err := row.Scan(&item.ID, &item.QueueNumber, &item.ServiceID, &item.PhoneNumber, &item.Status, &item.CreatedAt, &calledAtNull, &completedAtNull); err != nil {
		return models.QueueItem{}, err
	}
	item.CalledAt = nullTimePtr(calledAtNull)
	item.CompletedAt = nullTimePtr(completedAtNull)
	return item, nil
}

func promoteNext(ctx context.Context, q querier, serviceID int64, now time.Time) (models.QueueItem, error) {
	var item models.QueueItem
	var calledAtNull sql.NullTime
	var completedAtNull sql.NullTime
	row := q.QueryRow(ctx, `
		WITH next_item AS (
			SELECT id
			FROM queue_items
			WHERE service_id = $1 AND status = 'waiting'
			ORDER BY created_at ASC, id ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		UPDATE queue_items
		SET status = 'serving', called_at = $2
		FROM next_item
		WHERE queue_items.id = next_item.id
		RETURNING queue_items.id, queue_items.queue_number, queue_items.service_id,
			queue_items.phone_number, queue_items.status, queue_items.created_at,
			queue_items.called_at, queue_items.completed_at
	`, serviceID, now)
	if err := row.Scan(&item.ID, &item.QueueNumber, &item.ServiceID, &item.PhoneNumber, &item.Status, &item.CreatedAt, &calledAtNull, &completedAtNull); err != nil {
		return models.QueueItem{}, err
	}
	item.CalledAt = nullTimePtr(calledAtNull)
	item.CompletedAt = nullTimePtr(completedAtNull)
	return item, nil
}

// MarkDone completes an item owned by the given service. Items already in a
// terminal state report ErrItemNotFound, same as items owned elsewhere.
func (s *Store) MarkDone(ctx context.Context, itemID, serviceID int64, now time.Time) error {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE queue_items
		SET status = 'done', completed_at = $3
		WHERE id = $1 AND service_id = $2 AND status = ANY($4)
	`, itemID, serviceID, now, store.AllowedFrom("complete"))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrItemNotFound
	}
	return nil
}

// Skip moves an item directly to skipped without stamping completed_at, so
// skipped items never count as served.
func (s *Store) Skip(ctx context.Context, itemID, serviceID int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE queue_items
		SET status = 'skipped'
		WHERE id = $1 AND service_id = $2 AND status = ANY($3)
	`, itemID, serviceID, store.AllowedFrom("skip"))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrItemNotFound
	}
	return nil
}

func (s *Store) ComputeStats(ctx context.Context, serviceID int64, day time.Time) (store.DayStats, error) {
	dayStart, dayEnd := dayBounds(day)

	var stats store.DayStats
	var avgWait float64
	row := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'done'),
			COALESCE(AVG(EXTRACT(EPOCH FROM (called_at - created_at)) / 60.0)
				FILTER (WHERE status = 'done' AND called_at IS NOT NULL), 0)
		FROM queue_items
		WHERE service_id = $1 AND created_at >= $2 AND created_at < $3
	`, serviceID, dayStart, dayEnd)
	if err := row.Scan(&stats.ServedToday, &avgWait); err != nil {
		return store.DayStats{}, err
	}
	stats.AvgWaitMinutes = roundTenth(avgWait)

	row = s.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM queue_items
		WHERE service_id = $1 AND status = 'waiting'
	`, serviceID)
	if err := row.Scan(&stats.CurrentlyWaiting); err != nil {
		return store.DayStats{}, err
	}
	return stats, nil
}

func (s *Store) Analytics(ctx context.Context, organizationID int64, since time.Time) ([]store.ServiceAnalytics, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.name,
			COUNT(q.id) FILTER (WHERE q.status = 'done'),
			COALESCE(AVG(EXTRACT(EPOCH FROM (q.called_at - q.created_at)) / 60.0)
				FILTER (WHERE q.status = 'done' AND q.called_at IS NOT NULL), 0)
		FROM services s
		LEFT JOIN queue_items q ON q.service_id = s.id AND q.created_at >= $2
		WHERE s.organization_id = $1
		GROUP BY s.id, s.name
		ORDER BY s.id ASC
	`, organizationID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []store.ServiceAnalytics
	for rows.Next() {
		var entry store.ServiceAnalytics
		var avgWait float64
		if err := rows.Scan(&entry.ServiceName, &entry.TotalServed, &avgWait); err != nil {
			return nil, err
		}
		entry.AvgWaitMinutes = roundTenth(avgWait)
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func roundTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
