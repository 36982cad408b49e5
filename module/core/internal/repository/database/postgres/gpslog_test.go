package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/Morpheus61/relishagro-backend/module/core/domain"
)

func gpsRow(dispatchID uuid.UUID, ts time.Time) *domain.GPSLog {
	return &domain.GPSLog{
		ID:         uuid.New(),
		DispatchID: dispatchID,
		Latitude:   8.43,
		Longitude:  77.43,
		Timestamp:  ts,
	}
}

func TestGPSAppend_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	log := gpsRow(uuid.New(), time.Unix(1715003456, 0))
	mock.ExpectExec(`INSERT INTO gps_tracking_logs`).
		WithArgs(log.ID, log.DispatchID, log.Latitude, log.Longitude, nil, log.Timestamp, false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewGPSLogRepo(db)
	if err := repo.Append(context.Background(), log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGPSHistory_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	dispatchID := uuid.New()
	ts1 := time.Unix(1715005000, 0)
	ts2 := time.Unix(1715000000, 0)

	rows := sqlmock.NewRows([]string{"id", "dispatch_id", "latitude", "longitude", "speed", "timestamp", "is_offline_queued", "synced_at"}).
		AddRow(uuid.New(), dispatchID, 8.44, 77.44, 40.0, ts1, false, nil).
		AddRow(uuid.New(), dispatchID, 8.43, 77.43, nil, ts2, true, ts2)

	mock.ExpectQuery(`SELECT (.+) FROM gps_tracking_logs WHERE dispatch_id = (.+) ORDER BY timestamp DESC LIMIT (.+)`).
		WithArgs(dispatchID, 100).
		WillReturnRows(rows)

	repo := NewGPSLogRepo(db)
	results, err := repo.History(context.Background(), dispatchID, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(results))
	}
	if results[0].Speed == nil || *results[0].Speed != 40.0 {
		t.Errorf("expected speed 40.0, got %v", results[0].Speed)
	}
	if results[1].Speed != nil {
		t.Errorf("expected nil speed, got %v", results[1].Speed)
	}
	if !results[1].IsOfflineQueued {
		t.Error("expected offline-queued flag preserved")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGPSHistory_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	dispatchID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM gps_tracking_logs`).
		WithArgs(dispatchID, 100).
		WillReturnError(sqlmock.ErrCancelled)

	repo := NewGPSLogRepo(db)
	_, err = repo.History(context.Background(), dispatchID, 100)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGPSSyncBatch_SkipsDuplicates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	dispatchID := uuid.New()
	fresh := gpsRow(dispatchID, time.Unix(1715000000, 0))
	dup := gpsRow(dispatchID, time.Unix(1715000060, 0))

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT sync_row`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO gps_tracking_logs`).
		WithArgs(fresh.ID, fresh.DispatchID, fresh.Latitude, fresh.Longitude, nil, fresh.Timestamp, false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`SAVEPOINT sync_row`).WillReturnResult(sqlmock.NewResult(0, 0))
	// Conflict target (dispatch_id, timestamp) suppresses the duplicate.
	mock.ExpectExec(`INSERT INTO gps_tracking_logs`).
		WithArgs(dup.ID, dup.DispatchID, dup.Latitude, dup.Longitude, nil, dup.Timestamp, false, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	repo := NewGPSLogRepo(db)
	result, err := repo.SyncBatch(context.Background(), []*domain.GPSLog{fresh, dup})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SyncedCount != 1 {
		t.Errorf("expected 1 synced, got %d", result.SyncedCount)
	}
	if result.FailedCount != 0 {
		t.Errorf("duplicates are not failures, got %d", result.FailedCount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGPSSyncBatch_InsertFailureIsolated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	dispatchID := uuid.New()
	bad := gpsRow(dispatchID, time.Unix(1715000000, 0))
	good := gpsRow(dispatchID, time.Unix(1715000060, 0))

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT sync_row`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO gps_tracking_logs`).
		WithArgs(bad.ID, bad.DispatchID, bad.Latitude, bad.Longitude, nil, bad.Timestamp, false, nil).
		WillReturnError(sqlmock.ErrCancelled)
	// Rolling back to the savepoint keeps the transaction usable for the
	// remaining rows.
	mock.ExpectExec(`ROLLBACK TO SAVEPOINT sync_row`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`SAVEPOINT sync_row`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO gps_tracking_logs`).
		WithArgs(good.ID, good.DispatchID, good.Latitude, good.Longitude, nil, good.Timestamp, false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewGPSLogRepo(db)
	result, err := repo.SyncBatch(context.Background(), []*domain.GPSLog{bad, good})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SyncedCount != 1 {
		t.Errorf("expected 1 synced, got %d", result.SyncedCount)
	}
	if result.FailedCount != 1 {
		t.Fatalf("expected 1 failed, got %d", result.FailedCount)
	}
	if result.FailedRecords[0].Index != 0 {
		t.Errorf("expected failed index 0, got %d", result.FailedRecords[0].Index)
	}
}

func TestGPSSyncBatch_BrokenTransactionSurfacesAsBatchError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	dispatchID := uuid.New()
	bad := gpsRow(dispatchID, time.Unix(1715000000, 0))
	good := gpsRow(dispatchID, time.Unix(1715000060, 0))

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT sync_row`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO gps_tracking_logs`).
		WithArgs(bad.ID, bad.DispatchID, bad.Latitude, bad.Longitude, nil, bad.Timestamp, false, nil).
		WillReturnError(sqlmock.ErrCancelled)
	// When even the savepoint rollback fails the connection is unusable;
	// the batch must fail whole rather than report per-row results.
	mock.ExpectExec(`ROLLBACK TO SAVEPOINT sync_row`).WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	repo := NewGPSLogRepo(db)
	_, err = repo.SyncBatch(context.Background(), []*domain.GPSLog{bad, good})
	if err == nil {
		t.Fatal("expected batch error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGPSSyncBatch_CommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	log := gpsRow(uuid.New(), time.Unix(1715000000, 0))

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT sync_row`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO gps_tracking_logs`).
		WithArgs(log.ID, log.DispatchID, log.Latitude, log.Longitude, nil, log.Timestamp, false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	repo := NewGPSLogRepo(db)
	_, err = repo.SyncBatch(context.Background(), []*domain.GPSLog{log})
	if err == nil {
		t.Fatal("expected commit error")
	}
}
