package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroundBooking/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	commitErr  error
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Commit() error {
	tx.committed = true
	return tx.commitErr
}

func (tx *fakeTx) Rollback() error {
	tx.rolledBack = true
	return nil
}

type fakeDB struct {
	beginErr  error
	commitErr []error
	txs       []*fakeTx
	opts      []*sql.TxOptions
}

func (db *fakeDB) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	tx := &fakeTx{}
	if n := len(db.txs); n < len(db.commitErr) {
		tx.commitErr = db.commitErr[n]
	}
	db.txs = append(db.txs, tx)
	db.opts = append(db.opts, opts)
	return tx, nil
}

func TestDo_CommitsAndPassesTx(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.False(t, db.txs[0].rolledBack)
}

func TestDo_RollsBackOnError(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)
	errSlot := errors.New("slot taken")

	err := m.Do(context.Background(), func(context.Context) error { return errSlot })

	assert.ErrorIs(t, err, errSlot)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
}

func TestDo_RollsBackOnPanic(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)

	assert.Panics(t, func() {
		_ = m.Do(context.Background(), func(context.Context) error { panic("boom") })
	})
	assert.True(t, db.txs[0].rolledBack)
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, db.txs, 1)
}

func TestDo_BeginAndCommitErrors(t *testing.T) {
	m := NewTransactionManager(&fakeDB{beginErr: errors.New("pool exhausted")})
	assert.ErrorIs(t, m.Do(context.Background(), func(context.Context) error { return nil }), ErrTransaction)

	m = NewTransactionManager(&fakeDB{commitErr: []error{errors.New("connection lost")}})
	assert.ErrorIs(t, m.Do(context.Background(), func(context.Context) error { return nil }), ErrTransaction)
}

func TestDoSerializable_RetriesSerializationFailures(t *testing.T) {
	serialization := &pq.Error{Code: pgSerializationFailure}
	db := &fakeDB{commitErr: []error{serialization, serialization}}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, sql.LevelSerializable, db.opts[0].Isolation)
}

func TestDoSerializable_GivesUp(t *testing.T) {
	db := &fakeDB{}
	m := NewTransactionManager(db)

	calls := 0
	err := m.DoSerializable(context.Background(), func(context.Context) error {
		calls++
		return fmt.Errorf("insert: %w", &pq.Error{Code: pgDeadlockDetected})
	})

	assert.True(t, IsRetryable(err))
	assert.Equal(t, defaultSerializableAttempts, calls)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", &pq.Error{Code: "40P01"})))
	assert.False(t, IsRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("timeout")))
	assert.False(t, IsRetryable(nil))
}
