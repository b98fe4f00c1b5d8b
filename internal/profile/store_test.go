package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeTx records every statement and fails the first one matching failOn.
// The embedded interface panics on anything Apply is not supposed to call.
type fakeTx struct {
	pgx.Tx
	failOn string
	stmts  []string
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.stmts = append(f.stmts, sql)
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, errors.New("exec failed")
	}
	return pgconn.CommandTag{}, nil
}

// fakeRunner mirrors db.WithTx: an error from fn means rollback, nil means
// commit.
type fakeRunner struct {
	tx         *fakeTx
	calls      int
	committed  bool
	rolledBack bool
}

func (r *fakeRunner) WithTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	r.calls++
	if err := fn(r.tx); err != nil {
		r.rolledBack = true
		return err
	}
	r.committed = true
	return nil
}

func testStore(runner *fakeRunner) *Store {
	return &Store{tx: runner, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestStoreApply_EmptyUpdateNeverOpensTransaction(t *testing.T) {
	runner := &fakeRunner{tx: &fakeTx{}}
	s := testStore(runner)

	err := s.Apply(context.Background(), uuid.New(), &Update{})
	if !errors.Is(err, ErrNoFields) {
		t.Fatalf("err = %v, want ErrNoFields", err)
	}
	if runner.calls != 0 {
		t.Fatal("empty update must not open a transaction")
	}
}

func TestStoreApply_CoreFailureStopsSequenceAndRollsBack(t *testing.T) {
	runner := &fakeRunner{tx: &fakeTx{failOn: "UPDATE users"}}
	s := testStore(runner)

	u := Update{FirstName: strptr("Ada"), Bio: strptr("bio")}
	err := s.Apply(context.Background(), uuid.New(), &u)
	if err == nil {
		t.Fatal("expected the core update failure to surface")
	}

	if len(runner.tx.stmts) != 1 {
		t.Fatalf("statements = %v, want only the failing users UPDATE", runner.tx.stmts)
	}
	if !strings.HasPrefix(runner.tx.stmts[0], "UPDATE users") {
		t.Fatalf("first statement = %q", runner.tx.stmts[0])
	}
	if runner.committed || !runner.rolledBack {
		t.Fatalf("committed=%v rolledBack=%v, want rollback only", runner.committed, runner.rolledBack)
	}
}

func TestStoreApply_UpsertFailureRollsBack(t *testing.T) {
	runner := &fakeRunner{tx: &fakeTx{failOn: "INSERT INTO user_profiles"}}
	s := testStore(runner)

	u := Update{FirstName: strptr("Ada"), Bio: strptr("bio")}
	err := s.Apply(context.Background(), uuid.New(), &u)
	if err == nil {
		t.Fatal("expected the upsert failure to surface")
	}

	// the core update ran, the upsert failed; the rollback covers both
	if len(runner.tx.stmts) != 2 {
		t.Fatalf("statements = %v, want users UPDATE then profiles upsert", runner.tx.stmts)
	}
	if runner.committed || !runner.rolledBack {
		t.Fatalf("committed=%v rolledBack=%v, want rollback only", runner.committed, runner.rolledBack)
	}
}

func TestStoreApply_CommitsBothStatementsInOrder(t *testing.T) {
	runner := &fakeRunner{tx: &fakeTx{}}
	s := testStore(runner)

	u := Update{LastName: strptr("Lovelace"), Headline: strptr("engineer")}
	if err := s.Apply(context.Background(), uuid.New(), &u); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if len(runner.tx.stmts) != 2 {
		t.Fatalf("statements = %v, want two", runner.tx.stmts)
	}
	if !strings.HasPrefix(runner.tx.stmts[0], "UPDATE users") {
		t.Fatalf("first statement = %q, want the users UPDATE", runner.tx.stmts[0])
	}
	if !strings.HasPrefix(runner.tx.stmts[1], "INSERT INTO user_profiles") {
		t.Fatalf("second statement = %q, want the profiles upsert", runner.tx.stmts[1])
	}
	if !runner.committed || runner.rolledBack {
		t.Fatalf("committed=%v rolledBack=%v, want commit", runner.committed, runner.rolledBack)
	}
}

func TestStoreApply_SkipsAbsentStatementGroups(t *testing.T) {
	tests := []struct {
		name       string
		update     Update
		wantPrefix string
	}{
		{"profile only skips users UPDATE", Update{Bio: strptr("bio")}, "INSERT INTO user_profiles"},
		{"core only skips profiles upsert", Update{FirstName: strptr("Ada")}, "UPDATE users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{tx: &fakeTx{}}
			s := testStore(runner)

			if err := s.Apply(context.Background(), uuid.New(), &tt.update); err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			if len(runner.tx.stmts) != 1 {
				t.Fatalf("statements = %v, want exactly one", runner.tx.stmts)
			}
			if !strings.HasPrefix(runner.tx.stmts[0], tt.wantPrefix) {
				t.Fatalf("statement = %q, want prefix %q", runner.tx.stmts[0], tt.wantPrefix)
			}
			if !runner.committed {
				t.Fatal("single-statement update must still commit")
			}
		})
	}
}
