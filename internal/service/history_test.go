package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
)

func TestChangeTracker_NoOpEmitsNothing(t *testing.T) {
	t.Parallel()
	ledger := &fakeLedger{}
	tr := NewChangeTracker(ledger)

	for _, v := range []string{"", "NULL", "AVAILABLE", "some note"} {
		if err := tr.Changed(context.Background(), "A-000001", FieldStatusNote, v, v, "alice"); err != nil {
			t.Fatalf("Changed: %v", err)
		}
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("equal old/new must emit nothing, got %d entries", len(ledger.entries))
	}
}

func TestChangeTracker_ChangeEmitsOneEntry(t *testing.T) {
	t.Parallel()
	ledger := &fakeLedger{}
	tr := NewChangeTracker(ledger)
	tr.clock = fixedClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	if err := tr.Changed(context.Background(), "A-000001", FieldStatus, "AVAILABLE", "RESERVED", "alice"); err != nil {
		t.Fatalf("Changed: %v", err)
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("want exactly 1 entry, got %d", len(ledger.entries))
	}
	e := ledger.entries[0]
	if e.AssetTag != "A-000001" || e.Field != FieldStatus || e.Old != "AVAILABLE" || e.New != "RESERVED" || e.Actor != "alice" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.ID == uuid.Nil {
		t.Fatalf("entry must carry an id")
	}
	if !e.CreatedAt.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("entry timestamp must come from the clock, got %v", e.CreatedAt)
	}
}

func TestChangeTracker_RecordIsUnconditional(t *testing.T) {
	t.Parallel()
	ledger := &fakeLedger{}
	tr := NewChangeTracker(ledger)

	if err := tr.Record(context.Background(), "A-000001", FieldAssignedUser, NullValue, NullValue, "alice"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("Record must always append, got %d entries", len(ledger.entries))
	}
}

func TestValueSerialization(t *testing.T) {
	t.Parallel()

	if got := StrValue(""); got != NullValue {
		t.Fatalf("empty string: want %q, got %q", NullValue, got)
	}
	if got := StrValue("x"); got != "x" {
		t.Fatalf("non-empty string: got %q", got)
	}
	if got := IDValue(nil); got != NullValue {
		t.Fatalf("nil id: want %q, got %q", NullValue, got)
	}
	id := uuid.Must(uuid.NewV4())
	if got := IDValue(&id); got != id.String() {
		t.Fatalf("id: want %q, got %q", id, got)
	}
	if got := DateValue(nil); got != NullValue {
		t.Fatalf("nil date: want %q, got %q", NullValue, got)
	}
	if got := DateValue(datePtr(2025, time.January, 10)); got != "2025-01-10" {
		t.Fatalf("date: got %q", got)
	}
}
