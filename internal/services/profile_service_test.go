package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestRecordViewIdempotent(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Own", "own@blog.test")
	viewer := f.register(t, "Vic", "vic@blog.test")

	for i := 0; i < 3; i++ {
		if err := f.profiles.RecordView(f.ctx, owner.ID, viewer.ID); err != nil {
			t.Fatalf("view #%d: %v", i, err)
		}
	}
	got := f.reload(t, owner)
	if len(got.ViewedBy) != 1 || got.ViewedBy[0] != viewer.ID {
		t.Fatalf("viewedBy = %v, want [%v]", got.ViewedBy, viewer.ID)
	}
}

func TestRecordViewIgnoresSelf(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Own", "own@blog.test")

	if err := f.profiles.RecordView(f.ctx, owner.ID, owner.ID); err != nil {
		t.Fatalf("self view: %v", err)
	}
	if got := f.reload(t, owner); len(got.ViewedBy) != 0 {
		t.Fatalf("self view recorded: %v", got.ViewedBy)
	}
}

func TestRecordViewMissingOwner(t *testing.T) {
	f := newFixture(t)
	viewer := f.register(t, "Vic", "vic@blog.test")
	wantIs(t, f.profiles.RecordView(f.ctx, bson.NewObjectID(), viewer.ID), ErrUserNotFound)
}
