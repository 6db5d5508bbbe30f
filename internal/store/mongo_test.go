package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aishanaaz19/assignment-growthx/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestMongoIdentityRepository(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()

	mt.Run("create stores the id as _id", func(mt *mtest.T) {
		repo, err := NewMongoIdentityRepository(mt.DB, types.RoleAdmin)
		if err != nil {
			mt.Fatalf("new repo: %v", err)
		}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.Create(ctx, types.Identity{ID: "admin-1", Username: "bob", FullName: "Bob"})
		if err != nil {
			mt.Fatalf("create: %v", err)
		}
		if created.Role != types.RoleAdmin || created.CreatedAt.IsZero() {
			mt.Fatalf("unexpected identity: %+v", created)
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "insert" {
			mt.Fatalf("expected insert command, got %+v", evt)
		}
		if coll, _ := evt.Command.Lookup("insert").StringValueOK(); coll != "admins" {
			mt.Fatalf("inserted into %q", coll)
		}
		if id, _ := evt.Command.Lookup("documents", "0", "_id").StringValueOK(); id != "admin-1" {
			mt.Fatalf("unexpected _id %q", id)
		}
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		repo, _ := NewMongoIdentityRepository(mt.DB, types.RoleUser)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: username_1",
		}))

		_, err := repo.Create(ctx, types.Identity{Username: "alice"})
		if !errors.Is(err, ErrDuplicate) {
			mt.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	mt.Run("lookup by username", func(mt *mtest.T) {
		repo, _ := NewMongoIdentityRepository(mt.DB, types.RoleUser)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "assignments.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "user-1"},
			{Key: "username", Value: "alice"},
			{Key: "password_hash", Value: "hash"},
			{Key: "full_name", Value: "Alice"},
		}))

		identity, err := repo.GetByUsername(ctx, "alice")
		if err != nil {
			mt.Fatalf("get: %v", err)
		}
		if identity.ID != "user-1" || identity.PasswordHash != "hash" || identity.Role != types.RoleUser {
			mt.Fatalf("unexpected identity: %+v", identity)
		}
	})

	mt.Run("missing identity", func(mt *mtest.T) {
		repo, _ := NewMongoIdentityRepository(mt.DB, types.RoleUser)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "assignments.users", mtest.FirstBatch))

		if _, err := repo.GetByID(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMongoAssignmentRepository(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()

	assignmentDoc := func(id, admin string, status types.AssignmentStatus) bson.D {
		return bson.D{
			{Key: "_id", Value: id},
			{Key: "user_id", Value: "user-1"},
			{Key: "task", Value: "Grade essays"},
			{Key: "admin", Value: admin},
			{Key: "status", Value: string(status)},
		}
	}

	mt.Run("list filters on admin", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "assignments.assignments", mtest.FirstBatch,
			assignmentDoc("a1", "Bob", types.StatusPending),
			assignmentDoc("a2", "Bob", types.StatusAccepted),
		))

		list, err := repo.ListByAdmin(ctx, "Bob")
		if err != nil {
			mt.Fatalf("list: %v", err)
		}
		if len(list) != 2 || list[0].ID != "a1" || list[1].Status != types.StatusAccepted {
			mt.Fatalf("unexpected list: %+v", list)
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "find" {
			mt.Fatalf("expected find command, got %+v", evt)
		}
		if admin, _ := evt.Command.Lookup("filter", "admin").StringValueOK(); admin != "Bob" {
			mt.Fatalf("unexpected filter %s", evt.Command.Lookup("filter"))
		}
	})

	mt.Run("empty list is not nil", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "assignments.assignments", mtest.FirstBatch))

		list, err := repo.ListByAdmin(ctx, "Nobody")
		if err != nil {
			mt.Fatalf("list: %v", err)
		}
		if list == nil || len(list) != 0 {
			mt.Fatalf("expected empty list, got %#v", list)
		}
	})

	mt.Run("update returns the new document", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: assignmentDoc("a1", "Bob", types.StatusRejected)},
		))

		updated, err := repo.UpdateStatus(ctx, "a1", types.StatusRejected)
		if err != nil {
			mt.Fatalf("update: %v", err)
		}
		if updated.ID != "a1" || updated.Status != types.StatusRejected {
			mt.Fatalf("unexpected assignment: %+v", updated)
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "findAndModify" {
			mt.Fatalf("expected findAndModify, got %+v", evt)
		}
		if returnNew, _ := evt.Command.Lookup("new").BooleanOK(); !returnNew {
			mt.Fatalf("expected the updated document to be requested")
		}
		if id, _ := evt.Command.Lookup("query", "_id").StringValueOK(); id != "a1" {
			mt.Fatalf("unexpected query id %q", id)
		}
	})

	mt.Run("update of unknown assignment", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		if _, err := repo.UpdateStatus(ctx, "missing", types.StatusAccepted); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("get unknown assignment", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "assignments.assignments", mtest.FirstBatch))

		if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("duplicate id", func(mt *mtest.T) {
		repo := NewMongoAssignmentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Code: 11000, Message: "E11000 duplicate key error"}))

		if _, err := repo.Create(ctx, types.Assignment{ID: "a1"}); !errors.Is(err, ErrDuplicate) {
			mt.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})
}
