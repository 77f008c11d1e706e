package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/tazhibayda/hop-service/internal/domain"
	"github.com/tazhibayda/hop-service/internal/log"
)

// UpsertUser creates or refreshes the user document for u.ID in one atomic
// conditional write: _id, kind and created_at are set only on insert, every
// mutable field is overwritten on each re-registration. Calling it twice with
// identical input leaves the stored document unchanged apart from updated_at.
func (s *Store) UpsertUser(ctx context.Context, u domain.User) (*domain.User, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.upsert",
		tracer.Tag("user_id", u.ID),
	)
	defer sp.Finish()

	now := time.Now().UTC()
	res := s.colUsers.FindOneAndUpdate(ctx,
		bson.M{"_id": u.ID},
		bson.M{
			"$set": bson.M{
				"name":          u.Name,
				"firstname":     u.Firstname,
				"lastname":      u.Lastname,
				"access_token":  u.AccessToken,
				"expires_at":    u.ExpiresAt,
				"refresh_token": u.RefreshToken,
				"updated_at":    now,
			},
			"$setOnInsert": bson.M{
				"kind":       domain.KindUser,
				"created_at": now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var stored domain.User
	if err := res.Decode(&stored); err != nil {
		sp.SetTag("error", err)
		return nil, fmt.Errorf("%w: upsert user %s: %v", domain.ErrStorageUnavailable, u.ID, err)
	}
	return &stored, nil
}

// ListUsers returns every document tagged kind="user". Ordering comes from the
// store and is not stable across calls. Documents that fail validation are
// quarantined: skipped and logged, never returned.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.list")
	defer sp.Finish()

	cur, err := s.colUsers.Find(ctx, bson.M{"kind": domain.KindUser})
	if err != nil {
		sp.SetTag("error", err)
		return nil, fmt.Errorf("%w: list users: %v", domain.ErrStorageUnavailable, err)
	}
	defer cur.Close(ctx)

	var out []domain.User
	for cur.Next(ctx) {
		var u domain.User
		if err := cur.Decode(&u); err != nil {
			log.WithDD(ctx, log.L).Warn("skip undecodable user document", zap.Error(err))
			continue
		}
		if err := u.Validate(); err != nil {
			log.WithDD(ctx, log.L).Warn("quarantine malformed user document",
				zap.String("user_id", u.ID), zap.Error(err))
			continue
		}
		out = append(out, u)
	}
	if err := cur.Err(); err != nil {
		sp.SetTag("error", err)
		return nil, fmt.Errorf("%w: list users: %v", domain.ErrStorageUnavailable, err)
	}
	return out, nil
}

// DeleteAllUsers wipes the user collection. Admin use only.
func (s *Store) DeleteAllUsers(ctx context.Context) (int64, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.users.delete_all")
	defer sp.Finish()

	res, err := s.colUsers.DeleteMany(ctx, bson.M{"kind": domain.KindUser})
	if err != nil {
		sp.SetTag("error", err)
		return 0, fmt.Errorf("%w: delete users: %v", domain.ErrStorageUnavailable, err)
	}
	return res.DeletedCount, nil
}
