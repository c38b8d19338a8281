package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	db  *sql.DB
	rdb *redis.Client
	ctx context.Context
}

func NewStore(db *sql.DB, rdb *redis.Client) *Store {
	return &Store{
		db:  db,
		rdb: rdb,
		ctx: context.Background(),
	}
}

// RecordDishUsage bumps the usage counters of every dish included in a new
// order so kitchen reports can rank dishes by demand.
func (s *Store) RecordDishUsage(dishIDs []int) error {
	if len(dishIDs) == 0 {
		return nil
	}
	_, err := s.db.Exec(`
		UPDATE dishes
		SET times_used = times_used + 1,
		    last_used = NOW()
		WHERE id = ANY($1)
	`, pq.Array(dishIDs))
	return err
}

// UpdateDailyAnalytics maintains Redis sorted sets with per-dish popularity
// for the event's calendar day plus a per-menu order counter.
func (s *Store) UpdateDailyAnalytics(menuID int, dishIDs []int, at time.Time) error {
	day := at.Format("2006-01-02")
	dailyKey := fmt.Sprintf("analytics:daily:%s", day)
	for _, dishID := range dishIDs {
		s.rdb.ZIncrBy(s.ctx, dailyKey, 1, strconv.Itoa(dishID))
	}
	s.rdb.Expire(s.ctx, dailyKey, 7*24*time.Hour)

	menuKey := fmt.Sprintf("analytics:menu:%d:orders", menuID)
	if err := s.rdb.Incr(s.ctx, menuKey).Err(); err != nil {
		return err
	}
	s.rdb.Expire(s.ctx, menuKey, 7*24*time.Hour)
	return nil
}

// RecordCancellation tracks cancellations per day so the admin dashboard can
// surface churn. Dish usage counters are left untouched.
func (s *Store) RecordCancellation(menuID int, at time.Time) error {
	day := at.Format("2006-01-02")
	key := fmt.Sprintf("analytics:cancellations:%s", day)
	if err := s.rdb.ZIncrBy(s.ctx, key, 1, strconv.Itoa(menuID)).Err(); err != nil {
		return err
	}
	s.rdb.Expire(s.ctx, key, 7*24*time.Hour)
	return nil
}
