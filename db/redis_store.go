package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-redis/redis/v8"
	"welfare-dashboard-go/models"
)

const (
	rosterKey         = "students" // List: row ids in display order
	studentInfoPrefix = "student:" // Hash prefix: student:{id} -> row fields

	maxReplaceAttempts = 10
)

// Helper to generate student info key
func getStudentInfoKey(rowID string) string {
	return studentInfoPrefix + rowID
}

// RedisStore keeps the roster in Redis so every instance sees the same rows
type RedisStore struct {
	Client *redis.Client
	logger *slog.Logger
}

// NewRedisStore creates a new RedisStore instance
func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{Client: client, logger: logger}
}

// NewRedisClient creates a client and pings it
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// List returns the roster rows in stored order
func (s *RedisStore) List(ctx context.Context) ([]models.StudentRecord, error) {
	ids, err := s.Client.LRange(ctx, rosterKey, 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.StudentRecord{}, nil
		}
		return nil, fmt.Errorf("failed to get roster ids from Redis: %w", err)
	}

	pipe := s.Client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, getStudentInfoKey(id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to get roster rows from Redis: %w", err)
		}
	}

	records := make([]models.StudentRecord, 0, len(ids))
	for i, cmd := range cmds {
		data := cmd.Val()
		if len(data) == 0 {
			s.logger.WarnContext(ctx, "roster row missing, skipping", slog.String("row_id", ids[i]))
			continue
		}
		record, err := recordFromHash(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode roster row %s: %w", ids[i], err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Replace swaps the whole roster in one transaction. The roster list is
// watched so a concurrent Replace cannot leave rows of an older roster behind.
func (s *RedisStore) Replace(ctx context.Context, records []models.StudentRecord) error {
	replace := func(tx *redis.Tx) error {
		oldIDs, err := tx.LRange(ctx, rosterKey, 0, -1).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to get roster ids from Redis: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			stale := make([]string, 0, len(oldIDs)+1)
			stale = append(stale, rosterKey)
			for _, id := range oldIDs {
				stale = append(stale, getStudentInfoKey(id))
			}
			pipe.Del(ctx, stale...)

			for i, r := range records {
				id := strconv.Itoa(i)
				pipe.HSet(ctx, getStudentInfoKey(id), recordToHash(r))
				pipe.RPush(ctx, rosterKey, id)
			}
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxReplaceAttempts; attempt++ {
		err = s.Client.Watch(ctx, replace, rosterKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
		s.logger.DebugContext(ctx, "roster changed during replace, retrying", slog.Int("attempt", attempt+1))
	}
	if err != nil {
		return fmt.Errorf("failed to replace roster in Redis: %w", err)
	}

	s.logger.InfoContext(ctx, "roster replaced", slog.Int("count", len(records)))
	return nil
}

// Count returns the number of roster rows
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.Client.LLen(ctx, rosterKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to count roster rows: %w", err)
	}
	return int(n), nil
}

func recordToHash(r models.StudentRecord) map[string]interface{} {
	return map[string]interface{}{
		"name":           r.Name,
		"math":           r.Math,
		"science":        r.Science,
		"english":        r.English,
		"attendancePct":  strconv.FormatFloat(r.AttendancePct, 'f', -1, 64),
		"activityPoints": r.ActivityPoints,
	}
}

func recordFromHash(data map[string]string) (models.StudentRecord, error) {
	r := models.StudentRecord{Name: data["name"]}
	var err error

	ints := []struct {
		field string
		dst   *int
	}{
		{"math", &r.Math},
		{"science", &r.Science},
		{"english", &r.English},
		{"activityPoints", &r.ActivityPoints},
	}
	for _, f := range ints {
		if *f.dst, err = strconv.Atoi(data[f.field]); err != nil {
			return models.StudentRecord{}, fmt.Errorf("field %s: %w", f.field, err)
		}
	}

	if r.AttendancePct, err = strconv.ParseFloat(data["attendancePct"], 64); err != nil {
		return models.StudentRecord{}, fmt.Errorf("field attendancePct: %w", err)
	}
	return r, nil
}
