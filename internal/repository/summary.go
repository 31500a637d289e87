package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LoveUwUBotForeverMcBoss1999/tictactoe/internal/entity"
)

var ErrSummaryNotFound = errors.New("summary not found")

type SummaryRepository interface {
	Save(ctx context.Context, summary *entity.Summary) error
	GetByID(ctx context.Context, sessionID string) (*entity.Summary, error)
}

type dbSummary struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryRepository - summaries expire after ttl; zero keeps them until deleted.
func NewSummaryRepository(client *redis.Client, ttl time.Duration) SummaryRepository {
	return &dbSummary{
		client: client,
		ttl:    ttl,
	}
}

func summaryKey(sessionID string) string {
	return "summary:" + sessionID
}

func (that *dbSummary) Save(ctx context.Context, summary *entity.Summary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("could not marshal summary: %w", err)
	}

	if err = that.client.Set(ctx, summaryKey(summary.SessionID), summaryJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set summary: %w", err)
	}

	return nil
}

func (that *dbSummary) GetByID(ctx context.Context, sessionID string) (*entity.Summary, error) {
	response, err := that.client.Get(ctx, summaryKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSummaryNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get summary by id: %w", err)
	}

	var summary entity.Summary
	if err = json.Unmarshal([]byte(response), &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return &summary, nil
}
