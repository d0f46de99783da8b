package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQuizNotFound means the quiz id was never issued or already expired.
var ErrQuizNotFound = errors.New("quiz not found or expired")

// QuizStore keeps generated quizzes between the generate and grade
// calls. Entries expire; a graded-too-late quiz is simply gone.
type QuizStore interface {
	Save(ctx context.Context, quiz *Quiz) error
	Get(ctx context.Context, quizID string) (*Quiz, error)
}

// RedisQuizStore stores quizzes as JSON values with a TTL, so eviction
// is time-based and the store never grows unbounded.
type RedisQuizStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisQuizStore(client *redis.Client, ttl time.Duration) *RedisQuizStore {
	return &RedisQuizStore{client: client, ttl: ttl}
}

func quizKey(quizID string) string {
	return "quiz:" + quizID
}

func (s *RedisQuizStore) Save(ctx context.Context, quiz *Quiz) error {
	payload, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	if err := s.client.Set(ctx, quizKey(quiz.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store quiz: %w", err)
	}
	return nil
}

func (s *RedisQuizStore) Get(ctx context.Context, quizID string) (*Quiz, error) {
	payload, err := s.client.Get(ctx, quizKey(quizID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("fetch quiz: %w", err)
	}

	var quiz Quiz
	if err := json.Unmarshal(payload, &quiz); err != nil {
		return nil, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return &quiz, nil
}
