package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"questbridge-api/models"
)

const quizCachePrefix = "quiz:"

type QuizService interface {
	Generate(ctx context.Context, topic string) ([]models.QuizQuestion, error)
}

type quizService struct {
	generator QuestionGenerator
	cache     *redis.Client
	ttl       time.Duration
	log       *zap.Logger
}

// NewQuizService builds the quiz service. generator and cache may be nil:
// without a generator requests fail with InvalidState, without a cache every
// request reaches the model.
func NewQuizService(generator QuestionGenerator, cache *redis.Client, ttl time.Duration, log *zap.Logger) QuizService {
	return &quizService{generator: generator, cache: cache, ttl: ttl, log: log}
}

func (s *quizService) Generate(ctx context.Context, topic string) ([]models.QuizQuestion, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, invalidArgument("topic is required")
	}
	if s.generator == nil {
		return nil, invalidState("quiz generation is not configured")
	}

	key := quizCacheKey(topic)
	if questions, ok := s.cached(ctx, key); ok {
		return questions, nil
	}

	raw, err := s.generator.GenerateQuiz(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}
	questions, err := ParseQuiz(raw)
	if err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}

	s.store(ctx, key, questions)
	return questions, nil
}

func (s *quizService) cached(ctx context.Context, key string) ([]models.QuizQuestion, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("quiz cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var questions []models.QuizQuestion
	if err := sonic.Unmarshal(data, &questions); err != nil {
		s.log.Warn("quiz cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return questions, true
}

func (s *quizService) store(ctx context.Context, key string, questions []models.QuizQuestion) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	data, err := sonic.Marshal(questions)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.log.Warn("quiz cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func quizCacheKey(topic string) string {
	sum := sha1.Sum([]byte(strings.ToLower(topic)))
	return quizCachePrefix + hex.EncodeToString(sum[:])
}

// ParseQuiz extracts the question array from model output, which may be
// wrapped in a markdown code fence.
func ParseQuiz(raw string) ([]models.QuizQuestion, error) {
	body := strings.TrimSpace(raw)
	if i := strings.Index(body, "```"); i >= 0 {
		body = body[i+3:]
		body = strings.TrimPrefix(body, "json")
		if j := strings.Index(body, "```"); j >= 0 {
			body = body[:j]
		}
		body = strings.TrimSpace(body)
	}

	var questions []models.QuizQuestion
	if err := sonic.UnmarshalString(body, &questions); err != nil {
		return nil, fmt.Errorf("model output is not a question array: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}

	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("question %d has no text", i+1)
		}
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d has %d options, want 4", i+1, len(q.Options))
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return nil, fmt.Errorf("question %d answer index %d is out of range", i+1, q.Answer)
		}
		if q.ID == 0 {
			questions[i].ID = i + 1
		}
	}
	return questions, nil
}
