package feedback

import (
	"sync"
	"time"

	"ConfidenceMeter/internal/domain/models"
)

type bucket struct {
	sum   float64
	count int
}

// Service accumulates crowd ratings, one bucket per calendar day.
// Votes are not part of the confidence computation; they only feed the
// daily average endpoint.
type Service struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func New() *Service {
	return &Service{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (s *Service) dayKey() string {
	return s.now().Format("2006-01-02")
}

// AddVote records a single 0-100 rating for today.
func (s *Service) AddVote(score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.dayKey()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{}
		s.buckets[key] = b
	}
	b.sum += score
	b.count++
}

// TodayStats returns today's average and vote count; a day with no
// votes averages 0.
func (s *Service) TodayStats() models.FeedbackStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[s.dayKey()]
	if !ok || b.count == 0 {
		return models.FeedbackStats{}
	}
	return models.FeedbackStats{
		Average: b.sum / float64(b.count),
		Count:   b.count,
	}
}
