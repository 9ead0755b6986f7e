package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/willowpath/scheduler-api/internal/models"
)

type archiveWriterStub struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *archiveWriterStub) Save(filename string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[filename] = data
	return filename, nil
}

func (s *archiveWriterStub) snapshot() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.files))
	for k, v := range s.files {
		out[k] = v
	}
	return out
}

func TestProposalArchiverWritesCSV(t *testing.T) {
	store := &archiveWriterStub{}
	archiver := NewProposalArchiver(store, zap.NewNop())
	archiver.Start(context.Background())
	defer archiver.Stop()

	start := time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC)
	archiver.Archive("p1", []models.ScheduleSlot{{
		TherapistID: "t1",
		ClientID:    "c1",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Score:       0.8,
	}})

	require.Eventually(t, func() bool {
		return len(store.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	for name, data := range store.snapshot() {
		assert.True(t, strings.HasSuffix(name, "/p1.csv"))
		assert.Contains(t, string(data), "Therapist")
		assert.Contains(t, string(data), "t1")
	}
}
