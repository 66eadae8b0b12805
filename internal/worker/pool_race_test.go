package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fakebaseball/stats-api/internal/models"
)

func TestPool_RaceCondition(t *testing.T) {
	writer := &MockWriter{}
	p := NewPool(PoolConfig{
		WorkerCount:   2,
		QueueSize:     1000,
		BatchSize:     10,
		FlushInterval: 10 * time.Millisecond,
		Writer:        writer,
		Logger:        zap.NewNop(),
	})
	p.Start(context.Background())

	wg := sync.WaitGroup{}
	producers := 10
	perProducer := 100

	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			batch := uuid.New()
			for j := 0; j < perProducer; j++ {
				p.Enqueue(&models.PlateAppearance{PAID: int64(i*perProducer + j + 1), HitterID: int64(j + 1)}, batch)
				if j%10 == 0 {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	wg.Wait()
	p.Stop()

	if got := len(writer.Written()); got != producers*perProducer {
		t.Errorf("wrote %d appearances, want %d", got, producers*perProducer)
	}
}
