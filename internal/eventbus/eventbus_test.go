package eventbus

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/mine-game/internal/logging"
)

func mustEnvelope(t *testing.T, typ string, payload any) *Envelope {
	t.Helper()
	ev, err := NewEnvelope("test", typ, payload)
	require.NoError(t, err)
	return ev
}

func TestMemoryBusDeliversByFilter(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	var mined, all atomic.Int32
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{TypeRockMined}}, func(ctx context.Context, ev *Envelope) {
		mined.Add(1)
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		all.Add(1)
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, TypeRockMined, RockMined{Location: "village_mine", Rock: "copper"})))
	require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, TypeCaveGenerated, CaveGenerated{Location: "village_mine"})))

	require.Eventually(t, func() bool { return all.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), mined.Load(), "фильтр по типу пропускает только RockMined")

	require.Eventually(t, func() bool { return bus.Metrics().Consumed == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(2), bus.Metrics().Published)
}

func TestMemoryBusDropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	defer bus.Close()

	block := make(chan struct{})
	var once sync.Once
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		once.Do(func() { <-block })
	})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, TypeRockRespawned, RockRespawned{})))
	}
	close(block)

	s := bus.Metrics()
	assert.Equal(t, uint64(10), s.Published+s.Dropped)
}

func TestMemoryBusUnsubscribeAndClose(t *testing.T) {
	bus := NewMemoryBus(4)

	var got atomic.Int32
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		got.Add(1)
	})
	require.NoError(t, err)
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, TypeMobDefeated, MobDefeated{})))
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close(), "повторное закрытие безопасно")

	assert.Equal(t, int32(0), got.Load())
	assert.ErrorIs(t, bus.Publish(context.Background(), mustEnvelope(t, TypeMobDefeated, MobDefeated{})), ErrClosed)
	_, err = bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryBusPreservesOrderPerSubscriber(t *testing.T) {
	bus := NewMemoryBus(64)

	var mu sync.Mutex
	var got []int
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		p, err := Decode[RockRespawned](ev)
		assert.NoError(t, err)
		mu.Lock()
		got = append(got, p.X)
		mu.Unlock()
	})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, TypeRockRespawned, RockRespawned{X: i})))
	}
	require.NoError(t, bus.Close(), "Close дожидается доставки")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 20)
	for i, x := range got {
		assert.Equal(t, i, x, "события приходят в порядке публикации")
	}
}

func TestEnvelopePriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, mustEnvelope(t, TypeCaveGenerated, CaveGenerated{}).Priority)
	assert.Equal(t, PriorityNormal, mustEnvelope(t, TypeRockMined, RockMined{}).Priority)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	in := RockMined{Location: "deep_mine", Rock: "iron", X: 3, Y: 4, Drops: []Drop{{Item: "iron_ore", Quantity: 2}}}
	ev := mustEnvelope(t, TypeRockMined, in)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, SchemaVersion, ev.Version)

	out, err := Decode[RockMined](ev)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	ev.Payload = []byte("{")
	_, err = Decode[RockMined](ev)
	assert.Error(t, err)
}

func TestLoggingListener(t *testing.T) {
	bus := NewMemoryBus(4)

	var buf safeBuffer
	_, err := StartLoggingListener(bus, logging.NewWriterLogger("events", &buf, logging.DEBUG))
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, TypeCaveGenerated, CaveGenerated{})))
	require.NoError(t, bus.Close())
	assert.Contains(t, buf.String(), TypeCaveGenerated)
}

func TestRegisterMetrics(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()

	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(bus, reg, "memory"))

	require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, TypeRockMined, RockMined{})))
	require.NoError(t, bus.Publish(context.Background(), mustEnvelope(t, TypeRockMined, RockMined{})))

	families, err := reg.Gather()
	require.NoError(t, err)
	var published *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "eventbus_messages_published_total" {
			published = f
		}
	}
	require.NotNil(t, published)
	require.Len(t, published.GetMetric(), 1)
	m := published.GetMetric()[0]
	assert.Equal(t, 2.0, m.GetCounter().GetValue())
	assert.Equal(t, "memory", m.GetLabel()[0].GetValue())

	assert.Error(t, RegisterMetrics(bus, reg, "memory"), "повторная регистрация отклоняется")
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
