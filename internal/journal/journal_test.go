package journal

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/mine-game/internal/eventbus"
	"github.com/annel0/mine-game/internal/logging"
)

func entry(id, typ string) Entry {
	return Entry{ID: id, Type: typ, Timestamp: time.Now().UTC()}
}

func TestMemoryJournalRing(t *testing.T) {
	j := NewMemoryJournal(3)
	ctx := context.Background()

	for i, typ := range []string{"A", "B", "A", "B"} {
		require.NoError(t, j.Record(ctx, entry(string(rune('0'+i)), typ)))
	}

	all, err := j.Recent(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3, "старейшая запись вытеснена")
	assert.Equal(t, []string{"3", "2", "1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	onlyA, err := j.Recent(ctx, "A", 0)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "2", onlyA[0].ID)

	limited, err := j.Recent(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAttachRecordsBusEvents(t *testing.T) {
	bus := eventbus.NewMemoryBus(8)
	j := NewMemoryJournal(8)

	_, err := Attach(bus, j, logging.GetComponentLogger("journal-test"))
	require.NoError(t, err)

	ev, err := eventbus.NewEnvelope("test", eventbus.TypeRockMined, eventbus.RockMined{Location: "VillageMine", Rock: "Coal"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))
	require.NoError(t, bus.Close())

	got, err := j.Recent(context.Background(), eventbus.TypeRockMined, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ev.ID, got[0].ID)
	assert.Equal(t, "Coal", got[0].Data["rock"])
}

func TestFromEnvelopeKeepsBadPayload(t *testing.T) {
	e := FromEnvelope(&eventbus.Envelope{ID: "x", EventType: "Broken", Payload: []byte("{")})
	assert.Equal(t, "{", e.Data["raw"])
}

func TestMongoJournal(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI не задан")
	}
	j, err := NewMongoJournal(MongoConfig{URI: uri, Database: "minegame_test", Collection: "events_" + time.Now().Format("150405")})
	require.NoError(t, err)
	defer j.Close(context.Background())

	ctx := context.Background()
	require.NoError(t, j.Record(ctx, entry("m1", eventbus.TypeMobDefeated)))
	require.NoError(t, j.Record(ctx, entry("m1", eventbus.TypeMobDefeated)), "повтор игнорируется")

	got, err := j.Recent(ctx, eventbus.TypeMobDefeated, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
