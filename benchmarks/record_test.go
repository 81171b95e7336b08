package benchmarks

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/randalmurphal/evgen/pkg/evgen"
	"github.com/randalmurphal/evgen/pkg/evgen/event"
	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

// completeEvent returns the record of one generated event.
func completeEvent(b *testing.B) *event.Event {
	b.Helper()
	gen := mustGenerator(b, evgen.DefaultSettings())
	if err := gen.Next(context.Background()); err != nil {
		b.Fatal(err)
	}
	return gen.Event()
}

// BenchmarkEvent_AppendClear fills and clears a record of 100 entries.
func BenchmarkEvent_AppendClear(b *testing.B) {
	ev := event.New(species.Default())
	p := event.NewParticle(211, 1, 0, 0, 0, 0, 0, 0, event.Vec4{Z: 1, T: 1.01}, 0.13957, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ev.Clear()
		for j := 0; j < 100; j++ {
			ev.Append(p)
		}
	}
}

// BenchmarkEvent_Copy appends daughter copies.
func BenchmarkEvent_Copy(b *testing.B) {
	ev := event.New(species.Default())
	ev.AppendNew(90, -11, 0, 0, 0, 0, 0, 0, event.Vec4{T: 10}, 10, 0)
	ev.AppendNew(2, 23, 0, 0, 0, 0, 101, 0, event.Vec4{Z: 5, T: 5}, 0, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if ev.Size() > 1000 {
			ev.Clear()
			ev.AppendNew(90, -11, 0, 0, 0, 0, 0, 0, event.Vec4{T: 10}, 10, 0)
			ev.AppendNew(2, 23, 0, 0, 0, 0, 101, 0, event.Vec4{Z: 5, T: 5}, 0, 0)
		}
		ev.Copy(ev.Size()-1, 52)
	}
}

// BenchmarkEvent_History walks mothers and ancestry of every entry.
func BenchmarkEvent_History(b *testing.B) {
	ev := completeEvent(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 1; j < ev.Size(); j++ {
			_ = ev.MotherList(j)
			_ = ev.IsAncestor(j, 1)
		}
	}
}

// BenchmarkEvent_CheckColours checks colour closure of a parton record.
func BenchmarkEvent_CheckColours(b *testing.B) {
	ev := completeEvent(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ev.CheckColours()
	}
}

// BenchmarkEvent_List writes a full listing.
func BenchmarkEvent_List(b *testing.B) {
	ev := completeEvent(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ev.List(io.Discard, event.ListOptions{MothersAndDaughters: true})
	}
}

// BenchmarkEvent_MarshalJSON serializes a complete event.
func BenchmarkEvent_MarshalJSON(b *testing.B) {
	ev := completeEvent(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(ev)
	}
}
