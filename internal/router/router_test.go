package router

import (
	"sync"
	"testing"

	"github.com/tmsolberg/nmeahub/internal/bus"
	"github.com/tmsolberg/nmeahub/internal/nmea"
)

// capture is a Publisher recording everything published, safe under the
// router's concurrent fan-out.
type capture struct {
	mu   sync.Mutex
	msgs []bus.Message
}

func (c *capture) Publish(topic string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, bus.Message{Topic: topic, Payload: payload})
}

func (c *capture) byTopic(topic string) []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []any
	for _, m := range c.msgs {
		if m.Topic == topic {
			out = append(out, m.Payload)
		}
	}
	return out
}

const (
	ggaSentence = "$GNGGA,155642.90,6025.8038680,N,01055.0975279,E,2,12,0.59,64.591,M,39.937,M,,*74"
	rmcSentence = "$GNRMC,180201.80,A,6325.8068737,N,01025.0920747,E,0.074,,140225,,,A,V*1B"
)

func TestDispatchSingleSentence(t *testing.T) {
	cap := &capture{}
	r := New(cap)

	r.Dispatch(ggaSentence)

	raws := cap.byTopic(bus.TopicFixRaw)
	if len(raws) != 1 || raws[0].(string) != ggaSentence {
		t.Fatalf("unexpected raw publishes: %v", raws)
	}
	data := cap.byTopic(bus.TopicFixData)
	if len(data) != 1 {
		t.Fatalf("expected one fix record, got %d", len(data))
	}
	fix := data[0].(*nmea.FixData)
	if fix.Satellites != 12 || fix.Quality != nmea.QualityDGPS {
		t.Fatalf("unexpected record: %+v", fix)
	}
}

func TestDispatchBatch(t *testing.T) {
	cap := &capture{}
	r := New(cap)

	r.Dispatch(ggaSentence + rmcSentence)

	if n := len(cap.byTopic(bus.TopicFixData)); n != 1 {
		t.Fatalf("expected one fix record, got %d", n)
	}
	if n := len(cap.byTopic(bus.TopicNavData)); n != 1 {
		t.Fatalf("expected one nav record, got %d", n)
	}
	nav := cap.byTopic(bus.TopicNavData)[0].(*nmea.NavigationData)
	if nav.Mode == nil || *nav.Mode != "A" {
		t.Fatalf("unexpected nav record: %+v", nav)
	}
}

func TestDispatchMalformedSentenceIsIsolated(t *testing.T) {
	cap := &capture{}
	r := New(cap)

	// A stale checksum in the middle of the batch must not abort the others.
	broken := "$GNGGA,155642.90,6025.8038680,N,01055.0975279,E,3,12,0.59,64.591,M,39.937,M,,*74"
	r.Dispatch(broken + rmcSentence + ggaSentence)

	if n := len(cap.byTopic(bus.TopicFixData)); n != 1 {
		t.Fatalf("expected one fix record, got %d", n)
	}
	if n := len(cap.byTopic(bus.TopicNavData)); n != 1 {
		t.Fatalf("expected one nav record, got %d", n)
	}
}

func TestDispatchUnknownIdentifierSkipped(t *testing.T) {
	cap := &capture{}
	r := New(cap)

	r.Dispatch(nmea.Sentence("GPVTG,054.7,T,034.4,M,005.5,N,010.2,K"))

	if len(cap.msgs) != 0 {
		t.Fatalf("expected nothing published, got %v", cap.msgs)
	}
}

func TestEnabledSetGatesDispatch(t *testing.T) {
	cap := &capture{}
	r := New(cap)

	r.SetEnabledFixIdentifiers([]string{"GPGGA"})
	r.Dispatch(ggaSentence) // GNGGA no longer enabled

	if len(cap.byTopic(bus.TopicFixData)) != 0 {
		t.Fatalf("disabled identifier was dispatched")
	}

	r.SetEnabledFixIdentifiers([]string{"GPGGA", "GNGGA"})
	r.Dispatch(ggaSentence)

	if len(cap.byTopic(bus.TopicFixData)) != 1 {
		t.Fatalf("re-enabled identifier was not dispatched")
	}
}

func TestEnabledIdentifiersSnapshot(t *testing.T) {
	r := New(&capture{})

	fix := r.EnabledFixIdentifiers()
	if len(fix) != 4 {
		t.Fatalf("expected 4 default fix identifiers, got %v", fix)
	}
	nav := r.EnabledNavIdentifiers()
	if len(nav) != 4 {
		t.Fatalf("expected 4 default nav identifiers, got %v", nav)
	}

	// Mutating the snapshot must not touch the router's state.
	fix[0] = "XXXXX"
	if r.EnabledFixIdentifiers()[0] == "XXXXX" {
		t.Fatalf("snapshot aliases internal state")
	}
}

func TestConcurrentDispatchAndReconfigure(t *testing.T) {
	cap := &capture{}
	r := New(cap)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Dispatch(ggaSentence + rmcSentence)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			r.SetEnabledFixIdentifiers([]string{"GNGGA"})
			r.SetEnabledNavIdentifiers(nmea.NavIdentifiers())
		}
	}()
	wg.Wait()

	// Every publish is a matched raw/data pair regardless of interleaving.
	if len(cap.byTopic(bus.TopicFixRaw)) != len(cap.byTopic(bus.TopicFixData)) {
		t.Fatalf("fix raw/data publish counts diverged")
	}
	if len(cap.byTopic(bus.TopicNavRaw)) != len(cap.byTopic(bus.TopicNavData)) {
		t.Fatalf("nav raw/data publish counts diverged")
	}
}

func TestDispatchBytes(t *testing.T) {
	cap := &capture{}
	r := New(cap)

	r.DispatchBytes([]byte(ggaSentence), "utf-8")
	if len(cap.byTopic(bus.TopicFixData)) != 1 {
		t.Fatalf("expected one fix record")
	}

	r.DispatchBytes([]byte(rmcSentence), "iso-8859-1")
	if len(cap.byTopic(bus.TopicNavData)) != 1 {
		t.Fatalf("expected one nav record")
	}
}

func TestDispatchBytesDropsUndecodableInput(t *testing.T) {
	cap := &capture{}
	r := New(cap)

	r.DispatchBytes([]byte{0xff, 0xfe, '$'}, "utf-8")
	r.DispatchBytes([]byte(ggaSentence), "ebcdic")

	if len(cap.msgs) != 0 {
		t.Fatalf("expected nothing published, got %v", cap.msgs)
	}
}
