package router

import (
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/tmsolberg/nmeahub/internal/bus"
	"github.com/tmsolberg/nmeahub/internal/nmea"
)

// Publisher is the event-channel capability the router publishes decoded
// records through. *bus.Bus satisfies it; tests substitute their own.
type Publisher interface {
	Publish(topic string, payload any)
}

// Router takes raw sentence batches, decodes each candidate sentence whose
// identifier is currently enabled, and publishes (raw, record) pairs.
// Decode failures and unknown identifiers are dropped, never surfaced to
// the caller: malformed input must not disturb the publishing pipeline.
type Router struct {
	pub     Publisher
	verbose bool

	mu         sync.RWMutex
	fixEnabled map[string]struct{}
	navEnabled map[string]struct{}
}

// New creates a Router publishing on pub. All known identifiers of both
// sentence kinds start enabled.
func New(pub Publisher) *Router {
	return &Router{
		pub:        pub,
		fixEnabled: toSet(nmea.FixIdentifiers()),
		navEnabled: toSet(nmea.NavIdentifiers()),
	}
}

// SetVerbose enables logging of dropped sentences.
func (r *Router) SetVerbose(v bool) {
	r.verbose = v
}

// EnabledFixIdentifiers returns a sorted snapshot of the enabled fix-data
// identifiers.
func (r *Router) EnabledFixIdentifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sorted(r.fixEnabled)
}

// EnabledNavIdentifiers returns a sorted snapshot of the enabled
// navigation-data identifiers.
func (r *Router) EnabledNavIdentifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sorted(r.navEnabled)
}

// SetEnabledFixIdentifiers replaces the fix-data enabled set wholesale.
func (r *Router) SetEnabledFixIdentifiers(idents []string) {
	set := toSet(idents)
	r.mu.Lock()
	r.fixEnabled = set
	r.mu.Unlock()
}

// SetEnabledNavIdentifiers replaces the navigation-data enabled set wholesale.
func (r *Router) SetEnabledNavIdentifiers(idents []string) {
	set := toSet(idents)
	r.mu.Lock()
	r.navEnabled = set
	r.mu.Unlock()
}

// Dispatch splits a raw batch on '$' into candidate sentences and processes
// them concurrently. Each candidate succeeds or fails on its own; Dispatch
// returns once all candidates have been handled.
func (r *Router) Dispatch(batch string) {
	var wg sync.WaitGroup
	for _, seg := range strings.Split(batch, "$") {
		if seg == "" {
			continue
		}
		candidate := "$" + seg
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.dispatchOne(candidate)
		}()
	}
	wg.Wait()
}

// dispatchOne routes one candidate sentence: the fix-data enabled set is
// consulted first, then navigation-data. No match means the sentence is
// silently skipped.
func (r *Router) dispatchOne(raw string) {
	ident := nmea.LeadingIdentifier(raw)

	r.mu.RLock()
	_, isFix := r.fixEnabled[ident]
	_, isNav := r.navEnabled[ident]
	r.mu.RUnlock()

	switch {
	case isFix:
		fix, err := nmea.DecodeFix(raw)
		if err != nil {
			if r.verbose {
				log.Printf("[router] drop %s: %v", ident, err)
			}
			return
		}
		r.pub.Publish(bus.TopicFixRaw, raw)
		r.pub.Publish(bus.TopicFixData, fix)
	case isNav:
		nav, err := nmea.DecodeNav(raw)
		if err != nil {
			if r.verbose {
				log.Printf("[router] drop %s: %v", ident, err)
			}
			return
		}
		r.pub.Publish(bus.TopicNavRaw, raw)
		r.pub.Publish(bus.TopicNavData, nav)
	default:
		if r.verbose {
			log.Printf("[router] skip unknown identifier %q", ident)
		}
	}
}

func toSet(idents []string) map[string]struct{} {
	set := make(map[string]struct{}, len(idents))
	for _, id := range idents {
		set[id] = struct{}{}
	}
	return set
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
