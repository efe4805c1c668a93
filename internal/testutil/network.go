package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/panda/internal/client"
	"github.com/roach88/panda/internal/ir"
)

// PageKey identifies a scripted page request.
// An empty LastID is the first page.
type PageKey struct {
	Source  client.Source
	Keyword string
	LastID  string
}

func keyOf(req client.PageRequest) PageKey {
	return PageKey{Source: req.Source, Keyword: req.Keyword, LastID: req.LastID}
}

type reply[T any] struct {
	value T
	err   error
}

// ScriptedNetwork is a client.Network that answers from a script.
//
// Replies for a key are consumed in order; the last one repeats. A request
// with no script fails with a network error naming the request.
type ScriptedNetwork struct {
	mu           sync.Mutex
	pages        map[PageKey][]reply[ir.Page]
	details      map[string][]reply[ir.GalleryDetail]
	profile      []reply[ir.Profile]
	submit       []reply[ir.Profile]
	translations map[string][]reply[[]byte]
	blocks       map[PageKey]chan struct{}

	requests []client.PageRequest
	calls    []string
}

var _ client.Network = (*ScriptedNetwork)(nil)

// NewScriptedNetwork creates an empty script.
func NewScriptedNetwork() *ScriptedNetwork {
	return &ScriptedNetwork{
		pages:        make(map[PageKey][]reply[ir.Page]),
		details:      make(map[string][]reply[ir.GalleryDetail]),
		translations: make(map[string][]reply[[]byte]),
		blocks:       make(map[PageKey]chan struct{}),
	}
}

// OnPage scripts a page reply.
func (n *ScriptedNetwork) OnPage(key PageKey, page ir.Page) *ScriptedNetwork {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pages[key] = append(n.pages[key], reply[ir.Page]{value: page})
	return n
}

// OnPageError scripts a failing page reply.
func (n *ScriptedNetwork) OnPageError(key PageKey, err error) *ScriptedNetwork {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pages[key] = append(n.pages[key], reply[ir.Page]{err: err})
	return n
}

// OnDetail scripts a detail reply.
func (n *ScriptedNetwork) OnDetail(gid string, d ir.GalleryDetail, err error) *ScriptedNetwork {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.details[gid] = append(n.details[gid], reply[ir.GalleryDetail]{value: d, err: err})
	return n
}

// OnProfile scripts a profile fetch reply.
func (n *ScriptedNetwork) OnProfile(p ir.Profile, err error) *ScriptedNetwork {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.profile = append(n.profile, reply[ir.Profile]{value: p, err: err})
	return n
}

// OnSubmit scripts a profile submit reply. Without one, submits echo the
// clamped profile back.
func (n *ScriptedNetwork) OnSubmit(p ir.Profile, err error) *ScriptedNetwork {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submit = append(n.submit, reply[ir.Profile]{value: p, err: err})
	return n
}

// OnTranslations scripts the raw translation database for a language.
func (n *ScriptedNetwork) OnTranslations(language string, raw []byte, err error) *ScriptedNetwork {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.translations[language] = append(n.translations[language], reply[[]byte]{value: raw, err: err})
	return n
}

// Block makes requests for key wait until the returned release func is
// called or their context ends.
func (n *ScriptedNetwork) Block(key PageKey) (release func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan struct{})
	n.blocks[key] = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// FetchPage implements client.Network.
func (n *ScriptedNetwork) FetchPage(ctx context.Context, req client.PageRequest) (ir.Page, error) {
	key := keyOf(req)
	n.mu.Lock()
	n.requests = append(n.requests, req)
	n.calls = append(n.calls, fmt.Sprintf("page %s %q %q", key.Source, key.Keyword, key.LastID))
	block := n.blocks[key]
	n.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ir.Page{}, ctx.Err()
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	r, ok := next(n.pages, key)
	if !ok {
		return ir.Page{}, ir.NewError(ir.ErrNetwork, fmt.Errorf("no scripted page for %s %q after %q", key.Source, key.Keyword, key.LastID))
	}
	return r.value, r.err
}

// GalleryDetail implements client.Network.
func (n *ScriptedNetwork) GalleryDetail(_ context.Context, gid string) (ir.GalleryDetail, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, "detail "+gid)
	r, ok := next(n.details, gid)
	if !ok {
		return ir.GalleryDetail{}, ir.NewError(ir.ErrNetwork, fmt.Errorf("no scripted detail for %s", gid))
	}
	return r.value, r.err
}

// Profile implements client.Network.
func (n *ScriptedNetwork) Profile(context.Context) (ir.Profile, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, "profile")
	r, ok := shift(&n.profile)
	if !ok {
		return ir.Profile{}, ir.NewError(ir.ErrNetwork, fmt.Errorf("no scripted profile"))
	}
	return r.value, r.err
}

// SubmitProfile implements client.Network.
func (n *ScriptedNetwork) SubmitProfile(_ context.Context, p ir.Profile) (ir.Profile, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, "submit_profile")
	r, ok := shift(&n.submit)
	if !ok {
		return p.Clamp(), nil
	}
	return r.value, r.err
}

// TagTranslations implements client.Network.
func (n *ScriptedNetwork) TagTranslations(_ context.Context, language string) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, "translations "+language)
	r, ok := next(n.translations, language)
	if !ok {
		return nil, ir.NewError(ir.ErrNetwork, fmt.Errorf("no scripted translations for %s", language))
	}
	return r.value, r.err
}

// Requests returns every page request seen so far.
func (n *ScriptedNetwork) Requests() []client.PageRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]client.PageRequest, len(n.requests))
	copy(out, n.requests)
	return out
}

// Calls returns a one-line summary of every call, in order.
func (n *ScriptedNetwork) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.calls))
	copy(out, n.calls)
	return out
}

func next[K comparable, T any](m map[K][]reply[T], key K) (reply[T], bool) {
	replies := m[key]
	if len(replies) == 0 {
		return reply[T]{}, false
	}
	r := replies[0]
	if len(replies) > 1 {
		m[key] = replies[1:]
	}
	return r, true
}

func shift[T any](replies *[]reply[T]) (reply[T], bool) {
	if len(*replies) == 0 {
		return reply[T]{}, false
	}
	r := (*replies)[0]
	if len(*replies) > 1 {
		*replies = (*replies)[1:]
	}
	return r, true
}
