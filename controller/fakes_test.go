package controller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/swoga/achievements-login/api"
	"github.com/swoga/achievements-login/collector"
	"github.com/swoga/achievements-login/model"
	"github.com/swoga/achievements-login/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const landing = "/achievements"

// recorder keeps the order of side effects across view, store and navigator.
type recorder struct {
	mutex  sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) Events() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.Events() {
		if e == event {
			n++
		}
	}
	return n
}

func (r *recorder) index(event string) int {
	for i, e := range r.Events() {
		if e == event {
			return i
		}
	}
	return -1
}

type fakeView struct {
	rec *recorder

	mutex        sync.Mutex
	enabled      bool
	loading      bool
	errorText    string
	errorVisible bool
}

func (v *fakeView) SetSubmitEnabled(enabled bool) {
	v.mutex.Lock()
	v.enabled = enabled
	v.mutex.Unlock()
	v.rec.add("view.enabled=%t", enabled)
}

func (v *fakeView) SetLoading(visible bool) {
	v.mutex.Lock()
	v.loading = visible
	v.mutex.Unlock()
	v.rec.add("view.loading=%t", visible)
}

func (v *fakeView) ShowError(message string) {
	v.mutex.Lock()
	v.errorText = message
	v.errorVisible = true
	v.mutex.Unlock()
	v.rec.add("view.error=%s", message)
}

func (v *fakeView) HideError() {
	v.mutex.Lock()
	v.errorVisible = false
	v.mutex.Unlock()
	v.rec.add("view.hide_error")
}

func (v *fakeView) state() (enabled bool, loading bool) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.enabled, v.loading
}

func (v *fakeView) shownError() string {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	if !v.errorVisible {
		return ""
	}
	return v.errorText
}

type fakeNavigator struct {
	rec *recorder
}

func (n *fakeNavigator) Navigate(route string) {
	n.rec.add("navigate=%s", route)
}

type recordingStore struct {
	*store.Memory
	rec *recorder
	err error
}

func (s *recordingStore) Set(ctx context.Context, values map[string]string) error {
	if s.err != nil {
		return s.err
	}
	s.rec.add("store.set")
	return s.Memory.Set(ctx, values)
}

func (s *recordingStore) Remove(ctx context.Context, keys ...string) error {
	if s.err != nil {
		return s.err
	}
	s.rec.add("store.remove")
	return s.Memory.Remove(ctx, keys...)
}

func (s *recordingStore) tokens(t *testing.T) model.SessionTokens {
	t.Helper()
	ctx := context.Background()
	access, _ := s.Memory.Get(ctx, store.AccessTokenKey)
	refresh, _ := s.Memory.Get(ctx, store.RefreshTokenKey)
	return model.SessionTokens{AccessToken: access, RefreshToken: refresh}
}

type fakeAuth struct {
	login  func(ctx context.Context, credentials model.Credentials) (*api.LoginResult, error)
	me     func(ctx context.Context, token string) error
	logout func(ctx context.Context, token string) error

	calls int32
}

func (a *fakeAuth) Login(ctx context.Context, credentials model.Credentials) (*api.LoginResult, error) {
	atomic.AddInt32(&a.calls, 1)
	return a.login(ctx, credentials)
}

func (a *fakeAuth) Me(ctx context.Context, token string) error {
	atomic.AddInt32(&a.calls, 1)
	return a.me(ctx, token)
}

func (a *fakeAuth) Logout(ctx context.Context, token string) error {
	atomic.AddInt32(&a.calls, 1)
	return a.logout(ctx, token)
}

type harness struct {
	ctrl  *Controller
	view  *fakeView
	store *recordingStore
	rec   *recorder
	logs  *observer.ObservedLogs
}

func newHarness(auth AuthService) *harness {
	rec := &recorder{}
	view := &fakeView{rec: rec, enabled: true}
	s := &recordingStore{Memory: store.NewMemory(), rec: rec}
	core, logs := observer.New(zap.DebugLevel)

	ctrl := New(Params{
		Log:          zap.New(core),
		Auth:         auth,
		Store:        s,
		View:         view,
		Navigator:    &fakeNavigator{rec: rec},
		Metrics:      collector.NewMetrics(prometheus.NewRegistry()),
		LandingRoute: landing,
	})

	return &harness{
		ctrl:  ctrl,
		view:  view,
		store: s,
		rec:   rec,
		logs:  logs,
	}
}

func (h *harness) seedTokens(t *testing.T, tokens model.SessionTokens) {
	t.Helper()
	ctx := context.Background()
	_ = h.store.Memory.Set(ctx, map[string]string{
		store.AccessTokenKey:  tokens.AccessToken,
		store.RefreshTokenKey: tokens.RefreshToken,
	})
}
