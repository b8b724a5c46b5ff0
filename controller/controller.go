package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/swoga/achievements-login/api"
	"github.com/swoga/achievements-login/collector"
	"github.com/swoga/achievements-login/model"
	"github.com/swoga/achievements-login/store"
	"go.uber.org/zap"
)

const (
	MessageLoginFailed  = "Login failed"
	MessageNetworkError = "Network error. Please try again."
	MessageTimeout      = "Request timed out. Please try again."
	MessageStorageError = "Could not save session. Please try again."
)

type AuthService interface {
	Login(ctx context.Context, credentials model.Credentials) (*api.LoginResult, error)
	Me(ctx context.Context, token string) error
	Logout(ctx context.Context, token string) error
}

// View is the login form: submit control, loading indicator and the
// single error region.
type View interface {
	SetSubmitEnabled(enabled bool)
	SetLoading(visible bool)
	ShowError(message string)
	HideError()
}

type Navigator interface {
	Navigate(route string)
}

type Params struct {
	Log          *zap.Logger
	Auth         AuthService
	Store        store.Store
	View         View
	Navigator    Navigator
	Metrics      *collector.Metrics
	LandingRoute string
	// Timeout bounds every request, zero means no timeout.
	Timeout time.Duration
}

type Controller struct {
	log          *zap.Logger
	auth         AuthService
	store        store.Store
	view         View
	nav          Navigator
	metrics      *collector.Metrics
	landingRoute string
	timeout      time.Duration

	mutex      sync.Mutex
	submitting bool
}

func New(p Params) *Controller {
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	if p.Metrics == nil {
		p.Metrics = collector.NewMetrics(prometheus.NewRegistry())
	}
	return &Controller{
		log:          p.Log,
		auth:         p.Auth,
		store:        p.Store,
		view:         p.View,
		nav:          p.Navigator,
		metrics:      p.Metrics,
		landingRoute: p.LandingRoute,
		timeout:      p.Timeout,
	}
}

// Submitting reports whether a login attempt is in flight.
func (c *Controller) Submitting() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.submitting
}

func (c *Controller) begin() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.submitting {
		return false
	}
	c.submitting = true
	return true
}

func (c *Controller) end() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.submitting = false
}

func (c *Controller) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// SubmitLogin runs one login attempt. The outcome is only observable
// through the store, the view and the navigator. A call made while another
// attempt is in flight is ignored.
func (c *Controller) SubmitLogin(ctx context.Context, credentials model.Credentials) {
	if !c.begin() {
		c.log.Debug("login already in progress, ignoring submit")
		c.metrics.LoginAttempt(collector.OutcomeBusy, 0)
		return
	}

	start := time.Now()
	c.view.HideError()
	c.view.SetSubmitEnabled(false)
	c.view.SetLoading(true)
	defer func() {
		c.view.SetSubmitEnabled(true)
		c.view.SetLoading(false)
		c.end()
	}()

	outcome := c.submit(ctx, credentials)
	c.metrics.LoginAttempt(outcome, time.Since(start))
}

func (c *Controller) submit(ctx context.Context, credentials model.Credentials) string {
	c.log.Debug("submitting login", zap.String("email", credentials.Email))

	reqCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.auth.Login(reqCtx, credentials)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			c.log.Error("login request timed out", zap.Duration("timeout", c.timeout), zap.Error(err))
			c.view.ShowError(MessageTimeout)
			return collector.OutcomeTimeout
		}
		c.log.Error("login error", zap.Error(err))
		c.view.ShowError(MessageNetworkError)
		return collector.OutcomeNetwork
	}

	tokens := res.Body.Tokens()
	if !res.OK() || !tokens.Valid() {
		message := res.Body.DetailMessage()
		if message == "" {
			message = MessageLoginFailed
		}
		c.log.Info("login rejected", zap.Int("status", res.StatusCode), zap.String("detail", message))
		c.view.ShowError(message)
		return collector.OutcomeRejected
	}

	// both tokens go in with one write, before navigating away
	err = store.SaveTokens(ctx, c.store, tokens)
	if err != nil {
		c.log.Error("error saving session", zap.Error(err))
		c.view.ShowError(MessageStorageError)
		return collector.OutcomeStorage
	}

	c.log.Info("login succeeded", zap.String("route", c.landingRoute))
	c.nav.Navigate(c.landingRoute)
	return collector.OutcomeSuccess
}

// CheckExistingSession sends the user to the landing route when the stored
// access token is still accepted and silently drops the token pair when it
// is not. Without a stored access token it does nothing.
func (c *Controller) CheckExistingSession(ctx context.Context) {
	token, err := store.AccessToken(ctx, c.store)
	if err != nil {
		c.log.Error("error reading session", zap.Error(err))
		return
	}
	if token == "" {
		return
	}

	reqCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	err = c.auth.Me(reqCtx, token)
	if err != nil {
		// cancelled by the caller, says nothing about the token
		if ctx.Err() != nil {
			c.log.Debug("session check aborted", zap.Error(err))
			return
		}
		if errors.Is(err, api.ErrUnexpectedStatus) {
			c.log.Info("stored session rejected, clearing tokens", zap.Error(err))
		} else {
			c.log.Warn("session check failed, clearing tokens", zap.Error(err))
		}
		if err := store.ClearTokens(ctx, c.store); err != nil {
			c.log.Error("error clearing session", zap.Error(err))
		}
		c.metrics.SessionCheck(collector.OutcomeInvalid)
		return
	}

	c.log.Info("existing session is valid", zap.String("route", c.landingRoute))
	c.metrics.SessionCheck(collector.OutcomeValid)
	c.nav.Navigate(c.landingRoute)
}

// StartSessionCheck runs CheckExistingSession in the background. The
// returned channel is closed once it is done.
func (c *Controller) StartSessionCheck(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.CheckExistingSession(ctx)
	}()
	return done
}

// Logout tells the service about the logout and removes the token pair.
// The service call is best effort, only a failing store is returned.
func (c *Controller) Logout(ctx context.Context) error {
	token, err := store.AccessToken(ctx, c.store)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	reqCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.auth.Logout(reqCtx, token); err != nil {
		c.log.Warn("logout request failed", zap.Error(err))
	}

	return store.ClearTokens(ctx, c.store)
}
