package goSession

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	internalaudit "github.com/MrEthical07/goSession/internal/audit"
	"github.com/MrEthical07/goSession/session"
	"github.com/MrEthical07/goSession/transport"
	"github.com/rs/zerolog"
)

// Manager owns the session of one client process: it signs users up and in, persists
// the resulting session, restores it on start, binds the bearer token into the network
// client, and publishes every change to subscribers.
//
// Mutating operations (SignIn, SignOut, RestoreSession) are serialized; observation
// methods never block on them.
type Manager struct {
	config      Config
	credentials *session.CredentialStore
	profiles    *session.ProfileStore
	binder      *transport.Binder
	auth        Authenticator
	validator   Validator
	state       *stateCell
	audit       *internalaudit.Dispatcher
	metrics     *Metrics
	logger      zerolog.Logger
	closeMedium func() error
	now         func() time.Time

	opMu     sync.Mutex
	restored atomic.Bool
	closed   atomic.Bool
}

/*
====================================
OBSERVATION
====================================
*/

// Snapshot returns the current session and loading flag.
func (m *Manager) Snapshot() Snapshot {
	if m == nil || m.state == nil {
		return Snapshot{Session: AnonymousSession()}
	}
	return m.state.load()
}

// Session returns the current session.
func (m *Manager) Session() Session {
	return m.Snapshot().Session
}

// IsLoading reports whether a restoration or a mutating operation is in flight.
func (m *Manager) IsLoading() bool {
	return m.Snapshot().Loading
}

// Subscribe returns a channel that receives the current snapshot immediately and then
// every later change. A slow reader only ever sees the latest snapshot. The channel is
// closed by cancel or by Close.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	if m == nil || m.state == nil {
		ch := make(chan Snapshot)
		close(ch)
		return ch, func() {}
	}
	return m.state.subscribe()
}

// Binder returns the binder the Manager writes the bearer token into.
func (m *Manager) Binder() *transport.Binder {
	if m == nil {
		return nil
	}
	return m.binder
}

// Config returns a copy of the configuration the Manager was built with.
func (m *Manager) Config() Config {
	if m == nil {
		return Config{}
	}
	return cloneConfig(m.config)
}

// MetricsSnapshot returns a copy of the Manager's counters and histograms.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// AuditDropped reports audit events discarded because the buffer was full.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

// Close waits for any in-flight operation, stops the audit dispatcher, closes
// subscriber channels, and releases a medium the Manager opened itself.
func (m *Manager) Close() error {
	if m == nil || m.state == nil {
		return nil
	}
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.audit.Close()
	m.state.close()
	if m.closeMedium != nil {
		return m.closeMedium()
	}
	return nil
}

/*
====================================
OPERATIONS
====================================
*/

// SignUp validates payload, when a Validator is configured, and forwards it unchanged
// to the Authenticator. It never changes the session; the user signs in afterwards.
func (m *Manager) SignUp(ctx context.Context, payload RegistrationPayload) error {
	if err := m.ready(); err != nil {
		return err
	}

	if m.validator != nil {
		if err := m.validator.ValidateRegistration(payload); err != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
			m.metricInc(MetricSignUpFailure)
			m.emitAudit(ctx, auditEventSignUpFailure, false, "", err, nil)
			return err
		}
	}

	_, err := boundRemote(ctx, m.config.Session.RemoteTimeout, func(rctx context.Context) (struct{}, error) {
		return struct{}{}, m.auth.Register(rctx, payload)
	})
	if err != nil {
		err = m.classifyRemote(ctx, "register", err)
		m.metricInc(MetricSignUpFailure)
		m.emitAudit(ctx, auditEventSignUpFailure, false, "", err, nil)
		return err
	}

	m.metricInc(MetricSignUpSuccess)
	m.emitAudit(ctx, auditEventSignUpSuccess, true, "", nil, nil)
	return nil
}

// SignIn authenticates against the remote API and, on success, persists the profile
// and then the token pair, binds the token, and publishes the authenticated session.
//
// A response without user, token, or refresh token returns an *AuthError wrapping
// ErrIncompleteSession, or nil with no state change when SessionConfig.LenientSignIn
// is set. A storage failure returns a *StorageError and nothing is published.
func (m *Manager) SignIn(ctx context.Context, identifier, secret string) error {
	if err := m.ready(); err != nil {
		return err
	}

	if err := m.lockOp(); err != nil {
		return err
	}
	defer m.opMu.Unlock()

	start := m.now()
	m.state.setLoading(true)
	defer m.state.setLoading(false)

	resp, err := boundRemote(ctx, m.config.Session.RemoteTimeout, func(rctx context.Context) (*AuthResponse, error) {
		return m.auth.Authenticate(rctx, identifier, secret)
	})
	if err != nil {
		err = m.classifyRemote(ctx, "authenticate", err)
		m.metricInc(MetricSignInFailure)
		m.emitAudit(ctx, auditEventSignInFailure, false, "", err, nil)
		return err
	}

	if !resp.Complete() {
		m.metricInc(MetricSignInIncomplete)
		if m.config.Session.LenientSignIn {
			m.logger.Warn().
				Str("trace_id", traceIDFromContext(ctx)).
				Msg("sign-in response incomplete; session unchanged")
			m.emitAudit(ctx, auditEventSignInIncomplete, true, "", nil, nil)
			return nil
		}
		err := &AuthError{Message: ErrIncompleteSession.Error(), Err: ErrIncompleteSession}
		m.metricInc(MetricSignInFailure)
		m.emitAudit(ctx, auditEventSignInIncomplete, false, "", err, nil)
		return err
	}

	profile := resp.User.Clone()
	pair := TokenPair{Token: resp.Token, RefreshToken: resp.RefreshToken}

	if err := m.persist(ctx, profile, pair); err != nil {
		m.metricInc(MetricStorageFailure)
		m.metricInc(MetricSignInFailure)
		m.emitAudit(ctx, auditEventSignInFailure, false, string(profile.ID), err, nil)
		return err
	}

	m.binder.Bind(pair.Token)
	m.state.publish(AuthenticatedSession(profile), true)

	m.metricInc(MetricSignInSuccess)
	if m.metrics.LatencyEnabled() {
		m.metrics.Observe(MetricSignInLatency, m.now().Sub(start))
	}
	m.emitAudit(ctx, auditEventSignInSuccess, true, string(profile.ID), nil, nil)
	return nil
}

// SignOut publishes the anonymous session, clears the bound token, and removes the
// stored profile and token pair. Removal failures are logged and counted but never
// returned; the in-memory session is anonymous either way. Signing out while
// anonymous is harmless.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.ready(); err != nil {
		return err
	}

	if err := m.lockOp(); err != nil {
		return err
	}
	defer m.opMu.Unlock()

	userID := ""
	if prev := m.state.load().Session; prev.Profile != nil {
		userID = string(prev.Profile.ID)
	}

	m.binder.Clear()
	m.state.publish(AnonymousSession(), true)
	defer m.state.setLoading(false)

	if err := m.storageCall(ctx, "remove", m.profiles.Key(), m.profiles.Remove); err != nil {
		m.degrade(ctx, "sign_out", m.profiles.Key(), err)
	}
	if err := m.storageCall(ctx, "remove", m.credentials.Key(), m.credentials.Remove); err != nil {
		m.degrade(ctx, "sign_out", m.credentials.Key(), err)
	}

	m.metricInc(MetricSignOut)
	m.emitAudit(ctx, auditEventSignOut, true, userID, nil, nil)
	return nil
}

// RestoreSession loads the persisted session. When both the profile and the token pair
// are stored, the token is bound and the authenticated session published; otherwise
// the session is anonymous. Storage failures fall back to anonymous and are not
// returned. Only the first call does any work; the loading flag set at Build is
// cleared when it completes.
func (m *Manager) RestoreSession(ctx context.Context) error {
	if err := m.ready(); err != nil {
		return err
	}

	if err := m.lockOp(); err != nil {
		return err
	}
	defer m.opMu.Unlock()

	if !m.restored.CompareAndSwap(false, true) {
		return nil
	}

	m.state.setLoading(true)

	var profile *UserProfile
	var haveProfile bool
	err := m.storageCall(ctx, "get", m.profiles.Key(), func(sctx context.Context) error {
		var err error
		profile, haveProfile, err = m.profiles.Get(sctx)
		return err
	})
	if err != nil {
		m.degrade(ctx, "restore", m.profiles.Key(), err)
		haveProfile = false
	}

	var pair TokenPair
	var havePair bool
	err = m.storageCall(ctx, "get", m.credentials.Key(), func(sctx context.Context) error {
		var err error
		pair, havePair, err = m.credentials.Get(sctx)
		return err
	})
	if err != nil {
		m.degrade(ctx, "restore", m.credentials.Key(), err)
		havePair = false
	}

	if haveProfile && havePair && profile != nil && pair.Complete() {
		m.binder.Bind(pair.Token)
		m.state.publish(AuthenticatedSession(profile), false)
		m.metricInc(MetricRestoreAuthenticated)
		m.emitAudit(ctx, auditEventRestoreAuthenticated, true, string(profile.ID), nil, nil)
		return nil
	}

	m.binder.Clear()
	m.state.publish(AnonymousSession(), false)
	m.metricInc(MetricRestoreAnonymous)
	m.emitAudit(ctx, auditEventRestoreAnonymous, true, "", nil, nil)
	return nil
}

/*
====================================
HELPERS
====================================
*/

func (m *Manager) ready() error {
	if m == nil || m.state == nil || m.auth == nil || m.binder == nil {
		return ErrManagerNotReady
	}
	if m.closed.Load() {
		return ErrManagerClosed
	}
	return nil
}

// lockOp takes the operation lock, failing if Close ran while the caller waited.
func (m *Manager) lockOp() error {
	m.opMu.Lock()
	if m.closed.Load() {
		m.opMu.Unlock()
		return ErrManagerClosed
	}
	return nil
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

// persist writes the profile, then the token pair. If the pair cannot be written the
// profile slot is put back the way it was: the previous profile when one was stored,
// otherwise empty. The stored token pair still belongs to that previous profile.
func (m *Manager) persist(ctx context.Context, profile *UserProfile, pair TokenPair) error {
	prev := m.previousProfile(ctx)

	err := m.storageCall(ctx, "save", m.profiles.Key(), func(sctx context.Context) error {
		return m.profiles.Save(sctx, profile)
	})
	if err != nil {
		return err
	}

	err = m.storageCall(ctx, "save", m.credentials.Key(), func(sctx context.Context) error {
		return m.credentials.Save(sctx, pair)
	})
	if err != nil {
		m.rollbackProfile(ctx, prev)
		return err
	}
	return nil
}

// previousProfile returns the profile a failed sign-in must leave in storage. A stored
// record wins; when it cannot be read, the live authenticated profile stands in.
func (m *Manager) previousProfile(ctx context.Context) *UserProfile {
	var stored *UserProfile
	var ok bool
	err := m.storageCall(ctx, "get", m.profiles.Key(), func(sctx context.Context) error {
		var err error
		stored, ok, err = m.profiles.Get(sctx)
		return err
	})
	if err == nil {
		if ok {
			return stored
		}
		return nil
	}
	if live := m.state.load().Session; live.IsAuthenticated() {
		return live.Profile
	}
	return nil
}

func (m *Manager) rollbackProfile(ctx context.Context, prev *UserProfile) {
	var err error
	if prev != nil {
		err = m.storageCall(ctx, "save", m.profiles.Key(), func(sctx context.Context) error {
			return m.profiles.Save(sctx, prev)
		})
	} else {
		err = m.storageCall(ctx, "remove", m.profiles.Key(), m.profiles.Remove)
	}
	if err != nil {
		m.degrade(ctx, "sign_in_rollback", m.profiles.Key(), err)
	}
}

// storageCall runs fn under StorageTimeout and converts its error to *StorageError.
func (m *Manager) storageCall(ctx context.Context, op, key string, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sctx, cancel := withOptionalTimeout(ctx, m.config.Session.StorageTimeout)
	defer cancel()

	err := fn(sctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil && m.config.Session.StorageTimeout > 0 {
		err = fmt.Errorf("%w after %s: %w", ErrStorageTimeout, m.config.Session.StorageTimeout, err)
	}
	return &StorageError{Op: op, Key: key, Err: err}
}

// degrade records a storage failure the Manager absorbs instead of returning.
func (m *Manager) degrade(ctx context.Context, op, key string, err error) {
	m.logger.Warn().
		Err(err).
		Str("op", op).
		Str("key", key).
		Str("trace_id", traceIDFromContext(ctx)).
		Msg("session storage degraded")
	m.metricInc(MetricStorageDegraded)
	m.emitAudit(ctx, auditEventStorageDegraded, false, "", err, func() map[string]string {
		return map[string]string{
			"op":  op,
			"key": key,
		}
	})
}

// classifyRemote maps an Authenticator error onto *AuthError or *TransportError.
func (m *Manager) classifyRemote(ctx context.Context, op string, err error) error {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	timeout := m.config.Session.RemoteTimeout
	if errors.Is(err, context.DeadlineExceeded) && timeout > 0 && (ctx == nil || ctx.Err() == nil) {
		m.metricInc(MetricRemoteTimeout)
		return &TransportError{Op: op, Err: fmt.Errorf("%w after %s", ErrRemoteTimeout, timeout)}
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr
	}
	return &TransportError{Op: op, Err: err}
}

type remoteResult[T any] struct {
	value T
	err   error
}

// boundRemote runs fn and gives up once timeout elapses or ctx ends, even if fn
// ignores its context.
func boundRemote[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rctx, cancel := withOptionalTimeout(ctx, timeout)
	defer cancel()

	done := make(chan remoteResult[T], 1)
	go func() {
		v, err := fn(rctx)
		done <- remoteResult[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-rctx.Done():
		var zero T
		return zero, rctx.Err()
	}
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
