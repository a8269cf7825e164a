package zap

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/uofuseismo/umps/internal/authentication"
	"github.com/uofuseismo/umps/internal/ulogging"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// controlKind tags a message sent over the control channel (spec §4.2:
// "mutation methods ... implemented by sending a control message from the
// caller to the thread").
type controlKind int

const (
	ctrlWhitelist controlKind = iota
	ctrlBlacklist
	ctrlConfigurePlain
	ctrlConfigureCurve
	ctrlTerminate
)

type controlMsg struct {
	kind      controlKind
	address   string
	domain    string
	passwords map[string]string
	publicKeys map[string][]byte
	done      chan error
}

// Service is the background ZAP authentication task (C3).
type Service struct {
	authenticator authentication.Authenticator
	logger        *ulogging.Logger
	securityLevel authentication.SecurityLevel

	running atomic.Bool
	control chan controlMsg
	wg      sync.WaitGroup
}

// NewService binds a ZAP service to the given Authenticator. securityLevel
// is the level every request handled by HandleRequest is validated at.
func NewService(authenticator authentication.Authenticator, securityLevel authentication.SecurityLevel, logger *ulogging.Logger) *Service {
	if logger == nil {
		logger = ulogging.Get()
	}
	return &Service{
		authenticator: authenticator,
		logger:        logger.WithComponent("zap"),
		securityLevel: securityLevel,
	}
}

// Start launches the background thread. Calling Start while the service
// is running returns an AlreadyInitialized error.
func (s *Service) Start() error {
	if s.running.Load() {
		return uerrors.New("Service.Start", uerrors.AlreadyInitialized, "zap service is already running")
	}
	s.control = make(chan controlMsg, 16)
	s.running.Store(true)
	s.wg.Add(1)
	go s.run()
	return nil
}

// Stop sends a terminate control message and joins the background
// thread, bounded by timeout.
func (s *Service) Stop(timeout time.Duration) error {
	if !s.running.Load() {
		return nil
	}
	done := make(chan error, 1)
	s.control <- controlMsg{kind: ctrlTerminate, done: done}

	doneCh := make(chan struct{})
	go func() { s.wg.Wait(); close(doneCh) }()

	select {
	case <-doneCh:
		return nil
	case <-time.After(timeout):
		return uerrors.New("Service.Stop", uerrors.Timeout, "zap service did not stop within the timeout")
	}
}

func (s *Service) run() {
	defer s.wg.Done()
	defer s.running.Store(false)
	for msg := range s.control {
		switch msg.kind {
		case ctrlWhitelist:
			msg.done <- s.authenticator.AddToWhitelist(msg.address)
		case ctrlBlacklist:
			msg.done <- s.authenticator.AddToBlacklist(msg.address)
		case ctrlConfigurePlain:
			msg.done <- s.configurePlain(msg.domain, msg.passwords)
		case ctrlConfigureCurve:
			msg.done <- s.configureCurve(msg.domain, msg.publicKeys)
		case ctrlTerminate:
			msg.done <- nil
			return
		}
	}
}

func (s *Service) send(kind controlKind, mutate func(*controlMsg)) error {
	if !s.running.Load() {
		return uerrors.New("Service", uerrors.NotInitialized, "zap service is not running")
	}
	msg := controlMsg{kind: kind, done: make(chan error, 1)}
	if mutate != nil {
		mutate(&msg)
	}
	s.control <- msg
	return <-msg.done
}

// Whitelist adds remoteAddress to the authenticator's whitelist via the
// control channel (never touched directly from the caller's thread).
func (s *Service) Whitelist(remoteAddress string) error {
	return s.send(ctrlWhitelist, func(m *controlMsg) { m.address = remoteAddress })
}

// Blacklist adds remoteAddress to the authenticator's blacklist.
func (s *Service) Blacklist(remoteAddress string) error {
	return s.send(ctrlBlacklist, func(m *controlMsg) { m.address = remoteAddress })
}

// ConfigurePlainTextPasswords bulk-loads username/password pairs into the
// authenticator's user table. The domain is not stored, and users already
// present are left unchanged.
func (s *Service) ConfigurePlainTextPasswords(domain string, passwords map[string]string) error {
	return s.send(ctrlConfigurePlain, func(m *controlMsg) {
		m.domain = domain
		m.passwords = passwords
	})
}

// ConfigureCurve bulk-loads named public keys. The domain is not stored,
// and users already present are left unchanged.
func (s *Service) ConfigureCurve(domain string, publicKeys map[string][]byte) error {
	return s.send(ctrlConfigureCurve, func(m *controlMsg) {
		m.domain = domain
		m.publicKeys = publicKeys
	})
}

func (s *Service) configurePlain(domain string, passwords map[string]string) error {
	for user, password := range passwords {
		if s.authenticator.HaveUser(user) {
			continue
		}
		if err := s.authenticator.AddUser(authentication.User{Name: user}, password); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) configureCurve(domain string, publicKeys map[string][]byte) error {
	for user, key := range publicKeys {
		if s.authenticator.HaveUser(user) {
			continue
		}
		if err := s.authenticator.AddUser(authentication.User{Name: user, HashedPublicKey: authentication.HashPublicKey(key)}, ""); err != nil {
			return err
		}
	}
	return nil
}

// HandleRequest is the ZAP endpoint's handler, invoked by the transport
// for every connection attempt (spec §4.2, §6). It never mutates the
// authenticator directly — only reads — so it is safe to call from the
// socket I/O thread.
func (s *Service) HandleRequest(req Request) Response {
	resp := Response{Version: req.Version, RequestID: req.RequestID}

	attempt := authentication.Attempt{
		RemoteAddress: req.Address,
		SecurityLevel: s.securityLevel,
		Domain:        req.Domain,
	}
	switch req.Mechanism {
	case MechanismPlain:
		attempt.Credentials = &authentication.UsernameAndPasswordAttempt{
			UserName: req.Username,
			Password: req.Password,
		}
	case MechanismCurve:
		attempt.PublicKey = req.PublicKey
	case MechanismNull:
		// no additional credentials to attach
	default:
		resp.StatusCode = StatusBadRequest
		resp.StatusText = "unrecognized mechanism"
		s.logger.Warn("zap request rejected", "address", req.Address, "mechanism", string(req.Mechanism))
		return resp
	}

	verdict := authentication.Authenticate(s.authenticator, attempt)
	if !verdict.Granted {
		resp.StatusCode = StatusBadRequest
		resp.StatusText = verdict.Reason
		s.logger.Warn("zap request denied", "address", req.Address, "reason", verdict.Reason)
		return resp
	}

	resp.StatusCode = StatusOK
	resp.StatusText = verdict.Reason
	resp.UserID = req.Username
	if resp.UserID == "" {
		resp.UserID = req.Identity
	}
	return resp
}
