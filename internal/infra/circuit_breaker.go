package infra

import (
	"errors"
	"sync"
	"time"
)

// CircuitBreaker sits between the digest worker and the SMTP relay. After
// FailureThreshold consecutive send errors it opens and refuses sends with
// ErrCircuitOpen for OpenTimeout; the next send after that is a probe; once
// SuccessThreshold probes succeed the relay is trusted again.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig
	now func() time.Time

	state        CBState
	fallos       int
	aciertos     int
	abiertoDesde time.Time
}

type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

var nombresEstado = map[CBState]string{
	CBClosed:   "closed",
	CBOpen:     "open",
	CBHalfOpen: "half-open",
}

func (s CBState) String() string {
	if n, ok := nombresEstado[s]; ok {
		return n
	}
	return "unknown"
}

// ErrCircuitOpen means the relay failed recently and the send was not attempted.
var ErrCircuitOpen = errors.New("smtp relay circuit is open")

type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

// DefaultCBConfig fits a digest sent once a day: three failed sends park the
// relay for five minutes and one good probe restores it.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: 5 * time.Minute}
}

// NewCircuitBreaker fills zero fields of cfg from DefaultCBConfig.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now, state: CBClosed}
}

func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.estadoActual()
}

// estadoActual lets an open circuit expire into half-open. Caller holds mu.
func (cb *CircuitBreaker) estadoActual() CBState {
	if cb.state == CBOpen && !cb.now().Before(cb.abiertoDesde.Add(cb.cfg.OpenTimeout)) {
		cb.state = CBHalfOpen
		cb.aciertos = 0
	}
	return cb.state
}

// Execute runs send unless the circuit is open and records its outcome.
func (cb *CircuitBreaker) Execute(send func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}
	err := send()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.registrarFallo()
		return err
	}
	cb.registrarAcierto()
	return nil
}

func (cb *CircuitBreaker) registrarFallo() {
	cb.fallos++
	if cb.state != CBHalfOpen && cb.fallos < cb.cfg.FailureThreshold {
		return
	}
	cb.state = CBOpen
	cb.abiertoDesde = cb.now()
	cb.fallos = 0
}

func (cb *CircuitBreaker) registrarAcierto() {
	if cb.state != CBHalfOpen {
		cb.fallos = 0
		return
	}
	cb.aciertos++
	if cb.aciertos >= cb.cfg.SuccessThreshold {
		cb.state = CBClosed
		cb.fallos, cb.aciertos = 0, 0
	}
}
