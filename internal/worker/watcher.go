package worker

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Watcher polls the spreadsheet and fires an import whenever its
// modification time changes. A missing file is not an error; the next
// appearance counts as a change.
type Watcher struct {
	ruta      string
	intervalo time.Duration
	disparar  func(ctx context.Context) error

	mu     sync.Mutex
	visto  time.Time
	existe bool
}

func NewWatcher(ruta string, intervalo time.Duration, disparar func(ctx context.Context) error) *Watcher {
	w := &Watcher{ruta: ruta, intervalo: intervalo, disparar: disparar}
	w.Marcar()
	return w
}

// Marcar records the current mtime as already imported.
func (w *Watcher) Marcar() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if fi, err := os.Stat(w.ruta); err == nil {
		w.visto, w.existe = fi.ModTime(), true
	} else {
		w.visto, w.existe = time.Time{}, false
	}
}

// Revisar stats the file once and fires when it changed. It reports whether
// an import was triggered.
func (w *Watcher) Revisar(ctx context.Context) bool {
	fi, err := os.Stat(w.ruta)
	if err != nil {
		w.mu.Lock()
		w.existe = false
		w.mu.Unlock()
		return false
	}

	w.mu.Lock()
	cambio := !w.existe || !fi.ModTime().Equal(w.visto)
	if cambio {
		w.visto, w.existe = fi.ModTime(), true
	}
	w.mu.Unlock()
	if !cambio {
		return false
	}

	log.Info().Str("archivo", w.ruta).Time("mtime", fi.ModTime()).Msg("watcher: spreadsheet changed")
	if err := w.disparar(ctx); err != nil {
		log.Error().Err(err).Str("archivo", w.ruta).Msg("watcher: import trigger failed")
	}
	return true
}

// Start runs the polling loop until ctx is cancelled. A non-positive
// interval disables it.
func (w *Watcher) Start(ctx context.Context) {
	if w.intervalo <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(w.intervalo)
		defer ticker.Stop()
		log.Info().Str("archivo", w.ruta).Dur("interval", w.intervalo).Msg("watcher: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("watcher: stopped")
				return
			case <-ticker.C:
				w.Revisar(ctx)
			}
		}
	}()
}
