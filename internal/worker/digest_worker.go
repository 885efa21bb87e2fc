package worker

// digest_worker.go: once a day, mails the alerts that are expired or inside
// the warning window, with the PDF report attached. SMTP calls go through a
// CircuitBreaker.

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"jumboscan/internal/dto"
	"jumboscan/internal/infra"

	"github.com/rs/zerolog/log"
)

type Pendientes interface {
	Pendientes(ctx context.Context) ([]dto.AlertaResponse, error)
}

type Enviador interface {
	EnviarDigest(to []string, subject, body string, adjunto []byte, nombreAdjunto string) error
}

type DigestWorker struct {
	alertas       Pendientes
	mailer        Enviador
	cb            *infra.CircuitBreaker
	destinatarios []string
	hora          int
	zona          *time.Location
	now           func() time.Time

	mu        sync.Mutex
	ultimoDia string
}

func NewDigestWorker(alertas Pendientes, mailer Enviador, cb *infra.CircuitBreaker, destinatarios []string, hora int, zona *time.Location) *DigestWorker {
	if zona == nil {
		zona = time.Local
	}
	return &DigestWorker{
		alertas:       alertas,
		mailer:        mailer,
		cb:            cb,
		destinatarios: destinatarios,
		hora:          hora,
		zona:          zona,
		now:           time.Now,
	}
}

// Enviar sends the digest now. Nothing is sent when no alert is pending.
func (w *DigestWorker) Enviar(ctx context.Context) error {
	pendientes, err := w.alertas.Pendientes(ctx)
	if err != nil {
		return fmt.Errorf("digest: load alerts: %w", err)
	}
	if len(pendientes) == 0 {
		log.Info().Msg("digest: nothing pending")
		return nil
	}

	ahora := w.now().In(w.zona)
	pdf, err := infra.GenerarReporteAlertas(pendientes, ahora)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Vencimientos %s: %d productos por revisar", ahora.Format("02/01/2006"), len(pendientes))
	nombre := "vencimientos-" + ahora.Format(time.DateOnly) + ".pdf"

	err = w.cb.Execute(func() error {
		return w.mailer.EnviarDigest(w.destinatarios, subject, cuerpoDigest(pendientes), pdf, nombre)
	})
	if err != nil {
		log.Error().Err(err).Str("cb_state", w.cb.State().String()).Msg("digest: send failed")
		return err
	}
	log.Info().Int("alertas", len(pendientes)).Strs("to", w.destinatarios).Msg("digest: sent")
	return nil
}

func cuerpoDigest(alertas []dto.AlertaResponse) string {
	var vencidos, proximos int
	var b strings.Builder
	for _, a := range alertas {
		if a.Estado == dto.EstadoVencido {
			vencidos++
		} else {
			proximos++
		}
	}
	fmt.Fprintf(&b, "Vencidos: %d\nPor vencer: %d\n\n", vencidos, proximos)
	for _, a := range alertas {
		fmt.Fprintf(&b, "%s  %-14s  %s  (%s)\n", a.FechaVencimiento, a.EAN, a.NombreProducto, a.MensajeEstado)
	}
	return b.String()
}

// debeEnviar is true once per local day, from the configured hour on.
func (w *DigestWorker) debeEnviar() bool {
	ahora := w.now().In(w.zona)
	if ahora.Hour() < w.hora {
		return false
	}
	dia := ahora.Format(time.DateOnly)

	w.mu.Lock()
	defer w.mu.Unlock()
	if dia == w.ultimoDia {
		return false
	}
	w.ultimoDia = dia
	return true
}

// StartDigestCron checks every minute whether today's digest is due.
// A failed send is not retried until the next day.
func StartDigestCron(ctx context.Context, w *DigestWorker) {
	if len(w.destinatarios) == 0 {
		log.Info().Msg("digest: no recipients, cron disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		log.Info().Int("hour", w.hora).Msg("digest: cron started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("digest: cron stopped")
				return
			case <-ticker.C:
				if w.debeEnviar() {
					_ = w.Enviar(ctx)
				}
			}
		}
	}()
}
