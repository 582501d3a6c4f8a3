package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenda-cultural/agenda-api/internal/mailer"
	"github.com/agenda-cultural/agenda-api/internal/models"
	"github.com/agenda-cultural/agenda-api/pkg/jobs"
)

// CambioEstadoPayload is the job payload for a workflow notification.
type CambioEstadoPayload struct {
	SolicitudID    string
	NombreEvento   string
	EmailContacto  string
	EstadoAnterior models.EstadoSolicitud
	EstadoNuevo    models.EstadoSolicitud
	NotasAdmin     string
}

// NotificacionService delivers workflow emails asynchronously through
// the in-memory job queue. A nil *NotificacionService is a usable no-op
// so callers never branch on whether notifications are enabled.
type NotificacionService struct {
	queue  *jobs.Queue[CambioEstadoPayload]
	sender mailer.Sender
	logger *zap.Logger
}

// NewNotificacionService wires the mail sender behind a retrying queue.
func NewNotificacionService(sender mailer.Sender, cfg jobs.Config, logger *zap.Logger) *NotificacionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificacionService{sender: sender, logger: logger}
	s.queue = jobs.NewQueue("notificaciones", s.handle, cfg)
	return s
}

// Start begins queue consumption.
func (s *NotificacionService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificacionService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// EncolarCambioEstado queues a state-change email. Enqueue failures are
// logged and swallowed: notification delivery never blocks the API path.
func (s *NotificacionService) EncolarCambioEstado(payload CambioEstadoPayload) {
	if s == nil {
		return
	}
	if payload.EmailContacto == "" {
		return
	}

	job := jobs.Job[CambioEstadoPayload]{
		ID:      uuid.NewString(),
		Payload: payload,
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("no se pudo encolar la notificación",
			zap.String("solicitud_id", payload.SolicitudID), zap.Error(err))
	}
}

func (s *NotificacionService) handle(_ context.Context, job jobs.Job[CambioEstadoPayload]) error {
	payload := job.Payload

	subject := fmt.Sprintf("Tu solicitud de flyer %q cambió a %s", payload.NombreEvento, payload.EstadoNuevo)
	body := s.renderCambioEstado(payload)

	if err := s.sender.Send(payload.EmailContacto, subject, body); err != nil {
		return err
	}

	s.logger.Info("notificación enviada",
		zap.String("solicitud_id", payload.SolicitudID),
		zap.String("estado", string(payload.EstadoNuevo)))
	return nil
}

func (s *NotificacionService) renderCambioEstado(p CambioEstadoPayload) string {
	notas := ""
	if p.NotasAdmin != "" {
		notas = fmt.Sprintf("<p><strong>Notas del equipo:</strong> %s</p>", p.NotasAdmin)
	}
	return fmt.Sprintf(`
		<h2>Actualización de tu solicitud</h2>
		<p>Tu solicitud de flyer para <strong>%s</strong> pasó de <em>%s</em> a <em>%s</em>.</p>
		%s
		<p>— Agenda Cultural</p>`,
		p.NombreEvento, p.EstadoAnterior, p.EstadoNuevo, notas)
}
