// Package email implementa el Notifier del flujo de presupuestos sobre SMTP.
package email

import (
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/jcastillo/Taller-api/internal/application/presupuesto"
	"github.com/jcastillo/Taller-api/pkg/config"
	"github.com/jcastillo/Taller-api/pkg/logger"
)

var _ presupuesto.Notifier = (*GomailSender)(nil)

// GomailSender envía los correos del taller vía SMTP usando gomail.
// Con SMTP_HOST vacío queda en modo simulado: registra el envío y no
// abre conexión, lo que permite correr el servicio sin servidor de correo.
type GomailSender struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewGomailSender construye el sender con la configuración SMTP.
func NewGomailSender(cfg config.SMTPConfig, log *logger.Logger) *GomailSender {
	return &GomailSender{cfg: cfg, log: log}
}

func (s *GomailSender) simulado() bool { return s.cfg.Host == "" }

// EnviarPresupuesto manda al cliente el correo con los enlaces de
// aprobación/rechazo y el PDF adjunto (si se pudo generar).
func (s *GomailSender) EnviarPresupuesto(ctx context.Context, e presupuesto.EnvioPresupuesto) error {
	if s.simulado() {
		s.log.Info().
			Str("para", e.Para).
			Str("numero", e.Numero).
			Str("url_ver", e.URLVer).
			Msg("SMTP simulado: presupuesto no enviado por correo")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", e.Para)
	m.SetHeader("Subject", fmt.Sprintf("Presupuesto %s - respuesta requerida", e.Numero))
	m.SetBody("text/html", cuerpoEnvio(e))
	if len(e.PDF) > 0 {
		m.Attach(
			fmt.Sprintf("presupuesto_%s.pdf", e.Numero),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(e.PDF)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
		)
	}

	if err := s.enviar(ctx, m); err != nil {
		return fmt.Errorf("enviar presupuesto %s: %w", e.Numero, err)
	}
	s.log.Info().Str("para", e.Para).Str("numero", e.Numero).Msg("Presupuesto enviado por correo")
	return nil
}

// NotificarRespuesta avisa al buzón interno del taller que el cliente respondió.
func (s *GomailSender) NotificarRespuesta(ctx context.Context, r presupuesto.RespuestaPresupuesto) error {
	if s.cfg.Interno == "" {
		return nil
	}
	if s.simulado() {
		s.log.Info().
			Str("numero", r.Numero).
			Str("resultado", r.Resultado).
			Msg("SMTP simulado: aviso interno no enviado")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.Interno)
	m.SetHeader("Subject", fmt.Sprintf("Presupuesto %s: %s", r.Numero, r.Resultado))
	m.SetBody("text/html", cuerpoRespuesta(r))

	if err := s.enviar(ctx, m); err != nil {
		return fmt.Errorf("notificar respuesta %s: %w", r.Numero, err)
	}
	return nil
}

// enviar respeta la cancelación del contexto antes de abrir la conexión;
// gomail no acepta context, así que el corte es solo previo al dial.
func (s *GomailSender) enviar(ctx context.Context, m *gomail.Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	return d.DialAndSend(m)
}

func cuerpoEnvio(e presupuesto.EnvioPresupuesto) string {
	vence := ""
	if e.FechaVence != nil {
		vence = fmt.Sprintf("<p>Este presupuesto es válido hasta el <b>%s</b>.</p>",
			e.FechaVence.Format("02/01/2006"))
	}
	return fmt.Sprintf(`
		<p>Hola %s,</p>
		<p>Le enviamos el presupuesto <b>%s</b> para la reparación de su equipo.
		Encontrará el detalle en el documento adjunto o en el siguiente enlace:</p>
		<p><a href="%s">Ver presupuesto</a></p>
		%s
		<p>Para responder, use uno de estos enlaces:</p>
		<p>
			<a href="%s">APROBAR el presupuesto</a><br>
			<a href="%s">RECHAZAR el presupuesto</a>
		</p>
		<p>Los enlaces son personales y de un solo uso.</p>
		<p>Gracias,<br>El equipo del taller</p>`,
		e.ClienteNombre, e.Numero, e.URLVer, vence, e.URLAprobar, e.URLRechazar)
}

func cuerpoRespuesta(r presupuesto.RespuestaPresupuesto) string {
	precio := ""
	if r.PrecioElegido != "" {
		precio = fmt.Sprintf("<p>Tipo de repuesto elegido: <b>%s</b></p>", r.PrecioElegido)
	}
	return fmt.Sprintf(`
		<p>El cliente <b>%s</b> respondió el presupuesto <b>%s</b>.</p>
		<p>Resultado: <b>%s</b></p>
		%s`,
		r.ClienteNombre, r.Numero, r.Resultado, precio)
}
