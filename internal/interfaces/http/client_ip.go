package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIP resuelve la IP real del cliente detrás de proxies: primer salto de
// X-Forwarded-For, luego X-Real-IP y por último la dirección remota. Entradas
// vacías o "unknown" se descartan.
func ClientIP(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		for _, hop := range strings.Split(xff, ",") {
			ip := strings.TrimSpace(hop)
			if ip != "" && !strings.EqualFold(ip, "unknown") {
				return ip
			}
		}
	}
	if xrip := strings.TrimSpace(c.Get("X-Real-IP")); xrip != "" && !strings.EqualFold(xrip, "unknown") {
		return xrip
	}
	return c.IP()
}
