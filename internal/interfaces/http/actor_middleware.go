package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/medtrack/inventory-api/pkg/jwt"
)

// LocalActor es la key de c.Locals donde el middleware deja el actor.
const LocalActor = "actor"

// AnonymousActor actor por defecto cuando la petición no trae token.
const AnonymousActor = "anonymous"

// ActorMiddleware extrae el actor del Bearer Token JWT para atribuir movimientos.
// El token es opcional: sin token o con formato irreconocible la petición sigue
// como "anonymous"; un token presente pero inválido sí se rechaza (401).
func ActorMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			c.Locals(LocalActor, AnonymousActor)
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.Locals(LocalActor, AnonymousActor)
			return c.Next()
		}
		actor, err := jwt.Parse(jwtSecret, strings.TrimSpace(parts[1]))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errDTO("INVALID_TOKEN", "token inválido o expirado"))
		}
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// GetActor devuelve el actor del contexto (después del middleware).
func GetActor(c *fiber.Ctx) string {
	v := c.Locals(LocalActor)
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return AnonymousActor
}
