package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jollyhome/jollyhome-api/internal/services"
)

// Access is the privilege a route declares. Routes are open unless they
// declare otherwise.
type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessAdmin
)

func (a Access) String() string {
	switch a {
	case AccessAuthenticated:
		return "authenticated"
	case AccessAdmin:
		return "admin"
	default:
		return "public"
	}
}

// Gate builds per-route handler chains. Each route names the level it has
// always had and the level it gets when hardened access is on.
type Gate struct {
	authn    fiber.Handler
	admin    fiber.Handler
	users    RoleLookup
	hardened bool
}

func NewGate(tokens *services.TokenService, users RoleLookup, hardened bool) *Gate {
	return &Gate{
		authn:    Authenticated(tokens),
		admin:    AdminRequired(users),
		users:    users,
		hardened: hardened,
	}
}

func (g *Gate) Level(observed, hardened Access) Access {
	if g.hardened && hardened > observed {
		return hardened
	}
	return observed
}

// Wrap prefixes handlers with the checks access requires.
func (g *Gate) Wrap(access Access, handlers ...fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(handlers)+2)
	switch access {
	case AccessAuthenticated:
		chain = append(chain, g.authn)
	case AccessAdmin:
		chain = append(chain, g.authn, g.admin)
	}
	return append(chain, handlers...)
}

// Route is Wrap applied to Level(observed, hardened).
func (g *Gate) Route(observed, hardened Access, handlers ...fiber.Handler) []fiber.Handler {
	return g.Wrap(g.Level(observed, hardened), handlers...)
}

// IsAdmin is the same stored-role check AdminRequired performs, for
// handlers that allow either the owner or an admin.
func (g *Gate) IsAdmin(ctx context.Context, email string) (bool, error) {
	return hasAdminRole(ctx, g.users, email)
}
