package echoapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edusoma/portal/core/auth"
)

const (
	sessionCookieName   = "portal_session"
	loginPath           = "/login"
	callbackParam       = "callbackUrl"
	contextPrincipalKey = "principal"
)

// publicPaths lists the prefixes exempt from authentication, matched
// exact-or-prefix. Everything else is protected.
var publicPaths = []string{
	"/",
	"/login",
	"/register",
	"/test-styling",
	"/test-backend",
	"/api/auth",
	"/api/test-backend",
	"/_next",
	"/static",
	"/favicon.ico",
}

// protectedAreas maps each role's dashboard area onto the role allowed in.
// Protected paths outside these areas only require authentication.
// Metrics expose login/guard outcome counts, so they are reserved for admins;
// scrapers authenticate with a Bearer token minted by the admin CLI.
var protectedAreas = []struct {
	prefix string
	role   auth.Role
}{
	{"/admin", auth.RoleAdmin},
	{"/teacher", auth.RoleTeacher},
	{"/student", auth.RoleStudent},
	{"/parent", auth.RoleParent},
	{"/metrics", auth.RoleAdmin},
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// requiredRole resolves the role an area path is reserved for. API routes
// namespaced under an area (/api/admin/...) are gated like the area itself.
func requiredRole(path string) (auth.Role, bool) {
	path = strings.TrimPrefix(path, "/api")
	for _, area := range protectedAreas {
		if path == area.prefix || strings.HasPrefix(path, area.prefix+"/") {
			return area.role, true
		}
	}
	return "", false
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// routeGuard classifies every request as public or protected and, for
// protected paths, verifies the session token and the principal's role.
//
// Evaluation failures are never fatal: any way the token can be unusable
// collapses to the unauthenticated outcome, which is a redirect to the login
// entry point (with the original path preserved) for page requests and a
// plain 401 for API requests.
func routeGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		path := ctx.Request().URL.Path
		if isPublicPath(path) {
			guardDecisions.WithLabelValues("public").Inc()
			return next(ctx)
		}

		claims, err := auth.VerifyToken(tokenFromRequest(ctx))
		if err != nil {
			guardDecisions.WithLabelValues("unauthenticated").Inc()
			if isAPIPath(path) {
				return errUnauthorized
			}
			return redirectToLogin(ctx, path)
		}

		prc := claims.Principal()
		ctx.Set(contextPrincipalKey, prc)

		if role, ok := requiredRole(path); ok && prc.Role != role {
			guardDecisions.WithLabelValues("forbidden").Inc()
			if isAPIPath(path) {
				return errHttpForbidden
			}
			// wrong area; send the principal home instead
			return ctx.Redirect(http.StatusFound, prc.Role.LandingPath())
		}

		guardDecisions.WithLabelValues("allowed").Inc()
		return next(ctx)
	}
}

// tokenFromRequest reads the raw session token off the session cookie,
// falling back to a Bearer header for API clients.
func tokenFromRequest(ctx echo.Context) string {
	if cookie, err := ctx.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func redirectToLogin(ctx echo.Context, path string) error {
	v := make(url.Values)
	v.Set(callbackParam, path)
	return ctx.Redirect(http.StatusFound, loginPath+"?"+v.Encode())
}

// getContextPrincipal returns the Principal the guard attached to the request.
func getContextPrincipal(ctx echo.Context) (auth.Principal, bool) {
	prc, ok := ctx.Get(contextPrincipalKey).(auth.Principal)
	return prc, ok
}
