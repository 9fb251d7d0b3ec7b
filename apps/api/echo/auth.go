package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edusoma/portal/core"
	"github.com/edusoma/portal/core/auth"
)

type authApi struct {
	exchange *auth.ExchangeClient
}

func registerAuthAPI(e *echo.Echo, exchange *auth.ExchangeClient) {
	api := authApi{exchange: exchange}

	g := e.Group("/api/auth")
	g.POST("/login", api.login)
	g.POST("/logout", api.logout)
	g.GET("/session", api.session)
	g.POST("/register", api.register)
}

// Handlers

// login runs the credential exchange and, on success, mints a session token
// and sets it on the session cookie. The response body repeats the principal
// and token for the UI's "logged in as" hint; the cookie is the session.
func (api *authApi) login(ctx echo.Context) error {
	var creds auth.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	result, err := api.exchange.Exchange(ctx.Request().Context(), creds)
	if err != nil {
		// the demo-account table covers both a rejected login and an
		// unreachable backend, when enabled
		if prc, ok := auth.CheckDemoAccount(creds); ok {
			loginAttempts.WithLabelValues("demo").Inc()
			return api.establishSession(ctx, prc)
		}

		switch cause := errors.Cause(err).(type) {
		case *auth.CredentialError:
			loginAttempts.WithLabelValues("rejected").Inc()
			return core.NewValidationError(errors.New(cause.Detail))
		default:
			if errors.Cause(err) == auth.ErrBackendUnreachable {
				loginAttempts.WithLabelValues("unreachable").Inc()
				return core.NewValidationError(auth.ErrBackendUnreachable)
			}
			loginAttempts.WithLabelValues("error").Inc()
			return errors.Wrap(err, "exchanging credentials")
		}
	}

	loginAttempts.WithLabelValues("success").Inc()
	return api.establishSession(ctx, result.Principal)
}

func (api *authApi) establishSession(ctx echo.Context, prc auth.Principal) error {
	claims := auth.GetPrincipalClaims(prc)
	token, err := auth.GenerateToken(claims)
	if err != nil {
		// a gateway that cannot sign sessions cannot serve; stop it
		return core.NewShutdownError("signing session token: " + err.Error())
	}

	expires := time.Unix(claims.ExpiresAt, 0)
	ctx.SetCookie(sessionCookie(token, expires))

	return ctx.JSON(http.StatusOK, LoginResponse{
		User:     prc,
		Token:    token,
		Expires:  expires.UTC().Format(time.RFC3339),
		Redirect: prc.Role.LandingPath(),
	})
}

func (api *authApi) logout(ctx echo.Context) error {
	ctx.SetCookie(expiredSessionCookie())
	return ctx.NoContent(http.StatusNoContent)
}

// session introspects the current session cookie; `null` when there is none.
func (api *authApi) session(ctx echo.Context) error {
	claims, err := auth.VerifyToken(tokenFromRequest(ctx))
	if err != nil {
		return ctx.JSON(http.StatusOK, nil)
	}
	return ctx.JSON(http.StatusOK, SessionResponse{
		User:    claims.Principal(),
		Expires: time.Unix(claims.ExpiresAt, 0).UTC().Format(time.RFC3339),
	})
}

func (api *authApi) register(ctx echo.Context) error {
	var acct auth.NewAccount
	if err := ctx.Bind(&acct); err != nil {
		return errors.Wrap(err, "binding to NewAccount")
	}
	if err := acct.Validate(); err != nil {
		return err
	}

	created, err := api.exchange.Register(ctx.Request().Context(), acct)
	if err != nil {
		switch cause := errors.Cause(err).(type) {
		case *auth.CredentialError:
			return core.NewValidationError(errors.New(cause.Detail))
		default:
			if errors.Cause(err) == auth.ErrBackendUnreachable {
				return core.NewValidationError(auth.ErrBackendUnreachable)
			}
			return errors.Wrap(err, "registering account")
		}
	}
	return ctx.JSONBlob(http.StatusCreated, created)
}

func sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   !core.Conf.Debug,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !core.Conf.Debug,
		SameSite: http.SameSiteLaxMode,
	}
}

type (
	LoginResponse struct {
		User     auth.Principal `json:"user"`
		Token    string         `json:"token"`
		Expires  string         `json:"expires"`
		Redirect string         `json:"redirect"`
	}

	SessionResponse struct {
		User    auth.Principal `json:"user"`
		Expires string         `json:"expires"`
	}
)
