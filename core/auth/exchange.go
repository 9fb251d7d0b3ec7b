package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/edusoma/portal/core"
)

var (
	// ErrBackendUnreachable signals a network-level failure reaching the
	// identity backend; callers may degrade to the demo-account table.
	ErrBackendUnreachable = errors.New("cannot connect to authentication server")
)

// CredentialError carries the identity backend's rejection message,
// verbatim, for inline display on the login form.
type CredentialError struct {
	Detail string
}

func (e *CredentialError) Error() string { return e.Detail }

type (
	Credentials struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	// ExchangeResult is what a successful credential exchange yields: the
	// mapped principal and the backend's own access token. The portal mints
	// its own session token; the backend token is not used as one.
	ExchangeResult struct {
		Principal   Principal
		AccessToken string
	}

	// ExchangeClient trades credentials for an identity with the external
	// identity backend. It holds no state beyond its HTTP client.
	ExchangeClient struct {
		baseURL string
		client  *http.Client
	}

	exchangeUser struct {
		ID        json.Number `json:"id"`
		Email     string      `json:"email"`
		FirstName string      `json:"first_name"`
		LastName  string      `json:"last_name"`
		UserType  string      `json:"user_type"`
	}

	exchangeResponse struct {
		Access string       `json:"access"`
		User   exchangeUser `json:"user"`
	}

	exchangeErrorResponse struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
)

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.Validate.Struct(c)
}

func NewExchangeClient(conf core.BackendConfig, client *http.Client) *ExchangeClient {
	return &ExchangeClient{
		baseURL: conf.BaseURL,
		client:  client,
	}
}

// Exchange POSTs the credentials to the identity backend's token endpoint.
//
// A 2xx response is mapped onto an ExchangeResult; the role field is
// normalized onto the fixed role set. A non-2xx response becomes a
// *CredentialError carrying the backend's `detail` (or `message`) field.
// A network failure becomes ErrBackendUnreachable.
func (xc *ExchangeClient) Exchange(ctx context.Context, creds Credentials) (ExchangeResult, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return ExchangeResult{}, errors.Wrap(err, "marshalling credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, xc.baseURL+"/api/auth/token/", bytes.NewReader(body))
	if err != nil {
		return ExchangeResult{}, errors.Wrap(err, "building token request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := xc.client.Do(req)
	if err != nil {
		return ExchangeResult{}, ErrBackendUnreachable
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var errRes exchangeErrorResponse
		_ = json.NewDecoder(res.Body).Decode(&errRes)
		detail := errRes.Detail
		if detail == "" {
			detail = errRes.Message
		}
		if detail == "" {
			detail = "authentication failed"
		}
		return ExchangeResult{}, &CredentialError{Detail: detail}
	}

	var data exchangeResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return ExchangeResult{}, errors.Wrap(err, "decoding token response")
	}
	if data.User.ID.String() == "" {
		return ExchangeResult{}, &CredentialError{Detail: "invalid response from server"}
	}

	name := data.User.Email
	if data.User.FirstName != "" && data.User.LastName != "" {
		name = strings.TrimSpace(data.User.FirstName + " " + data.User.LastName)
	}
	return ExchangeResult{
		Principal: Principal{
			ID:    data.User.ID.String(),
			Email: data.User.Email,
			Name:  name,
			Role:  ParseRole(data.User.UserType),
		},
		AccessToken: data.Access,
	}, nil
}
