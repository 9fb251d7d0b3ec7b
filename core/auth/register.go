package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/edusoma/portal/core"
)

// NewAccount is the flat registration form forwarded to the identity
// backend's register endpoint. The password policy is enforced here, before
// the form ever leaves the portal.
type NewAccount struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password2" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	UserType        string `json:"user_type" validate:"required"`
	Phone           string `json:"phone,omitempty"`
}

func (na *NewAccount) Validate() error {
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.FirstName = core.CleanString(na.FirstName)
	na.LastName = core.CleanString(na.LastName)
	na.UserType = string(ParseRole(na.UserType))
	return core.Validate.Struct(na)
}

// Register forwards the validated form to the identity backend.
// The created account payload is returned as-is.
func (xc *ExchangeClient) Register(ctx context.Context, acct NewAccount) (json.RawMessage, error) {
	body, err := json.Marshal(acct)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling account")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, xc.baseURL+"/api/auth/register/", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "building register request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := xc.client.Do(req)
	if err != nil {
		return nil, ErrBackendUnreachable
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
			detail = "registration failed"
		}
		return nil, &CredentialError{Detail: detail}
	}

	var created json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		return nil, errors.Wrap(err, "decoding register response")
	}
	return created, nil
}
