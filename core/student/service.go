package student

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/edusoma/portal/core"
)

// DownstreamError carries the school backend's status and message so the
// proxy can forward both untouched.
type DownstreamError struct {
	Status int
	Detail string
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("school backend returned %d: %s", e.Status, e.Detail)
}

type (
	ListFilter struct {
		Page   int    `query:"page"`
		Limit  int    `query:"limit"`
		Search string `query:"search"`
		Class  string `query:"class"`
	}

	Pagination struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
		Pages int `json:"pages"`
	}

	// Page is the reshaped listing envelope returned to the portal UI.
	Page struct {
		Students   json.RawMessage `json:"students"`
		Pagination Pagination      `json:"pagination"`
	}

	// Registered is the proxy's creation response: the backend record plus
	// the fixed default password handed to the school office.
	Registered struct {
		Message         string          `json:"message"`
		Student         json.RawMessage `json:"student"`
		DefaultPassword string          `json:"defaultPassword"`
	}

	// Service proxies student operations to the school backend. It owns no
	// data; every call is a single forwarded HTTP request.
	Service struct {
		baseURL string
		client  *http.Client
		mailSvc core.EmailService
	}

	listResponse struct {
		Results json.RawMessage `json:"results"`
		Count   int             `json:"count"`
	}
)

func NewService(conf core.BackendConfig, client *http.Client, mailSvc core.EmailService) *Service {
	return &Service{
		baseURL: conf.BaseURL,
		client:  client,
		mailSvc: mailSvc,
	}
}

// BaseURL reports the configured school backend URL; used by diagnostics.
func (svc *Service) BaseURL() string { return svc.baseURL }

func (f *ListFilter) Clean() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	f.Search = core.CleanString(f.Search)
	f.Class = core.CleanString(f.Class)
}

// List forwards the filter to the backend's /students/ endpoint and reshapes
// its paginated envelope.
func (svc *Service) List(ctx context.Context, filter ListFilter) (Page, error) {
	filter.Clean()

	params := make(url.Values)
	params.Set("page", strconv.Itoa(filter.Page))
	params.Set("page_size", strconv.Itoa(filter.Limit))
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.Class != "" {
		params.Set("current_class", filter.Class)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.baseURL+"/students/?"+params.Encode(), nil)
	if err != nil {
		return Page{}, errors.Wrap(err, "building students request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := svc.client.Do(req)
	if err != nil {
		return Page{}, errors.Wrap(err, "calling school backend")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Page{}, downstreamError(res, "Failed to fetch students")
	}

	var data listResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return Page{}, errors.Wrap(err, "decoding students response")
	}

	pages := 1
	if data.Count > 0 {
		pages = (data.Count + filter.Limit - 1) / filter.Limit
	}
	students := data.Results
	if students == nil {
		students = json.RawMessage("[]")
	}
	return Page{
		Students: students,
		Pagination: Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: data.Count,
			Pages: pages,
		},
	}, nil
}

// Register maps the flat form onto the backend's shape, forwards it, and
// welcomes the student by email when an address was supplied.
func (svc *Service) Register(ctx context.Context, ns NewStudent) (Registered, error) {
	body, err := json.Marshal(ns.toBackend(time.Now()))
	if err != nil {
		return Registered{}, errors.Wrap(err, "marshalling student")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+"/students/", bytes.NewReader(body))
	if err != nil {
		return Registered{}, errors.Wrap(err, "building student request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := svc.client.Do(req)
	if err != nil {
		return Registered{}, errors.Wrap(err, "calling school backend")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Registered{}, downstreamError(res, "Failed to create student")
	}

	var created json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		return Registered{}, errors.Wrap(err, "decoding student response")
	}

	if ns.Email != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Name: ns.FirstName + " " + ns.LastName, Address: ns.Email}},
			Subject: "Welcome to " + core.Conf.AppName,
			BodyStr: fmt.Sprintf(
				"Hello %s,\r\n\r\nYour student account has been created. "+
					"Sign in at %s/login with this email address and the temporary password %q, "+
					"then change it from your profile page.\r\n",
				ns.FirstName, core.Conf.FrontendBaseURL, DefaultPassword,
			),
		})
	}

	return Registered{
		Message:         "Student created successfully",
		Student:         created,
		DefaultPassword: DefaultPassword,
	}, nil
}

// CheckBackend pings the backend health endpoint; used by the diagnostics page.
func (svc *Service) CheckBackend(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.baseURL+"/health/", nil)
	if err != nil {
		return nil, errors.Wrap(err, "building health request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := svc.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling school backend")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, errors.Errorf("backend responded with status: %d", res.StatusCode)
	}

	var data json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, errors.Wrap(err, "decoding health response")
	}
	return data, nil
}

func downstreamError(res *http.Response, fallback string) error {
	var errRes struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(res.Body).Decode(&errRes)
	detail := errRes.Detail
	if detail == "" {
		detail = errRes.Message
	}
	if detail == "" {
		detail = fallback
	}
	return &DownstreamError{Status: res.StatusCode, Detail: detail}
}
