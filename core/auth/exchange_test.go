package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edusoma/portal/core"
)

func newIdentityBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/token/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch creds.Email {
		case "jane@school.test":
			w.Write([]byte(`{
				"access": "backend-access-token",
				"user": {"id": 7, "email": "jane@school.test", "first_name": "Jane", "last_name": "Doe", "user_type": "TEACHER"}
			}`))
		case "noname@school.test":
			w.Write([]byte(`{
				"access": "backend-access-token",
				"user": {"id": "9", "email": "noname@school.test", "user_type": "STUDENT"}
			}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "Invalid credentials"}`))
		}
	})
	mux.HandleFunc("/api/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 11, "email": "new@school.test"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestExchangeClient_Exchange(t *testing.T) {
	backend := newIdentityBackend(t)
	xc := NewExchangeClient(core.BackendConfig{BaseURL: backend.URL, Timeout: time.Second}, backend.Client())

	tests := []struct {
		name       string
		creds      Credentials
		want       ExchangeResult
		wantDetail string
	}{
		{
			name:  "known account is mapped",
			creds: Credentials{Email: "jane@school.test", Password: "pass1234"},
			want: ExchangeResult{
				Principal:   Principal{ID: "7", Email: "jane@school.test", Name: "Jane Doe", Role: RoleTeacher},
				AccessToken: "backend-access-token",
			},
		},
		{
			name:  "missing names fall back to email",
			creds: Credentials{Email: "noname@school.test", Password: "pass1234"},
			want: ExchangeResult{
				Principal:   Principal{ID: "9", Email: "noname@school.test", Name: "noname@school.test", Role: RoleStudent},
				AccessToken: "backend-access-token",
			},
		},
		{
			name:       "rejection detail is kept verbatim",
			creds:      Credentials{Email: "who@school.test", Password: "nope"},
			wantDetail: "Invalid credentials",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := xc.Exchange(context.Background(), tt.creds)
			if tt.wantDetail != "" {
				credErr, ok := err.(*CredentialError)
				if !ok {
					t.Fatalf("Exchange() error = %v, want *CredentialError", err)
				}
				if credErr.Detail != tt.wantDetail {
					t.Errorf("Detail = %q, want %q", credErr.Detail, tt.wantDetail)
				}
				return
			}
			if err != nil {
				t.Fatalf("Exchange() failed, %v", err)
			}
			if got != tt.want {
				t.Errorf("Exchange() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExchangeClient_Exchange_backendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	backend.Close() // nothing listens anymore

	xc := NewExchangeClient(core.BackendConfig{BaseURL: backend.URL, Timeout: time.Second}, &http.Client{Timeout: time.Second})
	if _, err := xc.Exchange(context.Background(), Credentials{Email: "jane@school.test", Password: "pass1234"}); err != ErrBackendUnreachable {
		t.Errorf("Exchange() error = %v, want %v", err, ErrBackendUnreachable)
	}
}

func TestExchangeClient_Register(t *testing.T) {
	backend := newIdentityBackend(t)
	xc := NewExchangeClient(core.BackendConfig{BaseURL: backend.URL, Timeout: time.Second}, backend.Client())

	created, err := xc.Register(context.Background(), NewAccount{
		Email:           "new@school.test",
		Password:        "G00d@Pass!",
		PasswordConfirm: "G00d@Pass!",
		FirstName:       "New",
		LastName:        "Kid",
		UserType:        "STUDENT",
	})
	if err != nil {
		t.Fatalf("Register() failed, %v", err)
	}
	if string(created) == "" {
		t.Error("Register() returned an empty payload")
	}
}
