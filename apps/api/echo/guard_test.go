package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edusoma/portal/core/auth"
)

func Test_routeGuard(t *testing.T) {
	app := setup(t)

	studentToken := getToken(t, auth.Principal{ID: "1", Email: "sam@school.test", Name: "Sam Doe", Role: auth.RoleStudent})
	teacherToken := getToken(t, auth.Principal{ID: "7", Email: "jane@school.test", Name: "Jane Doe", Role: auth.RoleTeacher})
	adminToken := getToken(t, auth.Principal{ID: "3", Email: "bob@school.test", Name: "Bob Admin", Role: auth.RoleAdmin})

	expiredClaims := auth.GetPrincipalClaims(auth.Principal{ID: "1", Role: auth.RoleStudent})
	expiredClaims.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	expiredToken, err := auth.GenerateToken(expiredClaims)
	if err != nil {
		t.Fatalf("GenerateToken() failed, %v", err)
	}

	tests := []struct {
		name         string
		path         string
		token        string
		wantCode     int
		wantLocation string
		wantData     *httpErr
	}{
		{name: "home is public", path: "/", wantCode: http.StatusOK},
		{name: "login page is public", path: "/login", wantCode: http.StatusOK},
		{name: "register page is public", path: "/register", wantCode: http.StatusOK},
		{name: "app assets are public", path: "/_next/chunks/main.js", wantCode: http.StatusOK},
		{name: "public paths ignore bad tokens", path: "/login", token: "lmaooolol", wantCode: http.StatusOK},
		{name: "public paths ignore valid tokens", path: "/login", token: studentToken, wantCode: http.StatusOK},
		{
			name:         "anonymous page request redirects to login",
			path:         "/student/dashboard",
			wantCode:     http.StatusFound,
			wantLocation: "/login?callbackUrl=%2Fstudent%2Fdashboard",
		},
		{
			name:         "garbage token redirects to login",
			path:         "/teacher/dashboard",
			token:        "lmaooolol",
			wantCode:     http.StatusFound,
			wantLocation: "/login?callbackUrl=%2Fteacher%2Fdashboard",
		},
		{
			name:         "expired token redirects to login",
			path:         "/student/dashboard",
			token:        expiredToken,
			wantCode:     http.StatusFound,
			wantLocation: "/login?callbackUrl=%2Fstudent%2Fdashboard",
		},
		{
			name:     "anonymous API request gets 401",
			path:     "/api/students",
			wantCode: http.StatusUnauthorized,
			wantData: &errMissingSession,
		},
		{name: "student enters own area", path: "/student/dashboard", token: studentToken, wantCode: http.StatusOK},
		{name: "admin enters own area", path: "/admin/dashboard", token: adminToken, wantCode: http.StatusOK},
		{name: "shared pages only require a session", path: "/profile", token: studentToken, wantCode: http.StatusOK},
		{
			name:         "teacher is sent home from the admin area",
			path:         "/admin/dashboard",
			token:        teacherToken,
			wantCode:     http.StatusFound,
			wantLocation: "/teacher/dashboard",
		},
		{
			name:         "student is sent home from the teacher area",
			path:         "/teacher/classes",
			token:        studentToken,
			wantCode:     http.StatusFound,
			wantLocation: "/student/dashboard",
		},
		{
			name:     "teacher is forbidden on admin API routes",
			path:     "/api/admin/stats",
			token:    teacherToken,
			wantCode: http.StatusForbidden,
			wantData: &errForbidden,
		},
		{
			name:         "metrics require a session",
			path:         "/metrics",
			wantCode:     http.StatusFound,
			wantLocation: "/login?callbackUrl=%2Fmetrics",
		},
		{
			name:         "metrics are reserved for admins",
			path:         "/metrics",
			token:        teacherToken,
			wantCode:     http.StatusFound,
			wantLocation: "/teacher/dashboard",
		},
		{name: "admin reads metrics", path: "/metrics", token: adminToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("code = %v, wantCode %v", rec.Code, tt.wantCode)
			}
			if tt.wantLocation != "" {
				if got := rec.Header().Get(echo.HeaderLocation); got != tt.wantLocation {
					t.Errorf("Location = %v, want %v", got, tt.wantLocation)
				}
			}
			if tt.wantData != nil {
				ok, err := jsonBytesEqual(t, rec.Body.Bytes(), marchallObj(t, tt.wantData))
				if err != nil || !ok {
					t.Errorf("data = %v, wantData %v (err %v)", rec.Body.String(), *tt.wantData, err)
				}
			}
		})
	}
}

func Test_routeGuard_bearerFallback(t *testing.T) {
	app := setup(t)
	token := getToken(t, auth.Principal{ID: "1", Email: "sam@school.test", Name: "Sam Doe", Role: auth.RoleStudent})

	req, rec := newRequest(http.MethodGet, "/api/students")
	req.Header.Set("Authorization", "Bearer "+token)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("code = %v, wantCode %v", rec.Code, http.StatusOK)
	}
}

func Test_isPublicPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/", want: true},
		{path: "/login", want: true},
		{path: "/api/auth/login", want: true},
		{path: "/api/test-backend", want: true},
		{path: "/favicon.ico", want: true},
		{path: "/loginnn", want: false}, // prefix match requires a path boundary
		{path: "/metrics", want: false},
		{path: "/api/students", want: false},
		{path: "/admin/dashboard", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isPublicPath(tt.path); got != tt.want {
				t.Errorf("isPublicPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func Test_requiredRole(t *testing.T) {
	tests := []struct {
		path     string
		wantRole auth.Role
		wantOK   bool
	}{
		{path: "/admin", wantRole: auth.RoleAdmin, wantOK: true},
		{path: "/admin/dashboard", wantRole: auth.RoleAdmin, wantOK: true},
		{path: "/api/teacher/classes", wantRole: auth.RoleTeacher, wantOK: true},
		{path: "/metrics", wantRole: auth.RoleAdmin, wantOK: true},
		{path: "/api/students", wantOK: false}, // not an area namespace
		{path: "/profile", wantOK: false},
		{path: "/administration", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			role, ok := requiredRole(tt.path)
			if ok != tt.wantOK || role != tt.wantRole {
				t.Errorf("requiredRole(%q) = (%v, %v), want (%v, %v)", tt.path, role, ok, tt.wantRole, tt.wantOK)
			}
		})
	}
}
