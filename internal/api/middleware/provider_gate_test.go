package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubAccessChecker struct {
	allow  bool
	err    error
	called bool
}

func (s *stubAccessChecker) HasAccess(_ context.Context, _ string, _ string) (bool, error) {
	s.called = true
	return s.allow, s.err
}

// TestRequirePatientAccess tests the patient record access gate
func TestRequirePatientAccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		checker    *stubAccessChecker
		userID     string
		patientID  string
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "provider with grant",
			checker:    &stubAccessChecker{allow: true},
			userID:     "provider-1",
			patientID:  "patient-1",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "provider without grant",
			checker:    &stubAccessChecker{allow: false},
			userID:     "provider-1",
			patientID:  "patient-1",
			wantStatus: http.StatusForbidden,
			wantCalled: true,
		},
		{
			name:       "patient reading own records skips check",
			checker:    &stubAccessChecker{allow: false},
			userID:     "patient-1",
			patientID:  "patient-1",
			wantStatus: http.StatusOK,
			wantCalled: false,
		},
		{
			name:       "unauthenticated",
			checker:    &stubAccessChecker{allow: true},
			userID:     "",
			patientID:  "patient-1",
			wantStatus: http.StatusUnauthorized,
			wantCalled: false,
		},
		{
			name:       "checker error",
			checker:    &stubAccessChecker{err: errors.New("db")},
			userID:     "provider-1",
			patientID:  "patient-1",
			wantStatus: http.StatusInternalServerError,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.userID != "" {
					c.Set("user_id", tt.userID)
				}
				c.Next()
			})
			r.GET("/patients/:patientId/logs",
				RequirePatientAccess(tt.checker, "patientId"),
				func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/patients/"+tt.patientID+"/logs", nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.checker.called != tt.wantCalled {
				t.Fatalf("checker called = %v, want %v", tt.checker.called, tt.wantCalled)
			}
		})
	}
}
