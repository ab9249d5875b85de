package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dprince-03/LMS-API/internal/handler"
	service_mocks "github.com/dprince-03/LMS-API/internal/handler/mocks"
	"github.com/dprince-03/LMS-API/internal/model"
	"github.com/dprince-03/LMS-API/pkg/auth"
)

func TestHandler_Authentication(t *testing.T) {
	t.Parallel()

	jwtMgr := auth.NewManager(auth.Config{Secret: "test-secret", TTL: time.Hour})
	log := zap.NewExample().Named("test")

	var tests = []struct {
		name          string
		authorization string
		expectedCode  int
		expectedBody  string
	}{
		{
			name:          "err. no token",
			authorization: "",
			expectedCode:  http.StatusUnauthorized,
			expectedBody:  `{"success":false,"message":"Access denied. No token provided"}`,
		},
		{
			name:          "err. not a bearer token",
			authorization: "Basic dXNlcjpwYXNz",
			expectedCode:  http.StatusUnauthorized,
			expectedBody:  `{"success":false,"message":"Access denied. Invalid token format"}`,
		},
		{
			name:          "err. garbage token",
			authorization: auth.Bearer + "not.a.token",
			expectedCode:  http.StatusUnauthorized,
			expectedBody:  `{"success":false,"message":"Access denied. Invalid token"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			h := handler.New(service_mocks.NewMockAuthService(c), nil, nil, nil,
				service_mocks.NewMockBorrowService(c), jwtMgr, log)
			e := h.NewRouter()

			r := httptest.NewRequest(http.MethodPost, "/api/books/1/borrow", http.NoBody)
			if tt.authorization != "" {
				r.Header.Set(auth.AuthorizationHeader, tt.authorization)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestHandler_Authorization(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		actor        auth.Actor
		mockBehavior func(r *service_mocks.MockBorrowService)
		expectedCode int
	}{
		{
			name:         "err. reader cannot list all records",
			actor:        auth.Actor{ID: 7, Username: "reader", Role: auth.RoleUser},
			mockBehavior: func(r *service_mocks.MockBorrowService) {},
			expectedCode: http.StatusForbidden,
		},
		{
			name:  "ok. librarian lists records",
			actor: auth.Actor{ID: 2, Username: "librarian", Role: auth.RoleLibrarian},
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					ListRecords(gomock.Any(), model.RecordFilter{Page: 1, Limit: 10}).
					Return([]model.BorrowRecordDetails{}, model.NewPagination(1, 10, 0), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "ok. admin lists records",
			actor: auth.Actor{ID: 1, Username: "admin", Role: auth.RoleAdmin},
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					ListRecords(gomock.Any(), model.RecordFilter{Page: 1, Limit: 10}).
					Return([]model.BorrowRecordDetails{}, model.NewPagination(1, 10, 0), nil)
			},
			expectedCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowService(c)
			tt.mockBehavior(svc)

			e, token := newTestRouter(t, c, svc, tt.actor)
			r := httptest.NewRequest(http.MethodGet, "/api/borrow-records", http.NoBody)
			r.Header.Set(auth.AuthorizationHeader, auth.Bearer+token)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
