package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dprince-03/LMS-API/internal/errs"
	"github.com/dprince-03/LMS-API/internal/handler"
	service_mocks "github.com/dprince-03/LMS-API/internal/handler/mocks"
	"github.com/dprince-03/LMS-API/internal/model"
	"github.com/dprince-03/LMS-API/pkg/auth"
)

// newTestRouter builds the production router with mocked services and issues
// a valid bearer token for actor, so requests pass the real auth middleware.
func newTestRouter(t *testing.T, ctrl *gomock.Controller, borrowSvc handler.BorrowService, actor auth.Actor) (*echo.Echo, string) {
	t.Helper()
	jwtMgr := auth.NewManager(auth.Config{Secret: "test-secret", TTL: time.Hour})
	token, _, err := jwtMgr.Issue(actor.ID, actor.Username, actor.Role)
	require.NoError(t, err)

	authSvc := service_mocks.NewMockAuthService(ctrl)
	authSvc.EXPECT().ResolveActor(gomock.Any(), actor.ID).Return(actor, nil).AnyTimes()

	log := zap.NewExample().Named("test")
	h := handler.New(authSvc, nil, nil, nil, borrowSvc, jwtMgr, log)
	return h.NewRouter(), token
}

func TestHandler_BorrowBook(t *testing.T) {
	t.Parallel()

	borrowDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	dueDate := borrowDate.AddDate(0, 0, 14)
	actor := auth.Actor{ID: 7, Username: "reader", Role: auth.RoleUser}

	type input struct {
		bookID  int
		body    string
		dueDays int
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowService, inp input)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					Borrow(gomock.Any(), actor.ID, inp.bookID, inp.dueDays).
					Return(model.BorrowResult{
						BorrowRecord: model.BorrowRecord{
							ID:         42,
							UserID:     actor.ID,
							BookID:     inp.bookID,
							BorrowDate: borrowDate,
							DueDate:    dueDate,
							Status:     model.StatusBorrowed,
							CreatedAt:  borrowDate,
							UpdatedAt:  borrowDate,
						},
						Book: model.BookSummary{
							ID:              inp.bookID,
							Title:           "The Go Programming Language",
							ISBN:            "978-0134190440",
							AvailableCopies: 2,
							Status:          model.BookAvailable,
						},
						DueDate:     dueDate,
						DaysAllowed: 14,
					}, nil)
			},
			input: input{bookID: 3, body: `{}`, dueDays: 0},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"success":true,"message":"Book borrowed successfully","data":{` +
					`"borrow_record":{"id":42,"user_id":7,"book_id":3,"borrow_date":"2024-03-01T10:00:00Z","due_date":"2024-03-15T10:00:00Z","status":"Borrowed","created_at":"2024-03-01T10:00:00Z","updated_at":"2024-03-01T10:00:00Z"},` +
					`"book":{"id":3,"title":"The Go Programming Language","isbn":"978-0134190440","available_copies":2,"status":"Available"},` +
					`"due_date":"2024-03-15T10:00:00Z","days_allowed":14}}`,
			},
		},
		{
			name: "err. book not found",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					Borrow(gomock.Any(), actor.ID, inp.bookID, inp.dueDays).
					Return(model.BorrowResult{}, errs.ErrNotFound)
			},
			input: input{bookID: 99, body: `{}`},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"success":false,"message":"not found"}`,
			},
		},
		{
			name: "err. no copies left",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					Borrow(gomock.Any(), actor.ID, inp.bookID, inp.dueDays).
					Return(model.BorrowResult{}, errs.ErrBookUnavailable)
			},
			input: input{bookID: 3, body: `{}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"success":false,"message":"book is not available for borrowing"}`,
			},
		},
		{
			name: "err. duplicate active borrow",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					Borrow(gomock.Any(), actor.ID, inp.bookID, inp.dueDays).
					Return(model.BorrowResult{}, errs.ErrAlreadyBorrowed)
			},
			input: input{bookID: 3, body: `{}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"success":false,"message":"you have already borrowed this book"}`,
			},
		},
		{
			name: "err. borrow limit",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					Borrow(gomock.Any(), actor.ID, inp.bookID, inp.dueDays).
					Return(model.BorrowResult{}, errs.ErrBorrowLimit)
			},
			input: input{bookID: 3, body: `{"due_days":7}`, dueDays: 7},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"success":false,"message":"borrow limit exceeded"}`,
			},
		},
		{
			name:         "err. invalid book id",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {},
			input:        input{bookID: 0, body: `{}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"message":"Valid id is required"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowService(c)
			tt.mockBehavior(svc, tt.input)

			e, token := newTestRouter(t, c, svc, actor)
			r := httptest.NewRequest(http.MethodPost,
				fmt.Sprintf("/api/books/%d/borrow", tt.input.bookID), strings.NewReader(tt.input.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r.Header.Set(auth.AuthorizationHeader, auth.Bearer+token)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.JSONEq(t, tt.response.expectedBody, w.Body.String())
		})
	}
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()

	borrowDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	dueDate := borrowDate.AddDate(0, 0, 14)
	actor := auth.Actor{ID: 7, Username: "reader", Role: auth.RoleUser}

	onTimeReturn := dueDate.AddDate(0, 0, -1)
	lateReturn := dueDate.AddDate(0, 0, 3)

	record := func(returned time.Time) model.BorrowRecord {
		return model.BorrowRecord{
			ID:         42,
			UserID:     actor.ID,
			BookID:     3,
			BorrowDate: borrowDate,
			DueDate:    dueDate,
			ReturnDate: &returned,
			Status:     model.StatusReturned,
			CreatedAt:  borrowDate,
			UpdatedAt:  returned,
		}
	}
	book := model.BookSummary{
		ID:              3,
		Title:           "The Go Programming Language",
		ISBN:            "978-0134190440",
		AvailableCopies: 3,
		Status:          model.BookAvailable,
	}

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		bookID       int
		response     response
	}{
		{
			name: "ok. returned on time",
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Return(gomock.Any(), actor.ID, 3).
					Return(model.ReturnResult{
						BorrowRecord: record(onTimeReturn),
						Book:         book,
						ReturnDetails: model.ReturnDetails{
							BorrowedDate: borrowDate,
							DueDate:      dueDate,
							ReturnedDate: onTimeReturn,
						},
					}, nil)
			},
			bookID: 3,
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"message":"Book returned successfully","data":{` +
					`"borrow_record":{"id":42,"user_id":7,"book_id":3,"borrow_date":"2024-03-01T10:00:00Z","due_date":"2024-03-15T10:00:00Z","return_date":"2024-03-14T10:00:00Z","status":"Returned","created_at":"2024-03-01T10:00:00Z","updated_at":"2024-03-14T10:00:00Z"},` +
					`"book":{"id":3,"title":"The Go Programming Language","isbn":"978-0134190440","available_copies":3,"status":"Available"},` +
					`"return_details":{"borrowed_date":"2024-03-01T10:00:00Z","due_date":"2024-03-15T10:00:00Z","returned_date":"2024-03-14T10:00:00Z","is_overdue":false,"days_late":0,"late_fee":0}}}`,
			},
		},
		{
			name: "ok. returned late with fee",
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Return(gomock.Any(), actor.ID, 3).
					Return(model.ReturnResult{
						BorrowRecord: record(lateReturn),
						Book:         book,
						ReturnDetails: model.ReturnDetails{
							BorrowedDate: borrowDate,
							DueDate:      dueDate,
							ReturnedDate: lateReturn,
							IsOverdue:    true,
							DaysLate:     3,
							LateFee:      3,
						},
					}, nil)
			},
			bookID: 3,
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"message":"Book returned successfully. Late fee: $3.00 (3 days late)","data":{` +
					`"borrow_record":{"id":42,"user_id":7,"book_id":3,"borrow_date":"2024-03-01T10:00:00Z","due_date":"2024-03-15T10:00:00Z","return_date":"2024-03-18T10:00:00Z","status":"Returned","created_at":"2024-03-01T10:00:00Z","updated_at":"2024-03-18T10:00:00Z"},` +
					`"book":{"id":3,"title":"The Go Programming Language","isbn":"978-0134190440","available_copies":3,"status":"Available"},` +
					`"return_details":{"borrowed_date":"2024-03-01T10:00:00Z","due_date":"2024-03-15T10:00:00Z","returned_date":"2024-03-18T10:00:00Z","is_overdue":true,"days_late":3,"late_fee":3}}}`,
			},
		},
		{
			name: "err. nothing to return",
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Return(gomock.Any(), actor.ID, 3).
					Return(model.ReturnResult{}, errs.ErrNoActiveBorrow)
			},
			bookID: 3,
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"success":false,"message":"no active borrow record found for this book"}`,
			},
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

			e, token := newTestRouter(t, c, svc, actor)
			r := httptest.NewRequest(http.MethodPost,
				fmt.Sprintf("/api/books/%d/return", tt.bookID), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r.Header.Set(auth.AuthorizationHeader, auth.Bearer+token)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.JSONEq(t, tt.response.expectedBody, w.Body.String())
		})
	}
}

func TestHandler_ExtendDueDate(t *testing.T) {
	t.Parallel()

	borrowDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	dueDate := borrowDate.AddDate(0, 0, 14)
	newDue := dueDate.AddDate(0, 0, 7)
	actor := auth.Actor{ID: 7, Username: "reader", Role: auth.RoleUser}

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		body         string
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Extend(gomock.Any(), actor, 42, 0).
					Return(model.ExtendResult{
						BorrowRecord: model.BorrowRecord{
							ID:         42,
							UserID:     actor.ID,
							BookID:     3,
							BorrowDate: borrowDate,
							DueDate:    newDue,
							Status:     model.StatusBorrowed,
							CreatedAt:  borrowDate,
							UpdatedAt:  borrowDate,
						},
						Extension: model.Extension{
							PreviousDueDate: dueDate,
							NewDueDate:      newDue,
							ExtensionDays:   7,
						},
					}, nil)
			},
			body: `{}`,
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"message":"Due date extended successfully","data":{` +
					`"borrow_record":{"id":42,"user_id":7,"book_id":3,"borrow_date":"2024-03-01T10:00:00Z","due_date":"2024-03-22T10:00:00Z","status":"Borrowed","created_at":"2024-03-01T10:00:00Z","updated_at":"2024-03-01T10:00:00Z"},` +
					`"extension":{"previous_due_date":"2024-03-15T10:00:00Z","new_due_date":"2024-03-22T10:00:00Z","extension_days":7}}}`,
			},
		},
		{
			name: "err. already returned",
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Extend(gomock.Any(), actor, 42, 0).
					Return(model.ExtendResult{}, errs.ErrAlreadyReturned)
			},
			body: `{}`,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"success":false,"message":"cannot extend due date for returned book"}`,
			},
		},
		{
			name: "err. not the owner",
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Extend(gomock.Any(), actor, 42, 0).
					Return(model.ExtendResult{}, errs.ErrForbidden)
			},
			body: `{}`,
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"success":false,"message":"access denied"}`,
			},
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

			e, token := newTestRouter(t, c, svc, actor)
			r := httptest.NewRequest(http.MethodPost, "/api/borrow-records/42/extend", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r.Header.Set(auth.AuthorizationHeader, auth.Bearer+token)
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.JSONEq(t, tt.response.expectedBody, w.Body.String())
		})
	}
}
