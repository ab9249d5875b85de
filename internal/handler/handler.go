package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dprince-03/LMS-API/internal/errs"
	"github.com/dprince-03/LMS-API/internal/model"
	"github.com/dprince-03/LMS-API/pkg/auth"
	"github.com/dprince-03/LMS-API/pkg/validate"
)

type Handler struct {
	authSvc   AuthService
	userSvc   UserService
	authorSvc AuthorService
	bookSvc   BookService
	borrowSvc BorrowService
	jwt       *auth.Manager
	log       *zap.Logger
}

func New(authSvc AuthService, userSvc UserService, authorSvc AuthorService,
	bookSvc BookService, borrowSvc BorrowService, jwtMgr *auth.Manager, log *zap.Logger) *Handler {
	return &Handler{
		authSvc:   authSvc,
		userSvc:   userSvc,
		authorSvc: authorSvc,
		bookSvc:   bookSvc,
		borrowSvc: borrowSvc,
		jwt:       jwtMgr,
		log:       log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.HTTPErrorHandler = newHTTPErrorHandler(h.log)
	e.Validator = validate.NewCustomValidator()

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.GET("/authors", h.ListAuthors)
	api.GET("/authors/:id", h.GetAuthor)

	authed := api.Group("", h.jwtAuthentication)

	authed.POST("/books", h.CreateBook, h.authorize(auth.ResourceBooks, auth.ActionWrite))
	authed.PUT("/books/:id", h.UpdateBook, h.authorize(auth.ResourceBooks, auth.ActionWrite))
	authed.DELETE("/books/:id", h.DeleteBook, h.authorize(auth.ResourceBooks, auth.ActionDelete))

	authed.POST("/books/:id/borrow", h.BorrowBook)
	authed.POST("/books/:id/return", h.ReturnBook)

	authed.POST("/borrow-records/:id/extend", h.ExtendDueDate)
	authed.GET("/borrow-records", h.ListBorrowRecords, h.authorize(auth.ResourceBorrowRecords, auth.ActionRead))
	authed.GET("/borrow-records/overdue", h.OverdueRecords, h.authorize(auth.ResourceBorrowRecords, auth.ActionRead))
	authed.GET("/borrow-records/statistics", h.BorrowStatistics, h.authorize(auth.ResourceBorrowRecords, auth.ActionRead))

	authed.POST("/authors", h.CreateAuthor, h.authorize(auth.ResourceAuthors, auth.ActionWrite))
	authed.PUT("/authors/:id", h.UpdateAuthor, h.authorize(auth.ResourceAuthors, auth.ActionWrite))
	authed.DELETE("/authors/:id", h.DeleteAuthor, h.authorize(auth.ResourceAuthors, auth.ActionDelete))

	authed.POST("/users", h.CreateUser, h.authorize(auth.ResourceUsers, auth.ActionWrite))
	authed.GET("/users", h.ListUsers, h.authorize(auth.ResourceUsers, auth.ActionRead))
	authed.GET("/users/:id", h.GetUser, h.authorize(auth.ResourceUsers, auth.ActionRead))
	authed.PUT("/users/:id", h.UpdateUser, h.authorize(auth.ResourceUsers, auth.ActionWrite))
	authed.DELETE("/users/:id", h.DeleteUser, h.authorize(auth.ResourceUsers, auth.ActionDelete))
	authed.GET("/users/:id/borrow-records", h.UserBorrowRecords)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// envelope is the uniform response body.
type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Data       interface{}       `json:"data,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
	Summary    interface{}       `json:"summary,omitempty"`
}

func respond(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, envelope{Success: true, Message: message, Data: data})
}

func respondPaged(c echo.Context, code int, message string, data interface{}, pg model.Pagination) error {
	return c.JSON(code, envelope{Success: true, Message: message, Data: data, Pagination: &pg})
}

// fail maps the error taxonomy to HTTP statuses. Unexpected errors become a
// generic 500; the detail stays in the log.
func (h *Handler) fail(c echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrNoActiveBorrow):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, errs.ErrBookUnavailable),
		errors.Is(err, errs.ErrAlreadyBorrowed),
		errors.Is(err, errs.ErrBorrowLimit),
		errors.Is(err, errs.ErrISBNExists),
		errors.Is(err, errs.ErrLoginTaken),
		errors.Is(err, errs.ErrAuthorHasBooks),
		errors.Is(err, errs.ErrBookHasActiveBorrows):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrAlreadyReturned), errors.Is(err, errs.ErrCopiesExceeded):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidCredentials), errors.Is(err, errs.ErrInactiveUser):
		code = http.StatusUnauthorized
	default:
		h.log.Error("internal error", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, envelope{Success: false, Message: "Internal server error"})
	}
	return c.JSON(code, envelope{Success: false, Message: err.Error()})
}

func newHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		message := "Internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		if err := c.JSON(code, envelope{Success: false, Message: message}); err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}

func actorFrom(c echo.Context) (auth.Actor, error) {
	actor, ok := auth.ActorFromContext(c.Request().Context())
	if !ok {
		return auth.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return actor, nil
}

func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Valid "+name+" is required")
	}
	return id, nil
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func queryIntPtr(c echo.Context, name string) *int {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
