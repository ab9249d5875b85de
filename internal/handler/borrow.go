package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dprince-03/LMS-API/internal/model"
)

func (h *Handler) BorrowBook(c echo.Context) error {
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	result, err := h.borrowSvc.Borrow(c.Request().Context(), actor.ID, bookID, req.DueDays)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusCreated, "Book borrowed successfully", result)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	result, err := h.borrowSvc.Return(c.Request().Context(), actor.ID, bookID)
	if err != nil {
		return h.fail(c, err)
	}

	message := "Book returned successfully"
	if result.ReturnDetails.IsOverdue {
		message = fmt.Sprintf("Book returned successfully. Late fee: $%.2f (%d days late)",
			result.ReturnDetails.LateFee, result.ReturnDetails.DaysLate)
	}
	return respond(c, http.StatusOK, message, result)
}

func (h *Handler) ExtendDueDate(c echo.Context) error {
	recordID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req model.ExtendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	result, err := h.borrowSvc.Extend(c.Request().Context(), actor, recordID, req.ExtensionDays)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusOK, "Due date extended successfully", result)
}

func (h *Handler) ListBorrowRecords(c echo.Context) error {
	filter := model.RecordFilter{
		Page:        queryInt(c, "page", 1),
		Limit:       queryInt(c, "limit", 10),
		UserID:      queryIntPtr(c, "user_id"),
		BookID:      queryIntPtr(c, "book_id"),
		Status:      c.QueryParam("status"),
		OverdueOnly: c.QueryParam("overdue_only") == "true",
	}

	records, pg, err := h.borrowSvc.ListRecords(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return respondPaged(c, http.StatusOK, "Borrow records retrieved successfully", records, pg)
}

func (h *Handler) OverdueRecords(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	records, pg, summary, err := h.borrowSvc.OverdueRecords(c.Request().Context(), page, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, envelope{
		Success:    true,
		Message:    "Overdue records retrieved successfully",
		Data:       records,
		Pagination: &pg,
		Summary:    summary,
	})
}

func (h *Handler) BorrowStatistics(c echo.Context) error {
	stats, err := h.borrowSvc.Statistics(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusOK, "Borrowing statistics retrieved successfully", stats)
}

func (h *Handler) UserBorrowRecords(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	filter := model.RecordFilter{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
		Status: c.QueryParam("status"),
	}

	result, pg, err := h.borrowSvc.UserRecords(c.Request().Context(), actor, userID, filter)
	if err != nil {
		return h.fail(c, err)
	}
	return respondPaged(c, http.StatusOK, "User borrow records retrieved successfully", result, pg)
}
