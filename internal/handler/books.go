package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dprince-03/LMS-API/internal/model"
)

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, err := h.bookSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusCreated, "Book created successfully", book)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.bookSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if c.QueryParam("include_author") == "false" {
		book.AuthorName = nil
	}
	return respond(c, http.StatusOK, "Book retrieved successfully", book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	filter := model.BookFilter{
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
		Search:   c.QueryParam("search"),
		AuthorID: queryIntPtr(c, "author_id"),
		Genre:    c.QueryParam("genre"),
		Status:   c.QueryParam("status"),
	}
	books, pg, err := h.bookSvc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return respondPaged(c, http.StatusOK, "Books retrieved successfully", books, pg)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, err := h.bookSvc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusOK, "Book updated successfully", book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.bookSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusOK, "Book deleted successfully", nil)
}
