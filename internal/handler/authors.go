package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dprince-03/LMS-API/internal/model"
)

func (h *Handler) CreateAuthor(c echo.Context) error {
	var req model.CreateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	author, err := h.authorSvc.CreateAuthor(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusCreated, "Author created successfully", author)
}

func (h *Handler) GetAuthor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	author, err := h.authorSvc.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusOK, "Author retrieved successfully", author)
}

func (h *Handler) ListAuthors(c echo.Context) error {
	filter := model.AuthorFilter{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
		Search: c.QueryParam("search"),
	}
	authors, pg, err := h.authorSvc.ListAuthors(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return respondPaged(c, http.StatusOK, "Authors retrieved successfully", authors, pg)
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	author, err := h.authorSvc.UpdateAuthor(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusOK, "Author updated successfully", author)
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.authorSvc.DeleteAuthor(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusOK, "Author deleted successfully", nil)
}
