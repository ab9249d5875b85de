package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dprince-03/LMS-API/internal/model"
)

func (h *Handler) CreateUser(c echo.Context) error {
	var req model.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.userSvc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusCreated, "User created successfully", user)
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userSvc.GetUser(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusOK, "User retrieved successfully", user)
}

func (h *Handler) ListUsers(c echo.Context) error {
	filter := model.UserFilter{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
	}
	users, pg, err := h.userSvc.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return respondPaged(c, http.StatusOK, "Users retrieved successfully", users, pg)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.userSvc.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusOK, "User updated successfully", user)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.userSvc.DeleteUser(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return respond(c, http.StatusOK, "User deactivated successfully", nil)
}
