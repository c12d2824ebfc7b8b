package http

import (
	"strconv"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return v, nil
}

// customerOf returns the caller's id when the caller is a customer.
func customerOf(c echo.Context, action string) (string, error) {
	actor, err := actorOf(c)
	if err != nil {
		return "", err
	}
	if actor.Role != kernel.RoleCustomer {
		return "", errs.NewForbiddenError(actor.Role.String(), action)
	}
	return actor.ID, nil
}
