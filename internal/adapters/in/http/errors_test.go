package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}
	validationErr := validator.New().Struct(payload{})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"echo error keeps its code", echo.NewHTTPError(http.StatusUnauthorized), http.StatusUnauthorized},
		{"struct validation", validationErr, http.StatusBadRequest},
		{"required value", errs.NewValueIsRequiredError("items"), http.StatusBadRequest},
		{"out of range", errs.NewValueIsOutOfRangeError("quantity", 0, 1, 99), http.StatusBadRequest},
		{"forbidden", errs.NewForbiddenError("customer", "update status"), http.StatusForbidden},
		{"not found", errs.NewObjectNotFoundError("order", "x"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", errs.NewObjectNotFoundError("order", "x")), http.StatusNotFound},
		{"transition", errs.NewInvalidTransitionError("order", "Delivered", "Pending"), http.StatusConflict},
		{
			"upstream wrapping not found",
			errs.NewUpstreamError("cart", "get total", errs.NewObjectNotFoundError("cart", "C1")),
			http.StatusBadGateway,
		},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
