package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/apierror"
	"github.com/lcsgmoraes-droid/Sistema-Pet-sub003/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps the engine's sentinel errors to HTTP statuses. Business
// rule violations surface verbatim; only ErrConcurrentConflict invites a
// retry (409 with Retry-After).
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrComponentNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))

	case errors.Is(err, service.ErrConcurrentConflict):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusConflict, apierror.New(err.Error()))

	case errors.Is(err, service.ErrDuplicateComponent),
		errors.Is(err, service.ErrHasActiveChildren),
		errors.Is(err, service.ErrPredecessorAlreadyLinked),
		errors.Is(err, service.ErrWouldCreateCycle):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))

	case errors.Is(err, service.ErrInsufficientComponentStock),
		errors.Is(err, service.ErrInsufficientKitStock),
		errors.Is(err, service.ErrNotSellable):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))

	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidTypeTransition),
		errors.Is(err, service.ErrNotStockBearing),
		errors.Is(err, service.ErrSelfReference):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
