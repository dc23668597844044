package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/suvrat007/tutora-sub000/core"
	"github.com/suvrat007/tutora-sub000/core/fee"
	"github.com/suvrat007/tutora-sub000/core/student"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

type feeApi struct {
	svc *fee.Service
}

func registerFeeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *fee.Service) {
	api := feeApi{svc: svc}

	fg := g.Group("/fees", jwt, staffMiddleware())
	fg.POST("", api.create, adminMiddleware())
	fg.GET("/overdue", api.queryOverdue)
	fg.POST("/reminders", api.sendReminders, adminMiddleware())
	fg.GET("/:id", api.retrieve)
	fg.POST("/:id/pay", api.markPaid, adminMiddleware())
	fg.DELETE("/:id", api.destroy, adminMiddleware())

	g.GET("/students/:id/fees", api.queryStudentFees, jwt, staffMiddleware())
}

// Handlers

func (api *feeApi) create(ctx echo.Context) error {
	var data fee.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	f, err := api.svc.Create(data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating fee")
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (api *feeApi) retrieve(ctx echo.Context) error {
	f, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == fee.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding fee by ID")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *feeApi) queryStudentFees(ctx echo.Context) error {
	fees, err := api.svc.QueryByStudent(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying student fees")
	}
	if fees == nil {
		fees = []fee.Fee{}
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *feeApi) queryOverdue(ctx echo.Context) error {
	asOf, err := asOfParam(ctx)
	if err != nil {
		return err
	}

	fees, err := api.svc.QueryOverdue(asOf)
	if err != nil {
		return errors.Wrap(err, "querying overdue fees")
	}
	if fees == nil {
		fees = []fee.Fee{}
	}
	return ctx.JSON(http.StatusOK, fees)
}

func (api *feeApi) markPaid(ctx echo.Context) error {
	f, err := api.svc.MarkPaid(ctx.Param("id"))
	if err != nil {
		switch errors.Cause(err) {
		case fee.ErrNotFound:
			return errHttpNotFound
		case fee.ErrAlreadyPaid:
			return core.NewValidationError(fee.ErrAlreadyPaid)
		}
		return errors.Wrap(err, "marking fee paid")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *feeApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting fee")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *feeApi) sendReminders(ctx echo.Context) error {
	asOf, err := asOfParam(ctx)
	if err != nil {
		return err
	}

	n, err := api.svc.SendReminders(asOf)
	if err != nil {
		return errors.Wrap(err, "sending fee reminders")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"sent": n})
}

// asOfParam reads the optional ?as_of=YYYY-MM-DD query param, defaulting to
// today in the institute's timezone.
func asOfParam(ctx echo.Context) (timetable.Date, error) {
	s := ctx.QueryParam("as_of")
	if s == "" {
		return timetable.DateOf(timeNow(), core.Conf.Timezone), nil
	}
	asOf, err := timetable.ParseDate(s)
	if err != nil {
		return timetable.Date{}, core.NewValidationError(nil,
			core.FieldError{Field: "as_of", Error: "must be a date in YYYY-MM-DD format"})
	}
	return asOf, nil
}
