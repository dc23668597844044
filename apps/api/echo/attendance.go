package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/suvrat007/tutora-sub000/core/attendance"
	"github.com/suvrat007/tutora-sub000/core/batch"
	"github.com/suvrat007/tutora-sub000/core/student"
)

var timeNow = time.Now // mockable

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	g.GET("/batches/:id/attendance", api.batchReport, jwt, staffMiddleware())
	g.GET("/students/:id/attendance", api.studentReport, jwt, staffMiddleware())
	g.GET("/subjects/:id/timeline", api.subjectTimeline, jwt, staffMiddleware())
}

// Handlers

// batchReport returns the reconciled timeline and per-student attendance
// summaries for every subject of a batch.
func (api *attendanceApi) batchReport(ctx echo.Context) error {
	asOf, err := asOfParam(ctx)
	if err != nil {
		return err
	}

	report, err := api.svc.BatchReport(ctx.Param("id"), asOf)
	if err != nil {
		if errors.Cause(err) == batch.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building batch report")
	}
	return ctx.JSON(http.StatusOK, report)
}

// studentReport returns one student's per-subject summaries plus the overall
// summary across all their subjects.
func (api *attendanceApi) studentReport(ctx echo.Context) error {
	asOf, err := asOfParam(ctx)
	if err != nil {
		return err
	}

	report, err := api.svc.StudentReport(ctx.Param("id"), asOf)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building student report")
	}
	return ctx.JSON(http.StatusOK, report)
}

// subjectTimeline returns a subject's reconciled occurrence list without
// aggregation, for the class-log editing view.
func (api *attendanceApi) subjectTimeline(ctx echo.Context) error {
	asOf, err := asOfParam(ctx)
	if err != nil {
		return err
	}

	res, err := api.svc.SubjectTimeline(ctx.Param("id"), asOf)
	if err != nil {
		if errors.Cause(err) == batch.ErrSubjectNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building subject timeline")
	}
	return ctx.JSON(http.StatusOK, res)
}
