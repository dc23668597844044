package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/suvrat007/tutora-sub000/core"
	"github.com/suvrat007/tutora-sub000/core/batch"
	"github.com/suvrat007/tutora-sub000/core/timetable"
)

type batchApi struct {
	svc *batch.Service
}

func registerBatchAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *batch.Service) {
	api := batchApi{svc: svc}

	bg := g.Group("/batches", jwt, staffMiddleware())
	bg.POST("", api.create, adminMiddleware())
	bg.GET("", api.query)
	bg.GET("/:id", api.retrieve)
	bg.DELETE("/:id", api.destroy, adminMiddleware())
	bg.POST("/:id/subjects", api.addSubject, adminMiddleware())
	bg.GET("/:id/subjects", api.querySubjects)

	sg := g.Group("/subjects", jwt, staffMiddleware())
	sg.GET("/:id", api.retrieveSubject)
	sg.PUT("/:id", api.updateSubject, adminMiddleware())
	sg.DELETE("/:id", api.destroySubject, adminMiddleware())
	sg.GET("/:id/classlogs", api.queryClassLogs)
	sg.PUT("/:id/classlogs/:date", api.logClass)
}

// Handlers

func (api *batchApi) create(ctx echo.Context) error {
	var data batch.NewBatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBatch")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	b, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating batch")
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *batchApi) query(ctx echo.Context) error {
	batches, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying batches")
	}
	if batches == nil {
		batches = []batch.Batch{}
	}
	return ctx.JSON(http.StatusOK, batches)
}

func (api *batchApi) retrieve(ctx echo.Context) error {
	b, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == batch.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding batch by ID")
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *batchApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting batch")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *batchApi) addSubject(ctx echo.Context) error {
	var data batch.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.AddSubject(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == batch.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding subject")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *batchApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.svc.QuerySubjects(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subjects == nil {
		subjects = []batch.Subject{}
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (api *batchApi) retrieveSubject(ctx echo.Context) error {
	sub, err := api.svc.GetSubject(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == batch.ErrSubjectNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding subject by ID")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *batchApi) updateSubject(ctx echo.Context) error {
	var data batch.UpdateSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.UpdateSubject(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == batch.ErrSubjectNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *batchApi) destroySubject(ctx echo.Context) error {
	if err := api.svc.DeleteSubjects(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *batchApi) queryClassLogs(ctx echo.Context) error {
	logs, err := api.svc.QueryClassLogs(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying class logs")
	}
	if logs == nil {
		logs = []timetable.ClassLog{}
	}
	return ctx.JSON(http.StatusOK, logs)
}

// logClass records (or edits) what happened for a subject on a given date.
// The date in the path names the class occurrence being described.
func (api *batchApi) logClass(ctx echo.Context) error {
	date, err := timetable.ParseDate(ctx.Param("date"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be a date in YYYY-MM-DD format"})
	}

	var data batch.LogClassEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LogClassEntry")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	lg, err := api.svc.LogClass(ctx.Param("id"), date, data)
	if err != nil {
		if errors.Cause(err) == batch.ErrSubjectNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "logging class")
	}
	return ctx.JSON(http.StatusOK, lg)
}
