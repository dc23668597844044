package echoapi

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/suvrat007/tutora-sub000/core"
	"github.com/suvrat007/tutora-sub000/core/attendance"
	"github.com/suvrat007/tutora-sub000/core/batch"
	"github.com/suvrat007/tutora-sub000/core/fee"
	"github.com/suvrat007/tutora-sub000/core/student"
	"github.com/suvrat007/tutora-sub000/core/timetable"
	"github.com/suvrat007/tutora-sub000/core/user"
	emailsvc "github.com/suvrat007/tutora-sub000/services/email"
	logsvc "github.com/suvrat007/tutora-sub000/services/logger"
	dummydb "github.com/suvrat007/tutora-sub000/storage/database/dummy"
)

type testApp struct {
	server   Server
	usrSvc   *user.Service
	batchSvc *batch.Service
	stdSvc   *student.Service
	repo     batch.Repository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), core.Conf)
	logger.Enable(false)

	usrSvc := user.NewService(dummydb.NewUserRepository(db))
	batchRepo := dummydb.NewBatchRepository(db)
	batchSvc := batch.NewService(batchRepo)
	stdSvc := student.NewService(dummydb.NewStudentRepository(db))
	feeSvc := fee.NewService(dummydb.NewFeeRepository(db), stdSvc, emailsvc.NewConsoleServiceMock())
	attSvc := attendance.NewService(dummydb.NewAttendanceRepository(db), time.UTC, 0)

	server := NewServer(&Options{
		DisableReqLogs: true,
		Logger:         logger,
		UserSvc:        usrSvc,
		BatchSvc:       batchSvc,
		StudentSvc:     stdSvc,
		FeeSvc:         feeSvc,
		AttendanceSvc:  attSvc,
	})
	return &testApp{server: server, usrSvc: usrSvc, batchSvc: batchSvc, stdSvc: stdSvc, repo: batchRepo}
}

func (app *testApp) adminToken(t *testing.T) string {
	t.Helper()
	usr, err := app.usrSvc.Create(user.NewUser{
		Name:     "Admin",
		Username: "admin",
		Email:    "admin@test.cd",
		Password: "S3kr3t!pwd",
	})
	if err != nil {
		t.Fatalf("creating admin failed: %v", err)
	}
	usr.Roles = user.AllRoles
	if _, err = app.usrSvc.Save(usr, nil); err != nil {
		t.Fatalf("granting roles failed: %v", err)
	}
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("generating token failed: %v", err)
	}
	return token
}

func (app *testApp) request(t *testing.T, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func (app *testApp) seedTimetable(t *testing.T) (batch.Batch, batch.Subject, student.Student) {
	t.Helper()
	b, err := app.batchSvc.Create(batch.NewBatch{Name: "Grade 10 A"})
	if err != nil {
		t.Fatalf("creating batch failed: %v", err)
	}
	sub, err := app.batchSvc.AddSubject(b.ID, batch.NewSubject{
		Name:      "Mathematics",
		Weekdays:  []string{"mon", "wed"},
		StartTime: "09:00",
	})
	if err != nil {
		t.Fatalf("adding subject failed: %v", err)
	}
	sub.CreatedAt = time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	if sub, err = app.repo.UpdateSubject(sub); err != nil {
		t.Fatalf("pinning subject creation date failed: %v", err)
	}
	std, err := app.stdSvc.Register(student.NewStudent{
		Name:       "Asha",
		BatchID:    b.ID,
		EnrolledAt: "2026-08-03",
		SubjectIDs: []string{sub.ID},
	})
	if err != nil {
		t.Fatalf("registering student failed: %v", err)
	}
	return b, sub, std
}

func TestAttendanceEndpointsRequireAuth(t *testing.T) {
	app := newTestApp(t)
	b, _, _ := app.seedTimetable(t)

	rec := app.request(t, http.MethodGet, "/v1/batches/"+b.ID+"/attendance", "", "")
	if rec.Code != http.StatusUnauthorized && rec.Code != http.StatusBadRequest {
		t.Errorf("unauthenticated request: code = %d, want 400/401", rec.Code)
	}
}

func TestBatchAttendanceReport(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken(t)
	b, sub, std := app.seedTimetable(t)

	// log Mon Aug 3 held with the student present
	body := `{"held": true, "attendance": ["` + std.ID + `"], "finalized": true}`
	rec := app.request(t, http.MethodPut, "/v1/subjects/"+sub.ID+"/classlogs/2026-08-03", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("logging class: code = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = app.request(t, http.MethodGet, "/v1/batches/"+b.ID+"/attendance?as_of=2026-08-04", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("batch report: code = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report attendance.BatchReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report failed: %v", err)
	}
	if len(report.Subjects) != 1 {
		t.Fatalf("report subjects = %d, want 1", len(report.Subjects))
	}
	wantSummaries := []attendance.Summary{
		{StudentID: std.ID, SubjectID: sub.ID, Attended: 1, Total: 1, Percentage: 100},
	}
	ok, err := jsonBytesEqual(t, marchallObj(t, report.Subjects[0].Summaries), marchallObj(t, wantSummaries))
	if err != nil {
		t.Fatalf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("summaries = %+v, want %+v", report.Subjects[0].Summaries, wantSummaries)
	}
}

func TestEditingClassLogRecomputesReport(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken(t)
	_, sub, std := app.seedTimetable(t)

	put := func(body string) {
		t.Helper()
		rec := app.request(t, http.MethodPut, "/v1/subjects/"+sub.ID+"/classlogs/2026-08-03", token, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("logging class: code = %d, body = %s", rec.Code, rec.Body.String())
		}
	}
	studentReport := func() attendance.StudentReport {
		t.Helper()
		rec := app.request(t, http.MethodGet, "/v1/students/"+std.ID+"/attendance?as_of=2026-08-04", token, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("student report: code = %d, body = %s", rec.Code, rec.Body.String())
		}
		var report attendance.StudentReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("decoding report failed: %v", err)
		}
		return report
	}

	put(`{"held": true, "attendance": ["` + std.ID + `"], "finalized": true}`)
	if overall := studentReport().Overall; overall.Percentage != 100 {
		t.Errorf("Overall.Percentage = %v, want 100", overall.Percentage)
	}

	// the admin edits the same date: class was actually cancelled
	put(`{"held": false, "finalized": true}`)
	report := studentReport()
	if report.Overall.Total != 0 {
		t.Errorf("Overall.Total after cancellation = %d, want 0", report.Overall.Total)
	}
	if len(report.Subjects) != 1 {
		t.Fatalf("report subjects = %d, want 1", len(report.Subjects))
	}
	var cancelled bool
	for _, occ := range report.Subjects[0].Occurrences {
		if occ.Date == timetable.NewDate(2026, 8, 3) && occ.Status == timetable.StatusCancelled {
			cancelled = true
		}
	}
	if !cancelled {
		t.Error("Mon Aug 3 occurrence not reclassified as cancelled")
	}
}

func TestSubjectTimelineEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken(t)
	_, sub, _ := app.seedTimetable(t)

	// log on a Tuesday, outside the subject's mon/wed rule
	body := `{"held": true, "finalized": true}`
	rec := app.request(t, http.MethodPut, "/v1/subjects/"+sub.ID+"/classlogs/2026-08-04", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("logging class: code = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = app.request(t, http.MethodGet, "/v1/subjects/"+sub.ID+"/timeline?as_of=2026-08-05", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("timeline: code = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res attendance.SubjectResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding timeline failed: %v", err)
	}
	var flagged int
	for _, occ := range res.Occurrences {
		if occ.Status == timetable.StatusInvalidScheduleDay {
			flagged++
		}
	}
	if flagged != 1 {
		t.Errorf("flagged occurrences = %d, want 1", flagged)
	}
}

func TestLoginAndProtectedRoute(t *testing.T) {
	app := newTestApp(t)
	b, _, _ := app.seedTimetable(t)

	usr, err := app.usrSvc.Create(user.NewUser{
		Name:     "Staff",
		Username: "staff1",
		Email:    "staff@test.cd",
		Password: "S3kr3t!pwd",
	})
	if err != nil {
		t.Fatalf("creating user failed: %v", err)
	}
	usr.Roles = []string{user.RoleStaff}
	if _, err = app.usrSvc.Save(usr, nil); err != nil {
		t.Fatalf("granting roles failed: %v", err)
	}

	rec := app.request(t, http.MethodPost, "/v1/users/login", "", `{"username": "staff1", "password": "S3kr3t!pwd"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: code = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding login response failed: %v", err)
	}
	if res.Token == "" {
		t.Fatal("login returned an empty token")
	}

	rec = app.request(t, http.MethodGet, "/v1/batches/"+b.ID+"/attendance?as_of=2026-08-04", res.Token, "")
	if rec.Code != http.StatusOK {
		t.Errorf("staff batch report: code = %d, body = %s", rec.Code, rec.Body.String())
	}

	// staff cannot create batches
	rec = app.request(t, http.MethodPost, "/v1/batches", res.Token, `{"name": "Grade 11"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("staff batch create: code = %d, want 403", rec.Code)
	}
}
