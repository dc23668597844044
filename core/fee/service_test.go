package fee_test

import (
	"testing"

	"github.com/suvrat007/tutora-sub000/core/fee"
	"github.com/suvrat007/tutora-sub000/core/student"
	"github.com/suvrat007/tutora-sub000/core/timetable"
	emailsvc "github.com/suvrat007/tutora-sub000/services/email"
	dummydb "github.com/suvrat007/tutora-sub000/storage/database/dummy"
)

func newSvc(t *testing.T) (*fee.Service, *student.Service) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	stdSvc := student.NewService(dummydb.NewStudentRepository(db))
	svc := fee.NewService(dummydb.NewFeeRepository(db), stdSvc, emailsvc.NewConsoleServiceMock())
	return svc, stdSvc
}

func registerStudent(t *testing.T, stdSvc *student.Service, email string) student.Student {
	t.Helper()
	std, err := stdSvc.Register(student.NewStudent{
		Name:       "Asha",
		Email:      email,
		BatchID:    "batch-10a",
		EnrolledAt: "2026-01-05",
	})
	if err != nil {
		t.Fatalf("registering student failed: %v", err)
	}
	return std
}

func TestServiceCreateAndStatus(t *testing.T) {
	svc, stdSvc := newSvc(t)
	std := registerStudent(t, stdSvc, "asha@example.com")

	f, err := svc.Create(fee.NewFee{
		StudentID: std.ID,
		Label:     "March 2026",
		Amount:    "1500.00",
		DueDate:   "2026-03-10",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	tests := []struct {
		asOf timetable.Date
		want string
	}{
		{timetable.NewDate(2026, 3, 1), fee.StatusPending},
		{timetable.NewDate(2026, 3, 10), fee.StatusPending}, // due day itself
		{timetable.NewDate(2026, 3, 11), fee.StatusOverdue},
	}
	for _, tt := range tests {
		if got := f.Status(tt.asOf); got != tt.want {
			t.Errorf("Status(%s) = %q, want %q", tt.asOf, got, tt.want)
		}
	}

	paid, err := svc.MarkPaid(f.ID)
	if err != nil {
		t.Fatalf("MarkPaid() failed: %v", err)
	}
	if got := paid.Status(timetable.NewDate(2026, 4, 1)); got != fee.StatusPaid {
		t.Errorf("Status() after payment = %q, want %q", got, fee.StatusPaid)
	}
	if _, err = svc.MarkPaid(f.ID); err != fee.ErrAlreadyPaid {
		t.Errorf("MarkPaid() twice: err = %v, want %v", err, fee.ErrAlreadyPaid)
	}
}

func TestServiceCreateUnknownStudent(t *testing.T) {
	svc, _ := newSvc(t)
	_, err := svc.Create(fee.NewFee{
		StudentID: "std-gone",
		Label:     "March 2026",
		Amount:    "1500.00",
		DueDate:   "2026-03-10",
	})
	if err != student.ErrNotFound {
		t.Errorf("Create() err = %v, want %v", err, student.ErrNotFound)
	}
}

func TestServiceQueryOverdue(t *testing.T) {
	svc, stdSvc := newSvc(t)
	std := registerStudent(t, stdSvc, "asha@example.com")

	mk := func(label, due string) fee.Fee {
		f, err := svc.Create(fee.NewFee{StudentID: std.ID, Label: label, Amount: "1000", DueDate: due})
		if err != nil {
			t.Fatalf("Create(%s) failed: %v", label, err)
		}
		return f
	}
	past := mk("February 2026", "2026-02-10")
	mk("April 2026", "2026-04-10")
	paid := mk("January 2026", "2026-01-10")
	if _, err := svc.MarkPaid(paid.ID); err != nil {
		t.Fatalf("MarkPaid() failed: %v", err)
	}

	overdue, err := svc.QueryOverdue(timetable.NewDate(2026, 3, 1))
	if err != nil {
		t.Fatalf("QueryOverdue() failed: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != past.ID {
		t.Errorf("QueryOverdue() = %v, want just %q", overdue, past.Label)
	}
}

func TestServiceSendReminders(t *testing.T) {
	svc, stdSvc := newSvc(t)
	withEmail := registerStudent(t, stdSvc, "asha@example.com")
	noEmail := registerStudent(t, stdSvc, "")

	for _, id := range []string{withEmail.ID, noEmail.ID} {
		_, err := svc.Create(fee.NewFee{StudentID: id, Label: "February 2026", Amount: "1000", DueDate: "2026-02-10"})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	// only the student with an email address gets a reminder
	n, err := svc.SendReminders(timetable.NewDate(2026, 3, 1))
	if err != nil {
		t.Fatalf("SendReminders() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("SendReminders() = %d, want 1", n)
	}
}

func TestNewFeeValidate(t *testing.T) {
	tests := []struct {
		name    string
		nf      fee.NewFee
		wantErr bool
	}{
		{
			name: "valid",
			nf:   fee.NewFee{StudentID: "std-1", Label: "March 2026", Amount: "1500.50", DueDate: "2026-03-10"},
		},
		{
			name:    "bad amount",
			nf:      fee.NewFee{StudentID: "std-1", Label: "March 2026", Amount: "15oo", DueDate: "2026-03-10"},
			wantErr: true,
		},
		{
			name:    "zero amount",
			nf:      fee.NewFee{StudentID: "std-1", Label: "March 2026", Amount: "0", DueDate: "2026-03-10"},
			wantErr: true,
		},
		{
			name:    "negative amount",
			nf:      fee.NewFee{StudentID: "std-1", Label: "March 2026", Amount: "-10", DueDate: "2026-03-10"},
			wantErr: true,
		},
		{
			name:    "bad date",
			nf:      fee.NewFee{StudentID: "std-1", Label: "March 2026", Amount: "1500", DueDate: "10-03-2026"},
			wantErr: true,
		},
		{
			name:    "missing label",
			nf:      fee.NewFee{StudentID: "std-1", Amount: "1500", DueDate: "2026-03-10"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
