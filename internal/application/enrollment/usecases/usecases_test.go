package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/domain/group"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/models"
	"github.com/davomat-inc/davomat/internal/infrastructure/persistence/testutil"
	"github.com/davomat-inc/davomat/internal/infrastructure/repository"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/db"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
)

const (
	adminID   = "01HZADMIN00000000000000001"
	teacherID = "01HZTEACHER000000000000001"
	groupID   = "01HZGROUP00000000000000001"
)

var now = time.Date(2025, 5, 5, 7, 0, 0, 0, time.UTC)

type fixture struct {
	gdb    *gorm.DB
	create *CreateEnrollmentUseCase
	update *UpdateEnrollmentStatusUseCase
	delete *DeleteEnrollmentUseCase
	get    *GetEnrollmentUseCase
	list   *ListEnrollmentsUseCase
}

func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()
	gdb := testutil.NewSQLiteDB(t)
	testutil.SeedGroup(t, gdb, groupID, capacity, teacherID, 540, 630)

	log := logger.NewNop()
	clock := biztime.FixedClock(now)
	enrollments := repository.NewEnrollmentRepository(gdb, log)
	txMgr := db.NewTransactionManager(gdb)

	return &fixture{
		gdb:    gdb,
		create: NewCreateEnrollmentUseCase(enrollments, repository.NewStudentRepository(gdb), repository.NewGroupRepository(gdb), txMgr, clock, log),
		update: NewUpdateEnrollmentStatusUseCase(enrollments, txMgr, clock, log),
		delete: NewDeleteEnrollmentUseCase(enrollments, txMgr, clock, log),
		get:    NewGetEnrollmentUseCase(enrollments, log),
		list:   NewListEnrollmentsUseCase(enrollments, log),
	}
}

func (f *fixture) enroll(t *testing.T, studentID string) string {
	t.Helper()
	e, err := f.create.Execute(context.Background(), CreateEnrollmentCommand{ActorID: adminID, StudentID: studentID, GroupID: groupID})
	require.NoError(t, err)
	return e.ID
}

func TestCreateEnrollment(t *testing.T) {
	f := newFixture(t, 5)
	testutil.SeedStudent(t, f.gdb, "s1", "Ali")

	e, err := f.create.Execute(context.Background(), CreateEnrollmentCommand{ActorID: adminID, StudentID: "s1", GroupID: groupID})

	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", e.Status)
	assert.Equal(t, "s1", e.StudentID)
	assert.True(t, e.StartedAt.Equal(now))
	assert.Nil(t, e.EndedAt)
	assert.Len(t, e.ID, 26)
}

func TestCreateEnrollment_Rejections(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	testutil.SeedStudent(t, f.gdb, "s1", "Ali")
	testutil.SeedStudent(t, f.gdb, "inactive", "Vali")
	require.NoError(t, f.gdb.Model(&models.StudentProfileModel{}).Where("id = ?", "inactive").Update("is_active", false).Error)
	f.enroll(t, "s1")

	tests := []struct {
		name      string
		studentID string
		groupID   string
		want      error
	}{
		{"unknown student", "missing", groupID, enrollment.ErrStudentNotFound},
		{"inactive student", "inactive", groupID, enrollment.ErrStudentNotFound},
		{"unknown group", "s1", "missing", enrollment.ErrGroupNotFound},
		{"duplicate", "s1", groupID, enrollment.ErrAlreadyEnrolled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.create.Execute(ctx, CreateEnrollmentCommand{ActorID: adminID, StudentID: tt.studentID, GroupID: tt.groupID})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.create.Execute(ctx, CreateEnrollmentCommand{ActorID: adminID, GroupID: groupID})
	assert.True(t, errors.IsValidationError(err))
}

func TestCreateEnrollment_GroupFull(t *testing.T) {
	f := newFixture(t, 2)
	for _, id := range []string{"s1", "s2", "s3"} {
		testutil.SeedStudent(t, f.gdb, id, id)
	}
	f.enroll(t, "s1")
	f.enroll(t, "s2")

	_, err := f.create.Execute(context.Background(), CreateEnrollmentCommand{ActorID: adminID, StudentID: "s3", GroupID: groupID})

	assert.ErrorIs(t, err, enrollment.ErrGroupFull)
	assert.True(t, errors.IsForbiddenError(err))
	assert.Contains(t, err.Error(), "group is full")
}

// lockRecordingGroups records how the group row was read.
type lockRecordingGroups struct {
	*repository.GroupRepository
	plainReads  int
	lockedReads int
	lockedInTx  bool
}

func (r *lockRecordingGroups) GetActiveByID(ctx context.Context, id string) (*group.Group, error) {
	r.plainReads++
	return r.GroupRepository.GetActiveByID(ctx, id)
}

func (r *lockRecordingGroups) GetActiveByIDForUpdate(ctx context.Context, id string) (*group.Group, error) {
	r.lockedReads++
	r.lockedInTx = db.InTransaction(ctx)
	return r.GroupRepository.GetActiveByIDForUpdate(ctx, id)
}

func TestCreateEnrollment_LocksGroupBeforeCounting(t *testing.T) {
	f := newFixture(t, 1)
	testutil.SeedStudent(t, f.gdb, "s1", "Ali")

	groups := &lockRecordingGroups{GroupRepository: repository.NewGroupRepository(f.gdb)}
	log := logger.NewNop()
	uc := NewCreateEnrollmentUseCase(
		repository.NewEnrollmentRepository(f.gdb, log),
		repository.NewStudentRepository(f.gdb),
		groups,
		db.NewTransactionManager(f.gdb),
		biztime.FixedClock(now),
		log,
	)

	_, err := uc.Execute(context.Background(), CreateEnrollmentCommand{ActorID: adminID, StudentID: "s1", GroupID: groupID})

	require.NoError(t, err)
	assert.Equal(t, 1, groups.lockedReads)
	assert.Equal(t, 0, groups.plainReads)
	assert.True(t, groups.lockedInTx)
}

func TestCreateEnrollment_ConcurrentSignupsRespectCapacity(t *testing.T) {
	f := newFixture(t, 1)
	students := []string{"s1", "s2", "s3", "s4"}
	for _, id := range students {
		testutil.SeedStudent(t, f.gdb, id, id)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(students))
	for i, id := range students {
		wg.Add(1)
		go func(i int, studentID string) {
			defer wg.Done()
			_, errs[i] = f.create.Execute(context.Background(), CreateEnrollmentCommand{ActorID: adminID, StudentID: studentID, GroupID: groupID})
		}(i, id)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, enrollment.ErrGroupFull)
	}
	assert.Equal(t, 1, ok)

	var active int64
	require.NoError(t, f.gdb.Model(&models.EnrollmentModel{}).Where("group_id = ? AND status = ?", groupID, "ACTIVE").Count(&active).Error)
	assert.Equal(t, int64(1), active)
}

func TestCreateEnrollment_DroppedSeatIsReusable(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	testutil.SeedStudent(t, f.gdb, "s1", "Ali")
	testutil.SeedStudent(t, f.gdb, "s2", "Vali")
	first := f.enroll(t, "s1")

	_, err := f.update.Execute(ctx, UpdateEnrollmentStatusCommand{ActorID: adminID, EnrollmentID: first, Status: enrollment.StatusDropped})
	require.NoError(t, err)

	f.enroll(t, "s2")
	// the freed seat went to s2
	_, err = f.create.Execute(ctx, CreateEnrollmentCommand{ActorID: adminID, StudentID: "s1", GroupID: groupID})
	assert.ErrorIs(t, err, enrollment.ErrGroupFull)
}

func TestUpdateEnrollmentStatus(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	testutil.SeedStudent(t, f.gdb, "s1", "Ali")
	id := f.enroll(t, "s1")

	_, err := f.update.Execute(ctx, UpdateEnrollmentStatusCommand{EnrollmentID: id, Status: enrollment.StatusActive})
	assert.ErrorIs(t, err, enrollment.ErrInvalidNextStatus)

	e, err := f.update.Execute(ctx, UpdateEnrollmentStatusCommand{EnrollmentID: id, Status: enrollment.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", e.Status)
	require.NotNil(t, e.EndedAt)
	assert.True(t, e.EndedAt.Equal(now))

	_, err = f.update.Execute(ctx, UpdateEnrollmentStatusCommand{EnrollmentID: id, Status: enrollment.StatusDropped})
	assert.ErrorIs(t, err, enrollment.ErrInvalidTransition)

	_, err = f.update.Execute(ctx, UpdateEnrollmentStatusCommand{EnrollmentID: "missing", Status: enrollment.StatusDropped})
	assert.ErrorIs(t, err, enrollment.ErrNotFound)
}

func TestDeleteEnrollment(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	testutil.SeedStudent(t, f.gdb, "s1", "Ali")
	id := f.enroll(t, "s1")

	require.NoError(t, f.delete.Execute(ctx, DeleteEnrollmentCommand{ActorID: adminID, EnrollmentID: id}))

	var row models.EnrollmentModel
	require.NoError(t, f.gdb.Where("id = ?", id).First(&row).Error)
	require.NotNil(t, row.DeleteReason)
	assert.Equal(t, "manual delete", *row.DeleteReason)
	assert.Equal(t, adminID, *row.DeletedByID)

	_, err := f.get.Execute(ctx, id)
	assert.ErrorIs(t, err, enrollment.ErrNotFound)

	err = f.delete.Execute(ctx, DeleteEnrollmentCommand{ActorID: adminID, EnrollmentID: id})
	assert.ErrorIs(t, err, enrollment.ErrNotFound)

	// a deleted enrollment frees the pair for a new one
	f.enroll(t, "s1")
}

func TestListEnrollments(t *testing.T) {
	f := newFixture(t, 50)
	ctx := context.Background()
	for _, id := range []string{"s1", "s2", "s3"} {
		testutil.SeedStudent(t, f.gdb, id, id)
		f.enroll(t, id)
	}

	result, err := f.list.Execute(ctx, ListEnrollmentsQuery{GroupID: groupID, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Len(t, result.Enrollments, 2)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 2, result.PageSize)

	result, err = f.list.Execute(ctx, ListEnrollmentsQuery{StudentID: "s2", PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, 50, result.PageSize)

	_, err = f.list.Execute(ctx, ListEnrollmentsQuery{Status: "PAUSED"})
	assert.True(t, errors.IsValidationError(err))
}
