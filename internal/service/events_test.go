package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventService(now time.Time) (*EventService, *testutil.Events, *testutil.Queue) {
	repo := testutil.NewEvents()
	q := &testutil.Queue{}
	svc := NewEventService(repo, q, &nopLogger)
	svc.now = func() time.Time { return now }
	return svc, repo, q
}

func TestEventCreateSetsOwnerAndPast(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newTestEventService(now)
	editor := Actor{ID: uuid.New(), Role: model.RoleEditor}

	created, err := svc.Create(context.Background(), editor, &model.Event{
		Title: "Line follower workshop",
		Date:  now.Add(-48 * time.Hour),
		Type:  model.EventWorkshop,
	})
	require.NoError(t, err)

	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, editor.ID, *created.CreatedBy)
	assert.True(t, created.IsPast)
}

func TestEventListFiltersUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newTestEventService(now)
	admin := Actor{ID: uuid.New(), Role: model.RoleAdmin}
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, &model.Event{Title: "past", Date: now.Add(-time.Hour), Type: model.EventHackathon})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, &model.Event{Title: "next", Date: now.Add(time.Hour), Type: model.EventHackathon})
	require.NoError(t, err)

	upcoming, err := svc.List(ctx, model.EventFilter{Upcoming: ptr(true)})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "next", upcoming[0].Title)
	assert.False(t, upcoming[0].IsPast)

	past, err := svc.List(ctx, model.EventFilter{Upcoming: ptr(false)})
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.True(t, past[0].IsPast)
}

func TestEventGetMissing(t *testing.T) {
	svc, _, _ := newTestEventService(time.Now())

	_, err := svc.Get(context.Background(), uuid.New())
	requireStatus(t, err, http.StatusNotFound, "Event not found")
}

func TestEventUpdateOwnership(t *testing.T) {
	svc, _, _ := newTestEventService(time.Now())
	ctx := context.Background()
	owner := Actor{ID: uuid.New(), Role: model.RoleEditor}

	created, err := svc.Create(ctx, owner, &model.Event{Title: "Robo war", Date: time.Now(), Type: model.EventCompetition})
	require.NoError(t, err)

	_, err = svc.Update(ctx, Actor{ID: uuid.New(), Role: model.RoleEditor}, created.ID, EventPatch{Title: ptr("x")})
	requireStatus(t, err, http.StatusForbidden, "Not authorized to modify this event")

	updated, err := svc.Update(ctx, Actor{ID: uuid.New(), Role: model.RoleAdmin}, created.ID, EventPatch{Title: ptr("Robo war 2")})
	require.NoError(t, err)
	assert.Equal(t, "Robo war 2", updated.Title)
	assert.Equal(t, model.EventCompetition, updated.Type)
}

func TestEventUpdateCleansReplacedFiles(t *testing.T) {
	svc, _, q := newTestEventService(time.Now())
	ctx := context.Background()
	owner := Actor{ID: uuid.New(), Role: model.RoleEditor}

	created, err := svc.Create(ctx, owner, &model.Event{
		Title:       "Expo",
		Date:        time.Now(),
		Type:        model.EventWorkshop,
		Banner:      "/uploads/old.jpg",
		SchedulePDF: "/uploads/schedule.pdf",
	}, "/uploads/old.jpg", "/uploads/schedule.pdf")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, created.ID, EventPatch{
		Banner:   ptr("/uploads/new.jpg"),
		Uploaded: Uploads{"/uploads/new.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/uploads/new.jpg", updated.Banner)
	assert.Equal(t, "/uploads/schedule.pdf", updated.SchedulePDF)
	assert.Equal(t, []string{"/uploads/old.jpg"}, q.CleanedURLs())
}

func TestEventDeleteRemovesFiles(t *testing.T) {
	svc, repo, q := newTestEventService(time.Now())
	ctx := context.Background()
	owner := Actor{ID: uuid.New(), Role: model.RoleEditor}

	created, err := svc.Create(ctx, owner, &model.Event{Title: "Talk", Date: time.Now(), Type: model.EventGuestLecture, Banner: "/uploads/b.jpg"}, "/uploads/b.jpg")
	require.NoError(t, err)

	err = svc.Delete(ctx, Actor{ID: owner.ID, Role: model.RoleMember}, created.ID)
	requireStatus(t, err, http.StatusForbidden, "")

	require.NoError(t, svc.Delete(ctx, owner, created.ID))
	assert.Empty(t, repo.All())
	assert.Equal(t, []string{"/uploads/b.jpg"}, q.CleanedURLs())

	err = svc.Delete(ctx, owner, created.ID)
	requireStatus(t, err, http.StatusNotFound, "Event not found")
}

func TestEventRejectsUploadsItDidNotStore(t *testing.T) {
	svc, _, q := newTestEventService(time.Now())
	ctx := context.Background()
	editor := Actor{ID: uuid.New(), Role: model.RoleEditor}
	galleryFile := "/uploads/images-1-2.jpg"

	_, err := svc.Create(ctx, editor, &model.Event{Title: "Demo day", Date: time.Now(), Type: model.EventWorkshop, Banner: galleryFile})
	requireStatus(t, err, http.StatusBadRequest, "Invalid banner")

	created, err := svc.Create(ctx, editor, &model.Event{
		Title:       "Demo day",
		Date:        time.Now(),
		Type:        model.EventWorkshop,
		Banner:      "/uploads/banner-7.jpg",
		SchedulePDF: "https://cdn.example.com/schedule.pdf",
	}, "/uploads/banner-7.jpg")
	require.NoError(t, err)

	_, err = svc.Update(ctx, editor, created.ID, EventPatch{SchedulePDF: ptr(galleryFile)})
	requireStatus(t, err, http.StatusBadRequest, "Invalid schedulePDF")

	// resending the stored value is not a change.
	_, err = svc.Update(ctx, editor, created.ID, EventPatch{Banner: ptr("/uploads/banner-7.jpg")})
	require.NoError(t, err)
	assert.Empty(t, q.CleanedURLs())

	require.NoError(t, svc.Delete(ctx, editor, created.ID))
	assert.Equal(t, []string{"/uploads/banner-7.jpg"}, q.CleanedURLs())
}
