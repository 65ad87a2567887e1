// Package testutil provides in-memory repositories and a recording task
// queue for service and handler tests.
package testutil

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/deppfellow/robotics-club/internal/lib/job"
	"github.com/deppfellow/robotics-club/internal/model"
	"github.com/deppfellow/robotics-club/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
)

// Table is an in-memory table keyed by the row's Base.ID.
type Table[T any] struct {
	mu    sync.Mutex
	table string
	rows  map[uuid.UUID]T
	order []uuid.UUID
	base  func(*T) *model.Base
}

func newTable[T any](table string, base func(*T) *model.Base) *Table[T] {
	return &Table[T]{table: table, rows: map[uuid.UUID]T{}, base: base}
}

func (m *Table[T]) Create(_ context.Context, v *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.base(v)
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.rows[b.ID] = *v
	m.order = append(m.order, b.ID)

	out := *v
	return &out, nil
}

func (m *Table[T]) GetByID(_ context.Context, id uuid.UUID) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.rows[id]
	if !ok {
		return nil, sqlerr.WithTable(m.table, pgx.ErrNoRows)
	}
	return &v, nil
}

// Update applies mutate to a copy of the row under the table lock, so
// concurrent updates see each other's writes.
func (m *Table[T]) Update(_ context.Context, id uuid.UUID, mutate func(*T) error) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.rows[id]
	if !ok {
		return nil, sqlerr.WithTable(m.table, pgx.ErrNoRows)
	}
	if err := mutate(&v); err != nil {
		return nil, err
	}
	m.base(&v).UpdatedAt = time.Now()
	m.rows[id] = v

	out := v
	return &out, nil
}

// modify is Update for fixed changes that cannot fail.
func (m *Table[T]) modify(id uuid.UUID, change func(*T)) (*T, error) {
	return m.Update(context.Background(), id, func(v *T) error {
		change(v)
		return nil
	})
}

func (m *Table[T]) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return sqlerr.WithTable(m.table, pgx.ErrNoRows)
	}
	delete(m.rows, id)
	m.order = slices.DeleteFunc(m.order, func(x uuid.UUID) bool { return x == id })
	return nil
}

func (m *Table[T]) All() []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.rows[id])
	}
	return out
}

type Events struct{ *Table[model.Event] }

func NewEvents() *Events {
	return &Events{newTable("events", func(e *model.Event) *model.Base { return &e.Base })}
}

func (f *Events) List(_ context.Context, filter model.EventFilter) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.All() {
		if filter.Type != nil && e.Type != *filter.Type {
			continue
		}
		if filter.Upcoming != nil && e.Date.Before(filter.Now) == *filter.Upcoming {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type Team struct{ *Table[model.TeamMember] }

func NewTeam() *Team {
	return &Team{newTable("team_members", func(m *model.TeamMember) *model.Base { return &m.Base })}
}

func (f *Team) List(_ context.Context, filter model.TeamFilter) ([]model.TeamMember, error) {
	var out []model.TeamMember
	for _, m := range f.All() {
		if filter.Category != nil && m.Category != *filter.Category {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type Achievements struct{ *Table[model.Achievement] }

func NewAchievements() *Achievements {
	return &Achievements{newTable("achievements", func(a *model.Achievement) *model.Base { return &a.Base })}
}

func (f *Achievements) List(context.Context, model.AchievementFilter) ([]model.Achievement, error) {
	return f.All(), nil
}

type Gallery struct{ *Table[model.GalleryImage] }

func NewGallery() *Gallery {
	return &Gallery{newTable("gallery_images", func(g *model.GalleryImage) *model.Base { return &g.Base })}
}

func (f *Gallery) CreateMany(ctx context.Context, images []model.GalleryImage) ([]model.GalleryImage, error) {
	out := make([]model.GalleryImage, 0, len(images))
	for i := range images {
		created, err := f.Create(ctx, &images[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *created)
	}
	return out, nil
}

func (f *Gallery) List(context.Context, model.GalleryFilter) ([]model.GalleryImage, error) {
	return f.All(), nil
}

type Announcements struct{ *Table[model.Announcement] }

func NewAnnouncements() *Announcements {
	return &Announcements{newTable("announcements", func(a *model.Announcement) *model.Base { return &a.Base })}
}

func (f *Announcements) List(_ context.Context, filter model.AnnouncementFilter) ([]model.Announcement, error) {
	var out []model.Announcement
	for _, a := range f.All() {
		if filter.ActiveAt != nil && !a.IsVisible(*filter.ActiveAt) {
			continue
		}
		out = append(out, a)
	}
	if filter.ActiveAt != nil {
		slices.SortStableFunc(out, func(a, b model.Announcement) int { return b.Priority - a.Priority })
	}
	return out, nil
}

type Users struct{ *Table[model.User] }

func NewUsers() *Users {
	return &Users{newTable("users", func(u *model.User) *model.Base { return &u.Base })}
}

func (f *Users) find(match func(u *model.User) bool) (*model.User, error) {
	for _, u := range f.All() {
		if match(&u) {
			return &u, nil
		}
	}
	return nil, sqlerr.WithTable("users", pgx.ErrNoRows)
}

func (f *Users) GetByLogin(_ context.Context, login string) (*model.User, error) {
	return f.find(func(u *model.User) bool {
		return strings.EqualFold(u.Email, login) || strings.EqualFold(u.Username, login)
	})
}

func (f *Users) FindConflict(_ context.Context, username, email string, exclude uuid.UUID) (*model.User, error) {
	return f.find(func(u *model.User) bool {
		return u.ID != exclude && (strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email))
	})
}

func (f *Users) FirstAdmin(context.Context) (*model.User, error) {
	return f.find(func(u *model.User) bool { return u.Role == model.RoleAdmin })
}

func (f *Users) List(context.Context) ([]model.User, error) {
	return f.All(), nil
}

func (f *Users) UpdateProfile(_ context.Context, id uuid.UUID, username, email, picture *string) (*model.User, error) {
	return f.modify(id, func(u *model.User) {
		if username != nil {
			u.Username = *username
		}
		if email != nil {
			u.Email = *email
		}
		if picture != nil {
			u.ProfilePicture = *picture
		}
	})
}

func (f *Users) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	_, err := f.modify(id, func(u *model.User) { u.PasswordHash = hash })
	return err
}

func (f *Users) UpdateRole(_ context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	return f.modify(id, func(u *model.User) { u.Role = role })
}

func (f *Users) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	_, err := f.modify(id, func(u *model.User) { u.LastLoginAt = &at })
	return err
}

// Home stores the singleton and counts reads.
type Home struct {
	mu    sync.Mutex
	row   *model.HomeContent
	Reads int
}

func (f *Home) Get(context.Context) (*model.HomeContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Reads++
	out := *f.current()
	return &out, nil
}

func (f *Home) Update(_ context.Context, mutate func(*model.HomeContent) error) (*model.HomeContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := *f.current()
	if err := mutate(&next); err != nil {
		return nil, err
	}
	f.row = &next
	out := next
	return &out, nil
}

func (f *Home) current() *model.HomeContent {
	if f.row == nil {
		def := model.DefaultHomeContent()
		f.row = &def
	}
	return f.row
}

type Settings struct {
	mu  sync.Mutex
	row *model.Settings
}

func (f *Settings) Get(context.Context) (*model.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := *f.current()
	return &out, nil
}

func (f *Settings) Update(_ context.Context, mutate func(*model.Settings) error) (*model.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := *f.current()
	if err := mutate(&next); err != nil {
		return nil, err
	}
	f.row = &next
	out := next
	return &out, nil
}

func (f *Settings) current() *model.Settings {
	if f.row == nil {
		def := model.DefaultSettings()
		f.row = &def
	}
	return f.row
}

// Queue captures enqueued tasks.
type Queue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (q *Queue) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func (q *Queue) Types() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]string, 0, len(q.tasks))
	for _, t := range q.tasks {
		out = append(out, t.Type())
	}
	return out
}

// CleanedURLs returns every URL scheduled for deletion.
func (q *Queue) CleanedURLs() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []string
	for _, t := range q.tasks {
		if t.Type() != job.TaskUploadCleanup {
			continue
		}
		var p job.UploadCleanupPayload
		if err := json.Unmarshal(t.Payload(), &p); err == nil {
			out = append(out, p.URLs...)
		}
	}
	return out
}
