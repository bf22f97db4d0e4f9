package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Lakindu24/TalentHub-Admin/internal/attendance"
	"github.com/Lakindu24/TalentHub-Admin/internal/model"
	"github.com/Lakindu24/TalentHub-Admin/internal/repository"
	pkgerrors "github.com/Lakindu24/TalentHub-Admin/pkg/errors"
)

// ── 测试公共环境 ──

// testDay 固定业务日 2025-03-12（周三）
var testDay = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

type testEnv struct {
	repo     *repository.Repository
	trainees *mockTraineeRepo
	physical *mockPhysicalRepo
	online   *mockOnlineRepo
	summary  *mockSummaryRepo
	clock    *attendance.Clock
	logger   *zap.Logger
}

func newTestEnv() *testEnv {
	trainees := newMockTraineeRepo()
	env := &testEnv{
		trainees: trainees,
		physical: newMockPhysicalRepo(),
		online:   newMockOnlineRepo(trainees),
		summary:  newMockSummaryRepo(),
		clock: attendance.NewClockAt(time.UTC, func() time.Time {
			return testDay.Add(9 * time.Hour)
		}),
		logger: zap.NewNop(),
	}
	env.repo = &repository.Repository{
		Trainee:            env.trainees,
		PhysicalAttendance: env.physical,
		OnlineAttendance:   env.online,
		Summary:            env.summary,
	}
	return env
}

// seedTrainee 写入一名学员并返回
func (e *testEnv) seedTrainee(traineeID, name, team string) *model.Trainee {
	t := &model.Trainee{
		TraineeID:      traineeID,
		TraineeName:    name,
		Specialization: "Software Engineering",
		Team:           team,
		AvailableDays:  []string{},
	}
	_ = e.trainees.Create(context.Background(), t)
	return t
}

// ── Mock TraineeRepository ──

type mockTraineeRepo struct {
	trainees map[string]*model.Trainee
}

func newMockTraineeRepo() *mockTraineeRepo {
	return &mockTraineeRepo{trainees: make(map[string]*model.Trainee)}
}

func (m *mockTraineeRepo) Create(_ context.Context, t *model.Trainee) error {
	for _, existing := range m.trainees {
		if existing.TraineeID == t.TraineeID {
			return pkgerrors.ErrDuplicateKey
		}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Version = 1
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	m.trainees[t.ID] = &cp
	return nil
}

func (m *mockTraineeRepo) GetByID(_ context.Context, id string) (*model.Trainee, error) {
	if t, ok := m.trainees[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTraineeRepo) GetByTraineeID(_ context.Context, traineeID string) (*model.Trainee, error) {
	for _, t := range m.trainees {
		if t.TraineeID == traineeID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTraineeRepo) Resolve(ctx context.Context, ref attendance.TraineeRef) (*model.Trainee, error) {
	if ref.Kind == attendance.ByInternalID {
		return m.GetByID(ctx, ref.Value)
	}
	return m.GetByTraineeID(ctx, ref.Value)
}

func (m *mockTraineeRepo) sorted(keep func(*model.Trainee) bool) []model.Trainee {
	result := make([]model.Trainee, 0, len(m.trainees))
	for _, t := range m.trainees {
		if keep == nil || keep(t) {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TraineeID < result[j].TraineeID })
	return result
}

func (m *mockTraineeRepo) List(_ context.Context, filter repository.TraineeFilter, offset, limit int) ([]model.Trainee, int64, error) {
	all := m.sorted(func(t *model.Trainee) bool {
		if filter.Team != "" && t.Team != filter.Team {
			return false
		}
		if filter.Keyword != "" {
			kw := strings.ToLower(filter.Keyword)
			return strings.Contains(strings.ToLower(t.TraineeName), kw) ||
				strings.Contains(strings.ToLower(t.TraineeID), kw)
		}
		return true
	})
	total := int64(len(all))
	if offset >= len(all) {
		return []model.Trainee{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockTraineeRepo) ListAll(_ context.Context) ([]model.Trainee, error) {
	return m.sorted(nil), nil
}

func (m *mockTraineeRepo) Update(_ context.Context, t *model.Trainee) error {
	existing, ok := m.trainees[t.ID]
	if !ok || existing.Version != t.Version {
		return pkgerrors.ErrOptimisticLock
	}
	t.Version++
	t.UpdatedAt = time.Now()
	cp := *t
	cp.TraineeID = existing.TraineeID
	m.trainees[t.ID] = &cp
	return nil
}

func (m *mockTraineeRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.trainees[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.trainees, id)
	return nil
}

func (m *mockTraineeRepo) ListWithTeam(_ context.Context) ([]model.Trainee, error) {
	result := m.sorted(func(t *model.Trainee) bool { return t.Team != "" })
	sort.SliceStable(result, func(i, j int) bool { return result[i].Team < result[j].Team })
	return result, nil
}

func (m *mockTraineeRepo) SetTeam(_ context.Context, ids []string, team string) (int64, error) {
	var n int64
	for _, id := range ids {
		if t, ok := m.trainees[id]; ok {
			t.Team = team
			t.Version++
			n++
		}
	}
	return n, nil
}

func (m *mockTraineeRepo) RenameTeam(_ context.Context, oldName, newName string) (int64, error) {
	var n int64
	for _, t := range m.trainees {
		if t.Team == oldName {
			t.Team = newName
			t.Version++
			n++
		}
	}
	return n, nil
}

// ── Mock PhysicalAttendanceRepository ──

type mockPhysicalRepo struct {
	entries map[string]*model.PhysicalAttendance // pk|date|type
	err     error
}

func newMockPhysicalRepo() *mockPhysicalRepo {
	return &mockPhysicalRepo{entries: make(map[string]*model.PhysicalAttendance)}
}

func physicalKey(e *model.PhysicalAttendance) string {
	return e.TraineePK + "|" + attendance.FormatDay(e.AttendanceDate) + "|" + e.Type
}

func (m *mockPhysicalRepo) Upsert(_ context.Context, e *model.PhysicalAttendance) error {
	if m.err != nil {
		return m.err
	}
	key := physicalKey(e)
	if existing, ok := m.entries[key]; ok {
		e.ID = existing.ID
		e.CreatedAt = existing.CreatedAt
	} else {
		e.ID = uuid.NewString()
		e.CreatedAt = time.Now()
	}
	e.UpdatedAt = time.Now()
	cp := *e
	m.entries[key] = &cp
	return nil
}

func (m *mockPhysicalRepo) ListByRange(_ context.Context, start, end time.Time) ([]model.PhysicalAttendance, error) {
	var result []model.PhysicalAttendance
	for _, e := range m.entries {
		if !e.AttendanceDate.Before(start) && !e.AttendanceDate.After(end) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TimeMarked.Before(result[j].TimeMarked) })
	return result, nil
}

func (m *mockPhysicalRepo) ListByDate(ctx context.Context, day time.Time) ([]model.PhysicalAttendance, error) {
	return m.ListByRange(ctx, day, day)
}

// ── Mock OnlineAttendanceRepository ──

type mockOnlineRepo struct {
	entries  map[string]*model.OnlineAttendance // pk|date|meeting_key
	trainees *mockTraineeRepo
}

func newMockOnlineRepo(trainees *mockTraineeRepo) *mockOnlineRepo {
	return &mockOnlineRepo{entries: make(map[string]*model.OnlineAttendance), trainees: trainees}
}

func (m *mockOnlineRepo) Upsert(_ context.Context, e *model.OnlineAttendance) error {
	e.MeetingKey = model.NormalizeMeetingKey(e.MeetingName)
	key := e.TraineePK + "|" + attendance.FormatDay(e.AttendanceDate) + "|" + e.MeetingKey
	if existing, ok := m.entries[key]; ok {
		// 冲突时保留原会议名
		existing.Status = e.Status
		existing.TimeMarked = e.TimeMarked
		existing.Type = e.Type
		existing.MarkedBy = e.MarkedBy
		existing.UpdatedAt = time.Now()
		e.ID = existing.ID
		e.MeetingName = existing.MeetingName
		e.CreatedAt = existing.CreatedAt
		e.UpdatedAt = existing.UpdatedAt
		return nil
	}
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	cp.Trainee = nil
	m.entries[key] = &cp
	return nil
}

func (m *mockOnlineRepo) withTrainee(e *model.OnlineAttendance) model.OnlineAttendance {
	cp := *e
	if t, ok := m.trainees.trainees[e.TraineePK]; ok {
		tc := *t
		cp.Trainee = &tc
	}
	return cp
}

func (m *mockOnlineRepo) ListByDate(_ context.Context, day time.Time) ([]model.OnlineAttendance, error) {
	var result []model.OnlineAttendance
	for _, e := range m.entries {
		if e.AttendanceDate.Equal(day) {
			result = append(result, m.withTrainee(e))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MeetingKey < result[j].MeetingKey })
	return result, nil
}

func (m *mockOnlineRepo) ListByMeeting(_ context.Context, q repository.MeetingQuery) ([]model.OnlineAttendance, error) {
	var result []model.OnlineAttendance
	for _, e := range m.entries {
		if e.MeetingName != q.MeetingName {
			continue
		}
		if q.Start != nil && q.End != nil && (e.AttendanceDate.Before(*q.Start) || e.AttendanceDate.After(*q.End)) {
			continue
		}
		result = append(result, m.withTrainee(e))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AttendanceDate.After(result[j].AttendanceDate) })
	return result, nil
}

// ── Mock SummaryRepository ──

type mockSummaryRepo struct {
	summaries map[string]*model.DailySummary
}

func newMockSummaryRepo() *mockSummaryRepo {
	return &mockSummaryRepo{summaries: make(map[string]*model.DailySummary)}
}

func (m *mockSummaryRepo) Upsert(_ context.Context, s *model.DailySummary) error {
	cp := *s
	m.summaries[attendance.FormatDay(s.SummaryDate)] = &cp
	return nil
}

func (m *mockSummaryRepo) GetByDate(_ context.Context, day time.Time) (*model.DailySummary, error) {
	if s, ok := m.summaries[attendance.FormatDay(day)]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSummaryRepo) ListByRange(_ context.Context, start, end time.Time) ([]model.DailySummary, error) {
	var result []model.DailySummary
	for _, s := range m.summaries {
		if !s.SummaryDate.Before(start) && !s.SummaryDate.After(end) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SummaryDate.Before(result[j].SummaryDate) })
	return result, nil
}

// ── Mock SessionStore ──

type mockSessionStore struct {
	revoked map[string]bool
	scanned map[string]bool
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{revoked: make(map[string]bool), scanned: make(map[string]bool)}
}

func (m *mockSessionStore) RevokeSession(_ context.Context, sessionID string, _ time.Duration) error {
	m.revoked[sessionID] = true
	return nil
}

func (m *mockSessionStore) IsSessionRevoked(_ context.Context, sessionID string) (bool, error) {
	return m.revoked[sessionID], nil
}

func (m *mockSessionStore) MarkScanned(_ context.Context, sessionID, traineeID string, _ time.Duration) (bool, error) {
	key := sessionID + ":" + traineeID
	if m.scanned[key] {
		return false, nil
	}
	m.scanned[key] = true
	return true, nil
}

func (m *mockSessionStore) ClearScanned(_ context.Context, sessionID, traineeID string) error {
	delete(m.scanned, sessionID+":"+traineeID)
	return nil
}
