package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"tour-booking/backend/internal/model"
	"tour-booking/backend/internal/repository"
	"tour-booking/backend/pkg/redis"
)

// callLog 记录仓储调用顺序（GetGuideSchedule 并发调用，需加锁）
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func overlaps(aStart, aEnd, start, end time.Time) bool {
	return !aStart.After(end) && !aEnd.Before(start)
}

func contained(aStart, aEnd, start, end time.Time) bool {
	return !aStart.Before(start) && !aEnd.After(end)
}

// ── Mock TourGuideRepository ──

type mockGuideRepo struct {
	guides map[string]*model.TourGuide
	err    error
}

func newMockGuideRepo() *mockGuideRepo {
	return &mockGuideRepo{guides: make(map[string]*model.TourGuide)}
}

func (m *mockGuideRepo) GetByID(_ context.Context, id string) (*model.TourGuide, error) {
	if m.err != nil {
		return nil, m.err
	}
	if g, ok := m.guides[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock TourScheduleRepository ──

type mockTourScheduleRepo struct {
	log       *callLog
	schedules []model.TourSchedule
	assigned  map[string][]string // schedule_id → guide_ids
	err       error
}

func newMockTourScheduleRepo(log *callLog) *mockTourScheduleRepo {
	return &mockTourScheduleRepo{log: log, assigned: make(map[string][]string)}
}

func (m *mockTourScheduleRepo) add(s model.TourSchedule, guideIDs ...string) {
	m.schedules = append(m.schedules, s)
	m.assigned[s.ID] = guideIDs
}

func (m *mockTourScheduleRepo) isAssigned(scheduleID, guideID string) bool {
	for _, id := range m.assigned[scheduleID] {
		if id == guideID {
			return true
		}
	}
	return false
}

func (m *mockTourScheduleRepo) ExistsOverlappingForGuide(_ context.Context, guideID string, start, end time.Time) (bool, error) {
	m.log.add("tours")
	if m.err != nil {
		return false, m.err
	}
	for _, s := range m.schedules {
		if m.isAssigned(s.ID, guideID) && overlaps(s.StartDate, s.EndDate, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTourScheduleRepo) ListContainedForGuide(_ context.Context, guideID string, start, end time.Time) ([]model.TourSchedule, error) {
	m.log.add("list-tours")
	if m.err != nil {
		return nil, m.err
	}
	var result []model.TourSchedule
	for _, s := range m.schedules {
		if m.isAssigned(s.ID, guideID) && contained(s.StartDate, s.EndDate, start, end) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockTourScheduleRepo) AdvanceStatuses(_ context.Context, _ time.Time) (int64, int64, error) {
	return 0, 0, nil
}

// ── Mock LeaveRequestRepository ──

type mockLeaveRequestRepo struct {
	log        *callLog
	leaves     []model.GuideLeaveRequest
	err        error
	pendingErr error
	createErr  error
	seq        int
}

func newMockLeaveRequestRepo(log *callLog) *mockLeaveRequestRepo {
	return &mockLeaveRequestRepo{log: log}
}

func (m *mockLeaveRequestRepo) FindApprovedOverlapping(_ context.Context, guideID string, start, end time.Time) (*model.GuideLeaveRequest, error) {
	m.log.add("leave")
	return m.findOverlapping(guideID, model.LeaveStatusApproved, start, end)
}

func (m *mockLeaveRequestRepo) FindPendingOverlapping(_ context.Context, guideID string, start, end time.Time) (*model.GuideLeaveRequest, error) {
	m.log.add("pending-leave")
	if m.pendingErr != nil {
		return nil, m.pendingErr
	}
	return m.findOverlapping(guideID, model.LeaveStatusPending, start, end)
}

func (m *mockLeaveRequestRepo) findOverlapping(guideID, status string, start, end time.Time) (*model.GuideLeaveRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.leaves {
		l := m.leaves[i]
		if l.GuideID == guideID && l.Status == status && overlaps(l.StartDate, l.EndDate, start, end) {
			return &l, nil
		}
	}
	return nil, nil
}

func (m *mockLeaveRequestRepo) ListContained(_ context.Context, guideID string, start, end time.Time) ([]model.GuideLeaveRequest, error) {
	m.log.add("list-leaves")
	if m.err != nil {
		return nil, m.err
	}
	var result []model.GuideLeaveRequest
	for _, l := range m.leaves {
		if l.GuideID == guideID && contained(l.StartDate, l.EndDate, start, end) {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockLeaveRequestRepo) Create(_ context.Context, leave *model.GuideLeaveRequest) error {
	m.log.add("create-leave")
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	if leave.ID == "" {
		leave.ID = fmt.Sprintf("leave-%d", m.seq)
	}
	m.leaves = append(m.leaves, *leave)
	return nil
}

// ── Mock BlackoutDateRepository ──

type mockBlackoutDateRepo struct {
	log   *callLog
	dates []model.GuideBlackoutDate
	err   error
}

func newMockBlackoutDateRepo(log *callLog) *mockBlackoutDateRepo {
	return &mockBlackoutDateRepo{log: log}
}

func (m *mockBlackoutDateRepo) FindWithin(_ context.Context, guideID string, start, end time.Time) (*model.GuideBlackoutDate, error) {
	m.log.add("blackout")
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.dates {
		d := m.dates[i]
		if d.GuideID == guideID && !d.Date.Before(start) && !d.Date.After(end) {
			return &d, nil
		}
	}
	return nil, nil
}

// ── Mock AvailabilityScheduleRepository ──

type mockAvailabilityRepo struct {
	log     *callLog
	records []model.GuideAvailabilitySchedule
	err     error
}

func newMockAvailabilityRepo(log *callLog) *mockAvailabilityRepo {
	return &mockAvailabilityRepo{log: log}
}

func (m *mockAvailabilityRepo) ListContained(_ context.Context, guideID string, start, end time.Time) ([]model.GuideAvailabilitySchedule, error) {
	m.log.add("list-availability")
	if m.err != nil {
		return nil, m.err
	}
	var result []model.GuideAvailabilitySchedule
	for _, r := range m.records {
		if r.GuideID == guideID && contained(r.StartDate, r.EndDate, start, end) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockAvailabilityRepo) Create(_ context.Context, record *model.GuideAvailabilitySchedule) error {
	m.log.add("create-availability")
	if m.err != nil {
		return m.err
	}
	if record.ID == "" {
		record.ID = "avail-" + record.Status
	}
	m.records = append(m.records, *record)
	return nil
}

// ── Mock LeaveLocker ──

type mockLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	locked   int
	unlocked int
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: make(map[string]bool)}
}

func (m *mockLocker) Lock(_ context.Context, key string, _ time.Duration) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.held[key] {
		return nil, redis.ErrLockHeld
	}
	m.held[key] = true
	m.locked++
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.held, key)
		m.unlocked++
	}, nil
}

// ── 组装 ──

type mockRepos struct {
	log          *callLog
	guides       *mockGuideRepo
	tours        *mockTourScheduleRepo
	leaves       *mockLeaveRequestRepo
	blackouts    *mockBlackoutDateRepo
	availability *mockAvailabilityRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	log := &callLog{}
	m := &mockRepos{
		log:          log,
		guides:       newMockGuideRepo(),
		tours:        newMockTourScheduleRepo(log),
		leaves:       newMockLeaveRequestRepo(log),
		blackouts:    newMockBlackoutDateRepo(log),
		availability: newMockAvailabilityRepo(log),
	}
	repo := &repository.Repository{
		Guide:                m.guides,
		TourSchedule:         m.tours,
		LeaveRequest:         m.leaves,
		BlackoutDate:         m.blackouts,
		AvailabilitySchedule: m.availability,
	}
	return repo, m
}
