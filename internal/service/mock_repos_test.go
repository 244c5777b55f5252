package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"levi-escalas/backend/internal/model"
	"levi-escalas/backend/internal/repository"
	pkgerrors "levi-escalas/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ListByChurch(_ context.Context, churchID string, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if u.ChurchID == churchID {
			result = append(result, *u)
		}
	}
	return result, int64(len(result)), nil
}

// ── Mock ChurchRepository ──

type mockChurchRepo struct {
	churches map[string]*model.Church
}

func newMockChurchRepo() *mockChurchRepo {
	return &mockChurchRepo{churches: make(map[string]*model.Church)}
}

func (m *mockChurchRepo) Create(_ context.Context, church *model.Church) error {
	if church.ChurchID == "" {
		church.ChurchID = fmt.Sprintf("church-%d", len(m.churches)+1)
	}
	m.churches[church.ChurchID] = church
	return nil
}

func (m *mockChurchRepo) GetByID(_ context.Context, id string) (*model.Church, error) {
	if c, ok := m.churches[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockChurchRepo) Update(_ context.Context, church *model.Church) error {
	m.churches[church.ChurchID] = church
	return nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
	memberRepo  *mockMemberRepo
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[string]*model.Department)}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = fmt.Sprintf("dept-%d", len(m.departments)+1)
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByChurchAndName(_ context.Context, churchID, name string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.ChurchID == churchID && d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) ListByChurch(_ context.Context, churchID string) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		if d.ChurchID == churchID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepo) CountMembers(_ context.Context, departmentID string) (int64, error) {
	if m.memberRepo == nil {
		return 0, nil
	}
	var count int64
	for _, mem := range m.memberRepo.members {
		if mem.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

// ── Mock MemberRepository ──

type mockMemberRepo struct {
	members map[string]*model.Member
	users   *mockUserRepo // 关联预加载
}

func newMockMemberRepo(users *mockUserRepo) *mockMemberRepo {
	return &mockMemberRepo{members: make(map[string]*model.Member), users: users}
}

func (m *mockMemberRepo) Create(_ context.Context, member *model.Member) error {
	if member.MemberID == "" {
		member.MemberID = fmt.Sprintf("member-%d", len(m.members)+1)
	}
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) GetByID(_ context.Context, id string) (*model.Member, error) {
	if mem, ok := m.members[id]; ok {
		return mem, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) GetByUserAndDepartment(_ context.Context, userID, departmentID string) (*model.Member, error) {
	for _, mem := range m.members {
		if mem.UserID == userID && mem.DepartmentID == departmentID {
			return mem, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.Member, error) {
	var result []model.Member
	for _, mem := range m.members {
		if mem.DepartmentID == departmentID {
			copied := *mem
			if m.users != nil {
				if u, ok := m.users.users[mem.UserID]; ok {
					copied.User = u
				}
			}
			result = append(result, copied)
		}
	}
	return result, nil
}

func (m *mockMemberRepo) ListByUser(_ context.Context, userID string) ([]model.Member, error) {
	var result []model.Member
	for _, mem := range m.members {
		if mem.UserID == userID {
			result = append(result, *mem)
		}
	}
	return result, nil
}

func (m *mockMemberRepo) Update(_ context.Context, member *model.Member) error {
	m.members[member.MemberID] = member
	return nil
}

func (m *mockMemberRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.members, id)
	return nil
}

// ── Mock SectorRepository ──

type mockSectorRepo struct {
	sectors map[string]*model.Sector
}

func newMockSectorRepo() *mockSectorRepo {
	return &mockSectorRepo{sectors: make(map[string]*model.Sector)}
}

func (m *mockSectorRepo) Create(_ context.Context, sector *model.Sector) error {
	if sector.SectorID == "" {
		sector.SectorID = fmt.Sprintf("sector-%d", len(m.sectors)+1)
	}
	m.sectors[sector.SectorID] = sector
	return nil
}

func (m *mockSectorRepo) GetByID(_ context.Context, id string) (*model.Sector, error) {
	if s, ok := m.sectors[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSectorRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.Sector, error) {
	var result []model.Sector
	for _, s := range m.sectors {
		if s.DepartmentID == departmentID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSectorRepo) Update(_ context.Context, sector *model.Sector) error {
	m.sectors[sector.SectorID] = sector
	return nil
}

func (m *mockSectorRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.sectors, id)
	return nil
}

// ── Mock FixedSlotRepository ──

type mockFixedSlotRepo struct {
	slots map[string]*model.FixedSlot
}

func newMockFixedSlotRepo() *mockFixedSlotRepo {
	return &mockFixedSlotRepo{slots: make(map[string]*model.FixedSlot)}
}

func (m *mockFixedSlotRepo) Create(_ context.Context, slot *model.FixedSlot) error {
	if slot.FixedSlotID == "" {
		slot.FixedSlotID = fmt.Sprintf("slot-%d", len(m.slots)+1)
	}
	m.slots[slot.FixedSlotID] = slot
	return nil
}

func (m *mockFixedSlotRepo) GetByID(_ context.Context, id string) (*model.FixedSlot, error) {
	if s, ok := m.slots[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFixedSlotRepo) ListByDepartment(_ context.Context, departmentID string, activeOnly bool) ([]model.FixedSlot, error) {
	var result []model.FixedSlot
	for _, s := range m.slots {
		if s.DepartmentID != departmentID {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockFixedSlotRepo) Update(_ context.Context, slot *model.FixedSlot) error {
	m.slots[slot.FixedSlotID] = slot
	return nil
}

func (m *mockFixedSlotRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.slots, id)
	return nil
}

// ── Mock ScheduleEntryRepository ──
// 模拟数据库排它约束：同一用户同一日期时段重叠即拒绝整批写入

type mockScheduleEntryRepo struct {
	entries   map[string]*model.ScheduleEntry
	deptNames map[string]string // department_id -> name（供 ListOverlapping 填充）
	seq       int
}

func newMockScheduleEntryRepo() *mockScheduleEntryRepo {
	return &mockScheduleEntryRepo{
		entries:   make(map[string]*model.ScheduleEntry),
		deptNames: make(map[string]string),
	}
}

func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return normalizeTime(aStart) < normalizeTime(bEnd) && normalizeTime(aEnd) > normalizeTime(bStart)
}

func (m *mockScheduleEntryRepo) BatchCreate(_ context.Context, entries []model.ScheduleEntry) error {
	for i := range entries {
		e := &entries[i]
		for _, existing := range m.entries {
			if existing.UserID == e.UserID && existing.Date.Equal(e.Date) &&
				overlaps(existing.TimeStart, existing.TimeEnd, e.TimeStart, e.TimeEnd) {
				return pkgerrors.ErrScheduleConflict
			}
		}
	}
	for i := range entries {
		m.seq++
		entries[i].ScheduleEntryID = fmt.Sprintf("entry-%d", m.seq)
		copied := entries[i]
		m.entries[copied.ScheduleEntryID] = &copied
	}
	return nil
}

func (m *mockScheduleEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleEntryRepo) ListByDepartmentAndRange(_ context.Context, departmentID string, from, to time.Time) ([]model.ScheduleEntry, error) {
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if e.DepartmentID == departmentID && !e.Date.Before(from) && !e.Date.After(to) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockScheduleEntryRepo) ListByUserAndRange(_ context.Context, userID string, from, to time.Time) ([]model.ScheduleEntry, error) {
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if e.UserID == userID && !e.Date.Before(from) && !e.Date.After(to) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockScheduleEntryRepo) ListByUsersAndRange(_ context.Context, departmentID string, userIDs []string, from, to time.Time) ([]model.ScheduleEntry, error) {
	idSet := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		idSet[id] = true
	}
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if e.DepartmentID == departmentID && idSet[e.UserID] && !e.Date.Before(from) && !e.Date.After(to) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockScheduleEntryRepo) ListOverlapping(_ context.Context, userIDs []string, date time.Time, timeStart, timeEnd, excludeDepartmentID string) ([]repository.CrossDeptConflict, error) {
	idSet := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		idSet[id] = true
	}
	var result []repository.CrossDeptConflict
	for _, e := range m.entries {
		if !idSet[e.UserID] || e.DepartmentID == excludeDepartmentID || !e.Date.Equal(date) {
			continue
		}
		if overlaps(e.TimeStart, e.TimeEnd, timeStart, timeEnd) {
			result = append(result, repository.CrossDeptConflict{
				UserID:         e.UserID,
				DepartmentID:   e.DepartmentID,
				DepartmentName: m.deptNames[e.DepartmentID],
			})
		}
	}
	return result, nil
}

func (m *mockScheduleEntryRepo) UpdateNotes(_ context.Context, entry *model.ScheduleEntry) error {
	existing, ok := m.entries[entry.ScheduleEntryID]
	if !ok || existing.Version != entry.Version {
		return pkgerrors.ErrOptimisticLock
	}
	existing.Notes = entry.Notes
	existing.Version++
	entry.Version = existing.Version
	return nil
}

func (m *mockScheduleEntryRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.entries, id)
	return nil
}

// ── Mock AvailabilityDateRepository ──

type mockAvailabilityDateRepo struct {
	records map[string]*model.AvailabilityDate
}

func newMockAvailabilityDateRepo() *mockAvailabilityDateRepo {
	return &mockAvailabilityDateRepo{records: make(map[string]*model.AvailabilityDate)}
}

func (m *mockAvailabilityDateRepo) ListByMemberAndRange(_ context.Context, memberID string, from, to time.Time) ([]model.AvailabilityDate, error) {
	var result []model.AvailabilityDate
	for _, r := range m.records {
		if r.MemberID == memberID && !r.Date.Before(from) && !r.Date.After(to) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockAvailabilityDateRepo) GetByMemberAndDate(_ context.Context, memberID string, date time.Time) (*model.AvailabilityDate, error) {
	for _, r := range m.records {
		if r.MemberID == memberID && r.Date.Equal(date) {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAvailabilityDateRepo) Create(_ context.Context, record *model.AvailabilityDate) error {
	if record.AvailabilityDateID == "" {
		record.AvailabilityDateID = fmt.Sprintf("ad-%d", len(m.records)+1)
	}
	m.records[record.AvailabilityDateID] = record
	return nil
}

func (m *mockAvailabilityDateRepo) Update(_ context.Context, record *model.AvailabilityDate) error {
	m.records[record.AvailabilityDateID] = record
	return nil
}

func (m *mockAvailabilityDateRepo) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

// ── Mock SlotAvailabilityRepository ──
// 模拟自然键唯一索引：重复创建返回 gorm.ErrDuplicatedKey

type mockSlotAvailabilityRepo struct {
	records   map[string]*model.SlotAvailability
	missOnGet bool // 置位后 GetByNaturalKey 总是未命中，模拟读写竞态
}

func newMockSlotAvailabilityRepo() *mockSlotAvailabilityRepo {
	return &mockSlotAvailabilityRepo{records: make(map[string]*model.SlotAvailability)}
}

func naturalKey(r *model.SlotAvailability) string {
	return fmt.Sprintf("%s/%s/%d/%s/%s/%s",
		r.MemberID, r.DepartmentID, r.DayOfWeek,
		normalizeTime(r.TimeStart), normalizeTime(r.TimeEnd),
		r.PeriodStart.Format("2006-01-02"))
}

func (m *mockSlotAvailabilityRepo) ListByMemberAndPeriod(_ context.Context, memberID string, periodStart time.Time) ([]model.SlotAvailability, error) {
	var result []model.SlotAvailability
	for _, r := range m.records {
		if r.MemberID == memberID && r.PeriodStart.Equal(periodStart) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockSlotAvailabilityRepo) GetByNaturalKey(_ context.Context, memberID, departmentID string, dayOfWeek int, timeStart, timeEnd string, periodStart time.Time) (*model.SlotAvailability, error) {
	if m.missOnGet {
		return nil, gorm.ErrRecordNotFound
	}
	probe := &model.SlotAvailability{
		MemberID:     memberID,
		DepartmentID: departmentID,
		DayOfWeek:    dayOfWeek,
		TimeStart:    timeStart,
		TimeEnd:      timeEnd,
		PeriodStart:  periodStart,
	}
	key := naturalKey(probe)
	for _, r := range m.records {
		if naturalKey(r) == key {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSlotAvailabilityRepo) Create(_ context.Context, record *model.SlotAvailability) error {
	key := naturalKey(record)
	for _, r := range m.records {
		if naturalKey(r) == key {
			return gorm.ErrDuplicatedKey
		}
	}
	if record.SlotAvailabilityID == "" {
		record.SlotAvailabilityID = fmt.Sprintf("sa-%d", len(m.records)+1)
	}
	m.records[record.SlotAvailabilityID] = record
	return nil
}

func (m *mockSlotAvailabilityRepo) Update(_ context.Context, record *model.SlotAvailability) error {
	m.records[record.SlotAvailabilityID] = record
	return nil
}

func (m *mockSlotAvailabilityRepo) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

// ── Mock MemberPreferenceRepository ──

type mockMemberPreferenceRepo struct {
	prefs map[string]*model.MemberPreference
}

func newMockMemberPreferenceRepo() *mockMemberPreferenceRepo {
	return &mockMemberPreferenceRepo{prefs: make(map[string]*model.MemberPreference)}
}

func (m *mockMemberPreferenceRepo) GetByMember(_ context.Context, memberID, departmentID string) (*model.MemberPreference, error) {
	for _, p := range m.prefs {
		if p.MemberID == memberID && p.DepartmentID == departmentID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberPreferenceRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.MemberPreference, error) {
	var result []model.MemberPreference
	for _, p := range m.prefs {
		if p.DepartmentID == departmentID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockMemberPreferenceRepo) Create(_ context.Context, pref *model.MemberPreference) error {
	if pref.MemberPreferenceID == "" {
		pref.MemberPreferenceID = fmt.Sprintf("pref-%d", len(m.prefs)+1)
	}
	m.prefs[pref.MemberPreferenceID] = pref
	return nil
}

func (m *mockMemberPreferenceRepo) Update(_ context.Context, pref *model.MemberPreference) error {
	m.prefs[pref.MemberPreferenceID] = pref
	return nil
}

// ── Mock InviteCodeRepository ──

type mockInviteCodeRepo struct {
	invites map[string]*model.InviteCode
}

func newMockInviteCodeRepo() *mockInviteCodeRepo {
	return &mockInviteCodeRepo{invites: make(map[string]*model.InviteCode)}
}

func (m *mockInviteCodeRepo) Create(_ context.Context, invite *model.InviteCode) error {
	if invite.InviteCodeID == "" {
		invite.InviteCodeID = fmt.Sprintf("invite-%d", len(m.invites)+1)
	}
	m.invites[invite.InviteCodeID] = invite
	return nil
}

func (m *mockInviteCodeRepo) GetByCode(_ context.Context, code string) (*model.InviteCode, error) {
	for _, i := range m.invites {
		if i.Code == code {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInviteCodeRepo) MarkUsed(_ context.Context, invite *model.InviteCode, usedBy string) error {
	stored, ok := m.invites[invite.InviteCodeID]
	if !ok || stored.UsedAt != nil {
		return pkgerrors.ErrOptimisticLock
	}
	now := time.Now()
	stored.UsedAt = &now
	stored.UsedBy = &usedBy
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	failCreate    bool // 置位后 BatchCreate 返回错误，用于验证尽力而为语义
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) BatchCreate(_ context.Context, notifications []model.Notification) error {
	if m.failCreate {
		return fmt.Errorf("notification store unavailable")
	}
	for i := range notifications {
		id := fmt.Sprintf("notif-%d", len(m.notifications)+1)
		notifications[i].NotificationID = id
		copied := notifications[i]
		m.notifications[id] = &copied
	}
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		result = append(result, *n)
	}
	return result, int64(len(result)), nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	if n, ok := m.notifications[id]; ok {
		n.IsRead = true
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── 测试用聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user             *mockUserRepo
	church           *mockChurchRepo
	department       *mockDepartmentRepo
	member           *mockMemberRepo
	sector           *mockSectorRepo
	fixedSlot        *mockFixedSlotRepo
	scheduleEntry    *mockScheduleEntryRepo
	availabilityDate *mockAvailabilityDateRepo
	slotAvailability *mockSlotAvailabilityRepo
	memberPreference *mockMemberPreferenceRepo
	inviteCode       *mockInviteCodeRepo
	notification     *mockNotificationRepo
}

func newTestRepos() *testRepos {
	users := newMockUserRepo()
	members := newMockMemberRepo(users)
	depts := newMockDepartmentRepo()
	depts.memberRepo = members
	return &testRepos{
		user:             users,
		church:           newMockChurchRepo(),
		department:       depts,
		member:           members,
		sector:           newMockSectorRepo(),
		fixedSlot:        newMockFixedSlotRepo(),
		scheduleEntry:    newMockScheduleEntryRepo(),
		availabilityDate: newMockAvailabilityDateRepo(),
		slotAvailability: newMockSlotAvailabilityRepo(),
		memberPreference: newMockMemberPreferenceRepo(),
		inviteCode:       newMockInviteCodeRepo(),
		notification:     newMockNotificationRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:             r.user,
		Church:           r.church,
		Department:       r.department,
		Member:           r.member,
		Sector:           r.sector,
		FixedSlot:        r.fixedSlot,
		ScheduleEntry:    r.scheduleEntry,
		AvailabilityDate: r.availabilityDate,
		SlotAvailability: r.slotAvailability,
		MemberPreference: r.memberPreference,
		InviteCode:       r.inviteCode,
		Notification:     r.notification,
	}
}
