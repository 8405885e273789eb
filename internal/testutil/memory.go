package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/fitzone/internal/app/store"
	memberstore "github.com/dalemusser/fitzone/internal/app/store/members"
	"github.com/dalemusser/fitzone/internal/app/system/identity"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Journal records the order of calls across in-memory fakes.
type Journal struct {
	mu    sync.Mutex
	Calls []string
}

func (j *Journal) add(call string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	j.Calls = append(j.Calls, call)
	j.mu.Unlock()
}

// MemIdentity is an in-memory identity.Provider.
type MemIdentity struct {
	mu        sync.Mutex
	byEmail   map[string]memAccount
	Journal   *Journal
	SignUpErr error
	DeleteErr error
}

type memAccount struct {
	id       string
	password string
}

func NewMemIdentity(j *Journal) *MemIdentity {
	return &MemIdentity{byEmail: map[string]memAccount{}, Journal: j}
}

func (m *MemIdentity) SignUp(_ context.Context, email, password string) (identity.Identity, error) {
	m.Journal.add("identity.signup")
	if m.SignUpErr != nil {
		return identity.Identity{}, m.SignUpErr
	}
	email = identity.NormalizeEmail(email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[email]; ok {
		return identity.Identity{}, identity.FromCode("EMAIL_EXISTS", "")
	}
	acct := memAccount{id: uuid.NewString(), password: password}
	m.byEmail[email] = acct
	return identity.Identity{ID: acct.id, Email: email}, nil
}

func (m *MemIdentity) SignIn(_ context.Context, email, password string) (identity.Identity, error) {
	m.Journal.add("identity.signin")
	email = identity.NormalizeEmail(email)
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.byEmail[email]
	if !ok || acct.password != password {
		return identity.Identity{}, identity.FromCode("INVALID_LOGIN_CREDENTIALS", "")
	}
	return identity.Identity{ID: acct.id, Email: email}, nil
}

func (m *MemIdentity) Delete(_ context.Context, id string) error {
	m.Journal.add("identity.delete")
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, acct := range m.byEmail {
		if acct.id == id {
			delete(m.byEmail, email)
			return nil
		}
	}
	return identity.FromCode("USER_NOT_FOUND", "")
}

// Count returns the number of identities.
func (m *MemIdentity) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byEmail)
}

// MemRoles is an in-memory role record store.
type MemRoles struct {
	mu      sync.Mutex
	byID    map[string]models.UserRole
	Journal *Journal
	PutErr  error
	GetErr  error
}

func NewMemRoles(j *Journal) *MemRoles {
	return &MemRoles{byID: map[string]models.UserRole{}, Journal: j}
}

func (m *MemRoles) Put(_ context.Context, ur models.UserRole) (models.UserRole, error) {
	m.Journal.add("roles.put")
	if m.PutErr != nil {
		return models.UserRole{}, m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[ur.ID]; ok {
		return models.UserRole{}, store.ErrExists
	}
	if ur.CreatedAt.IsZero() {
		ur.CreatedAt = time.Now().UTC()
	}
	m.byID[ur.ID] = ur
	return ur, nil
}

func (m *MemRoles) Get(_ context.Context, id string) (models.UserRole, error) {
	if m.GetErr != nil {
		return models.UserRole{}, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ur, ok := m.byID[id]
	if !ok {
		return models.UserRole{}, store.ErrNotFound
	}
	return ur, nil
}

func (m *MemRoles) ListByRole(_ context.Context, role models.Role) ([]models.UserRole, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UserRole
	for _, ur := range m.byID {
		if ur.Role == role {
			out = append(out, ur)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemRoles) Delete(_ context.Context, id string) error {
	m.Journal.add("roles.delete")
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// Len returns the number of role records.
func (m *MemRoles) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// MemMembers is an in-memory member profile store.
type MemMembers struct {
	mu        sync.Mutex
	list      []models.Member
	Journal   *Journal
	CreateErr error
}

func NewMemMembers(j *Journal) *MemMembers {
	return &MemMembers{Journal: j}
}

func (m *MemMembers) Create(_ context.Context, mem models.Member) (models.Member, error) {
	m.Journal.add("members.create")
	if m.CreateErr != nil {
		return models.Member{}, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mem.ID = primitive.NewObjectID()
	if mem.Status == "" {
		mem.Status = models.MemberActive
	}
	if mem.JoinDate.IsZero() {
		mem.JoinDate = time.Now().UTC()
	}
	m.list = append(m.list, mem)
	return mem, nil
}

func (m *MemMembers) GetByEmail(_ context.Context, email string) (models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mem := range m.list {
		if strings.EqualFold(mem.Email, strings.TrimSpace(email)) {
			return mem, nil
		}
	}
	return models.Member{}, store.ErrNotFound
}

func (m *MemMembers) Get(_ context.Context, id primitive.ObjectID) (models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mem := range m.list {
		if mem.ID == id {
			return mem, nil
		}
	}
	return models.Member{}, store.ErrNotFound
}

// List returns profiles newest-joined first, like memberstore.Store.
func (m *MemMembers) List(_ context.Context) ([]models.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Member(nil), m.list...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].JoinDate.After(out[j].JoinDate) })
	return out, nil
}

func (m *MemMembers) Update(_ context.Context, id primitive.ObjectID, u memberstore.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID != id {
			continue
		}
		m.list[i].Name = u.Name
		m.list[i].Email = strings.TrimSpace(u.Email)
		m.list[i].Phone = u.Phone
		m.list[i].DateOfBirth = u.DateOfBirth
		m.list[i].Package = u.Package
		m.list[i].Status = u.Status
		m.list[i].Photo = u.Photo
		return nil
	}
	return store.ErrNotFound
}

func (m *MemMembers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID == id {
			m.list = append(m.list[:i], m.list[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// Len returns the number of profiles.
func (m *MemMembers) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.list)
}

// MemBills is an in-memory bill store with the same MarkPaid semantics as
// billstore.Store.
type MemBills struct {
	mu   sync.Mutex
	list []models.Bill
}

func NewMemBills() *MemBills { return &MemBills{} }

func (m *MemBills) Create(_ context.Context, b models.Bill) (models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = primitive.NewObjectID()
	if b.Status == "" {
		b.Status = models.BillPending
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	m.list = append(m.list, b)
	return b, nil
}

func (m *MemBills) Get(_ context.Context, id primitive.ObjectID) (models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.list {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Bill{}, store.ErrNotFound
}

func (m *MemBills) List(_ context.Context) ([]models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Bill(nil), m.list...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemBills) ListByMember(_ context.Context, memberID primitive.ObjectID) ([]models.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Bill
	for _, b := range m.list {
		if b.MemberID == memberID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemBills) MarkPaid(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID != id {
			continue
		}
		if m.list[i].Status != models.BillPending {
			return false, nil
		}
		paid := at.UTC()
		m.list[i].Status = models.BillPaid
		m.list[i].PaidDate = &paid
		return true, nil
	}
	return false, store.ErrNotFound
}

// MemNotifications is an in-memory notification store.
type MemNotifications struct {
	mu   sync.Mutex
	list []models.Notification
}

func NewMemNotifications() *MemNotifications { return &MemNotifications{} }

func (m *MemNotifications) Create(_ context.Context, n models.Notification) (models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = primitive.NewObjectID()
	n.IsActive = true
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	m.list = append(m.list, n)
	return n, nil
}

func (m *MemNotifications) List(_ context.Context) ([]models.Notification, error) {
	return m.filter(func(models.Notification) bool { return true }), nil
}

func (m *MemNotifications) ListActive(_ context.Context) ([]models.Notification, error) {
	return m.filter(func(n models.Notification) bool { return n.IsActive }), nil
}

func (m *MemNotifications) filter(keep func(models.Notification) bool) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.list {
		if keep(n) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *MemNotifications) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID == id {
			m.list[i].IsActive = active
			return nil
		}
	}
	return store.ErrNotFound
}

// MemLogs is an in-memory audit log. It satisfies auditlog.Appender.
type MemLogs struct {
	mu      sync.Mutex
	entries []models.LogEntry
}

func NewMemLogs() *MemLogs { return &MemLogs{} }

func (m *MemLogs) Append(_ context.Context, e models.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	m.entries = append(m.entries, e)
	return nil
}

// Recent returns the newest entries first, optionally for one action.
func (m *MemLogs) Recent(_ context.Context, action string, limit int64) ([]models.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LogEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if action != "" && e.Action != action {
			continue
		}
		out = append(out, e)
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

// Actions lists the recorded actions in write order.
func (m *MemLogs) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

// Find returns the first entry with action.
func (m *MemLogs) Find(action string) (models.LogEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Action == action {
			return e, true
		}
	}
	return models.LogEntry{}, false
}
