package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tukang/tukang-api/internal/models"
	"github.com/tukang/tukang-api/internal/repository"
)

type fakeOTPStore struct {
	mu       sync.Mutex
	records  []*models.OTP
	seq      int
	issueErr error
}

func (f *fakeOTPStore) Issue(_ context.Context, otp *models.OTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.issueErr != nil {
		return f.issueErr
	}
	for _, r := range f.records {
		if r.Email == otp.Email {
			r.Used = true
		}
	}
	f.seq++
	otp.ID = fmt.Sprintf("otp-%d", f.seq)
	otp.CreatedAt = time.Unix(int64(f.seq), 0)
	stored := *otp
	f.records = append(f.records, &stored)
	return nil
}

func (f *fakeOTPStore) FindValid(_ context.Context, email, code string, now time.Time) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := make([]*models.OTP, 0)
	for _, r := range f.records {
		if r.Email == email && r.Code == code && r.Valid(now) {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	found := *matches[0]
	return &found, nil
}

func (f *fakeOTPStore) MarkUsed(_ context.Context, otp *models.OTP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == otp.ID && !r.Used {
			r.Used = true
			otp.Used = true
			return nil
		}
	}
	return repository.ErrNotFound
}

type sentMail struct {
	to       string
	code     string
	validFor time.Duration
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendOTP(_ context.Context, to, code string, validFor time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, code: code, validFor: validFor})
	return nil
}

func (m *fakeMailer) last() sentMail {
	return m.sent[len(m.sent)-1]
}

type fakeUserStore struct {
	users map[string]*models.User
	seq   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) clash(id, email, phone string) bool {
	for _, u := range f.users {
		if u.ID != id && (u.Email == email || u.PhoneNumber == phone) {
			return true
		}
	}
	return false
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	if f.clash("", u.Email, u.PhoneNumber) {
		return repository.ErrDuplicate
	}
	f.seq++
	u.ID = fmt.Sprintf("user-%d", f.seq)
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetVerifiedByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	for _, u := range f.users {
		if u.IsVerified && (u.Email == identifier || u.PhoneNumber == identifier) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.PhoneNumber != nil && f.clash(id, "", *upd.PhoneNumber) {
		return nil, repository.ErrDuplicate
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.PhoneNumber != nil {
		u.PhoneNumber = *upd.PhoneNumber
	}
	if upd.DailyRate != nil {
		rate := *upd.DailyRate
		u.DailyRate = &rate
	}
	return f.GetByID(ctx, id)
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserStore) UpdateLocation(_ context.Context, id string, latitude, longitude float64, isWorking *bool) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Latitude = &latitude
	u.Longitude = &longitude
	if isWorking != nil {
		u.IsWorking = *isWorking
	}
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeWorkerStore struct {
	users  map[string]bool
	infos  map[string]*models.WorkerInfo
	skills map[string]*models.WorkerSkill
	seq    int
	err    error
}

func newFakeWorkerStore(userIDs ...string) *fakeWorkerStore {
	f := &fakeWorkerStore{
		users:  make(map[string]bool),
		infos:  make(map[string]*models.WorkerInfo),
		skills: make(map[string]*models.WorkerSkill),
	}
	for _, id := range userIDs {
		f.users[id] = true
	}
	return f
}

func (f *fakeWorkerStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeWorkerStore) insertSkill(skill *models.WorkerSkill) {
	skill.ID = f.nextID("skill")
	stored := *skill
	f.skills[skill.ID] = &stored
}

func (f *fakeWorkerStore) AddSkill(_ context.Context, userID string, skill *models.WorkerSkill) error {
	if f.err != nil {
		return f.err
	}
	if !f.users[userID] {
		return repository.ErrNotFound
	}
	info, ok := f.infos[userID]
	if !ok {
		info = &models.WorkerInfo{ID: f.nextID("worker"), UserID: userID, AccountStatus: models.AccountStatusNone}
		f.infos[userID] = info
	}
	skill.WorkerID = info.ID
	f.insertSkill(skill)
	return nil
}

func (f *fakeWorkerStore) SubmitInitial(_ context.Context, info *models.WorkerInfo, skill *models.WorkerSkill) error {
	if f.err != nil {
		return f.err
	}
	if !f.users[info.UserID] {
		return repository.ErrNotFound
	}
	if existing, ok := f.infos[info.UserID]; ok {
		info.ID = existing.ID
	} else {
		info.ID = f.nextID("worker")
	}
	stored := *info
	f.infos[info.UserID] = &stored
	skill.WorkerID = info.ID
	f.insertSkill(skill)
	return nil
}

func (f *fakeWorkerStore) UpdateSkillStatus(_ context.Context, skillID string, status models.SkillStatus) error {
	skill, ok := f.skills[skillID]
	if !ok {
		return repository.ErrNotFound
	}
	skill.VerificationStatus = status
	return nil
}

func (f *fakeWorkerStore) SetAccountStatus(_ context.Context, userID string, status models.AccountStatus) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	info, ok := f.infos[userID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	info.AccountStatus = status
	var n int64
	for _, s := range f.skills {
		if s.WorkerID == info.ID && s.VerificationStatus == models.SkillStatusPending {
			s.VerificationStatus = models.SkillStatus(status)
			n++
		}
	}
	return n, nil
}

var errBoom = errors.New("boom")
