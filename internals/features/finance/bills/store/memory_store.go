package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	classModel "sekolahku_backend/internals/features/school/classes/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"

	"sekolahku_backend/internals/features/finance/bills/model"
	"sekolahku_backend/internals/helpers/dbtime"
)

// MemoryStore: Store di memori (map + mutex), dipakai test service & controller.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	bills        map[uuid.UUID]model.BillModel
	students     map[uuid.UUID]studentModel.StudentModel
	classes      map[uuid.UUID]classModel.ClassModel
	studentBills map[uuid.UUID]model.StudentBillModel
	activeYear   *ActiveYear

	// hook kegagalan untuk test; batch dihitung mulai 1
	InsertErr      func(batch int) error
	UpdateMonthErr func(dueDate time.Time) error

	// ukuran tiap batch InsertStudentBills yang diterima
	InsertBatches []int
	insertCalls   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bills:        map[uuid.UUID]model.BillModel{},
		students:     map[uuid.UUID]studentModel.StudentModel{},
		classes:      map[uuid.UUID]classModel.ClassModel{},
		studentBills: map[uuid.UUID]model.StudentBillModel{},
	}
}

/* ---------- seed helpers ---------- */

func (s *MemoryStore) PutBill(b model.BillModel) model.BillModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.BillID == uuid.Nil {
		b.BillID = uuid.New()
	}
	b.Normalize()
	s.bills[b.BillID] = b
	return b
}

func (s *MemoryStore) PutClass(c classModel.ClassModel) classModel.ClassModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ClassID == uuid.Nil {
		c.ClassID = uuid.New()
	}
	s.classes[c.ClassID] = c
	return c
}

func (s *MemoryStore) PutStudent(st studentModel.StudentModel) studentModel.StudentModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.StudentID == uuid.Nil {
		st.StudentID = uuid.New()
	}
	if st.StudentStatus == "" {
		st.StudentStatus = studentModel.StudentStatusActive
	}
	s.students[st.StudentID] = st
	return st
}

func (s *MemoryStore) PutStudentBill(sb model.StudentBillModel) model.StudentBillModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sb.StudentBillID == uuid.Nil {
		sb.StudentBillID = uuid.New()
	}
	if sb.StudentBillStatus == "" {
		sb.StudentBillStatus = model.StudentBillPending
	}
	s.studentBills[sb.StudentBillID] = sb
	return sb
}

func (s *MemoryStore) SetActiveYear(y *ActiveYear) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeYear = y
}

// StudentBills: snapshot semua baris, urut (due_date, student_id).
func (s *MemoryStore) StudentBills() []model.StudentBillModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StudentBillModel, 0, len(s.studentBills))
	for _, sb := range s.studentBills {
		out = append(out, sb)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StudentBillDueDate.Equal(out[j].StudentBillDueDate) {
			return out[i].StudentBillDueDate.Before(out[j].StudentBillDueDate)
		}
		return out[i].StudentBillStudentID.String() < out[j].StudentBillStudentID.String()
	})
	return out
}

func (s *MemoryStore) StudentBill(id uuid.UUID) (model.StudentBillModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sb, ok := s.studentBills[id]
	return sb, ok
}

/* ---------- Store ---------- */

func (s *MemoryStore) GetBill(_ context.Context, id uuid.UUID) (*model.BillModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bills[id]
	if !ok {
		return nil, ErrBillNotFound
	}
	return &b, nil
}

func (s *MemoryStore) matchStudent(st studentModel.StudentModel, f StudentFilter) bool {
	if f.ActiveOnly && st.StudentStatus != studentModel.StudentStatusActive {
		return false
	}
	if f.ClassID != nil && (st.StudentClassID == nil || *st.StudentClassID != *f.ClassID) {
		return false
	}
	if f.Level != nil {
		if st.StudentClassID == nil {
			return false
		}
		c, ok := s.classes[*st.StudentClassID]
		if !ok || c.ClassLevel != *f.Level {
			return false
		}
	}
	return true
}

func (s *MemoryStore) ListStudentIDs(_ context.Context, f StudentFilter) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []uuid.UUID
	for id, st := range s.students {
		if s.matchStudent(st, f) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (s *MemoryStore) ListStudentBills(_ context.Context, q StudentBillQuery) ([]model.StudentBillModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var allow map[uuid.UUID]struct{}
	if q.StudentIDs != nil {
		allow = make(map[uuid.UUID]struct{}, len(q.StudentIDs))
		for _, id := range q.StudentIDs {
			allow[id] = struct{}{}
		}
	}
	var out []model.StudentBillModel
	for _, sb := range s.studentBills {
		if sb.StudentBillBillID != q.BillID {
			continue
		}
		if sb.StudentBillDueDate.Before(q.From) || sb.StudentBillDueDate.After(q.To) {
			continue
		}
		if allow != nil {
			if _, ok := allow[sb.StudentBillStudentID]; !ok {
				continue
			}
		}
		out = append(out, sb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentBillDueDate.Before(out[j].StudentBillDueDate) })
	return out, nil
}

func (s *MemoryStore) ListBillMonths(_ context.Context, billID uuid.UUID) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[time.Time]struct{}{}
	var out []time.Time
	for _, sb := range s.studentBills {
		if sb.StudentBillBillID != billID {
			continue
		}
		d := sb.StudentBillDueDate
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (s *MemoryStore) ActiveAcademicYear(context.Context) (*ActiveYear, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeYear == nil {
		return nil, nil
	}
	y := *s.activeYear
	return &y, nil
}

func uniqueKey(studentID, billID uuid.UUID, due time.Time) string {
	return studentID.String() + "|" + billID.String() + "|" + due.Format(dbtime.DateLayout)
}

func (s *MemoryStore) InsertStudentBills(_ context.Context, rows []model.StudentBillModel) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertCalls++
	s.InsertBatches = append(s.InsertBatches, len(rows))
	if s.InsertErr != nil {
		if err := s.InsertErr(s.insertCalls); err != nil {
			return 0, err
		}
	}

	taken := make(map[string]struct{}, len(s.studentBills))
	for _, sb := range s.studentBills {
		taken[uniqueKey(sb.StudentBillStudentID, sb.StudentBillBillID, sb.StudentBillDueDate)] = struct{}{}
	}
	n := 0
	for _, r := range rows {
		k := uniqueKey(r.StudentBillStudentID, r.StudentBillBillID, r.StudentBillDueDate)
		if _, dup := taken[k]; dup {
			continue
		}
		taken[k] = struct{}{}
		if r.StudentBillID == uuid.Nil {
			r.StudentBillID = uuid.New()
		}
		now := time.Now()
		r.StudentBillCreatedAt, r.StudentBillUpdatedAt = now, now
		s.studentBills[r.StudentBillID] = r
		n++
	}
	return n, nil
}

func (s *MemoryStore) UpdateStudentBill(_ context.Context, id uuid.UUID, amount decimal.Decimal, dueDate time.Time, status model.StudentBillStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sb, ok := s.studentBills[id]
	if !ok {
		return ErrStudentBillNotFound
	}
	sb.StudentBillAmount = amount
	sb.StudentBillDueDate = dueDate
	sb.StudentBillStatus = status
	sb.StudentBillUpdatedAt = time.Now()
	s.studentBills[id] = sb
	return nil
}

func (s *MemoryStore) UpdateMonthAmount(_ context.Context, billID uuid.UUID, month time.Time, amount decimal.Decimal, f StudentFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateMonthErr != nil {
		if err := s.UpdateMonthErr(month); err != nil {
			return 0, err
		}
	}
	key := dbtime.MonthKey(month)
	var n int64
	for id, sb := range s.studentBills {
		if sb.StudentBillBillID != billID || dbtime.MonthKey(sb.StudentBillDueDate) != key {
			continue
		}
		if !sb.StudentBillStatus.Payable() {
			continue
		}
		if !f.IsZero() {
			st, ok := s.students[sb.StudentBillStudentID]
			if !ok || !s.matchStudent(st, f) {
				continue
			}
		}
		sb.StudentBillAmount = amount
		sb.StudentBillUpdatedAt = time.Now()
		s.studentBills[id] = sb
		n++
	}
	return n, nil
}

func (s *MemoryStore) MarkOverdue(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sb := range s.studentBills {
		if sb.StudentBillStatus == model.StudentBillPending && sb.StudentBillDueDate.Before(before) {
			sb.StudentBillStatus = model.StudentBillOverdue
			s.studentBills[id] = sb
			n++
		}
	}
	return n, nil
}

// WithinTx: snapshot student_bills, dipulihkan kalau fn gagal.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := make(map[uuid.UUID]model.StudentBillModel, len(s.studentBills))
	for k, v := range s.studentBills {
		snapshot[k] = v
	}
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.studentBills = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
