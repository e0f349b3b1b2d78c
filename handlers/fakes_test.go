package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"p9e.in/sweep/models"
	"p9e.in/sweep/store"
)

// In-memory stand-ins for the gorm stores and the image store, so the
// services can be exercised without a database. The fake tx manager
// snapshots both stores and restores them when fn fails, mirroring a
// rollback.

type fakeAttachmentStore struct {
	rows map[uuid.UUID]models.ReportAttachment

	addCalls    int
	failAddAt   int // fail the n-th Add (1-based); 0 disables
	failAddWith error
}

func newFakeAttachmentStore() *fakeAttachmentStore {
	return &fakeAttachmentStore{rows: make(map[uuid.UUID]models.ReportAttachment)}
}

func (f *fakeAttachmentStore) snapshot() map[uuid.UUID]models.ReportAttachment {
	snap := make(map[uuid.UUID]models.ReportAttachment, len(f.rows))
	for k, v := range f.rows {
		snap[k] = v
	}
	return snap
}

func (f *fakeAttachmentStore) restore(snap map[uuid.UUID]models.ReportAttachment) {
	f.rows = snap
}

func (f *fakeAttachmentStore) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.ReportAttachment, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &row, nil
}

func (f *fakeAttachmentStore) FindByReportID(ctx context.Context, tx *gorm.DB, reportID uuid.UUID) ([]models.ReportAttachment, error) {
	var out []models.ReportAttachment
	for _, row := range f.rows {
		if row.ReportID == reportID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (f *fakeAttachmentStore) Add(ctx context.Context, tx *gorm.DB, att *models.ReportAttachment) error {
	f.addCalls++
	if f.failAddAt > 0 && f.addCalls == f.failAddAt {
		if f.failAddWith != nil {
			return f.failAddWith
		}
		return fmt.Errorf("injected attachment insert failure")
	}
	if att.ID == uuid.Nil {
		att.ID = uuid.New()
	}
	if att.ImageKind == "" {
		att.ImageKind = models.ImageKindReport
	}
	att.CreatedAt = time.Now()
	att.UpdatedAt = att.CreatedAt
	f.rows[att.ID] = *att
	return nil
}

func (f *fakeAttachmentStore) Update(ctx context.Context, tx *gorm.DB, att *models.ReportAttachment) error {
	if _, ok := f.rows[att.ID]; !ok {
		return store.ErrNotFound
	}
	att.UpdatedAt = time.Now()
	f.rows[att.ID] = *att
	return nil
}

func (f *fakeAttachmentStore) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

type fakeReportStore struct {
	rows map[uuid.UUID]models.Report
	atts *fakeAttachmentStore
}

func newFakeReportStore(atts *fakeAttachmentStore) *fakeReportStore {
	return &fakeReportStore{rows: make(map[uuid.UUID]models.Report), atts: atts}
}

func (f *fakeReportStore) snapshot() map[uuid.UUID]models.Report {
	snap := make(map[uuid.UUID]models.Report, len(f.rows))
	for k, v := range f.rows {
		snap[k] = v
	}
	return snap
}

func (f *fakeReportStore) restore(snap map[uuid.UUID]models.Report) {
	f.rows = snap
}

// withLiveAttachments mirrors the store's eager include of non-cancelled rows.
func (f *fakeReportStore) withLiveAttachments(r models.Report) models.Report {
	all, _ := f.atts.FindByReportID(context.Background(), nil, r.ID)
	r.Attachments = nil
	for _, a := range all {
		if !a.Cancelled {
			r.Attachments = append(r.Attachments, a)
		}
	}
	return r
}

func (f *fakeReportStore) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Report, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	row = f.withLiveAttachments(row)
	return &row, nil
}

func (f *fakeReportStore) GetByIDDetached(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Report, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	row.Attachments = nil
	return &row, nil
}

func (f *fakeReportStore) findWhere(match func(models.Report) bool) []models.Report {
	var out []models.Report
	for _, row := range f.rows {
		if match(row) {
			out = append(out, f.withLiveAttachments(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

func (f *fakeReportStore) FindAll(ctx context.Context, tx *gorm.DB) ([]models.Report, error) {
	return f.findWhere(func(models.Report) bool { return true }), nil
}

func (f *fakeReportStore) FindByStatus(ctx context.Context, tx *gorm.DB, status models.ReportStatus) ([]models.Report, error) {
	return f.findWhere(func(r models.Report) bool { return r.Status == status }), nil
}

func (f *fakeReportStore) FindNotCancelled(ctx context.Context, tx *gorm.DB) ([]models.Report, error) {
	return f.findWhere(func(r models.Report) bool { return r.Status != models.ReportStatusCancelled }), nil
}

func (f *fakeReportStore) FindByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]models.Report, error) {
	return f.findWhere(func(r models.Report) bool { return r.OwnerID == ownerID }), nil
}

func (f *fakeReportStore) Add(ctx context.Context, tx *gorm.DB, r *models.Report) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = models.ReportStatusNew
	}
	if r.Version == 0 {
		r.Version = 1
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.rows[r.ID] = *r
	return nil
}

func (f *fakeReportStore) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, expectedVersion int64, fields map[string]interface{}) error {
	row, ok := f.rows[id]
	if !ok || row.Version != expectedVersion {
		return store.ErrVersionConflict
	}
	for key, value := range fields {
		switch key {
		case "title":
			row.Title = value.(string)
		case "description":
			row.Description = value.(string)
		case "status":
			row.Status = value.(models.ReportStatus)
		case "tags":
			row.Tags = value.(pq.StringArray)
		case "version":
			row.Version = value.(int64)
		case "last_updated_by":
			row.LastUpdatedBy = value.(uuid.UUID)
		case "updated_at":
			row.UpdatedAt = value.(time.Time)
		}
	}
	f.rows[id] = row
	return nil
}

type fakeTxManager struct {
	reports *fakeReportStore
	atts    *fakeAttachmentStore

	began int
}

func (m *fakeTxManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	m.began++
	if err := ctx.Err(); err != nil {
		return err
	}
	reportSnap := m.reports.snapshot()
	attSnap := m.atts.snapshot()
	if err := fn(nil); err != nil {
		m.reports.restore(reportSnap)
		m.atts.restore(attSnap)
		return err
	}
	return nil
}

type fakeImageStore struct {
	deleted    []string // "kind/name" per delete call
	failDelete error
}

func (f *fakeImageStore) Save(ctx context.Context, kind, name string, r io.Reader, contentType string) (string, error) {
	return "/uploads/" + kind + "/" + name, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, kind, name string) error {
	f.deleted = append(f.deleted, kind+"/"+name)
	return f.failDelete
}

type testEnv struct {
	svc     *ReportService
	attSvc  *AttachmentService
	reports *fakeReportStore
	atts    *fakeAttachmentStore
	images  *fakeImageStore
	tx      *fakeTxManager
}

func newTestEnv() *testEnv {
	atts := newFakeAttachmentStore()
	reports := newFakeReportStore(atts)
	images := &fakeImageStore{}
	tx := &fakeTxManager{reports: reports, atts: atts}
	attSvc := &AttachmentService{attachments: atts, images: images}
	return &testEnv{
		svc:     &ReportService{tx: tx, reports: reports, attachments: attSvc},
		attSvc:  attSvc,
		reports: reports,
		atts:    atts,
		images:  images,
		tx:      tx,
	}
}
