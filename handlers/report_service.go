package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"p9e.in/sweep/config"
	"p9e.in/sweep/models"
	"p9e.in/sweep/store"
	"p9e.in/sweep/utils"
)

// errInvalidPayload marks client-side payload problems (bad coordinates,
// missing ids) so the HTTP layer can answer 400 instead of 500.
var errInvalidPayload = errors.New("invalid payload")

// ReportService is the sole write entry point for the report aggregate. Every
// multi-row mutation runs inside one transaction scope; attachments are
// driven through AttachmentService, which composes into that scope.
type ReportService struct {
	tx          store.TxManager
	reports     store.ReportStore
	attachments *AttachmentService
}

// NewReportService creates a ReportService over the shared DB.
func NewReportService() *ReportService {
	return &ReportService{
		tx:          store.NewGormTxManager(config.DB),
		reports:     store.NewReportStore(config.DB),
		attachments: NewAttachmentService(),
	}
}

// Add creates the report together with its initial attachments, atomically:
// either the root and every submitted attachment are durable, or none are.
func (s *ReportService) Add(ctx context.Context, p models.ReportPayload, actingUserID uuid.UUID) (*models.Report, error) {
	report := models.ReportFromPayload(p)
	report.ID = uuid.Nil
	report.Version = 0
	report.OwnerID = actingUserID
	report.CreatedBy = actingUserID
	report.LastUpdatedBy = actingUserID

	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.reports.Add(ctx, tx, report); err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		for _, ap := range p.Attachments {
			att, err := s.attachments.Add(ctx, tx, report.ID, ap, actingUserID)
			if err != nil {
				return err
			}
			report.Attachments = append(report.Attachments, *att)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// reconcilePlan is the explicit diff between the persisted attachment set and
// a submitted snapshot: rows to purge, payloads to create, ids left alone.
type reconcilePlan struct {
	remove []models.ReportAttachment
	add    []models.AttachmentPayload
	keep   map[uuid.UUID]struct{}
}

// buildReconcilePlan treats the submitted snapshot as the source of truth:
// persisted rows absent from it are purged, entries with a nil id are
// created, matched ids are left untouched (no in-place attachment edits).
func buildReconcilePlan(persisted []models.ReportAttachment, submitted []models.AttachmentPayload) reconcilePlan {
	plan := reconcilePlan{keep: make(map[uuid.UUID]struct{})}
	for _, ap := range submitted {
		if ap.ID == nil {
			plan.add = append(plan.add, ap)
			continue
		}
		plan.keep[*ap.ID] = struct{}{}
	}
	for _, att := range persisted {
		if _, ok := plan.keep[att.ID]; !ok {
			plan.remove = append(plan.remove, att)
		}
	}
	return plan
}

// Update applies root field changes and reconciles the attachment set against
// the submitted snapshot, all inside one transaction scope. The submitted
// version must match the persisted one or the whole call is rejected with
// store.ErrVersionConflict. Blob deletes for purged rows run after commit;
// a rolled-back reconciliation therefore deletes no blobs.
func (s *ReportService) Update(ctx context.Context, p models.ReportPayload, actingUserID uuid.UUID) (*models.Report, error) {
	if p.ID == nil {
		return nil, fmt.Errorf("%w: report id is required", errInvalidPayload)
	}

	// Existence probe outside any scope: a not-found no-op is cheaper than a
	// failed transaction.
	existing, err := s.reports.GetByIDDetached(ctx, nil, *p.ID)
	if err != nil {
		return nil, err
	}

	var removed []models.ReportAttachment
	err = s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		removed = removed[:0]

		fields := map[string]interface{}{
			"title":           p.Title,
			"description":     p.Description,
			"tags":            pq.StringArray(p.Tags),
			"last_updated_by": actingUserID,
			"updated_at":      time.Now(),
			"version":         p.Version + 1,
		}
		if p.Status != "" {
			fields["status"] = p.Status
		}
		if err := s.reports.UpdateFields(ctx, tx, existing.ID, p.Version, fields); err != nil {
			return err
		}

		persisted, err := s.attachments.findByReportID(ctx, tx, existing.ID)
		if err != nil {
			return err
		}
		plan := buildReconcilePlan(persisted, p.Attachments)

		for _, att := range plan.remove {
			if err := s.attachments.hardDeleteRow(ctx, tx, att.ID); err != nil {
				return err
			}
			removed = append(removed, att)
		}
		for _, ap := range plan.add {
			if _, err := s.attachments.Add(ctx, tx, existing.ID, ap, actingUserID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Row purges are committed; blobs go now, best-effort.
	for i := range removed {
		s.attachments.deleteImage(ctx, &removed[i])
	}

	return s.reports.GetByID(ctx, nil, existing.ID)
}

// Delete is the cascading soft delete: the report goes to Cancelled and every
// live attachment is cancelled with it, in one scope. Rows and blobs stay in
// place, so the operation is reversible by data correction.
func (s *ReportService) Delete(ctx context.Context, id, actingUserID uuid.UUID) error {
	return s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		report, err := s.reports.GetByIDDetached(ctx, tx, id)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{
			"status":          models.ReportStatusCancelled,
			"last_updated_by": actingUserID,
			"updated_at":      time.Now(),
			"version":         report.Version + 1,
		}
		if err := s.reports.UpdateFields(ctx, tx, id, report.Version, fields); err != nil {
			return err
		}

		atts, err := s.attachments.findByReportID(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, att := range atts {
			if att.Cancelled {
				continue
			}
			if err := s.attachments.SoftDelete(ctx, tx, att.ID, actingUserID); err != nil &&
				!errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		return nil
	})
}

// Get returns the report with its live attachments and owner included.
func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return s.reports.GetByID(ctx, nil, id)
}

func (s *ReportService) GetAll(ctx context.Context) ([]models.Report, error) {
	return s.reports.FindAll(ctx, nil)
}

func (s *ReportService) GetNew(ctx context.Context) ([]models.Report, error) {
	return s.reports.FindByStatus(ctx, nil, models.ReportStatusNew)
}

func (s *ReportService) GetCleaned(ctx context.Context) ([]models.Report, error) {
	return s.reports.FindByStatus(ctx, nil, models.ReportStatusCleaned)
}

func (s *ReportService) GetCancelled(ctx context.Context) ([]models.Report, error) {
	return s.reports.FindByStatus(ctx, nil, models.ReportStatusCancelled)
}

func (s *ReportService) GetNotCancelled(ctx context.Context) ([]models.Report, error) {
	return s.reports.FindNotCancelled(ctx, nil)
}

func (s *ReportService) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Report, error) {
	return s.reports.FindByOwner(ctx, nil, ownerID)
}

// GetNearby returns non-cancelled reports with at least one live attachment
// photographed within radiusM metres of the given point.
func (s *ReportService) GetNearby(ctx context.Context, lat, lng, radiusM float64) ([]models.Report, error) {
	if err := utils.ValidateCoordinate(lat, lng); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	if radiusM <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", errInvalidPayload)
	}

	reports, err := s.reports.FindNotCancelled(ctx, nil)
	if err != nil {
		return nil, err
	}

	nearby := make([]models.Report, 0)
	for _, r := range reports {
		for _, att := range r.Attachments {
			if utils.WithinRadius(lat, lng, att.Latitude, att.Longitude, radiusM) {
				nearby = append(nearby, r)
				break
			}
		}
	}
	return nearby, nil
}
