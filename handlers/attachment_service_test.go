package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"p9e.in/sweep/store"
)

func TestAttachmentAddAssignsIdentity(t *testing.T) {
	env := newTestEnv()
	reportID := uuid.New()
	userID := uuid.New()

	wireID := uuid.New()
	payload := attachmentPayload("a.jpg", 17.38, 78.48)
	payload.ID = &wireID // wire ids must never survive into new rows

	att, err := env.attSvc.Add(context.Background(), nil, reportID, payload, userID)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if att.ID == uuid.Nil || att.ID == wireID {
		t.Errorf("row id = %s, want fresh store-assigned id", att.ID)
	}
	if att.ReportID != reportID {
		t.Errorf("parent = %s, want %s", att.ReportID, reportID)
	}
	if att.CreatedBy != userID || att.LastUpdatedBy != userID {
		t.Error("audit fields not set")
	}
}

func TestAttachmentAddRejectsBadCoordinates(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name     string
		lat, lng float64
	}{
		{"latitude too high", 90.1, 0},
		{"latitude too low", -90.1, 0},
		{"longitude too high", 0, 180.1},
		{"longitude too low", 0, -180.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.attSvc.Add(context.Background(), nil, uuid.New(),
				attachmentPayload("a.jpg", tt.lat, tt.lng), uuid.New())
			if !errors.Is(err, errInvalidPayload) {
				t.Errorf("err = %v, want errInvalidPayload", err)
			}
		})
	}
}

func TestSoftDeleteMarksCancelled(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	att, err := env.attSvc.Add(context.Background(), nil, uuid.New(),
		attachmentPayload("a.jpg", 17.38, 78.48), userID)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	editor := uuid.New()
	if err := env.attSvc.SoftDelete(context.Background(), nil, att.ID, editor); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	row := env.atts.rows[att.ID]
	if !row.Cancelled {
		t.Error("row not cancelled")
	}
	if row.LastUpdatedBy != editor {
		t.Errorf("last updated by = %s, want %s", row.LastUpdatedBy, editor)
	}
	if len(env.images.deleted) != 0 {
		t.Errorf("soft delete touched blobs: %v", env.images.deleted)
	}
}

func TestSoftDeleteUnknownAttachment(t *testing.T) {
	env := newTestEnv()

	err := env.attSvc.SoftDelete(context.Background(), nil, uuid.New(), uuid.New())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want store.ErrNotFound", err)
	}
}

func TestHardDeleteRemovesRowThenBlob(t *testing.T) {
	env := newTestEnv()
	att, err := env.attSvc.Add(context.Background(), nil, uuid.New(),
		attachmentPayload("a.jpg", 17.38, 78.48), uuid.New())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := env.attSvc.HardDelete(context.Background(), att.ID); err != nil {
		t.Fatalf("HardDelete failed: %v", err)
	}
	if _, ok := env.atts.rows[att.ID]; ok {
		t.Error("row still present after hard delete")
	}
	if len(env.images.deleted) != 1 || env.images.deleted[0] != "report/a.jpg" {
		t.Errorf("blob deletes = %v, want [report/a.jpg]", env.images.deleted)
	}

	// A second purge of the same id is a clean not-found, not a crash.
	if err := env.attSvc.HardDelete(context.Background(), att.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second purge: err = %v, want store.ErrNotFound", err)
	}
	if len(env.images.deleted) != 1 {
		t.Errorf("second purge reached the image store: %v", env.images.deleted)
	}
}

func TestHardDeleteSurvivesBlobFailure(t *testing.T) {
	env := newTestEnv()
	env.images.failDelete = fmt.Errorf("bucket unreachable")

	att, err := env.attSvc.Add(context.Background(), nil, uuid.New(),
		attachmentPayload("a.jpg", 17.38, 78.48), uuid.New())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := env.attSvc.HardDelete(context.Background(), att.ID); err != nil {
		t.Fatalf("HardDelete surfaced a blob failure: %v", err)
	}
	if _, ok := env.atts.rows[att.ID]; ok {
		t.Error("row survived; the row purge must not depend on the blob")
	}
}

func TestHardDeleteSkipsBlobWhenNoImage(t *testing.T) {
	env := newTestEnv()
	payload := attachmentPayload("", 17.38, 78.48)
	payload.ImageURL = ""

	att, err := env.attSvc.Add(context.Background(), nil, uuid.New(), payload, uuid.New())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := env.attSvc.HardDelete(context.Background(), att.ID); err != nil {
		t.Fatalf("HardDelete failed: %v", err)
	}
	if len(env.images.deleted) != 0 {
		t.Errorf("image store called for attachment without image: %v", env.images.deleted)
	}
}

func TestGetByReportIDIncludesCancelled(t *testing.T) {
	env := newTestEnv()
	reportID := uuid.New()
	userID := uuid.New()

	live, _ := env.attSvc.Add(context.Background(), nil, reportID,
		attachmentPayload("a.jpg", 17.38, 78.48), userID)
	gone, _ := env.attSvc.Add(context.Background(), nil, reportID,
		attachmentPayload("b.jpg", 17.39, 78.49), userID)
	if err := env.attSvc.SoftDelete(context.Background(), nil, gone.ID, userID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	atts, err := env.attSvc.GetByReportID(context.Background(), reportID)
	if err != nil {
		t.Fatalf("GetByReportID failed: %v", err)
	}
	if len(atts) != 2 {
		t.Fatalf("got %d rows, want 2 (cancelled included)", len(atts))
	}
	seen := map[uuid.UUID]bool{}
	for _, a := range atts {
		seen[a.ID] = a.Cancelled
	}
	if seen[live.ID] {
		t.Error("live attachment reported as cancelled")
	}
	if !seen[gone.ID] {
		t.Error("cancelled attachment missing or not flagged")
	}
}
