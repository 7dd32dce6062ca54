package services

import (
	"testing"

	"msp-bknd/internal/geo"
	"msp-bknd/internal/models"
	"msp-bknd/internal/report"
	"msp-bknd/internal/session"

	"go.uber.org/zap"
)

func newTestWorkspaceService(historyLimit int) *WorkspaceService {
	logr := zap.NewNop()
	return NewWorkspaceService(historyLimit, report.NewBuilder(logr), logr)
}

func triangle() models.Shape {
	return models.Shape{
		Kind: models.KindPolygon,
		Points: []geo.Point{
			{Lat: 7.0, Lng: 80.0},
			{Lat: 7.1, Lng: 80.0},
			{Lat: 7.1, Lng: 80.1},
		},
	}
}

func TestOpenAssignsDefaultsAndDropsInvalidShapes(t *testing.T) {
	svc := newTestWorkspaceService(0)

	project := svc.Open(&models.Project{
		Name: "Trincomalee Survey",
		Shapes: []models.Shape{
			triangle(),
			{Kind: models.KindCircle, RadiusM: -5}, // invalid: no center, bad radius
		},
	})

	if project.ID == "" {
		t.Fatal("expected an id to be assigned on open")
	}
	if project.Status != models.StatusDraft {
		t.Fatalf("status = %q, want %q", project.Status, models.StatusDraft)
	}

	snap, err := svc.Snapshot(project.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Shapes) != 1 {
		t.Fatalf("got %d shapes after open, want 1 (invalid dropped)", len(snap.Shapes))
	}
	if snap.Shapes[0].ID == "" || snap.Shapes[0].Label == "" {
		t.Fatalf("expected validation defaults on kept shape, got %+v", snap.Shapes[0])
	}
}

func TestUnknownWorkspaceErrors(t *testing.T) {
	svc := newTestWorkspaceService(0)
	if _, err := svc.Snapshot("nope"); err == nil {
		t.Fatal("expected error for unknown project id")
	}
	if _, err := svc.AddShape("nope", triangle()); err == nil {
		t.Fatal("expected error for unknown project id")
	}
}

func TestAddUndoRedo(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Undo"})

	if _, err := svc.AddShape(p.ID, triangle()); err != nil {
		t.Fatalf("add 1: %v", err)
	}
	if _, err := svc.AddShape(p.ID, triangle()); err != nil {
		t.Fatalf("add 2: %v", err)
	}

	applied, err := svc.Undo(p.ID)
	if err != nil || !applied {
		t.Fatalf("undo: applied=%v err=%v", applied, err)
	}
	snap, _ := svc.Snapshot(p.ID)
	if len(snap.Shapes) != 1 {
		t.Fatalf("after undo got %d shapes, want 1", len(snap.Shapes))
	}

	applied, err = svc.Redo(p.ID)
	if err != nil || !applied {
		t.Fatalf("redo: applied=%v err=%v", applied, err)
	}
	snap, _ = svc.Snapshot(p.ID)
	if len(snap.Shapes) != 2 {
		t.Fatalf("after redo got %d shapes, want 2", len(snap.Shapes))
	}

	undo, redo, err := svc.HistoryDepths(p.ID)
	if err != nil {
		t.Fatalf("depths: %v", err)
	}
	if undo != 2 || redo != 0 {
		t.Fatalf("depths = (%d, %d), want (2, 0)", undo, redo)
	}
}

func TestNewMutationClearsRedo(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Redo clear"})

	if _, err := svc.AddShape(p.ID, triangle()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Undo(p.ID); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, err := svc.AddShape(p.ID, triangle()); err != nil {
		t.Fatalf("add after undo: %v", err)
	}

	_, redo, _ := svc.HistoryDepths(p.ID)
	if redo != 0 {
		t.Fatalf("redo depth = %d after new mutation, want 0", redo)
	}
}

func TestUpdateShapeIsUndoable(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Edit"})

	added, err := svc.AddShape(p.ID, triangle())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	label := "Spawning Ground"
	zoneType := "protected"
	updated, err := svc.UpdateShape(p.ID, added.ID, &label, &zoneType, map[string]any{"depthM": 42.0})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Label != label || updated.ZoneType != zoneType {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Data["depthM"] != 42.0 {
		t.Fatalf("data not merged: %v", updated.Data)
	}

	if _, err := svc.Undo(p.ID); err != nil {
		t.Fatalf("undo: %v", err)
	}
	snap, _ := svc.Snapshot(p.ID)
	if snap.Shapes[0].Label == label {
		t.Fatal("undo did not restore the pre-edit label")
	}
}

func TestRemoveAndClearShapes(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Remove"})

	added, _ := svc.AddShape(p.ID, triangle())
	if err := svc.RemoveShape(p.ID, added.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveShape(p.ID, added.ID); err == nil {
		t.Fatal("expected error removing an absent shape")
	}

	svc.AddShape(p.ID, triangle())
	svc.AddShape(p.ID, triangle())
	if err := svc.ClearShapes(p.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	snap, _ := svc.Snapshot(p.ID)
	if len(snap.Shapes) != 0 {
		t.Fatalf("got %d shapes after clear, want 0", len(snap.Shapes))
	}

	// Clear is one undoable step.
	if _, err := svc.Undo(p.ID); err != nil {
		t.Fatalf("undo clear: %v", err)
	}
	snap, _ = svc.Snapshot(p.ID)
	if len(snap.Shapes) != 2 {
		t.Fatalf("undo of clear restored %d shapes, want 2", len(snap.Shapes))
	}
}

func TestImportShapesIsOneUndoStep(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Import"})

	added, err := svc.ImportShapes(p.ID, []models.Shape{triangle(), triangle(), triangle()})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if added != 3 {
		t.Fatalf("imported %d shapes, want 3", added)
	}

	if _, err := svc.Undo(p.ID); err != nil {
		t.Fatalf("undo: %v", err)
	}
	snap, _ := svc.Snapshot(p.ID)
	if len(snap.Shapes) != 0 {
		t.Fatalf("one undo should drop the whole import, got %d shapes", len(snap.Shapes))
	}
}

func TestClickDrawsCircleWithTemplate(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Circle"})

	if err := svc.SetMode(p.ID, session.DrawCircle, "Monitoring Station"); err != nil {
		t.Fatalf("set mode: %v", err)
	}

	shape, err := svc.Click(p.ID, geo.Point{Lat: 6.9, Lng: 79.8})
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	if shape == nil {
		t.Fatal("circle should complete on the first click")
	}
	if shape.Kind != models.KindCircle || shape.RadiusM != 500 {
		t.Fatalf("got kind=%s radius=%v, want circle with template radius 500", shape.Kind, shape.RadiusM)
	}

	mode, _, _, err := svc.SessionState(p.ID)
	if err != nil {
		t.Fatalf("session state: %v", err)
	}
	if mode != session.Idle {
		t.Fatalf("mode after completion = %s, want idle", mode)
	}
}

func TestSetModeRejectsUnknownTemplate(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Template"})

	if err := svc.SetMode(p.ID, session.DrawCircle, "No Such Preset"); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestPolygonFinishAndShortFinishNoOp(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Polygon"})

	if err := svc.SetMode(p.ID, session.DrawPolygon, ""); err != nil {
		t.Fatalf("set mode: %v", err)
	}

	svc.Click(p.ID, geo.Point{Lat: 7.0, Lng: 80.0})
	svc.Click(p.ID, geo.Point{Lat: 7.1, Lng: 80.0})

	// Two points is not a polygon yet.
	shape, err := svc.Finish(p.ID)
	if err != nil {
		t.Fatalf("short finish: %v", err)
	}
	if shape != nil {
		t.Fatal("finish with two points should be a no-op")
	}

	svc.Click(p.ID, geo.Point{Lat: 7.1, Lng: 80.1})
	shape, err = svc.Finish(p.ID)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if shape == nil || shape.Kind != models.KindPolygon {
		t.Fatalf("finish should emit a polygon, got %+v", shape)
	}

	snap, _ := svc.Snapshot(p.ID)
	if len(snap.Shapes) != 1 {
		t.Fatalf("collection has %d shapes, want 1", len(snap.Shapes))
	}
}

func TestCancelModeLeavesCollectionAlone(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Cancel"})

	svc.AddShape(p.ID, triangle())
	svc.SetMode(p.ID, session.DrawPolygon, "")
	svc.Click(p.ID, geo.Point{Lat: 7.0, Lng: 80.0})

	if err := svc.CancelMode(p.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	mode, pending, _, _ := svc.SessionState(p.ID)
	if mode != session.Idle || len(pending) != 0 {
		t.Fatalf("cancel left mode=%s pending=%d", mode, len(pending))
	}
	snap, _ := svc.Snapshot(p.ID)
	if len(snap.Shapes) != 1 {
		t.Fatalf("cancel touched the collection: %d shapes", len(snap.Shapes))
	}
}

func TestGenerateReport(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Reef Survey", Date: "2026-03-01"})
	svc.AddShape(p.ID, triangle())

	rpt, filename, err := svc.GenerateReport(p.ID, "map-1.png")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if rpt.ID != p.ID {
		t.Fatalf("report id = %q, want project id %q", rpt.ID, p.ID)
	}
	if filename == "" {
		t.Fatal("expected a suggested filename")
	}

	if _, _, err := svc.GenerateReport("nope", ""); err == nil {
		t.Fatal("expected error for unknown project")
	}
}

func TestCloseForgetsWorkspace(t *testing.T) {
	svc := newTestWorkspaceService(0)
	p := svc.Open(&models.Project{Name: "Close"})

	svc.Close(p.ID)
	if _, err := svc.Snapshot(p.ID); err == nil {
		t.Fatal("expected error after close")
	}
}
