package services

import (
	"fmt"
	"sync"

	"msp-bknd/internal/geo"
	"msp-bknd/internal/history"
	"msp-bknd/internal/models"
	"msp-bknd/internal/report"
	"msp-bknd/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// workspace is the in-memory editing state for one open project: the
// shape collection (single source of truth), its undo/redo history, and
// the drawing session. All mutations run under the mutex and record a
// pre-mutation snapshot.
type workspace struct {
	mu      sync.Mutex
	project models.Project
	shapes  []models.Shape
	hist    *history.History
	sess    *session.Session

	// Report generation awaits an external rasterization step; the flag
	// keeps a second concurrent run from racing on shared state.
	reportBusy bool
}

// WorkspaceService manages open workspaces keyed by project id. One
// drawing session is active per workspace by construction.
type WorkspaceService struct {
	mu           sync.Mutex
	open         map[string]*workspace
	historyLimit int
	reports      *report.Builder
	logr         *zap.Logger
}

func NewWorkspaceService(historyLimit int, reports *report.Builder, logr *zap.Logger) *WorkspaceService {
	return &WorkspaceService{
		open:         make(map[string]*workspace),
		historyLimit: historyLimit,
		reports:      reports,
		logr:         logr,
	}
}

// Open replaces whatever is in memory for the project id with the given
// project: the previous collection, history, and session are discarded
// wholesale.
func (s *WorkspaceService) Open(project *models.Project) *models.Project {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.Status == "" {
		project.Status = models.StatusDraft
	}

	valid, skipped := models.ValidateShapes(project.Shapes)
	if len(skipped) > 0 {
		s.logr.Warn("rejected shapes while opening project",
			zap.String("project_id", project.ID),
			zap.Int("rejected", len(skipped)))
	}

	ws := &workspace{
		project: *project,
		shapes:  valid,
		hist:    history.New(s.historyLimit),
		sess:    session.New(),
	}
	ws.project.Shapes = nil

	s.mu.Lock()
	s.open[project.ID] = ws
	s.mu.Unlock()

	s.logr.Info("workspace opened",
		zap.String("project_id", project.ID),
		zap.Int("shapes", len(valid)))

	p := ws.project
	p.Shapes = models.CloneShapes(valid)
	return &p
}

// Close drops the in-memory state for a project.
func (s *WorkspaceService) Close(projectID string) {
	s.mu.Lock()
	delete(s.open, projectID)
	s.mu.Unlock()
}

func (s *WorkspaceService) get(projectID string) (*workspace, error) {
	s.mu.Lock()
	ws, ok := s.open[projectID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no open workspace for project %s", projectID)
	}
	return ws, nil
}

// Snapshot returns the project with a deep copy of its current shapes.
func (s *WorkspaceService) Snapshot(projectID string) (*models.Project, error) {
	ws, err := s.get(projectID)
	if err != nil {
		return nil, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	p := ws.project
	p.Shapes = models.CloneShapes(ws.shapes)
	return &p, nil
}

// AddShape validates and appends one shape, recording history. The
// accepted shape (with defaults filled) is returned.
func (s *WorkspaceService) AddShape(projectID string, shape models.Shape) (*models.Shape, error) {
	ws, err := s.get(projectID)
	if err != nil {
		return nil, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.addLocked(shape)
}

func (ws *workspace) addLocked(shape models.Shape) (*models.Shape, error) {
	if err := models.ValidateShape(&shape, len(ws.shapes)+1); err != nil {
		return nil, err
	}
	ws.hist.Record(ws.shapes)
	ws.shapes = append(ws.shapes, shape)
	out := shape.Clone()
	return &out, nil
}

// UpdateShape edits a shape's label, zone type, or data entries. Edits
// go through history like any other mutation.
func (s *WorkspaceService) UpdateShape(projectID, shapeID string, label, zoneType *string, data map[string]any) (*models.Shape, error) {
	ws, err := s.get(projectID)
	if err != nil {
		return nil, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	for i := range ws.shapes {
		if ws.shapes[i].ID != shapeID {
			continue
		}
		ws.hist.Record(ws.shapes)
		if label != nil {
			ws.shapes[i].Label = *label
		}
		if zoneType != nil {
			ws.shapes[i].ZoneType = *zoneType
		}
		if data != nil {
			if ws.shapes[i].Data == nil {
				ws.shapes[i].Data = make(map[string]any, len(data))
			}
			for k, v := range data {
				if v == nil {
					delete(ws.shapes[i].Data, k)
					continue
				}
				ws.shapes[i].Data[k] = v
			}
		}
		out := ws.shapes[i].Clone()
		return &out, nil
	}
	return nil, fmt.Errorf("shape %s not found in project %s", shapeID, projectID)
}

// RemoveShape deletes one shape by id.
func (s *WorkspaceService) RemoveShape(projectID, shapeID string) error {
	ws, err := s.get(projectID)
	if err != nil {
		return err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	for i := range ws.shapes {
		if ws.shapes[i].ID == shapeID {
			ws.hist.Record(ws.shapes)
			ws.shapes = append(ws.shapes[:i:i], ws.shapes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("shape %s not found in project %s", shapeID, projectID)
}

// ClearShapes empties the collection (undoable).
func (s *WorkspaceService) ClearShapes(projectID string) error {
	ws, err := s.get(projectID)
	if err != nil {
		return err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.hist.Record(ws.shapes)
	ws.shapes = nil
	return nil
}

// ImportShapes bulk-appends already-validated shapes as one undoable
// operation.
func (s *WorkspaceService) ImportShapes(projectID string, shapes []models.Shape) (int, error) {
	ws, err := s.get(projectID)
	if err != nil {
		return 0, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.hist.Record(ws.shapes)
	ws.shapes = append(ws.shapes, models.CloneShapes(shapes)...)
	return len(shapes), nil
}

// Undo restores the previous snapshot; reports whether anything changed.
func (s *WorkspaceService) Undo(projectID string) (bool, error) {
	ws, err := s.get(projectID)
	if err != nil {
		return false, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	restored, ok := ws.hist.Undo(ws.shapes)
	if ok {
		ws.shapes = restored
	}
	return ok, nil
}

// Redo mirrors Undo.
func (s *WorkspaceService) Redo(projectID string) (bool, error) {
	ws, err := s.get(projectID)
	if err != nil {
		return false, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	restored, ok := ws.hist.Redo(ws.shapes)
	if ok {
		ws.shapes = restored
	}
	return ok, nil
}

// HistoryDepths exposes the undo/redo stack depths for status readouts.
func (s *WorkspaceService) HistoryDepths(projectID string) (undo, redo int, err error) {
	ws, err := s.get(projectID)
	if err != nil {
		return 0, 0, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	undo, redo = ws.hist.Depths()
	return undo, redo, nil
}

// SetMode activates a drawing/measuring mode, optionally applying a
// named zone template.
func (s *WorkspaceService) SetMode(projectID string, mode session.Mode, templateName string) error {
	ws, err := s.get(projectID)
	if err != nil {
		return err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if templateName == "" {
		ws.sess.SetMode(mode)
		return nil
	}
	tpl := session.TemplateByName(templateName)
	if tpl == nil {
		return fmt.Errorf("unknown template %q", templateName)
	}
	ws.sess.SetModeWithTemplate(mode, tpl)
	return nil
}

// Click feeds a map click into the drawing session. When the click
// completes a shape it is validated and added to the collection; the
// accepted shape is returned, nil otherwise.
func (s *WorkspaceService) Click(projectID string, p geo.Point) (*models.Shape, error) {
	ws, err := s.get(projectID)
	if err != nil {
		return nil, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	emitted := ws.sess.Click(p)
	if emitted == nil {
		return nil, nil
	}
	return ws.addLocked(*emitted)
}

// Finish completes polygon collection (double-click). Finishing with
// too few points is a silent no-op: nil shape, nil error.
func (s *WorkspaceService) Finish(projectID string) (*models.Shape, error) {
	ws, err := s.get(projectID)
	if err != nil {
		return nil, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()

	emitted := ws.sess.Finish()
	if emitted == nil {
		return nil, nil
	}
	return ws.addLocked(*emitted)
}

// CancelMode discards pending session points without touching the
// collection.
func (s *WorkspaceService) CancelMode(projectID string) error {
	ws, err := s.get(projectID)
	if err != nil {
		return err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.sess.Cancel()
	return nil
}

// SessionState returns the current mode, pending points, and live
// measurement readout.
func (s *WorkspaceService) SessionState(projectID string) (session.Mode, []geo.Point, *session.Measurement, error) {
	ws, err := s.get(projectID)
	if err != nil {
		return session.Idle, nil, nil, err
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.sess.Mode(), ws.sess.Pending(), ws.sess.Measurement(), nil
}

// GenerateReport builds the structured report for the open project.
// A second call while one is in flight is rejected instead of racing.
func (s *WorkspaceService) GenerateReport(projectID, mapImageRef string) (*report.Report, string, error) {
	ws, err := s.get(projectID)
	if err != nil {
		return nil, "", err
	}

	ws.mu.Lock()
	if ws.reportBusy {
		ws.mu.Unlock()
		return nil, "", fmt.Errorf("report generation already in progress for project %s", projectID)
	}
	ws.reportBusy = true
	project := ws.project
	shapes := models.CloneShapes(ws.shapes)
	ws.mu.Unlock()

	defer func() {
		ws.mu.Lock()
		ws.reportBusy = false
		ws.mu.Unlock()
	}()

	rpt, filename := s.reports.Build(&project, shapes, mapImageRef)
	return rpt, filename, nil
}
