// Package app provides application lifecycle management and the session
// state controller that owns the base image, the watermark collection, and
// the current export selection.
package app

import (
	"fmt"
	goimage "image"
	"log"
	"strings"
	"sync"

	"wmstudio/internal/export"
	wmimage "wmstudio/internal/image"
	"wmstudio/internal/mark"
	"wmstudio/internal/metrics"
	"wmstudio/internal/render"
	"wmstudio/pkg/geometry"
)

// NoSelection is the sentinel selection index meaning no watermark is
// targeted by the editor.
const NoSelection = -1

// State is the single source of truth for a session. All mutation goes
// through its methods; each operation completes fully under the lock before
// the next begins, and events are emitted after the lock is released.
// Asynchronous capabilities (decode, measurement, export) run on their own
// goroutines and re-enter through a method with their one response.
type State struct {
	mu sync.RWMutex

	base     *wmimage.BaseImage
	marks    []mark.Watermark
	selected int // index into marks, or NoSelection
	format   export.Format

	lastError string
	nextID    int

	renderer *render.Renderer
	measurer metrics.Measurer

	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventImageRemoved
	EventMarksChanged
	EventSelectionChanged
	EventFormatChanged
	EventExportDone
	EventError
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new session state.
func NewState(renderer *render.Renderer) *State {
	return &State{
		selected:  NoSelection,
		format:    export.Default(),
		nextID:    1,
		renderer:  renderer,
		listeners: make(map[EventType][]EventListener),
	}
}

// SetMeasurer wires the text-measurement capability. Typically called once
// at startup with a measurer that delivers into ApplyMeasurement.
func (s *State) SetMeasurer(m metrics.Measurer) {
	s.mu.Lock()
	s.measurer = m
	s.mu.Unlock()
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadBaseImage decodes uploaded bytes into the session's base image. On
// failure the previous state is kept and the error is surfaced as a log
// line plus an error event.
func (s *State) LoadBaseImage(name string, data []byte) error {
	base, err := wmimage.Decode(name, data)
	if err != nil {
		s.fail("load image: %v", err)
		return err
	}
	s.mu.Lock()
	s.base = base
	s.lastError = ""
	s.mu.Unlock()

	s.Emit(EventImageLoaded, base)
	return nil
}

// LoadBaseImageFile decodes an image file into the session's base image.
func (s *State) LoadBaseImageFile(path string) error {
	base, err := wmimage.Load(path)
	if err != nil {
		s.fail("load image: %v", err)
		return err
	}
	s.mu.Lock()
	s.base = base
	s.lastError = ""
	s.mu.Unlock()

	s.Emit(EventImageLoaded, base)
	return nil
}

// RemoveBaseImage resets the base image to none. Watermarks stay in the
// collection but nothing renders until a new image is loaded.
func (s *State) RemoveBaseImage() {
	s.mu.Lock()
	s.base = nil
	s.mu.Unlock()

	s.Emit(EventImageRemoved, nil)
}

// BaseImage returns the current base image, or nil.
func (s *State) BaseImage() *wmimage.BaseImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// AddWatermark appends a new watermark and selects it. Adding to an
// imageless session is a no-op, as is adding a text mark with blank
// content. Returns the new mark's ID, or NoSelection when nothing was
// added. Text marks fire a measurement request; image marks load their
// bitmap resource in the background.
func (s *State) AddWatermark(kind mark.Kind, content string) int {
	s.mu.Lock()
	if !s.base.Loaded() {
		s.mu.Unlock()
		return NoSelection
	}
	if kind == mark.KindText && strings.TrimSpace(content) == "" {
		s.mu.Unlock()
		return NoSelection
	}

	m := mark.New(s.nextID, kind, content)
	s.nextID++
	s.marks = append(s.marks, m)
	s.selected = len(s.marks) - 1
	s.mu.Unlock()

	s.Emit(EventMarksChanged, nil)
	s.Emit(EventSelectionChanged, s.selected)

	switch kind {
	case mark.KindText:
		s.requestMeasurement(m)
	case mark.KindImage:
		go s.loadMarkResource(m.ID, content)
	}
	return m.ID
}

// SelectWatermark sets the selection. An index outside the live collection
// collapses to the sentinel so selection always references a live entry or
// nothing.
func (s *State) SelectWatermark(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.marks) {
		index = NoSelection
	}
	s.selected = index
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, index)
}

// SelectedIndex returns the selection index, or NoSelection.
func (s *State) SelectedIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SelectedMark returns the selected watermark, if any.
func (s *State) SelectedMark() (mark.Watermark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == NoSelection || s.selected >= len(s.marks) {
		return mark.Watermark{}, false
	}
	return s.marks[s.selected], true
}

// Marks returns a copy of the watermark collection in paint order.
func (s *State) Marks() []mark.Watermark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mark.Watermark, len(s.marks))
	copy(out, s.marks)
	return out
}

// RemoveSelectedWatermark removes the selected watermark and resets the
// selection to the sentinel. With no valid selection it is a no-op.
func (s *State) RemoveSelectedWatermark() {
	s.mu.Lock()
	index := s.selected
	if index == NoSelection || index >= len(s.marks) {
		s.mu.Unlock()
		return
	}
	s.marks = mark.RemoveAt(s.marks, index)
	s.selected = NoSelection
	s.mu.Unlock()

	s.Emit(EventMarksChanged, nil)
	s.Emit(EventSelectionChanged, NoSelection)
}

// UpdateWatermark replaces the stored record whose ID matches the updated
// record. Kind and resource are carried over from the stored record, and
// numeric fields are coerced back into range. An update for an ID no longer
// in the collection is a silent no-op. A change to a text mark's content,
// font, or font size re-fires measurement.
func (s *State) UpdateWatermark(updated mark.Watermark) {
	s.mu.Lock()
	index := mark.IndexOf(s.marks, updated.ID)
	if index == NoSelection {
		s.mu.Unlock()
		return
	}
	old := s.marks[index]
	updated.Kind = old.Kind
	updated.Normalize()
	if updated.Kind == mark.KindImage {
		if updated.Resource == nil {
			updated.Resource = old.Resource
		}
		if updated.Resource != nil {
			updated.Size = naturalSize(updated.Resource).Scale(updated.Scale)
		}
	}
	remeasure := updated.Kind == mark.KindText && updated.StyleChanged(old)
	s.marks = mark.Update(s.marks, updated)
	s.mu.Unlock()

	s.Emit(EventMarksChanged, nil)
	if remeasure {
		s.requestMeasurement(updated)
	}
}

// ChangeExportFormat selects the named export format. Names outside the
// host-supported set are ignored; the UI never offers them, so reaching
// here with one means a stale caller.
func (s *State) ChangeExportFormat(name string) {
	f, ok := export.Lookup(name)
	if !ok || !f.CanEncode() {
		log.Printf("app: unsupported export format %q ignored", name)
		return
	}
	s.mu.Lock()
	s.format = f
	s.mu.Unlock()

	s.Emit(EventFormatChanged, f)
}

// Format returns the current export format.
func (s *State) Format() export.Format {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.format
}

// Plan resolves the current session into the ordered draw-op list.
func (s *State) Plan() []render.Op {
	s.mu.RLock()
	base := s.base
	marks := make([]mark.Watermark, len(s.marks))
	copy(marks, s.marks)
	s.mu.RUnlock()

	return render.Plan(base, marks)
}

// RenderPreview rasterizes the current plan. Returns nil when no base image
// is loaded.
func (s *State) RenderPreview() *goimage.NRGBA {
	return s.renderer.Rasterize(s.Plan())
}

// Export rasterizes the session and writes it to path in the selected
// format. Requires a loaded base image.
func (s *State) Export(path string) error {
	s.mu.RLock()
	loaded := s.base.Loaded()
	format := s.format
	s.mu.RUnlock()

	if !loaded {
		err := fmt.Errorf("no base image loaded")
		s.fail("export: %v", err)
		return err
	}

	img := s.renderer.Rasterize(s.Plan())
	if err := export.Save(img, format, path); err != nil {
		s.fail("export: %v", err)
		return err
	}

	log.Printf("app: exported %s as %s", path, format.Name)
	s.Emit(EventExportDone, path)
	return nil
}

// ApplyMeasurement is the measurement capability's response entry point.
// Results are matched by the requesting mark's stable ID; a result whose
// mark has since been removed is dropped on the floor.
func (s *State) ApplyMeasurement(res metrics.Result) {
	s.mu.Lock()
	index := mark.IndexOf(s.marks, res.MarkID)
	if index == NoSelection {
		s.mu.Unlock()
		log.Printf("app: dropping stale measurement for mark %d", res.MarkID)
		return
	}
	s.marks[index].Size.Width = res.Width
	s.marks[index].Size.Height = res.Height
	s.mu.Unlock()

	s.Emit(EventMarksChanged, nil)
}

// ApplyMarkResource binds a decoded bitmap to an image watermark and
// derives its size from the natural dimensions and the user scale factor.
// Stale resources (mark removed while loading) are dropped.
func (s *State) ApplyMarkResource(markID int, img goimage.Image) {
	s.mu.Lock()
	index := mark.IndexOf(s.marks, markID)
	if index == NoSelection {
		s.mu.Unlock()
		log.Printf("app: dropping stale resource for mark %d", markID)
		return
	}
	s.marks[index].Resource = img
	s.marks[index].Size = naturalSize(img).Scale(s.marks[index].Scale)
	s.mu.Unlock()

	s.Emit(EventMarksChanged, nil)
}

// LastError returns the most recent user-visible failure message.
func (s *State) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// requestMeasurement fires a measurement request for a text mark. Called
// outside the lock; the response arrives through ApplyMeasurement.
func (s *State) requestMeasurement(m mark.Watermark) {
	s.mu.RLock()
	measurer := s.measurer
	s.mu.RUnlock()

	if measurer == nil || m.Kind != mark.KindText {
		return
	}
	measurer.Measure(metrics.Request{
		MarkID:   m.ID,
		Text:     m.Content,
		Font:     m.Font,
		FontSize: m.FontSize,
	})
}

// loadMarkResource decodes an image watermark's bitmap in the background
// and delivers it through ApplyMarkResource. Failure leaves the mark
// declared but unrendered.
func (s *State) loadMarkResource(markID int, path string) {
	res, err := wmimage.Load(path)
	if err != nil {
		s.fail("load watermark image: %v", err)
		return
	}
	s.ApplyMarkResource(markID, res.Image)
}

// fail records a user-visible failure without disturbing session state.
func (s *State) fail(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("app: %s", msg)

	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()

	s.Emit(EventError, msg)
}

// naturalSize returns a bitmap's dimensions as a geometry.Size.
func naturalSize(img goimage.Image) geometry.Size {
	b := img.Bounds()
	return geometry.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}
