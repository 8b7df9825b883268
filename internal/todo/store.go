package todo

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/taskflow-go/internal/utils"
)

// maxIDAttempts bounds retries when a generated id collides.
const maxIDAttempts = 16

// KV is the durable storage a Store persists to.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// View is the read-only projection returned by every command.
type View struct {
	VisibleTasks   []Task
	RemainingCount int
	EditTarget     string // empty when no task is being edited
	DraftText      string
	Filter         Filter

	total int
}

// Editing reports whether a task is under edit.
func (v View) Editing() bool {
	return v.EditTarget != ""
}

// Total returns the number of tasks in the full list.
func (v View) Total() int {
	return v.total
}

// RemainingLabel renders the remaining count, e.g. "2 tasks remaining".
func (v View) RemainingLabel() string {
	return fmt.Sprintf("%d %s remaining", v.RemainingCount, utils.Plural(v.RemainingCount, "task", "tasks"))
}

// Store owns the task list and its edit and filter state.
// It is not safe for concurrent use.
type Store struct {
	kv     KV
	logger *log.Logger
	newID  func() string

	tasks      []Task
	editTarget string
	draftText  string
	filter     Filter

	hydration *ValidationResult
	err       error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for hydration and persistence problems.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDFunc replaces the id generator. The default is a random UUID.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Open creates a Store hydrated from kv. It never fails; see Hydration for
// what was dropped while loading.
func Open(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: log.New(io.Discard),
		newID:  uuid.NewString,
		filter: FilterAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	s.tasks = []Task{}
	s.hydration = newResult()

	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		s.hydration.Warnings = append(s.hydration.Warnings, fmt.Sprintf("read %s: %v", StorageKey, err))
		s.logger.Warn("Storage unreadable, starting empty", "key", StorageKey, "err", err)
		return
	}
	if !ok {
		s.logger.Debug("No stored tasks", "key", StorageKey)
		return
	}

	tasks, result := Decode(raw)
	s.tasks = tasks
	s.hydration = result
	for _, e := range result.Errors {
		s.logger.Warn("Dropped stored task", "err", e)
	}
	for _, w := range result.Warnings {
		s.logger.Warn(w)
	}
	s.logger.Debug("Hydrated tasks", "count", len(tasks))
}

// Hydration returns the result of loading the stored list.
func (s *Store) Hydration() *ValidationResult {
	return s.hydration
}

// Err returns the error from the most recent write, or nil if it succeeded.
func (s *Store) Err() error {
	return s.err
}

// Add trims text and, if anything is left, either retitles the task under
// edit or appends a new task. Blank text is a no-op.
func (s *Store) Add(text string) View {
	title := strings.TrimSpace(text)
	if title == "" {
		return s.View()
	}

	if s.editTarget != "" {
		if i := s.index(s.editTarget); i >= 0 {
			s.tasks[i].Title = title
			s.logger.Debug("Updated task", "id", s.editTarget)
		}
		s.editTarget = ""
	} else {
		task := Task{ID: s.generateID(), Title: title}
		s.tasks = append(s.tasks, task)
		s.logger.Debug("Added task", "id", task.ID)
	}
	s.draftText = ""
	s.persist()
	return s.View()
}

// SetDraft stages text in the input field.
func (s *Store) SetDraft(text string) View {
	s.draftText = text
	return s.View()
}

// BeginEdit selects the task with id for editing and stages its title as
// the draft. Unknown ids are a no-op.
func (s *Store) BeginEdit(id string) View {
	i := s.index(id)
	if i < 0 {
		return s.View()
	}
	s.editTarget = id
	s.draftText = s.tasks[i].Title
	return s.View()
}

// CancelEdit clears the edit target and the draft.
func (s *Store) CancelEdit() View {
	s.editTarget = ""
	s.draftText = ""
	return s.View()
}

// Delete removes the task with id. Deleting the task under edit also
// cancels the edit. Unknown ids are a no-op.
func (s *Store) Delete(id string) View {
	i := s.index(id)
	if i < 0 {
		return s.View()
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	if s.editTarget == id {
		s.editTarget = ""
		s.draftText = ""
	}
	s.logger.Debug("Deleted task", "id", id)
	s.persist()
	return s.View()
}

// ToggleComplete flips the completion flag of the task with id.
// Unknown ids are a no-op.
func (s *Store) ToggleComplete(id string) View {
	i := s.index(id)
	if i < 0 {
		return s.View()
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.logger.Debug("Toggled task", "id", id, "completed", s.tasks[i].Completed)
	s.persist()
	return s.View()
}

// SetFilter selects which tasks the view shows. Unknown values select all.
func (s *Store) SetFilter(f Filter) View {
	parsed, _ := ParseFilter(string(f))
	s.filter = parsed
	return s.View()
}

// View computes the derived view. It has no side effects.
func (s *Store) View() View {
	visible := make([]Task, 0, len(s.tasks))
	remaining := 0
	for _, t := range s.tasks {
		if !t.Completed {
			remaining++
		}
		if s.filter.Match(t) {
			visible = append(visible, t)
		}
	}
	return View{
		VisibleTasks:   visible,
		RemainingCount: remaining,
		EditTarget:     s.editTarget,
		DraftText:      s.draftText,
		Filter:         s.filter,
		total:          len(s.tasks),
	}
}

// Tasks returns a copy of the full list in order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Task returns the task with id.
func (s *Store) Task(id string) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Match returns the tasks whose id equals ref or starts with it. An exact
// match wins over prefix matches.
func (s *Store) Match(ref string) []Task {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	if t, ok := s.Task(ref); ok {
		return []Task{t}
	}
	var matches []Task
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	return matches
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) generateID() string {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id != "" && s.index(id) < 0 {
			return id
		}
	}
	// The configured generator keeps colliding; fall back to a UUID.
	id := uuid.NewString()
	for s.index(id) >= 0 {
		id = uuid.NewString()
	}
	return id
}

func (s *Store) persist() {
	raw, err := Encode(s.tasks)
	if err == nil {
		err = s.kv.Set(StorageKey, raw)
	}
	if err != nil {
		s.err = fmt.Errorf("persist tasks: %w", err)
		s.logger.Error("Failed to persist tasks", "err", err)
		return
	}
	s.err = nil
}
