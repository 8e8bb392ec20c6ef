// --- START OF FINAL REVISED FILE internal/cli/ui/model_test.go ---
package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stackvity/keymap-converter/internal/cli/hooks"
	"github.com/stackvity/keymap-converter/pkg/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestModel creates an initialized model of the given size.
func newTestModel(width, height int) *Model {
	m := NewModel("1.2.3")
	m.width = width
	m.height = height
	listHeight := height - listHeightMargin
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.SetSize(width, listHeight)
	m.initialized = true
	return &m
}

// update is a shorthand that applies msg and returns the concrete model.
func update(t *testing.T, m *Model, msg tea.Msg) *Model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(*Model)
	require.True(t, ok)
	return updated
}

func TestModel_Init(t *testing.T) {
	m := newTestModel(80, 25)
	cmd := m.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(spinner.TickMsg)
	assert.True(t, ok, "Init should return a command that produces spinner.TickMsg")
}

func TestNewModel_DefaultVersion(t *testing.T) {
	m := NewModel("")
	assert.Equal(t, "dev", m.version)
	m = NewModel("0.4.0")
	assert.Equal(t, "0.4.0", m.version)
}

func TestModel_Update_Quit(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			testModel := newTestModel(80, 25)
			var keyMsg tea.KeyMsg
			if key == "ctrl+c" {
				keyMsg = tea.KeyMsg{Type: tea.KeyCtrlC}
			} else {
				keyMsg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			}
			newModel, cmd := testModel.Update(keyMsg)
			require.NotNil(t, cmd)

			updatedM, ok := newModel.(*Model)
			require.True(t, ok)
			assert.True(t, updatedM.quitting)
			assert.Equal(t, tea.Quit(), cmd())
		})
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel(80, 25)

	newModel, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	require.Nil(t, cmd)

	updatedM, ok := newModel.(*Model)
	require.True(t, ok)
	assert.True(t, updatedM.initialized)
	assert.Equal(t, 100, updatedM.width)
	assert.Equal(t, 30, updatedM.height)
	assert.Equal(t, 30-listHeightMargin, updatedM.list.Height())
	assert.Equal(t, 100, updatedM.list.Width())
}

func TestModel_Update_StepDiscovered(t *testing.T) {
	m := newTestModel(80, 25)

	newModel, cmd := m.Update(hooks.StepDiscoveredMsg{Step: converter.StepRead})
	require.NotNil(t, cmd) // debounce command
	m = newModel.(*Model)

	require.Len(t, m.stepItems, 1)
	assert.Equal(t, converter.StepRead, m.stepItems[0].step)
	assert.Equal(t, converter.StatusPending, m.stepItems[0].status)
	assert.Equal(t, 1, m.summary.StepsPlanned)
	assert.Equal(t, "Planning...", m.phaseMessage)

	m = update(t, m, hooks.StepDiscoveredMsg{Step: converter.StepRead})
	assert.Len(t, m.stepItems, 1, "Duplicate discovery should be ignored")
	assert.Equal(t, 1, m.summary.StepsPlanned)
}

func TestModel_Update_StepStatusUpdate(t *testing.T) {
	m := newTestModel(80, 25)
	for _, step := range converter.Steps() {
		m = update(t, m, hooks.StepDiscoveredMsg{Step: step})
	}
	require.Len(t, m.stepItems, 7)

	// Processing records a start time and updates the phase.
	m = update(t, m, hooks.StepStatusUpdateMsg{Step: converter.StepTransform, Status: converter.StatusProcessing})
	idx := m.itemMap[converter.StepTransform]
	assert.Equal(t, converter.StatusProcessing, m.stepItems[idx].status)
	assert.Equal(t, "Running transform...", m.phaseMessage)
	_, found := m.processTime[converter.StepTransform]
	assert.True(t, found, "Process start time should be recorded")

	// Success takes the reported duration.
	m = update(t, m, hooks.StepStatusUpdateMsg{
		Step: converter.StepTransform, Status: converter.StatusSuccess,
		Message: "42 slots", Duration: 75 * time.Millisecond,
	})
	assert.Equal(t, converter.StatusSuccess, m.stepItems[idx].status)
	assert.Equal(t, 75*time.Millisecond, m.stepItems[idx].duration)
	assert.Equal(t, "42 slots", m.stepItems[idx].message)
	assert.Equal(t, 1, m.summary.StepsCompleted)
	_, found = m.processTime[converter.StepTransform]
	assert.False(t, found, "Process start time should be cleared after final status")

	// Skipped counts as completed.
	m = update(t, m, hooks.StepStatusUpdateMsg{Step: converter.StepFlash, Status: converter.StatusSkipped, Message: "not configured"})
	assert.Equal(t, 2, m.summary.StepsCompleted)
	assert.Equal(t, 1, m.summary.SkippedCount)

	// Failed does not.
	m = update(t, m, hooks.StepStatusUpdateMsg{Step: converter.StepCompile, Status: converter.StatusProcessing})
	m = update(t, m, hooks.StepStatusUpdateMsg{Step: converter.StepCompile, Status: converter.StatusFailed, Message: "exit code 2"})
	assert.Equal(t, 2, m.summary.StepsCompleted)
	assert.Equal(t, 1, m.summary.ErrorCount)
	assert.Equal(t, "exit code 2", m.stepItems[m.itemMap[converter.StepCompile]].message)

	// A repeated final status does not double count.
	m = update(t, m, hooks.StepStatusUpdateMsg{Step: converter.StepCompile, Status: converter.StatusFailed, Message: "exit code 2"})
	assert.Equal(t, 1, m.summary.ErrorCount)

	// Unknown steps are added on first status.
	m2 := newTestModel(80, 25)
	m2 = update(t, m2, hooks.StepStatusUpdateMsg{Step: converter.StepCommit, Status: converter.StatusCached})
	require.Len(t, m2.stepItems, 1)
	assert.Equal(t, 1, m2.summary.StepsPlanned)
	assert.Equal(t, 1, m2.summary.StepsCompleted)
}

func TestModel_Update_RunComplete(t *testing.T) {
	m := newTestModel(80, 25)
	m.phaseMessage = "Running write..."

	finalReport := converter.Report{
		Summary: converter.ReportSummary{
			SlotCount:          42,
			MatchedCount:       40,
			LiteralCount:       2,
			WarningCount:       3,
			ErrorCount:         1,
			FatalErrorOccurred: true,
		},
		Errors: []converter.ErrorInfo{
			{Step: converter.StepCatalog, Error: "duplicate identifier", IsFatal: false},
			{Step: converter.StepWrite, Error: "permission denied", IsFatal: true},
		},
	}

	m = update(t, m, hooks.RunCompleteMsg{Report: finalReport})
	assert.Equal(t, "Complete", m.phaseMessage)
	assert.Equal(t, 42, m.summary.SlotCount)
	assert.Equal(t, 40, m.summary.MatchedCount)
	assert.Equal(t, 2, m.summary.LiteralCount)
	assert.Equal(t, 3, m.summary.WarningCount)
	assert.Equal(t, 1, m.summary.ErrorCount)
	assert.Equal(t, "Fatal Error: permission denied (write)", m.fatalError)
}

func TestModel_Update_ListNavigation(t *testing.T) {
	m := newTestModel(80, 25)
	for _, step := range converter.Steps() {
		m = update(t, m, hooks.StepDiscoveredMsg{Step: step})
	}
	m = update(t, m, UpdateListMsg{})
	assert.Equal(t, 0, m.list.Index())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.list.Index())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.list.Index())
}

func TestListItem_InterfaceMethods(t *testing.T) {
	item := listItem{
		step:     converter.StepTransform,
		status:   converter.StatusSuccess,
		message:  "42 slots",
		duration: 123 * time.Millisecond,
	}
	assert.Equal(t, "transform", item.FilterValue())
	assert.Equal(t, "transform", item.Title())
	assert.Contains(t, item.Description(), "[✓]")
	assert.Contains(t, item.Description(), "42 slots 123ms")

	itemError := listItem{step: converter.StepCompile, status: converter.StatusFailed, message: "exit code 2"}
	assert.Contains(t, itemError.Description(), "[✗]")
	assert.Contains(t, itemError.Description(), "exit code 2")

	itemSkipped := listItem{step: converter.StepFlash, status: converter.StatusSkipped, message: "not configured: flash disabled"}
	assert.Contains(t, itemSkipped.Description(), "[S]")
	assert.Contains(t, itemSkipped.Description(), "not configured")
	assert.NotContains(t, itemSkipped.Description(), "flash disabled")

	itemCached := listItem{step: converter.StepRead, status: converter.StatusCached}
	assert.Contains(t, itemCached.Description(), "[C]")
	assert.NotContains(t, itemCached.Description(), "0ms")

	itemPending := listItem{step: converter.StepCommit, status: converter.StatusPending}
	assert.Contains(t, itemPending.Description(), "[ ]")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "", formatDuration(0))
	assert.Equal(t, "1µs", formatDuration(1*time.Microsecond))
	assert.Equal(t, "999µs", formatDuration(999*time.Microsecond))
	assert.Equal(t, "1ms", formatDuration(1*time.Millisecond))
	assert.Equal(t, "123ms", formatDuration(123*time.Millisecond))
	assert.Equal(t, "999ms", formatDuration(999999*time.Microsecond))
	assert.Equal(t, "1.00s", formatDuration(1*time.Second))
	assert.Equal(t, "62.75s", formatDuration(62750*time.Millisecond))
}

func TestDebounceListUpdate_Structure(t *testing.T) {
	m := newTestModel(80, 25)

	m.listLock.Lock()
	cmd := m.debounceListUpdate()
	firstTimer := m.debounceTimer
	m.listLock.Unlock()
	require.NotNil(t, cmd)

	_, ok := cmd().(UpdateListMsg)
	assert.True(t, ok, "debounceListUpdate should return a command that sends UpdateListMsg")

	m.listLock.Lock()
	_ = m.debounceListUpdate()
	secondTimer := m.debounceTimer
	m.listLock.Unlock()
	assert.NotSame(t, firstTimer, secondTimer, "Second call should create a new timer")
}

func TestUpdateListMsgHandling(t *testing.T) {
	m := newTestModel(80, 25)
	m.stepItems = []listItem{
		{step: converter.StepRead, status: converter.StatusSuccess},
		{step: converter.StepTransform, status: converter.StatusProcessing},
	}
	m.itemMap[converter.StepRead] = 0
	m.itemMap[converter.StepTransform] = 1

	newModel, _ := m.Update(UpdateListMsg{})
	updatedM, ok := newModel.(*Model)
	require.True(t, ok)
	assert.Len(t, updatedM.list.Items(), 2)
}

// --- END OF FINAL REVISED FILE internal/cli/ui/model_test.go ---
