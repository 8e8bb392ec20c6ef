// --- START OF FINAL REVISED FILE internal/cli/ui/model.go ---
package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stackvity/keymap-converter/internal/cli/hooks" // Import hooks for message types
	"github.com/stackvity/keymap-converter/pkg/converter"
)

// --- Constants ---

const listHeightMargin = 4 // Adjust based on header/footer/padding

// --- Model Struct ---

// Model represents the state of the TUI application.
// It holds UI components (list, spinner), layout dimensions, the run phase,
// aggregated summary statistics and one row per pipeline step.
type Model struct {
	// list displays the pipeline steps.
	list    list.Model
	spinner spinner.Model
	width   int
	height  int
	// initialized tracks if the model has received initial dimensions.
	initialized bool
	// version is shown in the header.
	version string
	// stepItems holds one row per planned step, in plan order.
	// Access MUST be protected by listLock.
	stepItems []listItem
	summary   Summary
	// phaseMessage displays the current overall stage (Initializing, Converting, Complete).
	phaseMessage string
	// fatalError stores a descriptive message if the run was halted by a fatal error.
	fatalError string
	quitting   bool
	// processTime maps steps to their processing start time.
	processTime map[converter.Step]time.Time
	// itemMap maps steps to their index in stepItems.
	// Access MUST be protected by listLock.
	itemMap  map[converter.Step]int
	listLock sync.Mutex
	// debounceTimer manages debouncing for list updates to prevent excessive rendering.
	debounceTimer *time.Timer
}

// listItem represents a single pipeline step in the TUI list.
type listItem struct {
	step     converter.Step
	status   converter.Status
	message  string
	duration time.Duration
}

// Summary holds the aggregated statistics displayed in the TUI footer.
// Step counts are tracked live; slot counts arrive with the final report.
type Summary struct {
	StepsPlanned   int
	StepsCompleted int
	SkippedCount   int
	ErrorCount     int
	SlotCount      int
	MatchedCount   int
	LiteralCount   int
	WarningCount   int
	StartTime      time.Time
}

// --- Bubble Tea Interface Implementations ---

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles incoming messages (user input, hook events) and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var listCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - listHeightMargin
		if listHeight < 1 {
			listHeight = 1
		}
		m.list.SetSize(m.width, listHeight)
		m.initialized = true

	case tea.KeyMsg:
		if m.quitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		m.list, listCmd = m.list.Update(msg)
		cmds = append(cmds, listCmd)

	case spinner.TickMsg:
		if m.quitting {
			return m, nil
		}
		var spinnerCmd tea.Cmd
		m.spinner, spinnerCmd = m.spinner.Update(msg)
		cmds = append(cmds, spinnerCmd)

	// --- Custom Messages from Library Hooks ---
	case hooks.StepDiscoveredMsg:
		m.listLock.Lock()
		if _, exists := m.itemMap[msg.Step]; !exists {
			m.stepItems = append(m.stepItems, listItem{step: msg.Step, status: converter.StatusPending})
			m.itemMap[msg.Step] = len(m.stepItems) - 1
			m.summary.StepsPlanned++
			cmds = append(cmds, m.debounceListUpdate())
		}
		m.listLock.Unlock()
		if !m.quitting && m.phaseMessage == "Initializing..." {
			m.phaseMessage = "Planning..."
		}

	case hooks.StepStatusUpdateMsg:
		m.listLock.Lock()
		idx, ok := m.itemMap[msg.Step]
		if !ok || idx >= len(m.stepItems) {
			// Status for a step that was never announced; add it.
			m.stepItems = append(m.stepItems, listItem{step: msg.Step, status: converter.StatusPending})
			idx = len(m.stepItems) - 1
			m.itemMap[msg.Step] = idx
			m.summary.StepsPlanned++
		}
		current := &m.stepItems[idx]

		if msg.Status == converter.StatusProcessing {
			m.processTime[msg.Step] = time.Now()
			current.duration = 0
		} else if isFinalStatus(msg.Status) {
			current.duration = msg.Duration
			if startTime, found := m.processTime[msg.Step]; found {
				if current.duration == 0 {
					current.duration = time.Since(startTime)
				}
				delete(m.processTime, msg.Step)
			}
		}

		oldFinal := isFinalStatus(current.status)
		newFinal := isFinalStatus(msg.Status)
		if newFinal && !oldFinal {
			m.incrementSummaryCount(msg.Status)
		} else if !newFinal && oldFinal {
			m.decrementSummaryCount(current.status)
		} else if newFinal && oldFinal && current.status != msg.Status {
			m.decrementSummaryCount(current.status)
			m.incrementSummaryCount(msg.Status)
		}

		current.status = msg.Status
		current.message = msg.Message
		cmds = append(cmds, m.debounceListUpdate())
		m.listLock.Unlock()

		if !m.quitting && msg.Status == converter.StatusProcessing {
			m.phaseMessage = "Running " + string(msg.Step) + "..."
		}

	case hooks.RunCompleteMsg:
		m.phaseMessage = "Complete"
		s := msg.Report.Summary
		m.summary.SlotCount = s.SlotCount
		m.summary.MatchedCount = s.MatchedCount
		m.summary.LiteralCount = s.LiteralCount
		m.summary.WarningCount = s.WarningCount
		m.summary.ErrorCount = s.ErrorCount
		if s.FatalErrorOccurred {
			m.fatalError = "Run halted due to fatal error."
			for _, e := range msg.Report.Errors {
				if e.IsFatal {
					m.fatalError = fmt.Sprintf("Fatal Error: %s (%s)", e.Error, e.Step)
					break
				}
			}
		}

	case UpdateListMsg:
		m.listLock.Lock()
		items := make([]list.Item, len(m.stepItems))
		for i, item := range m.stepItems {
			items[i] = item
		}
		m.listLock.Unlock()
		cmds = append(cmds, m.list.SetItems(items))
	}

	if listCmd != nil {
		cmds = append(cmds, listCmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the current state of the TUI model to a string.
func (m *Model) View() string {
	if m.quitting {
		return "Exiting...\n"
	}
	if !m.initialized {
		return "Initializing..."
	}

	// --- Header ---
	headerLeft := fmt.Sprintf("Keymap Converter v%s", m.version)
	headerRight := m.phaseMessage
	if m.phaseMessage != "Complete" && m.phaseMessage != "Initializing..." {
		headerRight = m.spinner.View() + " " + m.phaseMessage
	}
	headerCenter := ""
	headerWidth := m.width - HeaderStyle.GetHorizontalFrameSize() - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerWidth > 0 {
		headerCenter = lipgloss.PlaceHorizontal(headerWidth, lipgloss.Center, " ")
	}
	header := HeaderStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, headerLeft, headerCenter, headerRight))

	// --- Footer ---
	elapsed := time.Since(m.summary.StartTime).Round(time.Millisecond)
	summaryText := fmt.Sprintf(
		"Steps: %d/%d | Slots: %d (Matched: %d, Literal: %d) | Warnings: %d | Failed: %d | Elapsed: %s",
		m.summary.StepsCompleted,
		m.summary.StepsPlanned,
		m.summary.SlotCount,
		m.summary.MatchedCount,
		m.summary.LiteralCount,
		m.summary.WarningCount,
		m.summary.ErrorCount,
		elapsed,
	)
	footerLeft := summaryText
	footerRight := "q: quit"
	footerWidth := m.width - FooterStyle.GetHorizontalFrameSize() - lipgloss.Width(footerLeft) - lipgloss.Width(footerRight)
	footerCenter := ""
	if footerWidth > 0 {
		footerCenter = lipgloss.PlaceHorizontal(footerWidth, lipgloss.Center, " ")
	}
	footer := FooterStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, footerLeft, footerCenter, footerRight))

	listView := m.list.View()

	errorView := ""
	if m.fatalError != "" {
		errorView = StatusStyleFailed.Render(m.fatalError) + "\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		listView,
		errorView,
		footer,
	)
}

// --- Helper Methods ---

// NewModel creates the initial model for the TUI. version is shown in the header.
func NewModel(version string) Model {
	if version == "" {
		version = "dev"
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorStatusProcessing)

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorSelectedFg).
		Background(ColorSelectedBg).
		Bold(true).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorSelectedDescFg).
		Background(ColorSelectedBg).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.
		Foreground(ColorNormalFg).Padding(0, 0, 0, 1)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.
		Foreground(ColorNormalDescFg).Padding(0, 0, 0, 1)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings() // Use our own quit logic

	return Model{
		list:         l,
		spinner:      s,
		version:      version,
		summary:      Summary{StartTime: time.Now()},
		phaseMessage: "Initializing...",
		stepItems:    make([]listItem, 0, len(converter.Steps())),
		itemMap:      make(map[converter.Step]int),
		processTime:  make(map[converter.Step]time.Time),
	}
}

// isFinalStatus checks if a status represents a terminal state for a step.
func isFinalStatus(status converter.Status) bool {
	return status == converter.StatusSuccess ||
		status == converter.StatusFailed ||
		status == converter.StatusSkipped ||
		status == converter.StatusCached
}

// incrementSummaryCount updates summary counts for a step reaching a final status.
// MUST be called with listLock held.
func (m *Model) incrementSummaryCount(status converter.Status) {
	switch status {
	case converter.StatusSuccess, converter.StatusCached:
		m.summary.StepsCompleted++
	case converter.StatusSkipped:
		m.summary.StepsCompleted++
		m.summary.SkippedCount++
	case converter.StatusFailed:
		m.summary.ErrorCount++
	}
}

// decrementSummaryCount reverses incrementSummaryCount.
// MUST be called with listLock held.
func (m *Model) decrementSummaryCount(status converter.Status) {
	switch status {
	case converter.StatusSuccess, converter.StatusCached:
		m.summary.StepsCompleted--
	case converter.StatusSkipped:
		m.summary.StepsCompleted--
		m.summary.SkippedCount--
	case converter.StatusFailed:
		m.summary.ErrorCount--
	}
}

// --- List Item Interface ---

// FilterValue implements the list.Item interface.
func (i listItem) FilterValue() string { return string(i.step) }

// Title implements the list.Item interface.
func (i listItem) Title() string { return string(i.step) }

// Description implements the list.Item interface.
func (i listItem) Description() string {
	var statusStyle lipgloss.Style
	statusIcon := " "
	switch i.status {
	case converter.StatusSuccess:
		statusStyle = StatusStyleSuccess
		statusIcon = "✓"
	case converter.StatusFailed:
		statusStyle = StatusStyleFailed
		statusIcon = "✗"
	case converter.StatusSkipped:
		statusStyle = StatusStyleSkipped
		statusIcon = "S"
	case converter.StatusCached:
		statusStyle = StatusStyleCached
		statusIcon = "C"
	case converter.StatusProcessing:
		statusStyle = StatusStyleProcessing
		statusIcon = "…"
	default:
		statusStyle = StatusStylePending
	}

	statusStr := statusStyle.Render(fmt.Sprintf("[%s]", statusIcon))
	details := ""

	switch i.status {
	case converter.StatusFailed:
		details = i.message
	case converter.StatusSkipped:
		// Show the reason part of "reason: details".
		parts := strings.SplitN(i.message, ":", 2)
		details = strings.TrimSpace(parts[0])
	case converter.StatusSuccess, converter.StatusCached:
		details = strings.TrimSpace(strings.Join([]string{i.message, formatDuration(i.duration)}, " "))
	}
	return fmt.Sprintf("%s %s", statusStr, details)
}

// formatDuration formats duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		if d == 0 {
			return ""
		}
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// --- Update Debouncing ---

// UpdateListMsg signals that the list component should update its items.
type UpdateListMsg struct{}

const listUpdateDebounceDuration = 50 * time.Millisecond

// debounceListUpdate returns a command that sends UpdateListMsg after a short
// delay, restarting the delay on every call.
// MUST be called with listLock held.
func (m *Model) debounceListUpdate() tea.Cmd {
	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
	}
	timer := time.NewTimer(listUpdateDebounceDuration)
	m.debounceTimer = timer

	return func() tea.Msg {
		<-timer.C
		return UpdateListMsg{}
	}
}

// --- Styles ---

const (
	ColorHeaderFg = lipgloss.Color("252")
	ColorHeaderBg = lipgloss.Color("62")

	ColorFooterFg = lipgloss.Color("252")
	ColorFooterBg = lipgloss.Color("56")

	ColorNormalFg     = lipgloss.Color("250")
	ColorNormalDescFg = lipgloss.Color("244")

	ColorSelectedFg     = lipgloss.Color("255")
	ColorSelectedBg     = lipgloss.Color("56")
	ColorSelectedDescFg = lipgloss.Color("248")

	ColorStatusSuccess    = lipgloss.Color("40")  // Green
	ColorStatusFailed     = lipgloss.Color("196") // Red
	ColorStatusSkipped    = lipgloss.Color("214") // Orange
	ColorStatusCached     = lipgloss.Color("39")  // Blue
	ColorStatusPending    = lipgloss.Color("244")
	ColorStatusProcessing = lipgloss.Color("205") // Pink (matches spinner)
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeaderFg).
			Background(ColorHeaderBg).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorFooterFg).
			Background(ColorFooterBg).
			Padding(0, 1)

	StatusStyleSuccess    = lipgloss.NewStyle().Foreground(ColorStatusSuccess)
	StatusStyleFailed     = lipgloss.NewStyle().Foreground(ColorStatusFailed)
	StatusStyleSkipped    = lipgloss.NewStyle().Foreground(ColorStatusSkipped)
	StatusStyleCached     = lipgloss.NewStyle().Foreground(ColorStatusCached)
	StatusStylePending    = lipgloss.NewStyle().Foreground(ColorStatusPending)
	StatusStyleProcessing = lipgloss.NewStyle().Foreground(ColorStatusProcessing)
)

// --- END OF FINAL REVISED FILE internal/cli/ui/model.go ---
