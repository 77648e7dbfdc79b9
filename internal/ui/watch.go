package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyosol/kyosol/internal/config"
	"github.com/kyosol/kyosol/internal/state"
)

// RunWatch owns the terminal until the user quits or ctx is cancelled.
// Cancellation is a clean exit, not an error.
func RunWatch(ctx context.Context, store *state.Store, battery config.Battery, location string, interval time.Duration) error {
	m := newWatchModel(store, battery, location, interval)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// watchModel re-reads the store once a second. The poll loop runs elsewhere,
// so the view only ever renders what the store already holds.
type watchModel struct {
	store    *state.Store
	battery  config.Battery
	location string
	interval time.Duration

	spinner spinner.Model
	width   int
}

func newWatchModel(store *state.Store, battery config.Battery, location string, interval time.Duration) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultTheme().Styles().Accent

	return watchModel{
		store:    store,
		battery:  battery,
		location: location,
		interval: interval,
		spinner:  sp,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m watchModel) View() string {
	styles := DefaultTheme().Styles()
	latest := m.store.Latest()

	var body string
	switch {
	case !latest.HasReading && latest.LastError == nil:
		body = m.spinner.View() + styles.MutedText.Render(" Contacting portal...")
	case !latest.HasReading:
		body = styles.Danger.Render("Cannot reach portal") + "\n" +
			styles.MutedText.Render(latest.LastError.Error())
	default:
		body = Render(latest.Reading, latest.Estimate, m.battery, m.location)
	}

	if banner := errorBanner(styles, latest); banner != "" {
		body += "\n\n" + banner
	}

	return body + "\n\n" + m.footer(styles, latest)
}

// errorBanner reports a failing poll without hiding the retained reading.
func errorBanner(styles Styles, latest state.Latest) string {
	if latest.LastError == nil || !latest.HasReading {
		return ""
	}
	label := "STALE"
	if latest.IsOffline() {
		label = "OFFLINE"
	}
	return styles.Danger.Render(label) + " " +
		styles.MutedText.Render(fmt.Sprintf("%v (%d failed polls)", latest.LastError, latest.ConsecutiveFailures))
}

func (m watchModel) footer(styles Styles, latest state.Latest) string {
	updated := "never"
	if !latest.LastUpdated.IsZero() {
		updated = latest.LastUpdated.Format("15:04:05")
	}
	return styles.FaintText.Render(fmt.Sprintf("updated %s · every %ds · q to quit",
		updated, int(m.interval.Seconds())))
}
