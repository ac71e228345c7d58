package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AccountListView ViewState = iota
	ConfirmView
	PublishView
	ResultView
)

// Publisher runs one publish round. Satisfied by *tasks.Orchestrator.
type Publisher interface {
	Submit(ctx context.Context, req tasks.PublishRequest, progress chan<- tasks.ProgressUpdate) (*tasks.PublishResult, error)
}

// AccountLister supplies selectable accounts.
type AccountLister interface {
	List(criteria map[string]any) ([]*models.Account, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	accounts     AccountLister
	publisher    Publisher
	draft        tasks.PublishRequest
	width        int
	height       int
	accountList  list.Model
	items        []accountItem
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.PublishResult
	err          error
	help         help.Model
	keys         keyMap
}

type accountsFetchedMsg struct {
	accounts []*models.Account
	err      error
}

type progressUpdateMsg tasks.ProgressUpdate

type publishCompleteMsg struct {
	result *tasks.PublishResult
	err    error
}

// NewModel creates a new TUI model. The draft request carries the video
// metadata from the command line; accounts are picked interactively.
func NewModel(ctx context.Context, accounts AccountLister, publisher Publisher, draft tasks.PublishRequest) *Model {
	return &Model{
		ctx:       ctx,
		view:      AccountListView,
		accounts:  accounts,
		publisher: publisher,
		draft:     draft,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by loading stored accounts.
func (m *Model) Init() tea.Cmd {
	return m.fetchAccounts()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.accountList.Width() == 0 {
			m.accountList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case AccountListView:
			return m.handleAccountListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case accountsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.items = make([]accountItem, len(msg.accounts))
		items := make([]list.Item, len(msg.accounts))
		for i, account := range msg.accounts {
			m.items[i] = accountItem{account: account}
			items[i] = m.items[i]
		}
		m.accountList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.accountList.Title = "Publish to"
		m.accountList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case publishCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case AccountListView:
		return m.renderAccountList()
	case ConfirmView:
		return m.renderConfirm()
	case PublishView:
		return m.renderPublish()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleAccountListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		idx := m.accountList.Index()
		if idx >= 0 && idx < len(m.items) {
			m.items[idx].selected = !m.items[idx].selected
			m.accountList.SetItem(idx, m.items[idx])
		}
		return m, nil
	case "enter":
		if len(m.selectedIDs()) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.accountList, cmd = m.accountList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = AccountListView
		return m, nil
	case "y":
		m.view = PublishView
		return m, m.startPublish()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = AccountListView
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == AccountListView {
		m.accountList, cmd = m.accountList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedIDs() []string {
	var ids []string
	for _, item := range m.items {
		if item.selected {
			ids = append(ids, item.account.ID())
		}
	}
	return ids
}

func (m *Model) fetchAccounts() tea.Cmd {
	return func() tea.Msg {
		accounts, err := m.accounts.List(map[string]any{})
		return accountsFetchedMsg{accounts: accounts, err: err}
	}
}

func (m *Model) startPublish() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	req := m.draft
	req.AccountIDs = m.selectedIDs()
	ch := m.progressChan

	go func() {
		result, err := m.publisher.Submit(m.ctx, req, ch)
		m.result = result
		m.err = err
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return publishCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return publishCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderAccountList() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.accountList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	selected := m.selectedIDs()
	title := styles.title.Render(fmt.Sprintf("Publish '%s' to %d account(s)?", m.draft.Title, len(selected)))
	info := fmt.Sprintf("\nVideo: %s\nTags: %d\n", m.draft.VideoPath, len(m.draft.Tags))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderPublish() string {
	title := styles.title.Render("Publishing")

	var phase string
	switch m.progress.Phase {
	case tasks.PhaseResolveSession:
		phase = fmt.Sprintf("Resolving browser session (%s)...", m.progress.Platform)
	case tasks.PhaseDrive:
		phase = fmt.Sprintf("Driving upload page (%s)...", m.progress.Platform)
	case tasks.PhaseEntryDone:
		phase = fmt.Sprintf("Accounts done: %d/%d", m.progress.Completed, m.progress.Total)
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Publish failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render(fmt.Sprintf("Task %s: %s", m.result.TaskID, m.result.Status))

	var lines string
	for _, pt := range m.result.PlatformTasks {
		line := fmt.Sprintf("\n  %s [%s] %s", pt.Platform, pt.Status, pt.Message)
		if pt.Hint != "" {
			line += "\n    " + styles.warn.Render(pt.Hint)
		}
		lines += line
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n\n%s", title, lines, helpView)
}
