package confirm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	listHeight   = 14
	defaultWidth = 30

	listTitle             = "Do you want to proceed with this commit?"
	runProgramErrorFormat = "run confirmation prompt: %w"
)

var (
	messageStyle      = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
)

type choiceItem struct {
	title    string
	decision Decision
}

func (item choiceItem) FilterValue() string { return item.title }

type choiceDelegate struct{}

func (delegate choiceDelegate) Height() int                             { return 1 }
func (delegate choiceDelegate) Spacing() int                            { return 0 }
func (delegate choiceDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (delegate choiceDelegate) Render(writer io.Writer, model list.Model, index int, listItem list.Item) {
	item, ok := listItem.(choiceItem)
	if !ok {
		return
	}
	render := itemStyle.Render
	if index == model.Index() {
		render = func(texts ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(texts, " "))
		}
	}
	fmt.Fprint(writer, render(item.title))
}

// choiceModel is the bubbletea model behind ListPrompter.
type choiceModel struct {
	list     list.Model
	message  string
	decision Decision
	done     bool
}

func newChoiceModel(message string) choiceModel {
	items := []list.Item{
		choiceItem{title: "Yes, create the commit", decision: DecisionYes},
		choiceItem{title: "No, abort", decision: DecisionNo},
		choiceItem{title: "Redo, generate another message", decision: DecisionRedo},
	}
	choices := list.New(items, choiceDelegate{}, defaultWidth, listHeight)
	choices.Title = listTitle
	choices.SetShowStatusBar(false)
	choices.SetFilteringEnabled(false)
	choices.Styles.Title = titleStyle
	choices.Styles.PaginationStyle = paginationStyle
	choices.Styles.HelpStyle = helpStyle
	return choiceModel{list: choices, message: message, decision: DecisionNo}
}

func (model choiceModel) Init() tea.Cmd {
	return nil
}

func (model choiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		model.list.SetWidth(msg.Width)
		return model, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c", "n":
			model.decision = DecisionNo
			model.done = true
			return model, tea.Quit
		case "y":
			model.decision = DecisionYes
			model.done = true
			return model, tea.Quit
		case "r":
			model.decision = DecisionRedo
			model.done = true
			return model, tea.Quit
		case "enter":
			if item, ok := model.list.SelectedItem().(choiceItem); ok {
				model.decision = item.decision
			}
			model.done = true
			return model, tea.Quit
		}
	}
	var cmd tea.Cmd
	model.list, cmd = model.list.Update(msg)
	return model, cmd
}

func (model choiceModel) View() string {
	if model.done {
		return ""
	}
	return fmt.Sprintf("\n%s\n\n%s", messageStyle.Render(model.message), model.list.View())
}

// ListPrompter shows a Yes / No / Redo list on the terminal.
type ListPrompter struct {
	Input  io.Reader
	Output io.Writer
}

// Confirm runs the list until a choice is made. Cancelling ctx declines.
func (prompter ListPrompter) Confirm(ctx context.Context, message string) (Decision, error) {
	options := []tea.ProgramOption{tea.WithContext(ctx)}
	if prompter.Input != nil {
		options = append(options, tea.WithInput(prompter.Input))
	}
	if prompter.Output != nil {
		options = append(options, tea.WithOutput(prompter.Output))
	}
	finalModel, runError := tea.NewProgram(newChoiceModel(message), options...).Run()
	if runError != nil {
		if ctx.Err() != nil {
			return DecisionNo, ctx.Err()
		}
		return DecisionNo, fmt.Errorf(runProgramErrorFormat, runError)
	}
	if final, ok := finalModel.(choiceModel); ok {
		return final.decision, nil
	}
	return DecisionNo, nil
}
