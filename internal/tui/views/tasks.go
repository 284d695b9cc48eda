package views

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

const taskFormHeight = 9

// TasksView lists tasks and hosts the new-task form.
type TasksView struct {
	*tview.Flex
	theme *ui.Theme
	l     *i18n.Localizer
	loc   *time.Location
	table *tview.Table
	form  *tview.Form
	title *tview.InputField
	desc  *tview.InputField
	tasks []client.Task

	formOpen bool
	onCreate func(title, description string)
	onClose  func()
}

// NewTasksView creates the task list.
func NewTasksView(theme *ui.Theme, l *i18n.Localizer, loc *time.Location) *TasksView {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	tv := &TasksView{
		Flex:  tview.NewFlex().SetDirection(tview.FlexRow),
		theme: theme,
		l:     l,
		loc:   loc,
		table: table,
		form:  tview.NewForm(),
	}

	tv.title = tview.NewInputField().SetLabel(l.T(i18n.TaskTitle)).SetFieldWidth(40)
	tv.desc = tview.NewInputField().SetLabel(l.T(i18n.TaskDescription)).SetFieldWidth(40)
	tv.form.AddFormItem(tv.title).AddFormItem(tv.desc)
	tv.form.AddButton(l.T(i18n.ActionSave), func() {
		if tv.onCreate != nil {
			tv.onCreate(tv.title.GetText(), tv.desc.GetText())
		}
	})
	tv.form.AddButton(l.T(i18n.ActionCancel), tv.CloseForm)
	tv.form.SetBorder(true).SetTitle(" " + l.T(i18n.TasksNew) + " ")
	tv.form.SetBorderColor(theme.BorderFocusColor)
	tv.form.SetBackgroundColor(theme.BgColor)
	tv.form.SetFieldBackgroundColor(theme.BgColor)
	tv.form.SetFieldTextColor(theme.FgColor)
	tv.form.SetLabelColor(theme.MenuKeyColor)
	tv.form.SetCancelFunc(tv.CloseForm)

	tv.AddItem(table, 0, 1, true)
	tv.AddItem(tv.form, 0, 0, false)
	tv.render()
	return tv
}

// Name implements Component.
func (tv *TasksView) Name() string { return tv.l.T(i18n.TasksTitle) }

// Hints implements Component.
func (tv *TasksView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "n", Description: tv.l.T(i18n.TasksNew)},
		{Key: "s", Description: tv.l.T(i18n.TaskStart)},
		{Key: "c", Description: tv.l.T(i18n.TaskComplete)},
	}
}

// SetOnCreate sets the callback for the new-task form.
func (tv *TasksView) SetOnCreate(fn func(title, description string)) {
	tv.onCreate = fn
}

// SetOnClose is called when the form closes, so focus can return to the table.
func (tv *TasksView) SetOnClose(fn func()) {
	tv.onClose = fn
}

// OpenForm shows an empty new-task form.
func (tv *TasksView) OpenForm() *tview.Form {
	tv.title.SetText("")
	tv.desc.SetText("")
	tv.form.SetFocus(0)
	tv.ResizeItem(tv.form, taskFormHeight, 0)
	tv.formOpen = true
	return tv.form
}

// CloseForm hides the new-task form.
func (tv *TasksView) CloseForm() {
	tv.ResizeItem(tv.form, 0, 0)
	tv.formOpen = false
	if tv.onClose != nil {
		tv.onClose()
	}
}

// FormOpen reports whether the new-task form is showing.
func (tv *TasksView) FormOpen() bool {
	return tv.formOpen
}

// Table returns the task table (for focus management).
func (tv *TasksView) Table() *tview.Table {
	return tv.table
}

// Update refreshes the task list.
func (tv *TasksView) Update(tasks []client.Task) {
	tv.tasks = tasks
	tv.render()
}

func (tv *TasksView) render() {
	tv.table.Clear()
	headers := []string{" " + tv.l.T(i18n.TaskTitle), " " + tv.l.T(i18n.TaskDescription), " ", " ", " "}
	for col, h := range headers {
		tv.table.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(tv.theme.TableHeaderFg).
			SetBackgroundColor(tv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(min(col, 1)))
	}

	for i, t := range tv.tasks {
		row := i + 1
		tv.table.SetCell(row, 0, tview.NewTableCell(" "+oneLine(t.Title)).SetTextColor(tv.theme.FgColor))
		tv.table.SetCell(row, 1, tview.NewTableCell(" "+oneLine(t.Description)).SetExpansion(1).SetMaxWidth(40).SetTextColor(tv.theme.MutedColor))
		tv.table.SetCell(row, 2, tview.NewTableCell(" "+tv.l.TaskStatus(t.Status)).SetTextColor(tv.statusColor(t.Status)))
		tv.table.SetCell(row, 3, tview.NewTableCell(" "+clockOf(t.StartTime, tv.loc, tv.l)).SetTextColor(tv.theme.FgColor))
		tv.table.SetCell(row, 4, tview.NewTableCell(" "+formatDuration(t.Duration)).SetAlign(tview.AlignRight).SetTextColor(tv.theme.FgColor))
	}
	if len(tv.tasks) == 0 {
		tv.table.SetCell(1, 0, tview.NewTableCell(" "+tv.l.T(i18n.TasksEmpty)).SetSelectable(false).SetTextColor(tv.theme.MutedColor))
	}
	tv.table.SetTitle(fmt.Sprintf(" %s (%d) ", tv.l.T(i18n.TasksTitle), len(tv.tasks)))
}

func (tv *TasksView) statusColor(status string) tcell.Color {
	switch status {
	case client.TaskInProgress:
		return tv.theme.FlashWarnColor
	case client.TaskCompleted:
		return tv.theme.OnlineColor
	default:
		return tv.theme.FgColor
	}
}

// SelectedTask returns the task under the cursor.
func (tv *TasksView) SelectedTask() (client.Task, bool) {
	row, _ := tv.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(tv.tasks) {
		return client.Task{}, false
	}
	return tv.tasks[idx], true
}
