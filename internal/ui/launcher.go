package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/omnitool/internal/app"
	"github.com/ytget/omnitool/internal/config"
	"github.com/ytget/omnitool/internal/logging"
	"github.com/ytget/omnitool/internal/tool"
	"github.com/ytget/omnitool/internal/version"
)

// Launcher is the main window: a searchable, filterable grid of tool cards.
type Launcher struct {
	window   fyne.Window
	manager  *app.Manager
	settings *config.Settings
	logger   *zap.Logger

	searchEntry   *widget.Entry
	categoryRadio *widget.RadioGroup
	totalLabel    *widget.Label
	resultsLabel  *widget.Label
	grid          *fyne.Container

	// radio option -> category, "" means all
	categoryByOption map[string]string
	currentCategory  string
	currentSearch    string
	visible          []tool.Metadata
}

// NewLauncher builds the launcher UI into window
func NewLauncher(window fyne.Window, manager *app.Manager, settings *config.Settings, logger *zap.Logger) *Launcher {
	l := &Launcher{
		window:           window,
		manager:          manager,
		settings:         settings,
		logger:           logging.OrNop(logger),
		categoryByOption: make(map[string]string),
	}
	window.SetTitle(AppName)
	l.setupUI()
	l.refresh()
	return l
}

// setupUI creates and arranges all UI components
func (l *Launcher) setupUI() {
	title := widget.NewLabelWithStyle(IconApp+" "+AppName, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabel(AppTagline)
	subtitle.Importance = widget.LowImportance

	l.searchEntry = widget.NewEntry()
	l.searchEntry.SetPlaceHolder(SearchPlaceholder)
	l.searchEntry.OnChanged = l.onSearch
	header := container.NewBorder(nil, nil, container.NewVBox(title, subtitle), nil,
		container.NewPadded(l.searchEntry))

	options := []string{OptionAllTools}
	l.categoryByOption[OptionAllTools] = ""
	for _, cc := range l.manager.CategoriesWithCounts() {
		option := fmt.Sprintf("%s (%d)", cc.Category, cc.Count)
		options = append(options, option)
		l.categoryByOption[option] = cc.Category
	}
	l.categoryRadio = widget.NewRadioGroup(options, l.onCategory)
	l.categoryRadio.Required = true
	l.categoryRadio.SetSelected(OptionAllTools)

	l.totalLabel = widget.NewLabelWithStyle(fmt.Sprintf(TotalToolsFormat, len(l.manager.ListAll())),
		fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	sidebar := container.NewBorder(
		widget.NewLabelWithStyle(CategoriesTitle, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		l.totalLabel, nil, nil,
		container.NewVScroll(l.categoryRadio),
	)

	l.resultsLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	l.grid = container.NewGridWithColumns(GridColumns)
	content := container.NewBorder(l.resultsLabel, nil, nil, nil, container.NewVScroll(l.grid))

	footer := widget.NewLabel(fmt.Sprintf(FooterFormat, version.Version))
	footer.Importance = widget.LowImportance

	split := container.NewHSplit(sidebar, content)
	split.Offset = SidebarOffset

	l.window.SetContent(container.NewBorder(header, footer, nil, nil, split))
}

// onSearch filters by the typed query
func (l *Launcher) onSearch(text string) {
	l.currentSearch = strings.TrimSpace(text)
	l.refresh()
}

// onCategory switches the category filter and clears the search
func (l *Launcher) onCategory(option string) {
	l.currentCategory = l.categoryByOption[option]
	if l.searchEntry != nil && l.searchEntry.Text != "" {
		// SetText triggers onSearch, which refreshes
		l.searchEntry.SetText("")
		return
	}
	l.currentSearch = ""
	l.refresh()
}

// refresh recomputes the visible tools and rebuilds the card grid
func (l *Launcher) refresh() {
	if l.grid == nil {
		return
	}

	var tools []tool.Metadata
	switch {
	case l.currentSearch != "":
		tools = l.manager.Search(l.currentSearch)
		l.resultsLabel.SetText(fmt.Sprintf("🔍 Search results for '%s' (%d found)", l.currentSearch, len(tools)))
	case l.currentCategory != "":
		tools = l.manager.ByCategory(l.currentCategory)
		l.resultsLabel.SetText(fmt.Sprintf("📁 %s (%d tools)", l.currentCategory, len(tools)))
	default:
		tools = l.manager.ListAll()
		l.resultsLabel.SetText(fmt.Sprintf("🛠️ All Tools (%d available)", len(tools)))
	}
	l.visible = tools

	l.grid.RemoveAll()
	if len(tools) == 0 {
		l.grid.Add(widget.NewLabel(NoResultsText))
	}
	for _, meta := range tools {
		l.grid.Add(l.newToolCard(meta))
	}
	l.grid.Refresh()
}

// newToolCard renders one tool
func (l *Launcher) newToolCard(meta tool.Metadata) fyne.CanvasObject {
	desc := widget.NewLabel(meta.Description)
	desc.Wrapping = fyne.TextWrapWord

	details := widget.NewLabel(fmt.Sprintf("v%s · %s", meta.Version, meta.Author))
	details.Importance = widget.LowImportance

	id := meta.ID
	open := widget.NewButton(LabelOpenTool, func() { l.LaunchTool(id) })
	open.Importance = widget.HighImportance

	return widget.NewCard(strings.TrimSpace(meta.Icon+" "+meta.Name), meta.Category,
		container.NewBorder(nil, container.NewVBox(details, open), nil, nil, desc))
}

// LaunchTool opens the tool's window, reporting failures in a dialog
func (l *Launcher) LaunchTool(id string) {
	_, found, err := l.manager.Launch(id)
	switch {
	case !found:
		dialog.ShowError(fmt.Errorf("tool %q is not registered", id), l.window)
	case err != nil:
		l.logger.Error("launch failed", zap.String("tool", id), zap.Error(err))
		dialog.ShowError(fmt.Errorf("failed to launch tool:\n%w", err), l.window)
	default:
		if l.settings != nil {
			l.settings.SetLastTool(id)
		}
	}
}

// Visible returns the tools currently shown
func (l *Launcher) Visible() []tool.Metadata {
	return l.visible
}
