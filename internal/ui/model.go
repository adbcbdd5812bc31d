package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/canteiro/internal/config"
	"github.com/nconklindev/canteiro/internal/converter"
	"github.com/nconklindev/canteiro/internal/schema"
	"github.com/nconklindev/canteiro/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateMappingReview
	stateProcessing
	stateComplete
	stateError
)

// fieldMapping is the review line for one canonical field.
type fieldMapping struct {
	Field  string
	Type   schema.FieldType
	Header string
	Found  bool
}

type Model struct {
	state        state
	cfg          config.Config
	filepicker   filepicker.Model
	selectedFile string
	fileData     *types.FileData
	mappings     []fieldMapping
	resolveErr   error
	withDate     bool
	result       *types.ConversionResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type fileLoadedMsg struct {
	data     *types.FileData
	mappings []fieldMapping
	err      error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(cfg config.Config) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx", ".xlsm", ".csv"}
	fp.CurrentDirectory = cfg.Root
	if fp.CurrentDirectory == "" || fp.CurrentDirectory == "." {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color(accent))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color(highlight))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color(highlight))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color(muted))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color(muted))

	prog := progress.New(progress.WithGradient(accent, highlight))

	return Model{
		state:      stateFilePicker,
		cfg:        cfg,
		filepicker: fp,
		withDate:   cfg.WithDate,
		progress:   prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle and help text
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case stateMappingReview:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "d":
				m.withDate = !m.withDate
				return m, m.loadFile(m.selectedFile)
			case "esc":
				m.state = stateFilePicker
				return m, nil
			case "enter":
				if m.resolveErr == nil {
					m.state = stateProcessing
					return m.convertFile()
				}
			}

		case stateComplete, stateError:
			return m, tea.Quit
		}

	case fileLoadedMsg:
		m.fileData = msg.data
		m.mappings = msg.mappings
		m.resolveErr = msg.err

		var missing *schema.MissingColumnError
		if msg.err != nil && !errors.As(msg.err, &missing) && !errors.Is(msg.err, schema.ErrMissingHeaders) {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}

		m.state = stateMappingReview
		return m, nil

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) loadFile(path string) tea.Cmd {
	cfg := m.cfg
	cfg.WithDate = m.withDate
	return func() tea.Msg {
		s, err := cfg.Schema()
		if err != nil {
			return fileLoadedMsg{err: err}
		}
		data, _, err := converter.Resolve(path, s)
		if data == nil {
			return fileLoadedMsg{err: err}
		}
		return fileLoadedMsg{data: data, mappings: mapFields(s, data.Headers), err: err}
	}
}

// mapFields resolves each field on its own so the review can flag every
// missing column, not just the first.
func mapFields(s *schema.Schema, headers []string) []fieldMapping {
	fields := s.Fields()
	out := make([]fieldMapping, 0, len(fields))
	for _, f := range fields {
		fm := fieldMapping{Field: f.Name, Type: f.Type}
		if idx, err := schema.Resolve(schema.New(f), headers); err == nil {
			fm.Header = idx.Headers()[f.Name]
			fm.Found = true
		}
		out = append(out, fm)
	}
	return out
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	cfg := m.cfg
	cfg.WithDate = m.withDate

	cmd := tea.Batch(
		func() tea.Msg {
			progressChan := m.progressChan
			resultChan := m.resultChan
			selectedFile := m.selectedFile

			go func() {
				var result *types.ConversionResult
				opts, err := conversionOptions(cfg, selectedFile)
				if err == nil {
					result, err = converter.Convert(opts, progressChan)
				}

				resultChan <- conversionResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)

	return m, cmd
}

// conversionOptions converts the picked file rather than searching the
// configured candidates.
func conversionOptions(cfg config.Config, selectedFile string) (converter.Options, error) {
	cfg.Input = selectedFile
	return cfg.Options()
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateMappingReview:
		return m.viewMappingReview()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🏗  Canteiro - Planilha para dados.json"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select the progress spreadsheet (XLSX or CSV)"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewMappingReview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🏗  Column Mapping"))
	s.WriteString("\n")
	sheet := ""
	if m.fileData != nil {
		sheet = m.fileData.SheetName
	}
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s • Sheet: %s", filepath.Base(m.selectedFile), sheet)))
	s.WriteString("\n\n")

	for _, fm := range m.mappings {
		if fm.Found {
			s.WriteString(CheckedStyle.Render(fmt.Sprintf("✓ %-20s %-6s ← %s", fm.Field, fm.Type.String(), fm.Header)))
		} else {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("✗ %-20s %-6s (not found)", fm.Field, fm.Type.String())))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.resolveErr != nil {
		s.WriteString(ErrorStyle.Render(m.resolveErr.Error()))
		s.WriteString("\n\n")
	} else if m.fileData != nil {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ All columns found • %d data rows", len(m.fileData.Rows))))
		s.WriteString("\n\n")
	}

	dateStatus := "[ ]"
	if m.withDate {
		dateStatus = "[x]"
	}
	s.WriteString(fmt.Sprintf("Include Data field: %s\n", dateStatus))
	s.WriteString(fmt.Sprintf("Output: %s\n", m.cfg.Output))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("d: toggle Data field • enter: convert • esc: back • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🏗  Processing..."))
	s.WriteString("\n\n")
	s.WriteString("Normalizing rows...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	s.WriteString("\n\n")

	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:  %s\n", truncatePath(m.result.InputFile, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", truncatePath(m.result.OutputFile, maxPathLen))))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Records written: %d\n", m.result.RecordsWritten))
	s.WriteString(fmt.Sprintf("Blank rows skipped: %d\n", m.result.SkippedRows))
	if n := m.result.EmptyDates(); n > 0 {
		s.WriteString(WarningStyle.Render(fmt.Sprintf("⚠ %d rows have an empty Data field", n)))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func truncatePath(p string, max int) string {
	if len(p) > max {
		return "..." + p[len(p)-max+3:]
	}
	return p
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
