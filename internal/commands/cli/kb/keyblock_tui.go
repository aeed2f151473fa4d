package kb

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andrei-cloud/go_paykit/pkg/tr31"
)

const (
	fieldTypeRadio = iota
	fieldTypeNumeric
)

type option struct {
	value       string
	description string
}

type fieldConfig struct {
	name         string
	description  string
	fieldType    int
	options      []option // For radio fields.
	selected     int      // For radio fields.
	numericValue string   // For numeric fields.
	minValue     int      // For numeric fields.
	maxValue     int      // For numeric fields.
	digits       int      // For numeric fields (zero-padding).
}

type headerModel struct {
	currentField int
	fields       []fieldConfig
	done         bool
	cancelled    bool
}

// radioOptions builds radio options from a code table and its description
// function, so the TUI always offers exactly what the header codec accepts.
func radioOptions(codes []string, meaning func(string) string) []option {
	opts := make([]option, 0, len(codes))
	for _, code := range codes {
		opts = append(opts, option{value: code, description: meaning(code)})
	}

	return opts
}

// newHeaderModel creates a new TUI model for configuring key block headers.
func newHeaderModel() headerModel {
	usageOpts := radioOptions(tr31.KeyUsages(), usageMeaning)
	fields := []fieldConfig{
		{
			name:        "KeyUsage",
			description: "Key Usage",
			fieldType:   fieldTypeRadio,
			options:     usageOpts,
			selected: slices.IndexFunc(usageOpts, func(o option) bool {
				return o.value == "K0"
			}),
		},
		{
			name:        "Algorithm",
			description: "Cryptographic Algorithm",
			fieldType:   fieldTypeRadio,
			options: radioOptions(tr31.Algorithms(), func(s string) string {
				return algorithmMeaning(s[0])
			}),
			selected: 0, // Default to AES.
		},
		{
			name:        "ModeOfUse",
			description: "Mode of Use",
			fieldType:   fieldTypeRadio,
			options: radioOptions(tr31.ModesOfUse(), func(s string) string {
				return modeOfUseMeaning(s[0])
			}),
			selected: 5, // Default to no restrictions.
		},
		{
			name:         "KeyVersionNum",
			description:  "Key Version Number (00 disables versioning)",
			fieldType:    fieldTypeNumeric,
			numericValue: "00",
			minValue:     0,
			maxValue:     99,
			digits:       2,
		},
		{
			name:        "Exportability",
			description: "Key Exportability",
			fieldType:   fieldTypeRadio,
			options: radioOptions(tr31.Exportabilities(), func(s string) string {
				return exportabilityMeaning(s[0])
			}),
			selected: 1, // Default to non-exportable.
		},
	}

	return headerModel{
		currentField: 0,
		fields:       fields,
	}
}

// Init initializes the model.
func (m headerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m headerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		currentField := &m.fields[m.currentField]

		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true

			return m, tea.Quit
		case "enter":
			if m.currentField >= len(m.fields)-1 {
				m.done = true

				return m, tea.Quit
			}
			m.currentField++
		case "tab":
			// Move to next field.
			if m.currentField < len(m.fields)-1 {
				m.currentField++
			}
		case "shift+tab":
			// Move to previous field.
			if m.currentField > 0 {
				m.currentField--
			}
		case "up", "k":
			if currentField.fieldType == fieldTypeRadio {
				if currentField.selected > 0 {
					currentField.selected--
				}
			} else if currentField.fieldType == fieldTypeNumeric {
				m.incrementNumericValue(1)
			}
		case "down", "j":
			if currentField.fieldType == fieldTypeRadio {
				maxIdx := len(currentField.options) - 1
				if currentField.selected < maxIdx {
					currentField.selected++
				}
			} else if currentField.fieldType == fieldTypeNumeric {
				m.decrementNumericValue(1)
			}
		case "backspace":
			if currentField.fieldType == fieldTypeNumeric {
				m.handleBackspace()
			}
		default:
			// Handle numeric input for numeric fields.
			if currentField.fieldType == fieldTypeNumeric && len(msg.String()) == 1 {
				if char := msg.String()[0]; char >= '0' && char <= '9' {
					m.handleNumericInput(char)
				}
			}
		}
	}

	return m, nil
}

// incrementNumericValue increases the numeric value by the specified amount.
func (m *headerModel) incrementNumericValue(amount int) {
	currentField := &m.fields[m.currentField]
	if currentField.fieldType != fieldTypeNumeric {
		return
	}

	currentValue := m.parseNumericValue(currentField.numericValue)
	newValue := currentValue + amount
	if newValue <= currentField.maxValue {
		currentField.numericValue = m.formatNumericValue(newValue, currentField.digits)
	}
}

// decrementNumericValue decreases the numeric value by the specified amount.
func (m *headerModel) decrementNumericValue(amount int) {
	currentField := &m.fields[m.currentField]
	if currentField.fieldType != fieldTypeNumeric {
		return
	}

	currentValue := m.parseNumericValue(currentField.numericValue)
	newValue := currentValue - amount
	if newValue >= currentField.minValue {
		currentField.numericValue = m.formatNumericValue(newValue, currentField.digits)
	}
}

// handleNumericInput processes direct numeric character input.
func (m *headerModel) handleNumericInput(char byte) {
	currentField := &m.fields[m.currentField]
	if currentField.fieldType != fieldTypeNumeric {
		return
	}

	// Remove leading zeros and append new digit.
	currentValue := strings.TrimLeft(currentField.numericValue, "0")
	if currentValue == "" {
		currentValue = "0"
	}

	newValueStr := currentValue + string(char)
	newValue := m.parseNumericValue(newValueStr)

	if newValue >= currentField.minValue && newValue <= currentField.maxValue {
		currentField.numericValue = m.formatNumericValue(newValue, currentField.digits)
	}
}

// handleBackspace removes the last digit from the numeric input.
func (m *headerModel) handleBackspace() {
	currentField := &m.fields[m.currentField]
	if currentField.fieldType != fieldTypeNumeric {
		return
	}

	if len(currentField.numericValue) > 0 {
		// Remove last character and reformat.
		valueStr := strings.TrimLeft(currentField.numericValue, "0")
		if len(valueStr) <= 1 {
			currentField.numericValue = m.formatNumericValue(0, currentField.digits)
		} else {
			valueStr = valueStr[:len(valueStr)-1]
			newValue := m.parseNumericValue(valueStr)
			currentField.numericValue = m.formatNumericValue(newValue, currentField.digits)
		}
	}
}

// parseNumericValue converts a string to an integer.
func (m *headerModel) parseNumericValue(value string) int {
	if value == "" {
		return 0
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}

	return parsed
}

// formatNumericValue formats an integer with leading zeros.
func (m *headerModel) formatNumericValue(value, digits int) string {
	return fmt.Sprintf("%0*d", digits, value)
}

// fieldValue returns the configured value of the named field.
func (m *headerModel) fieldValue(name string) string {
	for _, field := range m.fields {
		if field.name != name {
			continue
		}
		if field.fieldType == fieldTypeNumeric {
			return field.numericValue
		}

		return field.options[field.selected].value
	}

	return ""
}

// buildHeader constructs a validated header from the current selections.
func (m *headerModel) buildHeader() (*tr31.Header, error) {
	return tr31.NewHeader(
		m.fieldValue("KeyUsage"),
		m.fieldValue("Algorithm"),
		m.fieldValue("ModeOfUse"),
		m.fieldValue("KeyVersionNum"),
		m.fieldValue("Exportability"),
	)
}

// View renders the current state of the model.
func (m headerModel) View() string {
	if m.done {
		return "Key block header configured successfully!\n"
	}

	if m.cancelled {
		return "Operation cancelled.\n"
	}

	s := "Configure Key Block Header (version D)\n"
	s += strings.Repeat("=", 50) + "\n\n"

	// Show progress.
	s += fmt.Sprintf("Field %d of %d\n\n", m.currentField+1, len(m.fields))

	// Show current field.
	currentField := m.fields[m.currentField]
	s += fmt.Sprintf("▶ %s: %s\n\n", currentField.name, currentField.description)

	if currentField.fieldType == fieldTypeRadio {
		// Show radio options for current field only.
		for j, opt := range currentField.options {
			selector := "  ○ "
			if j == currentField.selected {
				selector = "  ● "
			}
			s += fmt.Sprintf("%s%s - %s\n", selector, opt.value, opt.description)
		}
	} else if currentField.fieldType == fieldTypeNumeric {
		// Show numeric input.
		s += fmt.Sprintf("  [ %s ] (Range: %02d-%02d)\n",
			currentField.numericValue, currentField.minValue, currentField.maxValue)
		s += "  Type digits, use ↑/↓ to increment/decrement, Backspace to delete\n"
	}

	s += "\n"

	// Show summary of completed fields.
	if m.currentField > 0 {
		s += "Completed fields:\n"
		for i := 0; i < m.currentField; i++ {
			field := m.fields[i]
			if field.fieldType == fieldTypeRadio {
				selectedOption := field.options[field.selected]
				s += fmt.Sprintf("  %s: %s\n", field.name, selectedOption.value)
			} else if field.fieldType == fieldTypeNumeric {
				s += fmt.Sprintf("  %s: %s\n", field.name, field.numericValue)
			}
		}
		s += "\n"
	}

	s += "Navigation:\n"
	s += "  ↑/↓ or j/k: Select option or increment/decrement value\n"
	s += "  Tab/Shift+Tab: Next/Previous field\n"
	s += "  Enter: Confirm and continue\n"
	if currentField.fieldType == fieldTypeNumeric {
		s += "  0-9: Direct numeric input\n"
		s += "  Backspace: Delete digit\n"
	}
	s += "  q or Ctrl+C: Quit\n"

	return s
}

// runHeaderTUI starts the interactive TUI for key block header configuration.
func runHeaderTUI() (*tr31.Header, bool, error) {
	model := newHeaderModel()

	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return nil, false, err
	}

	m := finalModel.(headerModel)
	if m.cancelled {
		return nil, false, nil
	}

	header, err := m.buildHeader()
	if err != nil {
		return nil, false, err
	}

	return header, true, nil
}
