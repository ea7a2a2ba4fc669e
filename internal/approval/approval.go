// Package approval defines the human-approval suspension point the
// filesystem committer mediates for ApprovalRequired Actions (§4.F). The
// approval UI itself is out of scope (§1); this package fixes the
// callback's shape and ships one default CLI implementation.
package approval

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Smaug123/bork/internal/model"
)

// Callback is presented one Action at a time with its full proposed
// contents (or delete intent) and returns whether a human approved it.
// Approval is never cached across iterations (§4.E).
type Callback func(action model.Action) bool

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	bodyStyle   = lipgloss.NewStyle().Faint(true)
)

// NewCLI builds a Callback that prompts on out, reading a y/n answer
// from in. It is the default approval UI: synchronous, one prompt per
// Action, as §1 specifies for the out-of-scope "human approval UI"
// collaborator's interface.
func NewCLI(in io.Reader, out io.Writer) Callback {
	reader := bufio.NewReader(in)
	return func(action model.Action) bool {
		fmt.Fprintln(out, promptStyle.Render("approval required"))
		fmt.Fprintln(out, pathStyle.Render(action.Path.String()))
		if action.Kind == model.ActionDelete {
			fmt.Fprintln(out, bodyStyle.Render("(delete)"))
		} else {
			fmt.Fprintln(out, bodyStyle.Render(string(action.Contents)))
		}
		fmt.Fprint(out, "apply this edit? [y/N] ")

		line, _ := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
