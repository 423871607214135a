package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/wdk/amazon-connect-foundation/pkg/connectapi"
)

var statusColours = map[connectapi.Status]*color.Color{
	connectapi.StatusOK:      color.New(color.FgHiGreen),
	connectapi.StatusMissing: color.New(color.FgHiYellow, color.Bold),
	connectapi.StatusDrift:   color.New(color.FgHiYellow),
	connectapi.StatusError:   color.New(color.FgHiRed, color.Bold),
}

func printActions(w io.Writer, actions []connectapi.Action) {
	for _, a := range actions {
		op := fmt.Sprintf("%-9s", a.Operation)
		if c, ok := operationColours[a.Operation]; ok {
			op = c.Sprint(op)
		}
		fmt.Fprintf(w, "%s %s", op, a.Resource)
		if a.Detail != "" {
			fmt.Fprintf(w, " (%s)", a.Detail)
		}
		fmt.Fprintln(w)
	}
}

func printReport(w io.Writer, report *connectapi.Report) {
	for _, f := range report.Findings {
		status := fmt.Sprintf("%-7s", f.Status)
		if c, ok := statusColours[f.Status]; ok {
			status = c.Sprint(status)
		}
		fmt.Fprintf(w, "%s %s", status, f.Resource)
		if f.Detail != "" {
			fmt.Fprintf(w, " %s", color.New(color.Faint).Sprint(f.Detail))
		}
		fmt.Fprintln(w)
	}
}
