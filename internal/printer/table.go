package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/farmer/internal/model"
)

// TablePrinter prints farm information as human readable tables.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter returns a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

func (t *TablePrinter) PrintRunReports(reports []model.RunReport) error {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(t.writer)
		}
		if err := t.printRunReport(r); err != nil {
			return err
		}
	}
	return nil
}

func (t *TablePrinter) printRunReport(r model.RunReport) error {
	fmt.Fprintf(t.writer, "Account: %s (%s)\n", r.AccountName, r.AccountID)
	fmt.Fprintf(t.writer, "Run:     %s\n", r.ID)
	fmt.Fprintf(t.writer, "Started: %s\n", FormatTimestamp(r.StartedAt))
	if r.Initial != nil && r.Final != nil {
		fmt.Fprintf(t.writer, "Drops:   %d -> %d (+%d gained)\n", r.Initial.TotalEnergy, r.Final.TotalEnergy, r.TotalReward())
		fmt.Fprintf(t.writer, "Tree:    %d/%d (%d remaining)\n", r.Final.TreeEnergy, r.Final.TreeTotalEnergy, r.Final.Remaining())
	}
	if r.Aborted {
		fmt.Fprintf(t.writer, "Aborted: %s\n", r.AbortReason)
	}
	fmt.Fprintln(t.writer)

	w := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSTATUS\tREWARD\tDURATION\tMESSAGE")
	for _, s := range r.Steps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.Step,
			s.Outcome.Status,
			formatReward(s.Outcome.Reward),
			FormatDuration(s.Duration),
			s.Outcome.Message,
		)
	}
	return w.Flush()
}

func (t *TablePrinter) PrintStatus(statuses []model.AccountStatus) error {
	if len(statuses) == 0 {
		fmt.Fprintln(t.writer, "No accounts found")
		return nil
	}

	w := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tPRIZE\tDROPS\tTREE\tREMAINING\tDOUBLE\tSIGN\tERROR")
	for _, s := range statuses {
		prize, drops, tree, remaining := "-", "-", "-", "-"
		if s.Snapshot != nil {
			p := s.Snapshot.Progress
			prize = p.PrizeName
			drops = fmt.Sprintf("%d", p.TotalEnergy)
			tree = fmt.Sprintf("%d/%d", p.TreeEnergy, p.TreeTotalEnergy)
			remaining = fmt.Sprintf("%d", p.Remaining())
		}
		double, sign := "-", "-"
		if s.Cards != nil {
			double = fmt.Sprintf("%d", s.Cards.DoubleCard)
			sign = fmt.Sprintf("%d", s.Cards.SignCard)
		}
		errMsg := s.Error
		if errMsg == "" {
			errMsg = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", s.AccountName, prize, drops, tree, remaining, double, sign, errMsg)
	}
	return w.Flush()
}

func (t *TablePrinter) PrintHistory(reports []model.RunReport) error {
	if len(reports) == 0 {
		fmt.Fprintln(t.writer, "No runs found")
		return nil
	}

	w := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACCOUNT\tSTARTED\tRESULT\tDROPS\tOK\tSKIPPED\tFAILED")
	for _, r := range reports {
		result := "completed"
		if r.Aborted {
			result = "aborted"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID,
			r.AccountName,
			TimeAgo(r.StartedAt),
			result,
			formatReward(r.TotalReward()),
			r.Count(model.OutcomeStatusSuccess),
			r.Count(model.OutcomeStatusSkipped),
			r.Count(model.OutcomeStatusFailed),
		)
	}
	return w.Flush()
}

func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

func formatReward(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("+%d", n)
}
