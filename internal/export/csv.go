package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/abhisek/lexiscreen/internal/metrics"
)

// disclaimer is the fixed interpretive block appended to every CSV report.
var disclaimer = []string{
	"IMPORTANT",
	"This report is a screening aid, not a diagnosis.",
	"Results reflect performance in a single sitting and are affected by fatigue, attention, and familiarity with the device.",
	"Elevated confusion counts or reaction-time variability suggest a follow-up with a qualified specialist.",
	"No score in this report has a validated clinical threshold.",
}

// WriteCSV renders the multi-section CSV report: session header, per-task
// summary table, repeated confusions, attention stability, per-trial
// detail log, and the interpretive disclaimer.
func WriteCSV(w io.Writer, s metrics.SessionData) error {
	cw := csv.NewWriter(w)

	write := func(record ...string) {
		// csv.Writer defers errors to Flush; checked once at the end.
		_ = cw.Write(record)
	}
	blank := func() { write("") }

	write("LEXISCREEN SESSION REPORT")
	write("Session", s.ID)
	write("Participant", s.Participant)
	write("Date", s.StartedAt.Format(time.RFC3339))
	blank()

	write("TASK SUMMARY")
	write("Task", "Type", "Variant", "Trials", "Correct", "Accuracy %", "Mean RT ms", "Median RT ms", "StdDev RT ms", "Timeouts")
	for i, task := range s.Tasks {
		sum := task.Summary
		write(
			strconv.Itoa(i+1),
			string(task.Type),
			task.Variant,
			strconv.Itoa(sum.TotalTrials),
			strconv.Itoa(sum.CorrectCount),
			fmt.Sprintf("%.1f", sum.Accuracy),
			num(sum.MeanRT),
			num(sum.MedianRT),
			num(sum.StdDevRT),
			strconv.Itoa(sum.Timeouts),
		)
	}
	blank()

	write("REPEATED CONFUSIONS")
	repeated := s.RepeatedConfusions()
	if len(repeated) == 0 {
		write("none detected")
	} else {
		write("Pair", "Count")
		for _, c := range repeated {
			write(c.Key, strconv.Itoa(c.Count))
		}
	}
	blank()

	write("ATTENTION STABILITY")
	write("RT standard deviation ms", num(s.Stability.RTStdDev))
	write("Coefficient of variation %", num(s.Stability.CoefficientOfVariation))
	blank()

	write("TRIAL DETAIL")
	write("Task", "Trial", "Target", "Selected", "Correct", "RT ms", "Timeout")
	for i, task := range s.Tasks {
		for _, tr := range task.Trials {
			selected := tr.Selected
			rt := "N/A"
			if tr.Timeout {
				selected = "TIMEOUT"
			} else if tr.ReactionMs != nil {
				rt = fmt.Sprintf("%.0f", *tr.ReactionMs)
			}
			write(
				strconv.Itoa(i+1),
				strconv.Itoa(tr.Index+1),
				tr.Target,
				selected,
				strconv.FormatBool(tr.Correct),
				rt,
				strconv.FormatBool(tr.Timeout),
			)
		}
	}
	blank()

	for _, line := range disclaimer {
		write(line)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}

// num formats a nullable statistic, using "N/A" for null.
func num(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}
