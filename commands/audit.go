package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/penwyp/go-hours-report/internal/analyzer"
	"github.com/penwyp/go-hours-report/internal/core/category"
	"github.com/penwyp/go-hours-report/internal/core/model"
	"github.com/penwyp/go-hours-report/internal/util"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List task descriptions that match no category",
	Long: `Lists every distinct task description that shares no word with any
category label and is therefore counted as "other", with how often it occurs
and the hours it carries. Use it to tune the taxonomy.`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

// unknownTask is a task description counted as "other".
type unknownTask struct {
	Task    string
	Entries int
	Hours   float64
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	a := analyzer.New(analyzerConfig(cfg, "table", false))
	records, err := a.Load(cmd.Context())
	if err != nil {
		return err
	}

	tasks := auditTasks(records, cfg.Taxonomy())
	util.LogInfof("Audit: %d of %d records match no category", countEntries(tasks), len(records))
	return printAudit(cmd.OutOrStdout(), tasks, len(records))
}

// auditTasks groups uncategorized records by task, most hours first.
func auditTasks(records []model.Record, taxonomy model.Taxonomy) []unknownTask {
	byTask := make(map[string]*unknownTask)
	var order []string
	for _, r := range category.Unknown(records, taxonomy) {
		t, ok := byTask[r.Task]
		if !ok {
			t = &unknownTask{Task: r.Task}
			byTask[r.Task] = t
			order = append(order, r.Task)
		}
		t.Entries++
		t.Hours += r.Hours
	}

	tasks := make([]unknownTask, 0, len(order))
	for _, task := range order {
		tasks = append(tasks, *byTask[task])
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Hours > tasks[j].Hours
	})
	return tasks
}

func countEntries(tasks []unknownTask) int {
	n := 0
	for _, t := range tasks {
		n += t.Entries
	}
	return n
}

func printAudit(w io.Writer, tasks []unknownTask, total int) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintf(w, "All %d records match a category.\n", total)
		return err
	}

	width := len("Task")
	for _, t := range tasks {
		if tw := util.GetDisplayWidth(t.Task); tw > width {
			width = tw
		}
	}

	if _, err := fmt.Fprintf(w, "%s  %7s  %8s\n", util.PadString("Task", width, true), "Entries", "Hours"); err != nil {
		return err
	}
	for _, t := range tasks {
		if _, err := fmt.Fprintf(w, "%s  %7d  %8s\n", util.PadString(t.Task, width, true), t.Entries, util.FormatHours(t.Hours)); err != nil {
			return err
		}
	}
	entries := countEntries(tasks)
	_, err := fmt.Fprintf(w, "\n%d of %d records (%s) fall back to %q.\n",
		entries, total, util.FormatPercent(float64(entries)/float64(total)*100), model.FallbackCategory)
	return err
}
