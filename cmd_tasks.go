package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/autoflow/pkg/model"
	"github.com/harrisonrobin/autoflow/pkg/orgmode"
	"github.com/harrisonrobin/autoflow/pkg/taskwarrior"
)

var (
	addDue      string
	addPriority string
	twFilter    []string
	orgTag      string
	tplItems    []string
	tplDesc     string
)

var addCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerID == "" {
			return errors.New("--owner is required")
		}
		rt, err := openRuntime(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		t := model.Task{
			Title:    args[0],
			Status:   model.StatusTodo,
			Priority: model.ParsePriority(addPriority),
			DueAt:    model.ParseDueTime(addDue, cfg.Location()),
			OwnerID:  ownerID,
		}
		if t.DueAt != nil && !t.DueAt.Valid() {
			return fmt.Errorf("could not parse due date %q", addDue)
		}
		created, err := rt.store.CreateTask(cmd.Context(), t)
		if err != nil {
			return err
		}
		fmt.Println(created.ID)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tasks from Taskwarrior or Org-mode",
}

var importTaskwarriorCmd = &cobra.Command{
	Use:   "taskwarrior",
	Short: "Import `task export` output (or JSON on stdin with -)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerID == "" {
			return errors.New("--owner is required")
		}
		client := taskwarrior.NewClient()
		var twTasks []taskwarrior.Task
		var err error
		if len(args) == 1 && args[0] == "-" {
			twTasks, err = client.ParseTasks(os.Stdin)
		} else {
			twTasks, err = client.GetTasks(cmd.Context(), twFilter)
		}
		if err != nil {
			return err
		}
		return importTasks(cmd, taskwarrior.Convert(twTasks, ownerID))
	},
}

var importOrgCmd = &cobra.Command{
	Use:   "org FILE...",
	Short: "Import TODO headings from Org-mode files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerID == "" {
			return errors.New("--owner is required")
		}
		headings, err := orgmode.ParseFiles(args, ownerID, cfg.Location())
		if err != nil {
			return err
		}
		return importTasks(cmd, orgmode.Tasks(orgmode.FilterTag(headings, orgTag)))
	},
}

// hookCmd is a Taskwarrior on-add/on-modify hook: it echoes the final task
// back to Taskwarrior, then stores it and mirrors it to the calendar.
var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Taskwarrior hook entry point (reads task JSON on stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerID == "" {
			return errors.New("--owner is required")
		}
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		twTasks, err := taskwarrior.NewClient().ParseTasks(bytes.NewReader(raw))
		if err != nil {
			return err
		}
		if len(twTasks) == 0 {
			return nil
		}
		// Taskwarrior expects the final task on stdout. Echo it verbatim so
		// fields we do not model survive.
		lines := bytes.Split(bytes.TrimSpace(raw), []byte("\n"))
		if _, err := fmt.Fprintf(os.Stdout, "%s\n", bytes.TrimSpace(lines[len(lines)-1])); err != nil {
			return err
		}
		last := twTasks[len(twTasks)-1]

		rt, err := openRuntime(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer rt.Close()

		task, ok := last.ToModel(ownerID)
		if !ok {
			if rt.calendar != nil {
				return rt.calendar.DeleteTask(cmd.Context(), last.UUID)
			}
			return nil
		}
		if _, err := rt.service.ImportTasks(cmd.Context(), []model.Task{task}); err != nil {
			return err
		}
		if rt.calendar == nil {
			return nil
		}
		if task.Status.IsDone() || task.Status == model.StatusBlocked {
			return rt.calendar.DeleteTask(cmd.Context(), task.ID)
		}
		if _, ok := task.Due(); ok {
			_, err = rt.calendar.SyncTask(cmd.Context(), task, rt.service.Now())
		}
		return err
	},
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage checklist templates",
}

var templateAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a template from --item checklist entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		tpl, err := rt.store.CreateTemplate(cmd.Context(), model.Template{
			Name:        args[0],
			Description: tplDesc,
			Checklist:   tplItems,
			OwnerID:     ownerID,
		})
		if err != nil {
			return err
		}
		fmt.Println(tpl.ID)
		return nil
	},
}

var templateUseCmd = &cobra.Command{
	Use:   "use TEMPLATE_ID",
	Short: "Create a task from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer rt.Close()

		task, err := rt.service.InstantiateTemplate(cmd.Context(), args[0], ownerID)
		if err != nil {
			return err
		}
		fmt.Println(task.ID)
		return nil
	},
}

func importTasks(cmd *cobra.Command, tasks []model.Task) error {
	rt, err := openRuntime(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.service.ImportTasks(cmd.Context(), tasks)
	if err != nil {
		return err
	}
	fmt.Printf("%d imported, %d failed\n", res.Imported, res.Failed)
	return nil
}

func init() {
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (2006-01-02 15:04, RFC3339, ...)")
	addCmd.Flags().StringVar(&addPriority, "priority", "medium", "low, medium, high or urgent")
	importTaskwarriorCmd.Flags().StringSliceVar(&twFilter, "filter", []string{"status:pending"}, "Taskwarrior filter terms")
	importOrgCmd.Flags().StringVar(&orgTag, "tag", "", "Only import headings with this tag")
	templateAddCmd.Flags().StringArrayVar(&tplItems, "item", nil, "Checklist item (repeatable)")
	templateAddCmd.Flags().StringVar(&tplDesc, "description", "", "Template description")

	importCmd.AddCommand(importTaskwarriorCmd)
	importCmd.AddCommand(importOrgCmd)
	templateCmd.AddCommand(templateAddCmd)
	templateCmd.AddCommand(templateUseCmd)

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(templateCmd)
}
