package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/taskdeck/internal/paging"
	"github.com/nibzard/taskdeck/internal/tasks"
	"github.com/nibzard/taskdeck/internal/utils"
)

// addCommand adds a task from the remaining arguments.
func (c *cli) addCommand(args []string) error {
	text := strings.Join(args, " ")
	mgr := c.openTasks(c.openKV(), c.logger)

	task, ok, err := mgr.Add(text)
	if !ok {
		return fmt.Errorf("%w: add <text...>: task text must not be empty", errUsage)
	}
	if err != nil {
		return fmt.Errorf("saving task: %w", err)
	}
	fmt.Fprintf(c.stdout, "Added task %d: %s\n", task.ID, task.Text)
	return nil
}

// toggleCommand flips a task between active and completed.
func (c *cli) toggleCommand(args []string) error {
	id, err := singleID("toggle", args)
	if err != nil {
		return err
	}
	mgr := c.openTasks(c.openKV(), c.logger)

	ok, err := mgr.Toggle(id)
	if !ok {
		return fmt.Errorf("%w: %d", tasks.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("saving task: %w", err)
	}
	task, _ := mgr.Get(id)
	state := "active"
	if task.Completed {
		state = "completed"
	}
	fmt.Fprintf(c.stdout, "Task %d is now %s\n", id, state)
	return nil
}

// rmCommand deletes a task.
func (c *cli) rmCommand(args []string) error {
	id, err := singleID("rm", args)
	if err != nil {
		return err
	}
	mgr := c.openTasks(c.openKV(), c.logger)

	ok, err := mgr.Delete(id)
	if !ok {
		return fmt.Errorf("%w: %d", tasks.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	fmt.Fprintf(c.stdout, "Deleted task %d\n", id)
	return nil
}

func singleID(name string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s <id>", errUsage, name)
	}
	return tasks.ParseID(args[0])
}

// lsCommand prints one page of tasks.
func (c *cli) lsCommand(args []string) error {
	fs := c.newFlagSet("ls")
	search := fs.String("search", "", "Only show tasks containing the term")
	page := fs.Int("page", 1, "Page to show")
	verbose := fs.Bool("v", false, "Show ids and creation times")

	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	filter := tasks.FilterAll
	if len(remaining) == 1 {
		f, err := tasks.ParseStatusFilter(remaining[0])
		if err != nil {
			return err
		}
		filter = f
	}

	mgr := c.openTasks(c.openKV(), c.logger)
	cursor := paging.NewCursor(c.cfg.TaskPageSize)
	cursor.SetTerm(*search)
	res := paging.Apply(cursor, mgr.Filter(filter), tasks.SearchFields, nil)
	cursor.Goto(*page, res.Page.TotalPages)
	res = paging.Apply(cursor, mgr.Filter(filter), tasks.SearchFields, nil)

	stats := mgr.Stats()
	fmt.Fprintf(c.stdout, "%s tasks: %d total, %d completed, %d active\n",
		filter.Label(), stats.Total, stats.Completed, stats.Active)

	if res.Page.Empty() {
		fmt.Fprintln(c.stdout, "No tasks found.")
		return nil
	}
	for _, t := range res.Page.Items {
		check := " "
		if t.Completed {
			check = "x"
		}
		if *verbose {
			fmt.Fprintf(c.stdout, "  [%s] %d  %s  (%s)\n", check, t.ID, t.Text, t.CreatedAt.Local().Format("2006-01-02 15:04"))
		} else {
			fmt.Fprintf(c.stdout, "  [%s] %d  %s\n", check, t.ID, t.Text)
		}
	}
	if res.Page.ShowControls() {
		fmt.Fprintf(c.stdout, "Page %d of %d (%d task%s)\n",
			res.Page.Number, res.Page.TotalPages, res.Page.Total, utils.Plural(res.Page.Total))
	}
	return nil
}
