package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/stefanpenner/prism/pkg/config"
	"github.com/stefanpenner/prism/pkg/store"
	gsync "github.com/stefanpenner/prism/pkg/sync"
	"github.com/stefanpenner/prism/pkg/tracker"
	"github.com/stefanpenner/prism/pkg/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := getDataDir()

	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	log.Debug("using data dir", "dir", dataDir)

	s, err := store.NewStore(dataDir)
	if err != nil {
		return err
	}

	args := os.Args[1:]
	jsonOutput := hasFlag(args, "--json")
	args = removeFlag(args, "--json")
	args = removeValueFlag(args, "--dir")

	if len(args) == 0 {
		return runTUI(s, cfg)
	}

	switch args[0] {
	case "add":
		if len(args) < 3 {
			return fmt.Errorf("usage: prism add <kind> <name> [--parent <path>] [--desc <text>]")
		}
		return cmdAdd(s, cfg, args[1:], jsonOutput)
	case "edit":
		if len(args) < 2 {
			return fmt.Errorf("usage: prism edit <path> [--name <text>] [--desc <text>] [--due <date>] [--status <status>]")
		}
		return cmdEdit(s, cfg, args[1], args[2:], jsonOutput)
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: prism delete <path>")
		}
		return cmdDelete(s, cfg, args[1], jsonOutput)
	case "show":
		path := ""
		if len(args) >= 2 {
			path = args[1]
		}
		return cmdShow(s, cfg, path, jsonOutput)
	case "status":
		return cmdStatus(s, cfg, jsonOutput)
	case "nav":
		target := ""
		if len(args) >= 2 {
			target = args[1]
		}
		return cmdNav(s, cfg, target, jsonOutput)
	case "start":
		return cmdStart(s, cfg, jsonOutput)
	case "done":
		return cmdDone(s, cfg, !hasFlag(args, "--no-cascade"), jsonOutput)
	case "next":
		return cmdNext(s, cfg, !hasFlag(args, "--no-cascade"), jsonOutput)
	case "addtree":
		if len(args) < 2 {
			return fmt.Errorf("usage: prism addtree <file.json|-> [--replace]")
		}
		mode := tracker.ModeAppend
		if hasFlag(args, "--replace") {
			mode = tracker.ModeReplace
		}
		return cmdAddTree(s, cfg, args[1], mode, jsonOutput)
	case "spent":
		if len(args) < 3 {
			return fmt.Errorf("usage: prism spent <path> <duration>")
		}
		return cmdSpent(s, cfg, args[1], args[2], jsonOutput)
	case "init":
		remote := ""
		for i, a := range args {
			if a == "--remote" && i+1 < len(args) {
				remote = args[i+1]
			}
		}
		return gsync.InitRepo(dataDir, remote)
	case "sync":
		return gsync.SyncRepo(dataDir)
	case "tui":
		return runTUI(s, cfg)
	default:
		return fmt.Errorf("unknown command: %s\nUsage: prism [add|edit|delete|show|status|nav|start|done|next|addtree|spent|init|sync|tui]", args[0])
	}
}

func getDataDir() string {
	// An explicit --dir beats PRISM_DIR and the OS default.
	for i, a := range os.Args {
		if a == "--dir" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	return store.DefaultDataDir()
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func removeFlag(args []string, flag string) []string {
	var result []string
	for _, a := range args {
		if a != flag {
			result = append(result, a)
		}
	}
	return result
}

// removeValueFlag drops a flag together with the value that follows it.
func removeValueFlag(args []string, flag string) []string {
	var result []string
	for i := 0; i < len(args); i++ {
		if args[i] == flag {
			i++
			continue
		}
		result = append(result, args[i])
	}
	return result
}

// stringFlag extracts "--flag value" from args, returning the value and
// the remaining args.
func stringFlag(args []string, flag string) (string, []string) {
	var result []string
	value := ""
	for i := 0; i < len(args); i++ {
		if args[i] == flag && i+1 < len(args) {
			value = args[i+1]
			i++
			continue
		}
		result = append(result, args[i])
	}
	return value, result
}

func runTUI(s *store.Store, cfg *config.Config) error {
	m := tui.NewModel(s)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Start file watcher
	cleanup, err := tui.StartWatcher(s.Root, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file watcher failed: %v\n", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}

// load reads the project and applies the configured slug rules.
func load(s *store.Store, cfg *config.Config) (*tracker.Project, error) {
	p, err := s.Load()
	if err != nil {
		return nil, err
	}
	p.Slugs = cfg.SlugRules()
	return p, nil
}

// mutate runs fn against the loaded project and saves only if fn
// succeeds. The store lock is held for the whole cycle.
func mutate(s *store.Store, cfg *config.Config, fn func(p *tracker.Project) error) error {
	release, err := s.Acquire()
	if err != nil {
		return err
	}
	defer release()

	p, err := load(s, cfg)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	return s.Save(p)
}

// CLI Commands

func cmdAdd(s *store.Store, cfg *config.Config, args []string, jsonOut bool) error {
	kind := tracker.Kind(args[0])
	if !kind.Valid() {
		return fmt.Errorf("invalid kind: %s (use phase, milestone, objective, deliverable, or action)", args[0])
	}
	parent, args := stringFlag(args[1:], "--parent")
	desc, args := stringFlag(args, "--desc")
	name := strings.Join(args, " ")

	var item *tracker.Item
	err := mutate(s, cfg, func(p *tracker.Project) error {
		var err error
		item, err = p.Add(kind, name, desc, parent)
		return err
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return outputJSON(itemToMap(item, false))
	}
	fmt.Printf("Created %s: %s\n", item.Kind, item.Slug)
	return nil
}

func cmdEdit(s *store.Store, cfg *config.Config, path string, args []string, jsonOut bool) error {
	var changes tracker.Changes
	if v, rest := stringFlag(args, "--name"); v != "" {
		changes.Name = &v
		args = rest
	}
	if v, rest := stringFlag(args, "--desc"); v != "" {
		changes.Description = &v
		args = rest
	}
	if v, rest := stringFlag(args, "--due"); v != "" {
		due, err := tracker.ParseDate(v, cfg.DateFormats)
		if err != nil {
			return err
		}
		changes.DueDate = &due
		args = rest
	}
	if v, _ := stringFlag(args, "--status"); v != "" {
		status := tracker.Status(v)
		if !status.Valid() {
			return fmt.Errorf("invalid status: %s", v)
		}
		changes.Status = &status
	}

	var item *tracker.Item
	err := mutate(s, cfg, func(p *tracker.Project) error {
		var err error
		item, err = p.Edit(path, changes)
		return err
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return outputJSON(itemToMap(item, false))
	}
	fmt.Printf("Updated %s: %s\n", item.Kind, item.Slug)
	return nil
}

func cmdDelete(s *store.Store, cfg *config.Config, path string, jsonOut bool) error {
	err := mutate(s, cfg, func(p *tracker.Project) error {
		return p.Delete(path)
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return outputJSON(map[string]string{"deleted": path})
	}
	fmt.Printf("Deleted: %s\n", path)
	return nil
}

func cmdShow(s *store.Store, cfg *config.Config, path string, jsonOut bool) error {
	p, err := load(s, cfg)
	if err != nil {
		return err
	}

	items := p.Phases
	if path != "" {
		item, err := p.Resolve(path)
		if err != nil {
			return err
		}
		items = []*tracker.Item{item}
	}

	if jsonOut {
		return outputJSON(itemsToMap(items))
	}
	if len(items) == 0 {
		fmt.Println("Empty project. Use `prism add phase <name>` to begin.")
		return nil
	}
	printTree(items, 0, p.CurrentAction())
	return nil
}

func printTree(items []*tracker.Item, depth int, current *tracker.Item) {
	for _, it := range items {
		indent := strings.Repeat("  ", depth)
		mark := ""
		if current != nil && it.ID == current.ID {
			mark = " ◀"
		}
		due := ""
		if it.DueDate != nil {
			due = " (due " + it.DueDate.Format("2006-01-02") + ")"
		}
		fmt.Printf("%s%s %s%s%s\n", indent, statusIcon(it.Status), it.Name, due, mark)
		printTree(it.Children, depth+1, current)
	}
}

func statusIcon(s tracker.Status) string {
	switch s {
	case tracker.StatusCompleted:
		return "✓"
	case tracker.StatusInProgress:
		return "◐"
	case tracker.StatusArchived:
		return "⊘"
	default:
		return "○"
	}
}

func cmdStatus(s *store.Store, cfg *config.Config, jsonOut bool) error {
	p, err := load(s, cfg)
	if err != nil {
		return err
	}

	counts := p.Counts()
	current := p.CurrentAction()
	overdue := p.OverdueActions(time.Now())

	if jsonOut {
		out := map[string]interface{}{
			"counts": countsToMap(counts),
		}
		if current != nil {
			out["current"] = itemToMap(current, false)
			out["current_path"] = p.PathOf(current)
		}
		if len(overdue) > 0 {
			out["overdue"] = itemsToMap(overdue)
		}
		return outputJSON(out)
	}

	for _, kind := range []tracker.Kind{
		tracker.KindPhase, tracker.KindMilestone, tracker.KindObjective,
		tracker.KindDeliverable, tracker.KindAction,
	} {
		c := counts[kind]
		if c.Total == 0 {
			continue
		}
		fmt.Printf("%-12s %d/%d completed", kind, c.Completed, c.Total)
		if c.InProgress > 0 {
			fmt.Printf(", %d in progress", c.InProgress)
		}
		fmt.Println()
	}
	if current != nil {
		fmt.Printf("\nCurrent action: %s (%s)\n", current.Name, p.PathOf(current))
	}
	for _, it := range overdue {
		fmt.Printf("Overdue: %s (due %s)\n", it.Name, it.DueDate.Format("2006-01-02"))
	}
	return nil
}

func cmdNav(s *store.Store, cfg *config.Config, target string, jsonOut bool) error {
	// Showing the position reads only; moving it is persisted.
	if target == "" {
		p, err := load(s, cfg)
		if err != nil {
			return err
		}
		item, err := p.Navigate("")
		if err != nil {
			if errors.Is(err, tracker.ErrNoContext) && !jsonOut {
				fmt.Println("No current position set.")
				return nil
			}
			return err
		}
		return printNav(p, item, jsonOut)
	}

	var item *tracker.Item
	var project *tracker.Project
	err := mutate(s, cfg, func(p *tracker.Project) error {
		var err error
		item, err = p.Navigate(target)
		project = p
		return err
	})
	if err != nil {
		return err
	}
	return printNav(project, item, jsonOut)
}

func printNav(p *tracker.Project, item *tracker.Item, jsonOut bool) error {
	path := p.PathOf(item)
	if jsonOut {
		m := itemToMap(item, false)
		m["path"] = path
		return outputJSON(m)
	}
	fmt.Printf("Position: %s\n  %s: %s\n", path, item.Kind, item.Name)
	return nil
}

func cmdStart(s *store.Store, cfg *config.Config, jsonOut bool) error {
	var item *tracker.Item
	var path string
	err := mutate(s, cfg, func(p *tracker.Project) error {
		var err error
		item, err = p.Start()
		if err != nil {
			return err
		}
		path = p.PathOf(item)
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOut {
		m := itemToMap(item, false)
		m["path"] = path
		return outputJSON(m)
	}
	fmt.Printf("Started: %s (%s)\n", item.Name, path)
	return nil
}

func cmdDone(s *store.Store, cfg *config.Config, cascade, jsonOut bool) error {
	var item *tracker.Item
	var cascaded []*tracker.Item
	err := mutate(s, cfg, func(p *tracker.Project) error {
		var err error
		item, cascaded, err = p.Done(cascade)
		return err
	})
	if err != nil {
		return err
	}

	if jsonOut {
		out := map[string]interface{}{"completed": itemToMap(item, false)}
		if len(cascaded) > 0 {
			out["cascaded"] = itemsToMap(cascaded)
		}
		return outputJSON(out)
	}
	fmt.Printf("Completed: %s\n", item.Name)
	for _, c := range cascaded {
		fmt.Printf("  ✓ %s %s\n", c.Kind, c.Name)
	}
	return nil
}

func cmdNext(s *store.Store, cfg *config.Config, cascade, jsonOut bool) error {
	var completed, started *tracker.Item
	var cascaded []*tracker.Item
	var startedPath string
	err := mutate(s, cfg, func(p *tracker.Project) error {
		var err error
		completed, started, cascaded, err = p.Next(cascade)
		if err != nil {
			return err
		}
		if started != nil {
			startedPath = p.PathOf(started)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if jsonOut {
		out := map[string]interface{}{"completed": itemToMap(completed, false)}
		if len(cascaded) > 0 {
			out["cascaded"] = itemsToMap(cascaded)
		}
		if started != nil {
			m := itemToMap(started, false)
			m["path"] = startedPath
			out["started"] = m
		}
		return outputJSON(out)
	}
	fmt.Printf("Completed: %s\n", completed.Name)
	for _, c := range cascaded {
		fmt.Printf("  ✓ %s %s\n", c.Kind, c.Name)
	}
	if started != nil {
		fmt.Printf("Started: %s (%s)\n", started.Name, startedPath)
	} else {
		fmt.Println("No pending actions remain in the current objective.")
	}
	return nil
}

func cmdAddTree(s *store.Store, cfg *config.Config, file string, mode tracker.ImportMode, jsonOut bool) error {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return err
	}

	specs, err := store.ParseDeliverables(data, cfg.DateFormats)
	if err != nil {
		return err
	}

	var added []*tracker.Item
	err = mutate(s, cfg, func(p *tracker.Project) error {
		var err error
		added, err = p.Import(specs, mode)
		return err
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return outputJSON(itemsToMap(added))
	}
	actions := 0
	for _, d := range added {
		actions += len(d.Children)
	}
	fmt.Printf("Imported %d deliverables (%d actions)\n", len(added), actions)
	return nil
}

func cmdSpent(s *store.Store, cfg *config.Config, path, duration string, jsonOut bool) error {
	d, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("invalid duration: %s", duration)
	}

	var item *tracker.Item
	err = mutate(s, cfg, func(p *tracker.Project) error {
		var err error
		item, err = p.AddTime(path, d)
		return err
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return outputJSON(itemToMap(item, false))
	}
	fmt.Printf("%s: %s total\n", item.Slug, item.TimeSpent)
	return nil
}

// JSON helpers

func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func itemToMap(it *tracker.Item, deep bool) map[string]interface{} {
	m := map[string]interface{}{
		"id":     it.ID,
		"kind":   string(it.Kind),
		"name":   it.Name,
		"slug":   it.Slug,
		"status": string(it.Status),
	}
	if it.Description != "" {
		m["description"] = it.Description
	}
	if it.DueDate != nil {
		m["due"] = it.DueDate.Format("2006-01-02")
	}
	if it.TimeSpent > 0 {
		m["time_spent"] = it.TimeSpent.String()
	}
	if !it.CreatedAt.IsZero() {
		m["created"] = it.CreatedAt.Format(time.RFC3339)
	}
	if !it.UpdatedAt.IsZero() {
		m["updated"] = it.UpdatedAt.Format(time.RFC3339)
	}
	if deep && len(it.Children) > 0 {
		m["children"] = itemsToMap(it.Children)
	}
	return m
}

func itemsToMap(items []*tracker.Item) []map[string]interface{} {
	var result []map[string]interface{}
	for _, it := range items {
		result = append(result, itemToMap(it, true))
	}
	return result
}

func countsToMap(counts tracker.CountsByKind) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for kind, c := range counts {
		out[string(kind)] = map[string]int{
			"pending":     c.Pending,
			"in_progress": c.InProgress,
			"completed":   c.Completed,
			"archived":    c.Archived,
			"total":       c.Total,
		}
	}
	return out
}
