package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"promptdeck/internal/adapter/catalog"
	"promptdeck/internal/domain"
)

func runResolve(args []string) error {
	cf, rest, err := parseCommon("resolve", args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return fmt.Errorf("usage: promptdeck resolve AGENT_ID BUDGET")
	}
	budget, err := strconv.Atoi(rest[1])
	if err != nil {
		return fmt.Errorf("budget must be an integer: %q", rest[1])
	}

	ctx := context.Background()
	a, err := newApp(ctx, cf)
	if err != nil {
		return err
	}
	defer a.close()

	sel, err := a.resolver.Resolve(ctx, rest[0], budget)
	if err != nil {
		return err
	}

	if cf.jsonOut {
		return printJSON(sel)
	}
	fmt.Printf("agent:     %s\n", sel.AgentID)
	fmt.Printf("tier:      %s (%s)\n", sel.Tier, sel.Format)
	fmt.Printf("tokens:    %d\n", sel.TokenCount)
	fmt.Printf("reduction: %.1f%%\n", sel.ReductionPercent*100)
	fmt.Println("---")
	fmt.Println(sel.Content)
	return nil
}

func runPlan(args []string) error {
	cf, rest, err := parseCommon("plan", args)
	if err != nil {
		return err
	}
	if len(rest) < 2 {
		return fmt.Errorf("usage: promptdeck plan BUDGET AGENT_ID...")
	}
	budget, err := strconv.Atoi(rest[0])
	if err != nil {
		return fmt.Errorf("budget must be an integer: %q", rest[0])
	}

	ctx := context.Background()
	a, err := newApp(ctx, cf)
	if err != nil {
		return err
	}
	defer a.close()

	plan, err := a.planner.Plan(ctx, rest[1:], budget)
	if err != nil {
		return err
	}

	if cf.jsonOut {
		return printJSON(plan)
	}
	for _, sel := range plan.Selections {
		fmt.Printf("%-40s %-8s %6d tokens  (%.1f%% reduction)\n",
			sel.AgentID, sel.Tier, sel.TokenCount, sel.ReductionPercent*100)
	}
	fmt.Printf("total: %d tokens, %d remaining of %d\n", plan.TotalTokens, plan.Remaining, budget)
	return nil
}

func runList(args []string) error {
	cf, rest, err := parseCommon("list", args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("usage: promptdeck list")
	}

	ctx := context.Background()
	a, err := newApp(ctx, cf)
	if err != nil {
		return err
	}
	defer a.close()

	descs := a.registry.List()
	if cf.jsonOut {
		return printJSON(descs)
	}
	for _, d := range descs {
		fmt.Printf("%-40s min=%s std=%s full=%d\n",
			d.ID, tierTokens(d.Minimal), tierTokens(d.Standard), d.Full.Tokens)
	}
	fmt.Printf("%d agents\n", len(descs))
	return nil
}

func tierTokens(rep *domain.Representation) string {
	if rep == nil {
		return "-"
	}
	return strconv.Itoa(rep.Tokens)
}

func runValidate(args []string) error {
	cf, rest, err := parseCommon("validate", args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("usage: promptdeck validate")
	}

	// newApp loads the catalog, which runs every descriptor through
	// schema and invariant checks.
	ctx := context.Background()
	a, err := newApp(ctx, cf)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("catalog ok: %d agents in %s\n", a.registry.Len(), a.cfg.Catalog.Dir)
	return nil
}

func runWatch(args []string) error {
	cf, rest, err := parseCommon("watch", args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("usage: promptdeck watch")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cf)
	if err != nil {
		return err
	}
	defer a.close()

	watcher, err := catalog.NewWatcher(a.cfg.Catalog.Dir, a.cfg.Catalog.Debounce, a.reload, a.logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Printf("watching %s (%d agents), ctrl-c to stop\n", a.cfg.Catalog.Dir, a.registry.Len())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	return nil
}

func runHistory(args []string) error {
	cf, rest, err := parseCommon("history", args)
	if err != nil {
		return err
	}
	limit := 20
	if len(rest) == 1 {
		if limit, err = strconv.Atoi(rest[0]); err != nil {
			return fmt.Errorf("limit must be an integer: %q", rest[0])
		}
	} else if len(rest) > 1 {
		return fmt.Errorf("usage: promptdeck history [LIMIT]")
	}

	ctx := context.Background()
	a, err := newApp(ctx, cf)
	if err != nil {
		return err
	}
	defer a.close()

	if a.auditLog == nil {
		return fmt.Errorf("audit log disabled; enable audit in config")
	}

	recs, err := a.auditLog.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if cf.jsonOut {
		return printJSON(recs)
	}
	for _, rec := range recs {
		fmt.Printf("%s  %-40s %-8s budget=%-6d tokens=%-6d %.1f%%\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.AgentID, rec.Tier, rec.RequestedBudget, rec.Tokens, rec.Reduction*100)
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
