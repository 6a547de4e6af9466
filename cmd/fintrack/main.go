package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/core"
	"fintrack/internal/csvio"
	"fintrack/internal/ledger"
	"fintrack/internal/services"
	gsheet "fintrack/internal/sheets/google"
)

const dateLayout = "2006-01-02"

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)
	ctx := context.Background()

	notifier, publisher := cli.InitNotifier(logger, cfg)
	if publisher != nil {
		defer publisher.Close()
	}

	store, cleanup := cli.InitStore(ctx, logger, cfg, notifier)
	defer cleanup()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "add":
		err = runAdd(ctx, store, args)
	case "list":
		err = runList(store, args)
	case "delete":
		err = runDelete(ctx, store, args)
	case "summary":
		err = runSummary(store, args)
	case "budget":
		err = runBudget(ctx, store, cfg.AlertThreshold, args)
	case "export":
		err = runExport(ctx, store, args)
	case "import":
		err = runImport(ctx, store, args)
	case "recurring":
		err = runRecurring(ctx, store)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `fintrack - personal finance record-keeper

Usage:
  fintrack add     -desc <text> -amount <n> [-category <c>] [-date YYYY-MM-DD] [-method <m>] [-tags a;b] [-every daily|weekly|monthly|yearly] [-next-due YYYY-MM-DD] [-end-date YYYY-MM-DD]
  fintrack list    [filter flags]
  fintrack delete  -id <id>
  fintrack summary [filter flags]
  fintrack budget  set -category <c> -limit <n> [-threshold <pct>]
  fintrack budget  list
  fintrack export  [-out <file>] [-format csv|sheets]
  fintrack import  -in <file>
  fintrack recurring

Filter flags: -category <c> -from YYYY-MM-DD -to YYYY-MM-DD -min <n> -max <n> -method <m> -tags a;b`)
}

func runAdd(ctx context.Context, store *ledger.Store, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	desc := fs.String("desc", "", "expense description")
	amount := fs.String("amount", "0", "amount (decimal)")
	category := fs.String("category", core.DefaultCategory, "category")
	date := fs.String("date", "", "date (YYYY-MM-DD, default today)")
	method := fs.String("method", "other", "payment method")
	tags := fs.String("tags", "", "tags joined with ';'")
	every := fs.String("every", "", "recurrence frequency")
	nextDue := fs.String("next-due", "", "first due date for recurrence")
	endDate := fs.String("end-date", "", "recurrence cutoff date")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", *amount, err)
	}

	in := ledger.NewExpense{
		Description:   *desc,
		Amount:        amt,
		Category:      *category,
		PaymentMethod: core.ParsePaymentMethod(*method),
		Tags:          splitTags(*tags),
	}
	if *date != "" {
		d, err := time.Parse(dateLayout, *date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", *date, err)
		}
		in.Date = d
	}
	if *every != "" {
		rule := core.RecurrenceRule{Frequency: core.Frequency(*every)}
		if *nextDue != "" {
			d, err := time.Parse(dateLayout, *nextDue)
			if err != nil {
				return fmt.Errorf("invalid next-due %q: %w", *nextDue, err)
			}
			rule.NextDue = d
		} else {
			rule.NextDue = time.Now()
		}
		if *endDate != "" {
			d, err := time.Parse(dateLayout, *endDate)
			if err != nil {
				return fmt.Errorf("invalid end-date %q: %w", *endDate, err)
			}
			rule.EndDate = &d
		}
		if err := rule.Validate(); err != nil {
			return err
		}
		in.Recurring = &rule
	}

	e := store.Create(ctx, in)
	fmt.Printf("added %s  %s  %s  %s\n", e.ID, e.Date.Format(dateLayout), core.FormatAmount(e.Amount), e.Description)
	return nil
}

func runList(store *ledger.Store, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	filterPtr, err := filterFlags(fs, args)
	if err != nil {
		return err
	}
	for _, e := range store.Find(*filterPtr) {
		recur := ""
		if e.Recurring != nil {
			recur = fmt.Sprintf("  [%s, next %s]", e.Recurring.Frequency, e.Recurring.NextDue.Format(dateLayout))
		}
		fmt.Printf("%s  %s  %10s  %-14s  %-14s  %s%s\n",
			e.ID, e.Date.Format(dateLayout), core.FormatAmount(e.Amount),
			e.Category, e.PaymentMethod, e.Description, recur)
	}
	return nil
}

func runDelete(ctx context.Context, store *ledger.Store, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "expense id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("missing -id")
	}
	if !store.Delete(ctx, *id) {
		fmt.Printf("no expense with id %s\n", *id)
		return nil
	}
	fmt.Printf("deleted %s\n", *id)
	return nil
}

func runSummary(store *ledger.Store, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	filterPtr, err := filterFlags(fs, args)
	if err != nil {
		return err
	}
	sum := store.Summary(*filterPtr)
	fmt.Printf("total   %s\n", core.FormatAmount(sum.Total))
	fmt.Printf("count   %d\n", sum.Count)
	fmt.Printf("average %s\n", core.FormatAmount(sum.Average))

	fmt.Println("\nby category:")
	for _, k := range sortedKeys(sum.CategoryBreakdown) {
		fmt.Printf("  %-20s %s\n", k, core.FormatAmount(sum.CategoryBreakdown[k]))
	}
	fmt.Println("by month:")
	for _, k := range sortedKeys(sum.MonthlyTrend) {
		fmt.Printf("  %-20s %s\n", k, core.FormatAmount(sum.MonthlyTrend[k]))
	}
	fmt.Println("by payment method:")
	methods := make(map[string]float64, len(sum.PaymentMethodBreakdown))
	for m, v := range sum.PaymentMethodBreakdown {
		methods[string(m)] = v
	}
	for _, k := range sortedKeys(methods) {
		fmt.Printf("  %-20s %s\n", k, core.FormatAmount(methods[k]))
	}
	return nil
}

func runBudget(ctx context.Context, store *ledger.Store, defaultThreshold float64, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fintrack budget set|list")
	}
	switch args[0] {
	case "set":
		fs := flag.NewFlagSet("budget set", flag.ExitOnError)
		category := fs.String("category", "", "budget category")
		limit := fs.String("limit", "", "monthly limit")
		threshold := fs.Float64("threshold", defaultThreshold, "alert threshold percentage")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *category == "" {
			return fmt.Errorf("missing -category")
		}
		lim, err := core.ParseAmount(*limit)
		if err != nil {
			return fmt.Errorf("invalid limit %q: %w", *limit, err)
		}
		b, err := store.SetBudget(ctx, *category, lim, *threshold)
		if err != nil {
			return err
		}
		fmt.Printf("budget %s: limit %s, alert at %.0f%%, spent %s this month\n",
			b.Category, core.FormatAmount(b.MonthlyLimit), b.AlertThreshold, core.FormatAmount(b.CurrentSpent))
		return nil
	case "list":
		for _, b := range store.ListBudgets() {
			pct := 0.0
			if b.MonthlyLimit > 0 {
				pct = b.CurrentSpent / b.MonthlyLimit * 100
			}
			fmt.Printf("%-20s %10s / %-10s (%.1f%%, alert at %.0f%%)\n",
				b.Category, core.FormatAmount(b.CurrentSpent), core.FormatAmount(b.MonthlyLimit), pct, b.AlertThreshold)
		}
		return nil
	default:
		return fmt.Errorf("unknown budget subcommand: %s", args[0])
	}
}

func runExport(ctx context.Context, store *ledger.Store, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "output file (default stdout)")
	format := fs.String("format", "csv", "export format: csv or sheets")
	if err := fs.Parse(args); err != nil {
		return err
	}

	expenses := store.List()
	switch *format {
	case "csv":
		doc := csvio.Export(expenses)
		if *out == "" {
			fmt.Print(doc)
			return nil
		}
		if err := os.WriteFile(*out, []byte(doc), 0644); err != nil {
			return fmt.Errorf("write export file: %w", err)
		}
		fmt.Printf("exported %d expenses to %s\n", len(expenses), *out)
		return nil
	case "sheets":
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return fmt.Errorf("sheets export: %w", err)
		}
		n, err := client.ExportExpenses(ctx, expenses)
		if err != nil {
			return fmt.Errorf("sheets export: %w", err)
		}
		fmt.Printf("exported %d expenses to Google Sheets\n", n)
		return nil
	default:
		return fmt.Errorf("unknown export format: %s", *format)
	}
}

func runImport(ctx context.Context, store *ledger.Store, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	in := fs.String("in", "", "input CSV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("missing -in")
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	result, err := csvio.Import(ctx, store, string(data))
	if err != nil {
		return err
	}
	fmt.Printf("imported %d expenses", result.Imported)
	if len(result.Skipped) > 0 {
		fmt.Printf(", skipped %d malformed rows", len(result.Skipped))
	}
	fmt.Println()
	return nil
}

func runRecurring(ctx context.Context, store *ledger.Store) error {
	processor := services.NewRecurringProcessor(store)
	n, err := processor.ProcessDue(ctx, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("generated %d recurring expenses\n", n)
	return nil
}

func filterFlags(fs *flag.FlagSet, args []string) (*ledger.Filter, error) {
	category := fs.String("category", "", "category")
	from := fs.String("from", "", "start date (inclusive)")
	to := fs.String("to", "", "end date (inclusive)")
	min := fs.String("min", "", "minimum amount (inclusive)")
	max := fs.String("max", "", "maximum amount (inclusive)")
	method := fs.String("method", "", "payment method")
	tags := fs.String("tags", "", "required tags joined with ';'")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	f := ledger.Filter{Category: *category, Tags: splitTags(*tags)}
	if *from != "" {
		d, err := time.Parse(dateLayout, *from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q: %w", *from, err)
		}
		f.DateFrom = &d
	}
	if *to != "" {
		d, err := time.Parse(dateLayout, *to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q: %w", *to, err)
		}
		// Include the whole end day
		end := d.Add(24*time.Hour - time.Nanosecond)
		f.DateTo = &end
	}
	if *min != "" {
		v, err := core.ParseAmount(*min)
		if err != nil {
			return nil, fmt.Errorf("invalid min amount %q: %w", *min, err)
		}
		f.MinAmount = &v
	}
	if *max != "" {
		v, err := core.ParseAmount(*max)
		if err != nil {
			return nil, fmt.Errorf("invalid max amount %q: %w", *max, err)
		}
		f.MaxAmount = &v
	}
	if *method != "" {
		f.PaymentMethod = core.ParsePaymentMethod(*method)
	}
	return &f, nil
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
