package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/services"
)

func (a *App) cmdMoods(ctx context.Context, _ []string) error {
	userID, _ := a.owner()
	a.printList(value(a, a.entries.GetUserMoods(ctx, userID)), "No moods recorded.")
	return nil
}

func (a *App) cmdCategories(ctx context.Context, _ []string) error {
	userID, _ := a.owner()
	a.printList(value(a, a.entries.GetUserCategories(ctx, userID)), "No categories recorded.")
	return nil
}

func (a *App) cmdStats(ctx context.Context, _ []string) error {
	userID, _ := a.owner()
	st := value(a, a.entries.GetStatistics(ctx, userID))

	a.printf("Entries:        %d\n", st.TotalEntries)
	a.printf("Total words:    %d\n", st.TotalWords)
	a.printf("Average words:  %d\n", st.AverageWords)
	a.printf("Current streak: %d day(s)\n", st.CurrentStreak)
	a.printf("Top mood:       %s\n", st.MostCommonMood)
	a.printf("Last entry:     %s\n", st.LastEntryDate)
	return nil
}

func (a *App) cmdBackup(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usageError("backup [path]")
	}
	dest := ""
	if len(args) == 1 {
		dest = args[0]
	}

	path, err := a.backups.Backup(ctx, dest)
	if err != nil {
		return err
	}
	a.printf("Backup written to %s\n", path)
	return nil
}

func (a *App) cmdExport(ctx context.Context, _ []string) error {
	key, err := a.backups.Export(ctx)
	if errors.Is(err, services.ErrExportDisabled) {
		a.println("Export is disabled: set an S3 bucket in the configuration.")
		return nil
	}
	if err != nil {
		return err
	}
	a.printf("Backup exported as s3://%s/%s\n", a.cfg.S3.Bucket, key)
	return nil
}

func (a *App) cmdSchema(ctx context.Context, _ []string) error {
	info := value(a, a.entries.DescribeSchema(ctx))
	if info == nil {
		return nil
	}
	for _, c := range info.Columns {
		var flags []string
		if c.Primary {
			flags = append(flags, "primary key")
		}
		if c.NotNull {
			flags = append(flags, "not null")
		}
		if c.Default != "" {
			flags = append(flags, "default "+c.Default)
		}
		a.printf("%-16s %-10s %s\n", c.Name, c.Type, strings.Join(flags, ", "))
	}
	a.printf("%d rows\n", info.Rows)
	return nil
}

func (a *App) printList(items []string, empty string) {
	if len(items) == 0 {
		a.println(empty)
		return
	}
	for _, it := range items {
		a.println(" -", it)
	}
}
