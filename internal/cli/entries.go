package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/datex"
	"github.com/dmitrijs2005/gophjournal/internal/models"
)

func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, usageError(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", args[0])
	}
	return id, nil
}

// fillEntry prompts for every editable field, keeping current values on
// empty answers.
func (a *App) fillEntry(e *models.JournalEntry) error {
	var err error
	if e.Title, err = a.askDefault("Title", e.Title); err != nil {
		return err
	}

	date := ""
	if !e.EntryDate.IsZero() {
		date = datex.FormatDate(e.EntryDate)
	}
	for {
		v, err := a.askDefault("Date (YYYY-MM-DD, empty for today)", date)
		if err != nil {
			return err
		}
		if v == "" {
			break
		}
		t, err := datex.Parse(v)
		if err != nil {
			a.println("Unrecognised date, try again.")
			continue
		}
		e.EntryDate = t
		break
	}

	primary, err := a.askDefault("Mood", e.PrimaryMood)
	if err != nil {
		return err
	}
	if primary != e.PrimaryMood {
		e.PrimaryMood = primary
		e.MoodCategory = ""
	}
	if e.SecondaryMood1, err = a.askDefault("Second mood", e.SecondaryMood1); err != nil {
		return err
	}
	if e.SecondaryMood2, err = a.askDefault("Third mood", e.SecondaryMood2); err != nil {
		return err
	}
	if e.Category, err = a.askDefault("Category", e.Category); err != nil {
		return err
	}
	if e.Tags, err = a.askDefault("Tags (comma separated)", e.Tags); err != nil {
		return err
	}

	prompt := "Content"
	if e.Content != "" {
		prompt = "Content (empty keeps the current text)"
	}
	content, err := GetMultiline(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if content != "" {
		e.Content = content
	}
	return nil
}

func (a *App) cmdNew(ctx context.Context, _ []string) error {
	userID, _ := a.owner()

	e := &models.JournalEntry{}
	if err := a.fillEntry(e); err != nil {
		return err
	}
	if err := a.entries.Save(ctx, e, models.OwnedBy(userID)); err != nil {
		return fmt.Errorf("entry not saved: %w", err)
	}
	a.printf("Saved entry #%d for %s.\n", e.ID, datex.FormatDate(e.EntryDate))
	return nil
}

func (a *App) cmdEdit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit <id>")
	if err != nil {
		return err
	}
	userID, _ := a.owner()
	owner := models.OwnedBy(userID)

	e := value(a, a.entries.GetByID(ctx, id, owner))
	if e == nil {
		a.printf("Entry #%d not found.\n", id)
		return nil
	}
	if err := a.fillEntry(e); err != nil {
		return err
	}
	if err := a.entries.Save(ctx, e, owner); err != nil {
		return fmt.Errorf("entry not saved: %w", err)
	}
	a.printf("Updated entry #%d.\n", e.ID)
	return nil
}

func (a *App) cmdShow(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return err
	}
	userID, _ := a.owner()

	e := value(a, a.entries.GetByID(ctx, id, models.OwnedBy(userID)))
	if e == nil {
		a.printf("Entry #%d not found.\n", id)
		return nil
	}
	a.printEntry(e)
	return nil
}

func (a *App) cmdList(ctx context.Context, _ []string) error {
	userID, _ := a.owner()
	a.printEntries(value(a, a.entries.GetAllForUser(ctx, userID)))
	return nil
}

func (a *App) cmdToday(ctx context.Context, _ []string) error {
	userID, _ := a.owner()

	e := value(a, a.entries.GetForDate(ctx, a.now(), userID))
	if e == nil {
		a.println("No entry for today yet. Use 'new' to write one.")
		return nil
	}
	a.printEntry(e)
	return nil
}

func (a *App) cmdRange(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("range <from> <to>")
	}
	from, err := datex.Parse(args[0])
	if err != nil {
		return err
	}
	to, err := datex.Parse(args[1])
	if err != nil {
		return err
	}
	userID, _ := a.owner()

	a.printEntries(value(a, a.entries.GetByDateRange(ctx, from, to, userID)))
	return nil
}

func (a *App) cmdMood(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("mood <mood>")
	}
	userID, _ := a.owner()
	a.printEntries(value(a, a.entries.GetByMood(ctx, args[0], userID)))
	return nil
}

func (a *App) cmdTag(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("tag <tag>")
	}
	userID, _ := a.owner()
	a.printEntries(value(a, a.entries.GetByTag(ctx, args[0], userID)))
	return nil
}

func (a *App) cmdSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("search <term>")
	}
	userID, _ := a.owner()
	a.printEntries(value(a, a.entries.Search(ctx, strings.Join(args, " "), userID)))
	return nil
}

func (a *App) cmdDelete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete <id>")
	if err != nil {
		return err
	}
	sure, err := a.confirm(fmt.Sprintf("Delete entry #%d?", id))
	if err != nil {
		return err
	}
	if !sure {
		a.println("Cancelled.")
		return nil
	}

	userID, _ := a.owner()
	ok, err := a.entries.Delete(ctx, id, models.OwnedBy(userID))
	if err != nil {
		return err
	}
	if !ok {
		a.printf("Entry #%d not found.\n", id)
		return nil
	}
	a.printf("Deleted entry #%d.\n", id)
	return nil
}

func (a *App) printEntries(list []models.JournalEntry) {
	if len(list) == 0 {
		a.println("No entries.")
		return
	}
	for _, e := range list {
		line := fmt.Sprintf("#%-5d %s  %s", e.ID, datex.FormatDate(e.EntryDate), e.Title)
		if e.PrimaryMood != "" {
			line += fmt.Sprintf("  (%s)", e.PrimaryMood)
		}
		a.println(line)
	}
}

func (a *App) printEntry(e *models.JournalEntry) {
	a.printf("#%d %s\n", e.ID, e.Title)
	a.printf("Date:     %s\n", datex.FormatDate(e.EntryDate))
	if moods := e.Moods(); len(moods) > 0 {
		mood := strings.Join(moods, ", ")
		if e.MoodCategory != "" {
			mood = fmt.Sprintf("%s [%s]", mood, e.MoodCategory)
		}
		a.printf("Mood:     %s\n", mood)
	}
	if e.Category != "" {
		a.printf("Category: %s\n", e.Category)
	}
	if tags := e.TagList(); len(tags) > 0 {
		a.printf("Tags:     %s\n", strings.Join(tags, ", "))
	}
	a.printf("Words:    %d (%d min read)\n", e.WordCount(), e.ReadingTime())
	a.printf("Created:  %s\n", datex.FormatTimestamp(e.CreatedAt))
	a.printf("Updated:  %s\n", datex.FormatTimestamp(e.UpdatedAt))
	if e.Content != "" {
		a.println()
		a.println(e.Content)
	}
}
