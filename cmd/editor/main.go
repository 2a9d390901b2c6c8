package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"slidedeck/internal/autosave"
	"slidedeck/internal/client"
	"slidedeck/internal/config"
	"slidedeck/internal/editor"
	"slidedeck/internal/placement"
	"slidedeck/internal/tui"
)

func main() {
	var (
		id       = flag.String("id", "", "presentation to open")
		create   = flag.Bool("new", false, "create a presentation and open it")
		lessonID = flag.String("lesson", "", "lesson of the new presentation (with -new)")
		title    = flag.String("title", "Untitled presentation", "title of the new presentation (with -new)")
	)
	flag.Parse()

	cfg := config.LoadConfig()

	// The screen belongs to the UI; logs go to a file.
	logFile, err := tea.LogToFile(cfg.Editor.LogFile, "editor")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	api := client.New(cfg.Editor.APIURL, client.WithUserID(cfg.Editor.UserID))

	if *create {
		if *lessonID == "" {
			fmt.Fprintln(os.Stderr, "-new needs -lesson")
			os.Exit(2)
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Editor.RequestTimeout)
		p, err := api.Post(ctx, *lessonID, *title)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create presentation: %v\n", err)
			os.Exit(1)
		}
		log.Printf("Created presentation %s", p.ID)
		*id = p.ID
	}
	if *id == "" {
		fmt.Fprintln(os.Stderr, "usage: editor -id <presentation> | -new -lesson <id> [-title <title>]")
		os.Exit(2)
	}

	ed := editor.New(editor.WithHistoryLimit(cfg.Editor.HistoryLimit))
	saver := autosave.New(ed, api,
		autosave.WithDelay(cfg.Editor.AutosaveDelay),
		autosave.WithTimeout(cfg.Editor.RequestTimeout),
	)
	defer saver.Close()

	model := tui.New(tui.Options{
		PresentationID: *id,
		Editor:         ed,
		Engine:         placement.NewEngine(ed),
		Loader:         api,
		Saver:          saver,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
