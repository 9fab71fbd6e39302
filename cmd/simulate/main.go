// Command simulate drives a full demo season through the engine: a trend
// challenge with rated submissions, then a voted competition, printing the
// replies a chat user would see.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/okian/runway/internal/adapters/advisor"
	"github.com/okian/runway/internal/app"
	"github.com/okian/runway/internal/bot"
	"github.com/okian/runway/internal/config"
	"github.com/okian/runway/internal/store"
	"github.com/okian/runway/pkg/logger"
)

type actor struct {
	id   string
	name string
}

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString("warn")

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fail(err)
	}

	// The season always runs against a throwaway directory; cfg.DataDir is
	// left to the server binary.
	dir, err := os.MkdirTemp("", "runway-simulate-*")
	if err != nil {
		fail(err)
	}
	defer os.RemoveAll(dir)

	st, err := store.NewFileStore(dir)
	if err != nil {
		fail(err)
	}

	engine := app.New(
		app.WithStore(st),
		app.WithLogger(logger.Get()),
		app.WithHistoryLimit(cfg.HistoryLimit),
	)
	if err := engine.Start(ctx); err != nil {
		fail(err)
	}

	adv := advisor.NewStub(
		advisor.WithLatencyRange(
			time.Duration(cfg.AdvisorLatencyMinMS)*time.Millisecond,
			time.Duration(cfg.AdvisorLatencyMaxMS)*time.Millisecond,
		),
		advisor.WithSeed(cfg.AdvisorSeed),
	)
	dispatcher := bot.NewDispatcher(engine, adv, bot.WithLogger(logger.Get()))

	ada := actor{id: "1001", name: "ada"}
	bea := actor{id: "1002", name: "bea"}
	cleo := actor{id: "1003", name: "cleo"}

	script := []bot.Command{
		{Name: bot.CmdTrend, Args: []string{"announce", "Y2K", "Revival"}, AuthorID: ada.id, AuthorName: ada.name},
		{Name: bot.CmdSubmit, AuthorID: ada.id, AuthorName: ada.name, AttachmentRef: "https://cdn.example/outfits/ada-1.jpg"},
		{Name: bot.CmdSubmit, AuthorID: bea.id, AuthorName: bea.name, AttachmentRef: "https://cdn.example/outfits/bea-1.jpg"},
		{Name: bot.CmdTrend, Args: []string{"status"}, AuthorID: cleo.id, AuthorName: cleo.name},
		{Name: bot.CmdTrend, Args: []string{"end"}, AuthorID: ada.id, AuthorName: ada.name},
		{Name: bot.CmdCompetition, Args: []string{"start", "Street", "Style", "Showdown"}, AuthorID: ada.id, AuthorName: ada.name},
		{Name: bot.CmdCompetition, Args: []string{"submit", "layered", "denim"}, AuthorID: ada.id, AuthorName: ada.name, AttachmentRef: "https://cdn.example/outfits/ada-2.jpg"},
		{Name: bot.CmdCompetition, Args: []string{"submit", "vintage", "band", "tee"}, AuthorID: bea.id, AuthorName: bea.name, AttachmentRef: "https://cdn.example/outfits/bea-2.jpg"},
		{Name: bot.CmdVote, Args: []string{ada.id}, AuthorID: bea.id, AuthorName: bea.name},
		{Name: bot.CmdVote, Args: []string{ada.id}, AuthorID: cleo.id, AuthorName: cleo.name},
		{Name: bot.CmdVote, Args: []string{bea.id}, AuthorID: ada.id, AuthorName: ada.name},
		{Name: bot.CmdCompetition, Args: []string{"end"}, AuthorID: ada.id, AuthorName: ada.name},
		{Name: bot.CmdPoints, AuthorID: ada.id, AuthorName: ada.name},
		{Name: bot.CmdLeaderboard, AuthorID: ada.id, AuthorName: ada.name},
	}

	for _, cmd := range script {
		reply, err := dispatcher.Handle(ctx, cmd)
		if err != nil {
			fail(err)
		}
		fmt.Printf("--- !%s %v (by %s)\n", cmd.Name, cmd.Args, cmd.AuthorName)
		for _, chunk := range bot.SplitMessage(reply, bot.MessageLimit) {
			fmt.Println(chunk)
		}
		fmt.Println()
	}
}

func fail(err error) {
	os.Stderr.WriteString("simulate failed: " + err.Error() + "\n")
	os.Exit(1)
}
