package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mender/internal/core"
	"mender/internal/effector"
	"mender/internal/objective"
	"mender/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.json", "path to config file (json or yaml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Standalone runs have no host agent: signals are empty and effectors
	// only log. Embedding hosts replace both.
	app, err := core.NewApp(cfgPath, nil)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	log := app.Logger()
	logEffector := func(action effector.ActionType) effector.Effector {
		return effector.Func(func(_ context.Context, o objective.Objective) error {
			log.Info("remediation action",
				logx.String("action", string(action)),
				logx.String("focus", o.FocusArea),
				logx.String("urgency", string(o.Urgency)))
			return nil
		})
	}
	app.Effectors().Register(effector.ActionResearch, logEffector(effector.ActionResearch))
	app.Effectors().Register(effector.ActionSynthesis, logEffector(effector.ActionSynthesis))
	app.Effectors().Register(effector.ActionConsolidation, logEffector(effector.ActionConsolidation))
	app.Effectors().Register(effector.ActionPractice, logEffector(effector.ActionPractice))

	if err := app.Start(ctx); err != nil {
		fmt.Println("fatal start:", err)
		os.Exit(1)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	_ = app.Stop(stopCtx)
}
