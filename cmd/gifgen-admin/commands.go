package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rajatvd/GifGenerator/internal/bootstrap"
	"github.com/rajatvd/GifGenerator/internal/core"
	"github.com/rajatvd/GifGenerator/internal/data"
	"github.com/rajatvd/GifGenerator/internal/domain/model"
	"github.com/rajatvd/GifGenerator/internal/domain/naming"
	apperrors "github.com/rajatvd/GifGenerator/internal/errors"
	"github.com/rajatvd/GifGenerator/internal/migrate"
	"github.com/rajatvd/GifGenerator/internal/service"
	"github.com/rajatvd/GifGenerator/internal/util"
)

func runNextName(cmdCtx *commandContext, args []string) error {
	opts, err := parseNextNameFlags(args)
	if err != nil {
		return err
	}

	renderer, err := bootstrap.BuildRenderer(cmdCtx.Config.Renderer, cmdCtx.Logger)
	if err != nil {
		return err
	}
	registry, err := bootstrap.BuildRegistry(renderer)
	if err != nil {
		return err
	}
	capability, err := registry.Lookup(cmdCtx.Config.Generator.Name)
	if err != nil {
		return err
	}

	dir := opts.Dir
	if dir == "" {
		dir = capability.OutputDir(cmdCtx.Config.Generator.OutputRoot)
	}
	name, err := naming.NextName(dir, capability.Prefix, capability.Extension)
	if err != nil {
		return err
	}
	return writeln(os.Stdout, name.Path())
}

func runRunOnce(cmdCtx *commandContext, args []string) error {
	opts, err := parseRunOnceFlags(args)
	if err != nil {
		return err
	}

	cfg := cmdCtx.Config
	if opts.Count > 0 {
		cfg.Generator.Count = opts.Count
	}

	services, err := bootstrap.NewServices(cmdCtx.Ctx, bootstrap.ServiceDeps{
		Config: &cfg,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := services.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("close services failed", "error", closeErr)
		}
	}()

	summary, runErr := services.Runner.RunOnce(cmdCtx.Ctx)
	if err := printRunSummary(summary); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}
	return nil
}

func runSend(cmdCtx *commandContext, args []string) error {
	opts, err := parseSendFlags(args, cmdCtx.Config.Delivery.Timeout)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(opts.File); statErr != nil {
		return fmt.Errorf("stat %s: %w", opts.File, statErr)
	}

	channel, err := bootstrap.BuildDeliveryChannel(cmdCtx.Config.Delivery, cmdCtx.Logger)
	if err != nil {
		return err
	}
	dest, err := bootstrap.LoadDestination(cmdCtx.Config.Delivery)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	session, err := channel.Connect(ctx, dest)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", channel.Name(), err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("close delivery session failed", "error", closeErr)
		}
	}()

	err = session.Send(ctx, model.DeliveryRequest{
		Path:        opts.File,
		Destination: dest,
		Timeout:     opts.Timeout,
		Caption:     opts.Caption,
	})
	if err != nil {
		return fmt.Errorf("deliver %s: %w", opts.File, err)
	}
	return writef(os.Stdout, "delivered %s via %s\n", opts.File, channel.Name())
}

func runHistory(cmdCtx *commandContext, args []string) error {
	opts, err := parseHistoryFlags(args)
	if err != nil {
		return err
	}

	db, _, err := connectInfra(&connectInfraOptions{
		Ctx:    cmdCtx.Ctx,
		Logger: cmdCtx.Logger,
		Config: &cmdCtx.Config,
		WantDB: true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeInfra(db, nil); closeErr != nil {
			cmdCtx.Logger.Warn("close infra failed", "error", closeErr)
		}
	}()

	runs, err := data.NewRunHistoryRepo(db).ListRecent(cmdCtx.Ctx, opts.Limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if opts.RawJSON {
		return printJSON(runs)
	}
	return printRunTable(runs)
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.History.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	if opts.StatusOnly {
		return printMigrationStatus(ctx, db)
	}

	cmdCtx.Logger.Info("running database migrations")

	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}

	cmdCtx.Logger.Info("migrations completed successfully")
	return nil
}

func runStatus(cmdCtx *commandContext, args []string) error {
	opts, err := parseStatusFlags(args)
	if err != nil {
		return err
	}

	db, redisClient, err := connectInfra(&connectInfraOptions{
		Ctx:       cmdCtx.Ctx,
		Logger:    cmdCtx.Logger,
		Config:    &cmdCtx.Config,
		WantDB:    cmdCtx.Config.History.Enabled,
		WantRedis: cmdCtx.Config.StatusCache.Enabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeInfra(db, redisClient); closeErr != nil {
			cmdCtx.Logger.Warn("close infra failed", "error", closeErr)
		}
	}()

	var (
		cache   core.CacheRepository
		history core.RunHistoryRepository
	)
	if redisClient != nil {
		cache = data.NewRedisCacheRepo(redisClient)
	}
	if db != nil {
		history = data.NewRunHistoryRepo(db)
	}
	if cache == nil && history == nil {
		return errors.New("status needs STATUS_CACHE_ENABLED or HISTORY_ENABLED")
	}

	status := service.NewStatusService(service.StatusServiceOptions{
		Cache:   cache,
		History: history,
		Logger:  cmdCtx.Logger,
	})
	if opts.Clear {
		return clearLastRun(cmdCtx.Ctx, status)
	}

	last, err := status.LastRun(cmdCtx.Ctx)
	if apperrors.IsNotFound(err) {
		return writeln(os.Stdout, "no runs recorded yet")
	}
	if err != nil {
		return fmt.Errorf("read last run: %w", err)
	}
	if opts.RawJSON {
		return printJSON(last)
	}
	return printRunSummary(*last)
}

func clearLastRun(ctx context.Context, status *service.StatusService) error {
	removed, err := status.ClearLastRun(ctx)
	if err != nil {
		return err
	}
	if !removed {
		return writeln(os.Stdout, "no cached run to clear")
	}
	return writeln(os.Stdout, "cleared cached last run")
}

func printMigrationStatus(ctx context.Context, db *sql.DB) error {
	migrations, err := migrate.Status(ctx, db)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "VERSION\tAPPLIED"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range migrations {
		if err := writef(w, "%s\t%t\n", m.Version, m.Applied); err != nil {
			return fmt.Errorf("write migration %s: %w", m.Version, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush migrations: %w", err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func runState(s model.RunSummary) string {
	switch {
	case s.Aborted:
		return "aborted"
	case len(s.Items) == 0:
		return "empty"
	case s.Count(model.ItemDelivered) == len(s.Items):
		return "ok"
	default:
		return "partial"
	}
}

func printRunTable(runs []model.RunSummary) error {
	if len(runs) == 0 {
		return writeln(os.Stdout, "no runs recorded yet")
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "RUN ID\tGENERATOR\tSTARTED\tDURATION\tDELIVERED\tFAILED\tSTATE"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range runs {
		delivered := r.Count(model.ItemDelivered)
		if err := writef(w, "%s\t%s\t%s\t%s\t%d/%d\t%d\t%s\n",
			r.RunID,
			r.Generator,
			util.FormatTime(r.StartedAt),
			util.FormatDuration(r.Duration()),
			delivered,
			r.Requested,
			len(r.Items)-delivered,
			runState(r),
		); err != nil {
			return fmt.Errorf("write run %s: %w", r.RunID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush runs: %w", err)
	}
	return nil
}

func printRunSummary(s model.RunSummary) error {
	if err := writef(os.Stdout, "Run %s (%s)\n", s.RunID, s.Generator); err != nil {
		return fmt.Errorf("write run header: %w", err)
	}
	if err := writef(os.Stdout, "Started: %s  Duration: %s  State: %s\n",
		util.FormatTime(s.StartedAt), util.FormatDuration(s.Duration()), runState(s)); err != nil {
		return fmt.Errorf("write run times: %w", err)
	}
	if s.Aborted {
		if err := writef(os.Stdout, "Aborted: %s\n", s.AbortError); err != nil {
			return fmt.Errorf("write abort reason: %w", err)
		}
	}
	if len(s.Items) == 0 {
		return nil
	}
	if err := writeln(os.Stdout); err != nil {
		return fmt.Errorf("write spacer: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "SEQ\tSTATUS\tATTEMPTS\tPATH\tDETAIL"); err != nil {
		return fmt.Errorf("write item header: %w", err)
	}
	for _, it := range s.Items {
		detail := it.Error
		if it.FailureReason != "" {
			detail = string(it.FailureReason)
		}
		if detail == "" {
			detail = "-"
		}
		path := it.Path
		if path == "" {
			path = "-"
		}
		if err := writef(w, "%d\t%s\t%d\t%s\t%s\n", it.Seq, it.Status, it.Attempts, path, detail); err != nil {
			return fmt.Errorf("write item %d: %w", it.Seq, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush items: %w", err)
	}
	return nil
}
