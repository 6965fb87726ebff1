package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/andresuchdata/stockwise/internal/app"
	"github.com/andresuchdata/stockwise/internal/config"
	"github.com/andresuchdata/stockwise/internal/ingest"
	"github.com/andresuchdata/stockwise/internal/repository/postgres"
	"github.com/andresuchdata/stockwise/internal/service"
	"github.com/andresuchdata/stockwise/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"
)

type appKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (overrides DB_* settings)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func initApp(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(c.String("log-level"))

	if url := c.String("db-url"); url != "" {
		cfg.Database.URL = url
		cfg.Database.Driver = "postgres"
	}

	application, err := app.Open(c.Context, cfg, postgres.DriverPGX)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	c.Context = context.WithValue(c.Context, appKey{}, application)
	return nil
}

func closeApp(c *cli.Context) error {
	if application, ok := c.Context.Value(appKey{}).(*app.App); ok && application != nil {
		application.Close()
	}
	return nil
}

func fromContext(c *cli.Context) *app.App {
	return c.Context.Value(appKey{}).(*app.App)
}

func main() {
	cliApp := &cli.App{
		Name:  "stockwise",
		Usage: "Inventory maintenance tasks",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: initApp,
		After:  closeApp,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create the database schema",
				Action: runMigrate,
			},
			{
				Name:  "import-sales",
				Usage: "Record sales from CSV/XLSX files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Where to read files from: local, object or drive",
						Value: "local",
					},
					&cli.StringFlag{
						Name:     "ref",
						Usage:    "Path, object key/prefix or Drive file/folder ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent file parsers",
						Value: 4,
					},
				},
				Action: runImportSales,
			},
			{
				Name:  "metrics",
				Usage: "Print the inventory summary report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "text or csv",
						Value: "text",
					},
				},
				Action: runMetrics,
			},
			{
				Name:   "overdue",
				Usage:  "List pending purchase orders past their expected arrival",
				Action: runOverdue,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

func runMigrate(c *cli.Context) error {
	a := fromContext(c)
	if a.DB == nil {
		return errors.New("migrate needs a PostgreSQL database; set --db-url or DB_DRIVER=postgres")
	}
	// Open already ensured the schema.
	logger.Log.Info().Msg("schema is up to date")
	return nil
}

func runImportSales(c *cli.Context) error {
	a := fromContext(c)

	var src ingest.Source
	switch c.String("source") {
	case "local":
		src = ingest.LocalSource{}
	case "object":
		if a.Objects == nil {
			return errors.New("object storage is not available")
		}
		src = ingest.ObjectSource{Storage: a.Objects}
	case "drive":
		svc, err := app.OpenDrive(c.Context, a.Config)
		if err != nil {
			return err
		}
		src = ingest.DriveSource{Drive: svc}
	default:
		return fmt.Errorf("unknown source %q", c.String("source"))
	}

	report, err := ingest.NewImporter(a.Sales, c.Int("workers")).Load(c.Context, src, c.String("ref"))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "files: %d  rows: %d  imported: %d  failed: %d\n",
		report.Files, report.RowsRead, report.Imported, len(report.Failed))
	for _, f := range report.Failed {
		fmt.Fprintf(c.App.Writer, "  %s:%d %s\n", f.File, f.Line, f.Reason)
	}
	return nil
}

func runMetrics(c *cli.Context) error {
	format, err := service.ParseReportFormat(c.String("format"))
	if err != nil {
		return err
	}
	if format == service.ReportXLSX {
		return errors.New("xlsx output is only available through export")
	}
	out, err := fromContext(c).Reports.Render(c.Context, format)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}

func runOverdue(c *cli.Context) error {
	alerts, err := fromContext(c).Procurement.OverdueAlerts(c.Context)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Fprintln(c.App.Writer, "no overdue orders")
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSKU\tEXPECTED\tDAYS OVERDUE")
	for _, a := range alerts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", a.OrderID, a.SKUID, a.ExpectedArrival, a.DaysOverdue)
	}
	return w.Flush()
}
