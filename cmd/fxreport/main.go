package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"

	"github.com/meenmo/fxlib/calendar"
	"github.com/meenmo/fxlib/marketdata"
	"github.com/meenmo/fxlib/marketdata/cache"
	"github.com/meenmo/fxlib/utils"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	app := &cli.App{
		Name:  "fxreport",
		Usage: "export quoted forward-point curves to a spreadsheet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Usage: "rates envelope JSON `FILE` (mutually exclusive with --redis)",
			},
			&cli.StringFlag{
				Name:  "redis",
				Usage: "redis `ADDR` to read the rates envelope from",
			},
			&cli.StringFlag{
				Name:  "output",
				Value: "fxreport.xlsx",
				Usage: "spreadsheet `FILE` to write",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "reference `DATE` (YYYY-MM-DD, defaults to the envelope's as-of date)",
			},
			&cli.StringFlag{
				Name:  "day-count",
				Value: utils.Act360,
				Usage: "day count convention for curve times",
			},
			&cli.StringFlag{
				Name:  "calendar",
				Value: string(calendar.TARGET),
				Usage: "settlement calendar for tenor dates",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		logger.Error("fxreport failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	envelope, err := loadEnvelope(c)
	if err != nil {
		return err
	}
	if len(envelope.Rates) == 0 {
		return fmt.Errorf("rates envelope holds no pairs")
	}

	refDate := envelope.AsOf
	if s := c.String("date"); s != "" {
		refDate, err = time.Parse("2006-01-02", s)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}
	dayCount := c.String("day-count")
	cal := calendar.CalendarID(c.String("calendar"))

	logger.Info("building report",
		"pairs", len(envelope.Rates), "revision", envelope.Revision,
		"reference_date", refDate.Format("2006-01-02"))

	book := excelize.NewFile()
	defer book.Close()

	if err := writeSummary(book, envelope, refDate); err != nil {
		return err
	}

	pairs := make([]string, 0, len(envelope.Rates))
	for pair := range envelope.Rates {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	for _, pair := range pairs {
		if err := writePairSheet(book, envelope.Rates[pair], refDate, dayCount, cal); err != nil {
			return fmt.Errorf("pair %s: %w", pair, err)
		}
	}

	book.DeleteSheet("Sheet1")
	output := c.String("output")
	if err := book.SaveAs(output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.Info("report written", "file", output, "pairs", len(pairs))
	return nil
}

func loadEnvelope(c *cli.Context) (*marketdata.RatesEnvelope, error) {
	input, addr := c.String("input"), c.String("redis")
	switch {
	case input != "" && addr != "":
		return nil, fmt.Errorf("--input and --redis are mutually exclusive")
	case addr != "":
		store, err := cache.NewRedisCache(addr)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		defer store.Close()
		envelope, err := store.GetRates()
		if err != nil {
			return nil, fmt.Errorf("read rates from redis: %w", err)
		}
		if envelope == nil {
			return nil, fmt.Errorf("no rates envelope cached at %s", addr)
		}
		return envelope, nil
	case input != "":
		raw, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		var envelope marketdata.RatesEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("parse %s: %w", input, err)
		}
		return &envelope, nil
	default:
		return nil, fmt.Errorf("either --input or --redis is required")
	}
}

func writeSummary(book *excelize.File, envelope *marketdata.RatesEnvelope, refDate time.Time) error {
	const sheet = "Summary"
	if _, err := book.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Revision", envelope.Revision},
		{"As of", envelope.AsOf.Format("2006-01-02 15:04:05")},
		{"Reference date", refDate.Format("2006-01-02")},
		{"Pairs", len(envelope.Rates)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writePairSheet(book *excelize.File, rec marketdata.RateRec, refDate time.Time,
	dayCount string, cal calendar.CalendarID) error {

	crv, err := marketdata.BuildForwardPointCurve(refDate, rec, dayCount, cal)
	if err != nil {
		return err
	}

	// sheet names cannot contain a slash
	sheet := rec.Pair[:3] + rec.Pair[4:]
	if _, err := book.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Tenor", "Date", "Time", "Forward points", "All-in rate"}
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	dates := crv.Dates()
	times := crv.Times()
	for i, tp := range rec.Tenors {
		rate, err := crv.ForwardExchangeRate(times[i+1], false)
		if err != nil {
			return err
		}
		row := []interface{}{
			string(tp.Tenor),
			dates[i].Format("2006-01-02"),
			times[i+1],
			tp.Points,
			rate.ForwardRate(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	last := len(rec.Tenors) + 2
	spotCell, err := excelize.CoordinatesToCellName(1, last+1)
	if err != nil {
		return err
	}
	spotRow := []interface{}{"Spot", "", "", "", rec.Spot}
	if err := book.SetSheetRow(sheet, spotCell, &spotRow); err != nil {
		return err
	}
	return nil
}
