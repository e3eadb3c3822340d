// Package portfolio turns raw broker statement rows into a Portfolio with
// every monetary amount additionally expressed in PLN.
package portfolio

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/portfel-dev/portfel/internal/common"
	"github.com/portfel-dev/portfel/internal/interfaces"
	"github.com/portfel-dev/portfel/internal/models"
	"github.com/portfel-dev/portfel/internal/services/rates"
)

// minRowColumns is the minimum field count for a row to be considered at
// all; anything shorter is a truncated or blank line.
const minRowColumns = 3

// BuildOptions configures one Build call.
type BuildOptions struct {
	// SkipFetch recomputes PLN fields from already-cached rates only;
	// no network access happens, and uncached conversions fall back to
	// the raw amount.
	SkipFetch bool

	// HandleFutureRates clamps rate lookups for future-dated rows to
	// today, since no table has been published for those days yet.
	HandleFutureRates bool
}

// Builder assembles Portfolios from raw statement records.
type Builder struct {
	rates  interfaces.RateSource
	logger *common.Logger
}

// NewBuilder creates a portfolio builder
func NewBuilder(rateSource interfaces.RateSource, logger *common.Logger) *Builder {
	return &Builder{
		rates:  rateSource,
		logger: logger,
	}
}

// bucket identifies which Portfolio sequence a classified row lands in.
type bucket int

const (
	bucketStock bucket = iota
	bucketDividend
	bucketDeposit
	bucketWithdrawal
	bucketInterest
	bucketConversion
)

type rowJob struct {
	row    []string
	bucket bucket
	slot   int
}

// Build parses records (header row first) into a Portfolio. Each accepted
// row's PLN fields are attached concurrently; all rows are joined before
// returning. Malformed and unrecognized rows are dropped with a warning;
// a bad row never aborts the batch, and no error escapes Build.
func (b *Builder) Build(ctx context.Context, records [][]string, opts BuildOptions) (*models.Portfolio, *models.ParseReport) {
	report := &models.ParseReport{IngestID: uuid.NewString()}
	p := &models.Portfolio{
		Transactions: []models.StockTransaction{},
		Dividends:    []models.DividendTransaction{},
		Deposits:     []models.CashTransaction{},
		Withdrawals:  []models.CashTransaction{},
		Interest:     []models.CashTransaction{},
		Conversions:  []models.CurrencyConversion{},
	}

	if len(records) < 1 {
		return p, report
	}

	cm := newColumnMap(records[0])
	rows := records[1:]
	report.Rows = len(rows)

	var jobs []rowJob
	counts := make(map[bucket]int)

	for _, row := range rows {
		if len(row) < minRowColumns {
			report.Dropped++
			b.logger.Warn().Str("ingest_id", report.IngestID).Int("columns", len(row)).Msg("dropping malformed row")
			continue
		}

		action := models.ActionType(cm.value(row, colAction))
		bkt, ok := classify(action)
		if !ok {
			report.Unrecognized++
			b.logger.Debug().Str("ingest_id", report.IngestID).Str("action", string(action)).Msg("skipping unrecognized action")
			continue
		}

		jobs = append(jobs, rowJob{row: row, bucket: bkt, slot: counts[bkt]})
		counts[bkt]++
	}
	report.Parsed = len(jobs)

	p.Transactions = make([]models.StockTransaction, counts[bucketStock])
	p.Dividends = make([]models.DividendTransaction, counts[bucketDividend])
	p.Deposits = make([]models.CashTransaction, counts[bucketDeposit])
	p.Withdrawals = make([]models.CashTransaction, counts[bucketWithdrawal])
	p.Interest = make([]models.CashTransaction, counts[bucketInterest])
	p.Conversions = make([]models.CurrencyConversion, counts[bucketConversion])

	today := common.Today()
	var fallbacks atomic.Int64
	var wg sync.WaitGroup

	// One unit of work per row, all issued up front and joined together.
	// The rate cache's period dedup is the only fetch throttle; rows that
	// share a date window converge onto the same loaded check.
	for _, job := range jobs {
		wg.Add(1)
		go func(job rowJob) {
			defer wg.Done()
			switch job.bucket {
			case bucketStock:
				p.Transactions[job.slot] = b.buildStock(ctx, job.row, cm, opts, today, &fallbacks)
			case bucketDividend:
				p.Dividends[job.slot] = b.buildDividend(ctx, job.row, cm, opts, today, &fallbacks)
			case bucketDeposit:
				p.Deposits[job.slot] = b.buildCash(ctx, job.row, cm, opts, today, &fallbacks)
			case bucketWithdrawal:
				p.Withdrawals[job.slot] = b.buildCash(ctx, job.row, cm, opts, today, &fallbacks)
			case bucketInterest:
				p.Interest[job.slot] = b.buildCash(ctx, job.row, cm, opts, today, &fallbacks)
			case bucketConversion:
				p.Conversions[job.slot] = b.buildConversion(ctx, job.row, cm, opts, today, &fallbacks)
			}
		}(job)
	}
	wg.Wait()

	report.Fallbacks = int(fallbacks.Load())

	b.logger.Info().
		Str("ingest_id", report.IngestID).
		Int("rows", report.Rows).
		Int("parsed", report.Parsed).
		Int("dropped", report.Dropped).
		Int("unrecognized", report.Unrecognized).
		Int("fallbacks", report.Fallbacks).
		Msg("portfolio built")

	return p, report
}

// classify maps an action string onto its Portfolio bucket.
func classify(action models.ActionType) (bucket, bool) {
	switch {
	case models.IsMarketAction(action):
		return bucketStock, true
	case models.IsDividendAction(action):
		return bucketDividend, true
	case action == models.ActionDeposit:
		return bucketDeposit, true
	case action == models.ActionWithdrawal:
		return bucketWithdrawal, true
	case action == models.ActionInterest:
		return bucketInterest, true
	case action == models.ActionCurrencyConversion:
		return bucketConversion, true
	default:
		return 0, false
	}
}

// conversionDay picks the rate lookup date for a row.
func (b *Builder) conversionDay(day string, opts BuildOptions, today string) string {
	if opts.HandleFutureRates && day > today {
		return today
	}
	return day
}

func (b *Builder) buildStock(ctx context.Context, row []string, cm columnMap, opts BuildOptions, today string, fallbacks *atomic.Int64) models.StockTransaction {
	tx := parseStockRow(row, cm)
	day := b.conversionDay(tx.Day(), opts, today)

	if totalPLN, ok := b.rates.Convert(ctx, tx.Total, tx.Currency, rates.ReferenceCurrency, day, opts.SkipFetch); ok {
		tx.TotalPLN = totalPLN
	} else {
		tx.TotalPLN = tx.Total
		fallbacks.Add(1)
		b.logger.Warn().Str("ticker", tx.Ticker).Str("day", day).Str("currency", tx.Currency).Msg("using raw total: conversion unavailable")
	}

	if tx.Fee != 0 {
		if feePLN, ok := b.rates.Convert(ctx, tx.Fee, tx.Currency, rates.ReferenceCurrency, day, opts.SkipFetch); ok {
			tx.FeePLN = feePLN
		}
	}
	return tx
}

func (b *Builder) buildDividend(ctx context.Context, row []string, cm columnMap, opts BuildOptions, today string, fallbacks *atomic.Int64) models.DividendTransaction {
	d := parseDividendRow(row, cm)
	day := b.conversionDay(d.Day(), opts, today)

	if strings.TrimSpace(d.Currency) == "" {
		d.TotalPLN = d.Total
		d.WithholdingTaxPLN = d.WithholdingTax
		fallbacks.Add(1)
		b.logger.Warn().Str("ticker", d.Ticker).Str("day", day).Msg("dividend has no currency, keeping raw amounts")
		return d
	}

	if d.Currency == rates.ReferenceCurrency {
		d.TotalPLN = d.Total
		d.WithholdingTaxPLN = d.WithholdingTax
		return d
	}

	if totalPLN, ok := b.rates.Convert(ctx, d.Total, d.Currency, rates.ReferenceCurrency, day, opts.SkipFetch); ok {
		d.TotalPLN = totalPLN
	} else {
		d.TotalPLN = d.Total
		fallbacks.Add(1)
		b.logger.Warn().Str("ticker", d.Ticker).Str("day", day).Str("currency", d.Currency).Msg("using raw dividend total: conversion unavailable")
	}

	if d.WithholdingTax != 0 {
		taxCurrency := d.WithholdingTaxCurrency
		if taxCurrency == "" {
			taxCurrency = d.Currency
		}
		if taxPLN, ok := b.rates.Convert(ctx, d.WithholdingTax, taxCurrency, rates.ReferenceCurrency, day, opts.SkipFetch); ok {
			d.WithholdingTaxPLN = taxPLN
		}
	}
	return d
}

func (b *Builder) buildCash(ctx context.Context, row []string, cm columnMap, opts BuildOptions, today string, fallbacks *atomic.Int64) models.CashTransaction {
	c := parseCashRow(row, cm)
	day := b.conversionDay(c.Day(), opts, today)

	c.Currency = strings.ReplaceAll(c.Currency, `"`, "")
	if strings.TrimSpace(c.Currency) == "" {
		c.Currency = "UNKNOWN"
		c.TotalPLN = c.Total
		fallbacks.Add(1)
		b.logger.Warn().Str("action", string(c.Action)).Str("day", day).Msg("cash row has no currency, keeping raw amount")
		return c
	}

	if c.Currency == rates.ReferenceCurrency {
		c.TotalPLN = c.Total
		return c
	}

	if totalPLN, ok := b.rates.Convert(ctx, c.Total, c.Currency, rates.ReferenceCurrency, day, opts.SkipFetch); ok {
		c.TotalPLN = totalPLN
	} else {
		c.TotalPLN = c.Total
		fallbacks.Add(1)
		b.logger.Warn().Str("action", string(c.Action)).Str("day", day).Str("currency", c.Currency).Msg("using raw amount: conversion unavailable")
	}
	return c
}

func (b *Builder) buildConversion(ctx context.Context, row []string, cm columnMap, opts BuildOptions, today string, fallbacks *atomic.Int64) models.CurrencyConversion {
	v := parseConversionRow(row, cm)
	day := b.conversionDay(v.Day(), opts, today)

	if fromPLN, ok := b.rates.Convert(ctx, v.FromAmount, v.FromCurrency, rates.ReferenceCurrency, day, opts.SkipFetch); ok {
		v.FromAmountPLN = fromPLN
	} else {
		v.FromAmountPLN = v.FromAmount
		fallbacks.Add(1)
	}

	if v.ToCurrency == rates.ReferenceCurrency {
		v.ToAmountPLN = v.ToAmount
	} else if toPLN, ok := b.rates.Convert(ctx, v.ToAmount, v.ToCurrency, rates.ReferenceCurrency, day, opts.SkipFetch); ok {
		v.ToAmountPLN = toPLN
	} else {
		v.ToAmountPLN = v.ToAmount
		fallbacks.Add(1)
		b.logger.Warn().Str("day", day).Str("currency", v.ToCurrency).Msg("using raw amounts: conversion unavailable")
	}

	if v.Fee != 0 {
		if feePLN, ok := b.rates.Convert(ctx, v.Fee, v.FeeCurrency, rates.ReferenceCurrency, day, opts.SkipFetch); ok {
			v.FeePLN = feePLN
		}
	}

	// TotalPLN mirrors the "to" side, converted or not.
	v.TotalPLN = v.ToAmountPLN
	return v
}
