package usecase

import (
	"fmt"
	"strings"

	"MarketBrief/internal/domain/models"
	"MarketBrief/internal/service/alphavantage"
)

// NotAvailable is the per-instrument sentinel for a missing quote.
const NotAvailable = "N/D"

const (
	sourceBanxico      = "Fuente: Banxico SIE"
	sourceAlphaVantage = "Fuente: Alpha Vantage"
	sourceFX           = "Fuente: Banxico / Alpha Vantage"

	noNews = "Sin noticias disponibles"

	textBanxicoUnset  = "API Banxico no configurada (BANXICO_TOKEN)"
	textNewsUnset     = "API de noticias no configurada (NEWSAPI_KEY)"
	textQuotesUnset   = "(API no configurada: " + alphavantage.Credential + ")"
	textSeriesEmpty   = "Sin datos"
	textDomesticNote  = "Generado automáticamente. Para datos BMV completos, integrar Yahoo Finance (yfinance) vía backend Python."
	textTopMovers     = "Top alzas y bajas BMV. Requiere integración con Yahoo Finance o similar (futura actualización)."
	textMultiples     = "P/E, VE/EBITDA y demás múltiplos. Requiere integración con Financial Modeling Prep (plan gratuito) o similar."
	textSummaryFormat = "Resumen del %s. Consolidado de índices y commodities."
)

type SeriesResult struct {
	Quote *models.SeriesQuote
	Err   error
}

type QuoteResult struct {
	Quote *models.MarketQuote
	Err   error
}

type FXResult struct {
	Rate *models.FXRate
	Err  error
}

type NewsResult struct {
	Items []models.NewsItem
	Err   error
}

// RawResults is everything a run fetched, keyed by series id and symbol.
type RawResults struct {
	Date          string
	Series        map[string]SeriesResult
	FX            FXResult
	Quotes        map[string]QuoteResult
	National      NewsResult
	International NewsResult
	// QuotesUnconfigured marks a run without the quote provider credential.
	QuotesUnconfigured bool
}

// Assembly is the assembler output.
type Assembly struct {
	Sections models.ReportSections
	// Degraded lists the sections rendered with at least one unavailable input.
	Degraded []string
}

// Assemble renders every section. It never fails: each missing input has
// a text fallback.
func Assemble(raw RawResults) Assembly {
	a := &assembly{raw: raw, degraded: map[string]bool{}}
	s := &a.out.Sections

	s.RentaFijaDomestica = fmt.Sprintf("TIIE 28D: %s\nCETES 28D: %s\nMbono 10 años: %s\n\n%s",
		a.series(models.SectionRentaFijaDomestica, models.SeriesTIIE28),
		a.series(models.SectionRentaFijaDomestica, models.SeriesCETES28),
		a.series(models.SectionRentaFijaDomestica, models.SeriesMbono10),
		sourceBanxico,
	)

	s.MercadoCambiario = fmt.Sprintf("Tipo de cambio FIX: %s\nMXN/USD (Alpha Vantage): %s\n\n%s",
		a.series(models.SectionMercadoCambiario, models.SeriesFIX),
		a.fx(models.SectionMercadoCambiario),
		a.quoteSource(sourceFX),
	)

	equities := a.quoteLines(models.SectionMercadoEEUU, models.EquityQuotes)
	s.MercadoEEUU = strings.Join(equities, "\n")
	if raw.QuotesUnconfigured {
		s.MercadoEEUU += "\n\n" + textQuotesUnset
	}
	s.IndicesMercadosAccionarios = strings.Join(equities, "\n") + "\n\n" + a.quoteSource(sourceAlphaVantage)
	a.markIf(models.SectionIndicesMercados, a.degraded[models.SectionMercadoEEUU])

	commodities := a.quoteLines(models.SectionCommodities, models.CommodityQuotes)
	s.Commodities = strings.Join(commodities, "\n") + "\n\n" + a.quoteSource(sourceAlphaVantage)

	s.RentaFijaInternacional = a.quoteLines(models.SectionRentaFijaInternacional, []models.QuoteRequest{models.TreasuryQuote})[0] +
		"\n\n" + a.quoteSource(sourceAlphaVantage)

	mexico := NotAvailable
	for _, line := range equities {
		if strings.HasPrefix(line, "México") {
			mexico = line
			break
		}
	}
	s.MercadoDomestico = fmt.Sprintf("IPC México (ETF EWW): %s\n\n%s", mexico, textDomesticNote)
	if raw.QuotesUnconfigured {
		s.MercadoDomestico += " " + textQuotesUnset
	}
	a.markIf(models.SectionMercadoDomestico, strings.HasSuffix(mexico, NotAvailable))

	s.NoticiasNacionales = a.news(models.SectionNoticiasNacionales, raw.National)
	s.NoticiasInternacionales = a.news(models.SectionNoticiasInternacionales, raw.International)

	hasIndices := !allUnavailable(equities)
	hasCommodities := !allUnavailable(commodities)
	flavour := ""
	if hasIndices || hasCommodities {
		flavour = " con datos de mercado"
	}
	s.ComentarioBursatil = fmt.Sprintf("Reporte diario generado automáticamente el %s. Incluye: renta fija (TIIE, CETES, Mbono), mercado cambiario (FIX, MXN/USD), índices y commodities%s, y noticias financieras. Fuentes: Banxico, Alpha Vantage, NewsAPI.",
		raw.Date, flavour)

	s.EmpresasMayoresMovimientos = textTopMovers
	s.MultiplosDiarios = textMultiples
	s.ResumenMercado = fmt.Sprintf(textSummaryFormat, raw.Date)

	for _, key := range models.SectionKeys {
		if a.degraded[key] {
			a.out.Degraded = append(a.out.Degraded, key)
		}
	}
	return a.out
}

type assembly struct {
	raw      RawResults
	out      Assembly
	degraded map[string]bool
}

func (a *assembly) markIf(section string, cond bool) {
	if cond {
		a.degraded[section] = true
	}
}

func (a *assembly) series(section, id string) string {
	r, ok := a.raw.Series[id]
	if ok && r.Err == nil && r.Quote != nil {
		return fmt.Sprintf("%s (%s)", r.Quote.Value, r.Quote.Date)
	}
	a.degraded[section] = true
	if !ok {
		return textBanxicoUnset
	}
	return renderSeriesFailure(r.Err)
}

func renderSeriesFailure(err error) string {
	u := models.AsUnavailable("banxico", err)
	if u == nil {
		return textSeriesEmpty
	}
	switch {
	case u.Reason == models.ReasonUnconfigured:
		return textBanxicoUnset
	case u.Reason == models.ReasonEmpty:
		return textSeriesEmpty
	case u.Status != 0:
		return fmt.Sprintf("Error Banxico: %d", u.Status)
	default:
		return "Error: " + u.Detail
	}
}

func (a *assembly) fx(section string) string {
	if a.raw.FX.Err != nil || a.raw.FX.Rate == nil {
		a.degraded[section] = true
		return NotAvailable
	}
	rate := a.raw.FX.Rate.Rate
	if rate == "" {
		rate = NotAvailable
	}
	return rate + " (realtime)"
}

func (a *assembly) quoteLines(section string, reqs []models.QuoteRequest) []string {
	lines := make([]string, len(reqs))
	for i, req := range reqs {
		lines[i] = req.Label + ": " + a.quote(section, req.Symbol)
	}
	return lines
}

func (a *assembly) quote(section, symbol string) string {
	r, ok := a.raw.Quotes[symbol]
	if !ok || r.Err != nil || r.Quote == nil {
		a.degraded[section] = true
		return NotAvailable
	}
	return FormatQuote(r.Quote)
}

func (a *assembly) quoteSource(source string) string {
	if a.raw.QuotesUnconfigured {
		return source + " " + textQuotesUnset
	}
	return source
}

func (a *assembly) news(section string, r NewsResult) string {
	if r.Err != nil {
		a.degraded[section] = true
		u := models.AsUnavailable("news", r.Err)
		if u.Reason == models.ReasonUnconfigured {
			return textNewsUnset
		}
		detail := u.Detail
		if detail == "" {
			detail = u.Error()
		}
		return "Error noticias: " + detail
	}
	if len(r.Items) == 0 {
		a.degraded[section] = true
		return noNews
	}
	bullets := make([]string, len(r.Items))
	for i, it := range r.Items {
		bullets[i] = it.Bullet()
	}
	return strings.Join(bullets, "\n\n")
}

// FormatQuote renders "price (change pct)", or N/D for a nil quote.
func FormatQuote(q *models.MarketQuote) string {
	if q == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%s (%s %s)", q.Price, q.Change, q.ChangePercent)
}

func allUnavailable(lines []string) bool {
	for _, l := range lines {
		if !strings.Contains(l, NotAvailable) {
			return false
		}
	}
	return true
}
