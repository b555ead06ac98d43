package models

import (
	"time"
)

// Section keys in canonical order.
const (
	SectionComentarioBursatil         = "comentario_bursatil"
	SectionMercadoDomestico           = "mercado_domestico"
	SectionMercadoEEUU                = "mercado_eeuu"
	SectionEmpresasMayoresMovimientos = "empresas_mayores_movimientos"
	SectionIndicesMercados            = "indices_mercados_accionarios"
	SectionRentaFijaDomestica         = "renta_fija_domestica"
	SectionRentaFijaInternacional     = "renta_fija_internacional"
	SectionMercadoCambiario           = "mercado_cambiario"
	SectionCommodities                = "commodities"
	SectionMultiplosDiarios           = "multiplos_diarios"
	SectionResumenMercado             = "resumen_mercado"
	SectionNoticiasNacionales         = "noticias_nacionales"
	SectionNoticiasInternacionales    = "noticias_internacionales"
)

// SectionKeys lists every section key in canonical order.
var SectionKeys = []string{
	SectionComentarioBursatil,
	SectionMercadoDomestico,
	SectionMercadoEEUU,
	SectionEmpresasMayoresMovimientos,
	SectionIndicesMercados,
	SectionRentaFijaDomestica,
	SectionRentaFijaInternacional,
	SectionMercadoCambiario,
	SectionCommodities,
	SectionMultiplosDiarios,
	SectionResumenMercado,
	SectionNoticiasNacionales,
	SectionNoticiasInternacionales,
}

// ReportSections holds the text of every section. Field order matches
// SectionKeys so the JSON document keeps the canonical order.
type ReportSections struct {
	ComentarioBursatil         string `json:"comentario_bursatil" validate:"required"`
	MercadoDomestico           string `json:"mercado_domestico" validate:"required"`
	MercadoEEUU                string `json:"mercado_eeuu" validate:"required"`
	EmpresasMayoresMovimientos string `json:"empresas_mayores_movimientos" validate:"required"`
	IndicesMercadosAccionarios string `json:"indices_mercados_accionarios" validate:"required"`
	RentaFijaDomestica         string `json:"renta_fija_domestica" validate:"required"`
	RentaFijaInternacional     string `json:"renta_fija_internacional" validate:"required"`
	MercadoCambiario           string `json:"mercado_cambiario" validate:"required"`
	Commodities                string `json:"commodities" validate:"required"`
	MultiplosDiarios           string `json:"multiplos_diarios" validate:"required"`
	ResumenMercado             string `json:"resumen_mercado" validate:"required"`
	NoticiasNacionales         string `json:"noticias_nacionales" validate:"required"`
	NoticiasInternacionales    string `json:"noticias_internacionales" validate:"required"`
}

// Get returns the text of a section by key.
func (s *ReportSections) Get(key string) (string, bool) {
	switch key {
	case SectionComentarioBursatil:
		return s.ComentarioBursatil, true
	case SectionMercadoDomestico:
		return s.MercadoDomestico, true
	case SectionMercadoEEUU:
		return s.MercadoEEUU, true
	case SectionEmpresasMayoresMovimientos:
		return s.EmpresasMayoresMovimientos, true
	case SectionIndicesMercados:
		return s.IndicesMercadosAccionarios, true
	case SectionRentaFijaDomestica:
		return s.RentaFijaDomestica, true
	case SectionRentaFijaInternacional:
		return s.RentaFijaInternacional, true
	case SectionMercadoCambiario:
		return s.MercadoCambiario, true
	case SectionCommodities:
		return s.Commodities, true
	case SectionMultiplosDiarios:
		return s.MultiplosDiarios, true
	case SectionResumenMercado:
		return s.ResumenMercado, true
	case SectionNoticiasNacionales:
		return s.NoticiasNacionales, true
	case SectionNoticiasInternacionales:
		return s.NoticiasInternacionales, true
	}
	return "", false
}

// DailyReportRecord is the row written to the persistence sink.
type DailyReportRecord struct {
	Title         string         `json:"title" validate:"required"`
	ReportDate    string         `json:"report_date" validate:"required,datetime=2006-01-02"`
	FormResponses ReportSections `json:"form_responses"`
	IsPublished   bool           `json:"is_published"`
	AuthorID      *string        `json:"author_id"`
}

// ReportTitle returns the record title for a report date.
func ReportTitle(date string) string {
	return "Reporte Diario - " + date
}

// ReportEvent is published after a report is stored.
type ReportEvent struct {
	ReportID    string    `json:"report_id"`
	RunID       string    `json:"run_id"`
	ReportDate  string    `json:"report_date"`
	Title       string    `json:"title"`
	Degraded    []string  `json:"degraded_sections,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GenerateResult is the outcome of a successful run.
type GenerateResult struct {
	ReportID string
	RunID    string
	Record   *DailyReportRecord
}

// GenerateRequest is the optional trigger body.
type GenerateRequest struct {
	ReportDate string `json:"report_date" validate:"omitempty,datetime=2006-01-02"`
}
