package server

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/existflow/qazzerep/internal/info"
	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/existflow/qazzerep/internal/report"
	"github.com/labstack/echo/v4"
)

// qrSize is the edge length of served QR codes in pixels
const qrSize = 256

type docView struct {
	Label  string
	Name   string
	AI     string
	AIHigh bool
	HTML   template.HTML
}

type verifyView struct {
	base
	NodeID      string
	Critical    bool
	Originality string
	Semantic    string
	Lexical     string
	Issued      string
	Docs        []docView
	QRPath      string
	Link        string
}

func (s *Server) handleVerify(c echo.Context) error {
	id := c.Param("reportId")
	tr := s.lang(c)
	if strings.Contains(id, "/") {
		return echo.ErrNotFound
	}

	r, err := s.backend.PublicReport(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			s.metrics.recordLookup("not_found")
			return echo.NewHTTPError(http.StatusNotFound, tr.T("errors.not_found"))
		}
		s.metrics.recordLookup("error")
		logger.Error("Failed to fetch report", logger.F("id", id), logger.F("error", err))
		return echo.NewHTTPError(http.StatusBadGateway, tr.T("errors.network"))
	}
	s.metrics.recordLookup("found")

	body, err := s.pages.render("verify", s.verifyView(tr, id, r))
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, body)
}

func (s *Server) verifyView(tr *i18n.Catalog, id string, r *model.PublicReport) verifyView {
	comp := r.Comparison()
	v := verifyView{
		base:        newBase(tr, tr.T("verify.title")),
		NodeID:      report.NodeID(r.ReportID),
		Critical:    comp.HighRisk(),
		Originality: report.FormatPercent(r.Originality),
		Semantic:    report.FormatPercent(r.SemanticDNA),
		Lexical:     report.FormatPercent(r.LexicalMatch),
		QRPath:      "/verify/" + id + "/qr.png",
		Link:        report.VerifyURL(s.publicURL, id),
	}
	if !r.Timestamp.IsZero() {
		v.Issued = r.Timestamp.String()
	}
	for _, d := range []struct {
		label string
		doc   model.Document
	}{
		{tr.T("report.source_a"), r.DocA},
		{tr.T("report.target_b"), r.DocB},
	} {
		if d.doc.Name == "" && d.doc.HTML == "" {
			continue
		}
		v.Docs = append(v.Docs, docView{
			Label:  d.label,
			Name:   d.doc.Name,
			AI:     report.FormatPercent(d.doc.AI.Score),
			AIHigh: d.doc.AIHighRisk(),
			HTML:   sanitize(d.doc.HTML),
		})
	}
	return v
}

func (s *Server) handleQR(c echo.Context) error {
	link := report.VerifyURL(s.publicURL, c.Param("reportId"))
	png, err := report.QRPNG(link, qrSize)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/png", png)
}

type infoView struct {
	base
	Body template.HTML
}

type indexLink struct {
	Slug  string
	Title string
}

type indexView struct {
	base
	Links []indexLink
}

func (s *Server) handleIndex(c echo.Context) error {
	tr := s.lang(c)
	v := indexView{base: newBase(tr, tr.T("app.tagline"))}
	for _, slug := range info.Slugs() {
		v.Links = append(v.Links, indexLink{Slug: slug, Title: info.Render(tr, slug).Title})
	}
	body, err := s.pages.render("index", v)
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, body)
}

func (s *Server) handleInfo(c echo.Context) error {
	p := info.Render(s.lang(c), c.Param("slug"))
	if !p.Found {
		return echo.ErrNotFound
	}
	return s.renderInfo(c, http.StatusOK, s.lang(c), p)
}

func (s *Server) renderInfo(c echo.Context, code int, tr *i18n.Catalog, p info.Page) error {
	body, err := s.pages.render("info", infoView{
		base: newBase(tr, p.Title),
		Body: sanitize(p.HTML()),
	})
	if err != nil {
		return err
	}
	return c.HTMLBlob(code, body)
}

// handleError renders 404s as the localized not-found page and leaves
// everything else to echo
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusNotFound {
		tr := s.lang(c)
		if rerr := s.renderInfo(c, http.StatusNotFound, tr, info.Render(tr, "")); rerr == nil {
			return
		}
	}
	s.echo.DefaultHTTPErrorHandler(err, c)
}
