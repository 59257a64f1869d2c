package guide

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/domain"
	"github.com/FACorreiaa/go-travelguide/internal/app/domain/session"
	"github.com/FACorreiaa/go-travelguide/internal/app/middleware"
	"github.com/FACorreiaa/go-travelguide/internal/app/models"
	"github.com/FACorreiaa/go-travelguide/internal/app/pages"
)

const (
	pageTitle     = "Travel Guide Generator"
	ImagesRoute   = "/media/images"
	downloadRoute = "/download"
)

type GuideHandlers struct {
	*domain.BaseHandler
	service Service
}

func NewGuideHandlers(base *domain.BaseHandler, service Service) *GuideHandlers {
	return &GuideHandlers{BaseHandler: base, service: service}
}

// ShowGuidePage renders the form and the session's last guide.
func (h *GuideHandlers) ShowGuidePage(c *gin.Context) {
	st := middleware.GetSessionState(c)
	if st == nil {
		c.String(http.StatusInternalServerError, "session unavailable")
		return
	}
	h.renderState(c, http.StatusOK, st.Snapshot(), "")
}

// HandleGenerate runs a generation for the submitted form and redirects back
// to the page. Failures re-render the page with the previous guide kept.
func (h *GuideHandlers) HandleGenerate(c *gin.Context) {
	l := h.Logger.With(zap.String("method", "HandleGenerate"))

	st := middleware.GetSessionState(c)
	if st == nil {
		c.String(http.StatusInternalServerError, "session unavailable")
		return
	}

	var req models.TripRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Info("Invalid trip form", zap.Error(err))
		h.renderForm(c, http.StatusBadRequest, st.Snapshot(), req, "Please check the form: destination is required and days must be between 1 and 30.")
		return
	}
	req, err := NormalizeRequest(req)
	if err != nil {
		l.Info("Invalid trip form", zap.Error(err))
		h.renderForm(c, http.StatusBadRequest, st.Snapshot(), req, err.Error())
		return
	}

	if !st.TryBegin() {
		h.renderForm(c, http.StatusConflict, st.Snapshot(), req, models.ErrGenerationInProgress.Error())
		return
	}
	defer st.End()

	g, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Something went wrong while generating your guide. Please try again."
		if errors.Is(err, models.ErrAllModelsExhausted) {
			status = http.StatusBadGateway
			msg = "All AI models are unavailable right now. Please try again in a moment."
		}
		l.Error("Guide generation failed", zap.String("session_id", st.ID), zap.Error(err))
		h.renderForm(c, status, st.Snapshot(), req, msg)
		return
	}

	st.ApplyRequest(g.Request)
	st.ApplyGuide(g)
	l.Info("Guide stored in session", zap.String("session_id", st.ID), zap.String("model", g.Plan.Model))
	c.Redirect(http.StatusSeeOther, "/")
}

// HandleDownload serves the session's PDF, rendering it again when the file
// is gone.
func (h *GuideHandlers) HandleDownload(c *gin.Context) {
	st := middleware.GetSessionState(c)
	if st == nil {
		c.String(http.StatusInternalServerError, "session unavailable")
		return
	}

	v := st.Snapshot()
	if !v.HasPlan() {
		c.String(http.StatusNotFound, models.ErrNoPlan.Error())
		return
	}

	path, err := h.ensurePDF(c.Request.Context(), st, v)
	if err != nil {
		h.Logger.Error("Failed to prepare PDF", zap.String("session_id", st.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to prepare pdf")
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

func (h *GuideHandlers) ensurePDF(ctx context.Context, st *session.State, v session.View) (string, error) {
	if v.PDFPath != "" {
		if _, err := os.Stat(v.PDFPath); err == nil {
			return v.PDFPath, nil
		}
	}
	path, err := h.service.RenderPDF(ctx, v.Request(), v.PlanMarkdown, v.CityImage)
	if err != nil {
		return "", err
	}
	st.Set(session.SlotPDFPath, path)
	return path, nil
}

// HealthCheck reports liveness.
func (h *GuideHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderForm keeps the submitted values in the form while the result area
// still shows the session's last guide.
func (h *GuideHandlers) renderForm(c *gin.Context, status int, v session.View, req models.TripRequest, errMsg string) {
	data := h.pageData(v, errMsg)
	data.Form = formValues(req.Destination, req.NumDays, req.Interests, req.Constraints)
	h.RenderPage(c, status, pageTitle, pages.GuidePage(data))
}

func (h *GuideHandlers) renderState(c *gin.Context, status int, v session.View, errMsg string) {
	h.RenderPage(c, status, pageTitle, pages.GuidePage(h.pageData(v, errMsg)))
}

func (h *GuideHandlers) pageData(v session.View, errMsg string) pages.GuidePageData {
	data, err := PageData(v, errMsg)
	if err != nil {
		h.Logger.Error("Failed to build page", zap.Error(err))
		data.Error = "Failed to display the itinerary."
	}
	return data
}

func formValues(destination string, days int, interests []string, constraints string) pages.FormValues {
	selected := make(map[string]bool, len(interests))
	for _, interest := range interests {
		selected[interest] = true
	}
	if days == 0 {
		days = models.DefaultTripDays
	}
	return pages.FormValues{
		Destination: destination,
		NumDays:     days,
		Interests:   selected,
		Constraints: constraints,
	}
}

// PageData maps a session view to what the page renders.
func PageData(v session.View, errMsg string) (pages.GuidePageData, error) {
	data := pages.GuidePageData{
		Options: models.InterestOptions,
		MinDays: models.MinTripDays,
		MaxDays: models.MaxTripDays,
		Form:    formValues(v.Destination, v.NumDays, v.Interests, v.Constraints),
		Error:   errMsg,
	}
	if !v.HasPlan() {
		return data, nil
	}

	planHTML, err := pages.MarkdownHTML(v.PlanMarkdown)
	if err != nil {
		return data, fmt.Errorf("failed to convert itinerary markdown: %w", err)
	}

	result := &pages.ResultView{
		Destination: v.Destination,
		PlanHTML:    planHTML,
		Model:       v.LastModel,
		DownloadURL: downloadRoute,
	}
	if v.CityImage != "" {
		result.CityImage = &pages.ImageCard{Caption: v.Destination, URL: imageURL(v.CityImage)}
	}
	for _, img := range v.InterestImages {
		if img.Path == "" {
			continue
		}
		result.InterestImages = append(result.InterestImages, pages.ImageCard{
			Caption: img.Interest,
			URL:     imageURL(img.Path),
		})
	}
	data.Result = result
	return data, nil
}

func imageURL(path string) string {
	return ImagesRoute + "/" + url.PathEscape(filepath.Base(path))
}
