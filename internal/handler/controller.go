package handler

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"keyword-seasonality/internal/config"
	"keyword-seasonality/internal/service"
	"keyword-seasonality/pkg/logger"
	"keyword-seasonality/pkg/source"
	"keyword-seasonality/pkg/timeseries"
)

// KeywordInput is one keyword in an API request. Values may be given
// instead of the raw time_series string.
type KeywordInput struct {
	Keyword    string    `json:"keyword"`
	TimeSeries string    `json:"time_series"`
	Values     []float64 `json:"values,omitempty"`
}

func (k KeywordInput) record() timeseries.KeywordRecord {
	raw := k.TimeSeries
	if raw == "" && len(k.Values) > 0 {
		raw = source.FormatSeries(k.Values)
	}
	return timeseries.KeywordRecord{Keyword: k.Keyword, RawTimeSeries: raw}
}

type RankRequest struct {
	Keywords   []KeywordInput `json:"keywords"`
	Top        int            `json:"top"`
	YearLength int            `json:"year_length"`
}

type ErrorResponse struct {
	Error string               `json:"error"`
	Kind  timeseries.ErrorKind `json:"kind,omitempty"`
}

type Controller struct {
	service service.RankingService
	log     *logger.Logger
}

func NewController(svc service.RankingService) *Controller {
	return &Controller{
		service: svc,
		log:     logger.GetLogger().Component("http"),
	}
}

// NewApp builds the fiber application serving the controller's routes
func NewApp(c *Controller, cfg config.ServerConfig) *fiber.App {
	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 16
	}
	readTimeout := time.Duration(cfg.ReadTimeoutS) * time.Second
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:               "keyword-seasonality",
		BodyLimit:             bodyLimit << 20,
		ReadTimeout:           readTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          c.handleError,
	})

	c.Register(app)
	return app
}

// Register mounts the API routes on app
func (c *Controller) Register(app *fiber.App) {
	app.Get("/health", c.Health)

	v1 := app.Group("/api/v1")
	v1.Post("/rank", c.Rank)
	v1.Post("/score", c.Score)
}

func (c *Controller) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

// Rank scores every submitted keyword and returns the ranked report
func (c *Controller) Rank(ctx *fiber.Ctx) error {
	var req RankRequest
	if err := json.Unmarshal(ctx.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body: "+err.Error())
	}
	if len(req.Keywords) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "keywords cannot be empty")
	}
	if req.YearLength < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "year_length cannot be negative")
	}
	if req.Top < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "top cannot be negative")
	}

	svc, err := c.service.WithYearLength(req.YearLength)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	records := make([]timeseries.KeywordRecord, len(req.Keywords))
	for i, k := range req.Keywords {
		records[i] = k.record()
	}

	report, err := svc.Rank(ctx.UserContext(), records)
	if err != nil {
		return err
	}

	return ctx.JSON(report.Top(req.Top))
}

// Score returns the seasonality of a single keyword with its yearly breakdown
func (c *Controller) Score(ctx *fiber.Ctx) error {
	var req KeywordInput
	if err := json.Unmarshal(ctx.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body: "+err.Error())
	}

	score, err := c.service.ScoreRecord(req.record())
	if err != nil {
		if service.ClassifyError(err) == service.SeverityKeyword {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
				Error: err.Error(),
				Kind:  timeseries.KindOf(err),
			})
		}
		return err
	}

	return ctx.JSON(score)
}

func (c *Controller) handleError(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		c.log.WithError(err).WithField("path", ctx.Path()).Error("Request failed")
	}

	return ctx.Status(code).JSON(ErrorResponse{Error: err.Error()})
}
